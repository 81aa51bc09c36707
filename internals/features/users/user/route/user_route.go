package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userController "afrikticket_backend/internals/features/users/user/controller"
	"afrikticket_backend/internals/helpers/storage"
)

// UserRoutes: /api/user/:id, registered after the static /api/user/* paths.
func UserRoutes(user fiber.Router, db *gorm.DB, v *validator.Validate, store storage.Store) {
	ctl := userController.NewUserController(db, v, store)
	user.Get("/:id", ctl.GetByID)
	user.Put("/:id", ctl.Update)
}

// UserAdminRoutes: /api/admin/users
func UserAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate, store storage.Store) {
	ctl := userController.NewUserController(db, v, store)
	admin.Get("/users", ctl.List)
}
