package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	adminController "afrikticket_backend/internals/features/users/admin/controller"
)

// AdminRoutes: mounted under /api/admin, already restricted to admins.
// The /:id/role route goes last so it never shadows the static paths.
func AdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := adminController.NewAdminController(db, v)

	admin.Get("/organizations", ctl.ListOrganizations)
	admin.Put("/organizations/:id/status", ctl.UpdateOrganizationStatus)
	admin.Delete("/organizations/:id", ctl.DeleteOrganization)

	admin.Get("/pending", ctl.Pending)
	admin.Get("/pending/orgs", ctl.ListPendingOrganizations)

	admin.Post("/create", ctl.CreateAdmin)
	admin.Put("/:id/role", ctl.ChangeRole)
}
