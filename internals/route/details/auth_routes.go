package details

import (
	"github.com/gofiber/fiber/v2"

	authRoute "afrikticket_backend/internals/features/users/auth/route"
	userRoute "afrikticket_backend/internals/features/users/user/route"
)

// e.g. /api/auth/login
func AuthRoutes(api fiber.Router, d Deps) {
	authRoute.AuthRoutes(api, d.DB, d.Validator, d.Store)
}

// Static /api/user/* paths owned by auth; /:id comes last in UserProfileRoutes.
func AuthUserRoutes(user fiber.Router, d Deps) {
	authRoute.AuthUserRoutes(user, d.DB, d.Validator, d.Store)
}

func UserProfileRoutes(user fiber.Router, d Deps) {
	userRoute.UserRoutes(user, d.DB, d.Validator, d.Store)
}

func UserAdminRoutes(admin fiber.Router, d Deps) {
	userRoute.UserAdminRoutes(admin, d.DB, d.Validator, d.Store)
}
