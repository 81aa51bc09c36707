package details

import (
	"github.com/gofiber/fiber/v2"

	orgRoute "afrikticket_backend/internals/features/organizations/organization/route"
	adminRoute "afrikticket_backend/internals/features/users/admin/route"
)

func OrganizationPublicRoutes(api fiber.Router, d Deps) {
	orgRoute.OrganizationPublicRoutes(api, d.DB, d.Validator)
}

func OrganizationOwnerRoutes(org fiber.Router, d Deps) {
	orgRoute.OrganizationOwnerRoutes(org, d.DB, d.Validator)
}

// Admin console: organizations review, moderation queue, admin accounts.
func AdminRoutes(admin fiber.Router, d Deps) {
	adminRoute.AdminRoutes(admin, d.DB, d.Validator)
}
