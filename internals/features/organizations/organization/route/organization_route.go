package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"afrikticket_backend/internals/constants"
	orgController "afrikticket_backend/internals/features/organizations/organization/controller"
	authMiddleware "afrikticket_backend/internals/middlewares/auth"
)

// OrganizationPublicRoutes: /api/organizations/:id, token optional.
func OrganizationPublicRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := orgController.NewOrganizationController(db, v)
	api.Get("/organizations/:id", authMiddleware.OptionalAuth(db), ctl.GetByID)
}

// OrganizationOwnerRoutes: mounted under /api/org, already authenticated.
func OrganizationOwnerRoutes(org fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := orgController.NewOrganizationController(db, v)
	g := org.Group("/profile", authMiddleware.OnlyRoles(constants.RoleErrorOrganization("manage the profile"), constants.RoleOrganization))
	g.Get("/", ctl.GetMine)
	g.Put("/", ctl.UpdateMine)
}
