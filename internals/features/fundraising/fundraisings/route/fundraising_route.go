package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"afrikticket_backend/internals/constants"
	fundController "afrikticket_backend/internals/features/fundraising/fundraisings/controller"
	"afrikticket_backend/internals/helpers/storage"
	authMiddleware "afrikticket_backend/internals/middlewares/auth"
)

// FundraisingPublicRoutes: /api/fundraising
func FundraisingPublicRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate, store storage.Store) {
	ctl := fundController.NewFundraisingController(db, v, store)

	api.Get("/fundraising", ctl.ListPublic)
	api.Get("/fundraising/:id", authMiddleware.OptionalAuth(db), ctl.GetByID)
	api.Post("/fundraising",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles(constants.RoleErrorOrganization("create fundraisings"), constants.RoleOrganization),
		ctl.Create,
	)
}

// FundraisingOwnerRoutes: mounted under /api/org.
func FundraisingOwnerRoutes(org fiber.Router, db *gorm.DB, v *validator.Validate, store storage.Store) {
	ctl := fundController.NewFundraisingController(db, v, store)
	onlyOrg := authMiddleware.OnlyRoles(constants.RoleErrorOrganization("manage fundraisings"), constants.RoleOrganization)

	org.Get("/fundraisings", onlyOrg, ctl.ListMine)
	org.Put("/fundraising/:id", onlyOrg, ctl.Update)
	org.Delete("/fundraising/:id", onlyOrg, ctl.Delete)
}

// FundraisingAdminRoutes: mounted under /api/admin.
func FundraisingAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate, store storage.Store) {
	ctl := fundController.NewFundraisingController(db, v, store)

	admin.Get("/pending/fundraisings", ctl.ListPending)
	admin.Put("/fundraisings/:id/review", ctl.Review)
	admin.Put("/fundraising/:id", ctl.Update)
	admin.Delete("/fundraising/:id", ctl.Delete)
}
