package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"afrikticket_backend/internals/constants"
	ticketController "afrikticket_backend/internals/features/events/tickets/controller"
	"afrikticket_backend/internals/features/events/tickets/credential"
	rateLimiter "afrikticket_backend/internals/middlewares"
	authMiddleware "afrikticket_backend/internals/middlewares/auth"
)

func TicketRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate, signer *credential.Signer) {
	ctl := ticketController.NewTicketController(db, v, signer)

	api.Post("/events/:eventId/tickets",
		rateLimiter.PurchaseRateLimiter(),
		authMiddleware.AuthMiddleware(db),
		ctl.Purchase,
	)
	api.Post("/tickets/validate",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRolesSlice(constants.RoleErrorOrganization("validate tickets"), constants.OrganizationAndAdmin),
		ctl.Validate,
	)
	api.Get("/tickets/verify", ctl.Verify)
}

// TicketUserRoutes: /api/user/tickets
func TicketUserRoutes(user fiber.Router, db *gorm.DB, v *validator.Validate, signer *credential.Signer) {
	ctl := ticketController.NewTicketController(db, v, signer)
	user.Get("/tickets", ctl.ListMine)
}
