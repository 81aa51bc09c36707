package details

import (
	"github.com/gofiber/fiber/v2"

	eventRoute "afrikticket_backend/internals/features/events/events/route"
	ticketRoute "afrikticket_backend/internals/features/events/tickets/route"
)

/* ===================== PUBLIC ===================== */
// e.g. /api/events, /api/tickets/verify
func EventPublicRoutes(api fiber.Router, d Deps) {
	eventRoute.EventPublicRoutes(api, d.DB, d.Validator, d.Store)
	ticketRoute.TicketRoutes(api, d.DB, d.Validator, d.Signer)
}

/* ===================== USER ===================== */
func EventUserRoutes(user fiber.Router, d Deps) {
	eventRoute.EventUserRoutes(user, d.DB, d.Validator, d.Store)
	ticketRoute.TicketUserRoutes(user, d.DB, d.Validator, d.Signer)
}

/* ===================== ORGANIZATION ===================== */
func EventOwnerRoutes(org fiber.Router, d Deps) {
	eventRoute.EventOwnerRoutes(org, d.DB, d.Validator, d.Store)
}

/* ===================== ADMIN ===================== */
func EventAdminRoutes(admin fiber.Router, d Deps) {
	eventRoute.EventAdminRoutes(admin, d.DB, d.Validator, d.Store)
}
