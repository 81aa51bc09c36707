package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"afrikticket_backend/internals/constants"
	eventController "afrikticket_backend/internals/features/events/events/controller"
	"afrikticket_backend/internals/helpers/storage"
	authMiddleware "afrikticket_backend/internals/middlewares/auth"
)

// EventPublicRoutes: /api/events. Creating requires an organization token.
func EventPublicRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate, store storage.Store) {
	ctl := eventController.NewEventController(db, v, store)

	api.Get("/events", ctl.ListPublic)
	api.Get("/events/:id", authMiddleware.OptionalAuth(db), ctl.GetByID)
	api.Post("/events",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles(constants.RoleErrorOrganization("create events"), constants.RoleOrganization),
		ctl.Create,
	)
}

// EventOwnerRoutes: mounted under /api/org.
func EventOwnerRoutes(org fiber.Router, db *gorm.DB, v *validator.Validate, store storage.Store) {
	ctl := eventController.NewEventController(db, v, store)

	g := org.Group("/events", authMiddleware.OnlyRoles(constants.RoleErrorOrganization("manage events"), constants.RoleOrganization))
	g.Get("/", ctl.ListMine)
	g.Put("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
}

// EventAdminRoutes: mounted under /api/admin.
func EventAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate, store storage.Store) {
	ctl := eventController.NewEventController(db, v, store)

	admin.Get("/pending/events", ctl.ListPending)
	admin.Put("/events/:id/review", ctl.Review)
	admin.Put("/events/:id", ctl.Update)
	admin.Delete("/events/:id", ctl.Delete)
}

// EventUserRoutes: /api/user/events
func EventUserRoutes(user fiber.Router, db *gorm.DB, v *validator.Validate, store storage.Store) {
	ctl := eventController.NewEventController(db, v, store)
	user.Get("/events", ctl.UserEvents)
	user.Get("/events/calendar", ctl.Calendar)
}
