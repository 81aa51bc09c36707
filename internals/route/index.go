package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"afrikticket_backend/internals/constants"
	authMiddleware "afrikticket_backend/internals/middlewares/auth"
	routeDetails "afrikticket_backend/internals/route/details"
)

var startTime time.Time

// SetupRoutes mounts every feature. Fiber group middleware matches on a raw
// path prefix ("/api/org" also covers "/api/organizations"), so public routes
// are registered before the authenticated groups and answer first.
func SetupRoutes(app *fiber.App, d routeDetails.Deps) {
	startTime = time.Now()

	BaseRoutes(app, d.DB)
	api := app.Group("/api")

	// ===================== PUBLIC =====================
	log.Println("[INFO] Mounting public routes...")
	routeDetails.AuthRoutes(api, d)
	routeDetails.EventPublicRoutes(api, d)
	routeDetails.FundraisingPublicRoutes(api, d)
	routeDetails.OrganizationPublicRoutes(api, d)

	// ===================== USER (any authenticated role) =====================
	log.Println("[INFO] Mounting /api/user routes...")
	user := api.Group("/user", authMiddleware.AuthMiddleware(d.DB))
	routeDetails.AuthUserRoutes(user, d)
	routeDetails.EventUserRoutes(user, d)
	routeDetails.FundraisingUserRoutes(user, d)
	routeDetails.UserProfileRoutes(user, d) // /:id last

	// ===================== ORGANIZATION =====================
	log.Println("[INFO] Mounting /api/org routes...")
	org := api.Group("/org",
		authMiddleware.AuthMiddleware(d.DB),
		authMiddleware.OnlyRoles(constants.RoleErrorOrganization("this area"), constants.RoleOrganization),
	)
	routeDetails.OrganizationOwnerRoutes(org, d)
	routeDetails.EventOwnerRoutes(org, d)
	routeDetails.FundraisingOwnerRoutes(org, d)

	// ===================== ADMIN =====================
	log.Println("[INFO] Mounting /api/admin routes...")
	admin := api.Group("/admin",
		authMiddleware.AuthMiddleware(d.DB),
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("this area"), constants.AdminOnly),
	)
	routeDetails.UserAdminRoutes(admin, d)
	routeDetails.EventAdminRoutes(admin, d)
	routeDetails.FundraisingAdminRoutes(admin, d)
	routeDetails.AdminRoutes(admin, d) // /:id/role last
}
