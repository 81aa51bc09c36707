package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "afrikticket_backend/internals/features/users/auth/controller"
	"afrikticket_backend/internals/helpers/storage"
	rateLimiter "afrikticket_backend/internals/middlewares"
	authMiddleware "afrikticket_backend/internals/middlewares/auth"
)

// AuthRoutes: /api/auth/*
func AuthRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate, store storage.Store) {
	ctl := authController.NewAuthController(db, v, store)

	auth := api.Group("/auth")
	auth.Post("/register", rateLimiter.RegisterRateLimiter(), ctl.Register)
	auth.Post("/login", rateLimiter.LoginRateLimiter(), ctl.Login)
	auth.Post("/google", rateLimiter.LoginRateLimiter(), ctl.LoginGoogle)
	auth.Post("/refresh", ctl.Refresh)
	auth.Post("/logout", authMiddleware.AuthMiddleware(db), ctl.Logout)
}

// AuthUserRoutes: mounted on the authenticated /api/user group.
func AuthUserRoutes(user fiber.Router, db *gorm.DB, v *validator.Validate, store storage.Store) {
	ctl := authController.NewAuthController(db, v, store)

	user.Get("/", ctl.Me)
	user.Get("/profile", ctl.Me)
	user.Put("/:id/password", ctl.ChangePassword)
}
