package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "afrikticket_backend/internals/helpers"
)

func newLimiter(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.Error(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// Global limiter for every endpoint
func GlobalRateLimiter() fiber.Handler {
	return newLimiter(100, time.Minute, "❌ Too many requests. Please try again later.")
}

func LoginRateLimiter() fiber.Handler {
	return newLimiter(5, time.Minute, "❌ Too many login attempts. Please wait a moment.")
}

func RegisterRateLimiter() fiber.Handler {
	return newLimiter(3, 5*time.Minute, "❌ Too many registration attempts. Please wait a few minutes.")
}

// Ticket purchases: bursts beyond this are almost always scripted.
func PurchaseRateLimiter() fiber.Handler {
	return newLimiter(20, time.Minute, "❌ Too many purchase attempts. Please slow down.")
}
