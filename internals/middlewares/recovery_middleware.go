package middlewares

import (
	"log"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// RecoveryMiddleware turns a panic into a 500 through the error handler.
// It sits after requestid so the panic line carries the request id.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Printf("[PANIC] rid=%v %s %s: %v\n%s", c.Locals("requestid"), c.Method(), c.Path(), e, debug.Stack())
		},
	})
}
