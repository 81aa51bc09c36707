package middlewares

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"

	"afrikticket_backend/internals/configs"
	"afrikticket_backend/internals/middlewares/logger"
)

// RequestTimeout bounds the user context handed to services; it should stay
// in line with the DB statement_timeout.
func RequestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// SetupMiddlewares installs the global chain, outermost first.
func SetupMiddlewares(app *fiber.App) {
	app.Use(requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  utils.UUIDv4,
		ContextKey: "requestid",
	}))
	app.Use(RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware(nil))
	app.Use(CorsMiddleware())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(GlobalRateLimiter())
	app.Use(RequestTimeout(configs.GetDuration("REQUEST_TIMEOUT", 10*time.Second)))
}
