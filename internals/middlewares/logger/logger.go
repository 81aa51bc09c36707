package logger

import (
	"io"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"afrikticket_backend/internals/configs"
)

const Tag = "[AFRIKTICKET]"

// LoggerMiddleware writes one access line per request to out (stdout when
// nil). Health probes are skipped.
func LoggerMiddleware(out io.Writer) fiber.Handler {
	if out == nil {
		out = os.Stdout
	}
	return logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
		Output:     out,
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   configs.GetEnv("LOG_TIMEZONE", "Africa/Abidjan"),
		Format:     "${time} " + Tag + " rid=${locals:requestid} ${ip} ${method} ${path} ${status} ${latency} ua=\"${ua}\"\n",
	})
}
