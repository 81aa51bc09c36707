package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Raw JWT stored by the auth middleware
const LocRawToken = "raw_token"

// GetRawAccessToken looks in:
// 1) Locals("raw_token") set by the middleware
// 2) Authorization header "Bearer <token>"
// 3) cookie "access_token"
func GetRawAccessToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	fields := strings.Fields(c.Get("Authorization"))
	if len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
		return strings.Trim(fields[1], "\"'")
	}
	return strings.TrimSpace(c.Cookies("access_token"))
}

func GetRefreshTokenFromCookie(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Cookies("refresh_token"))
}

func SetRawAccessToken(c *fiber.Ctx, raw string) {
	if strings.TrimSpace(raw) != "" {
		c.Locals(LocRawToken, strings.TrimSpace(raw))
	}
}
