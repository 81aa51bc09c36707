// internals/middlewares/auth/claims_utils.go
package auth

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"afrikticket_backend/internals/constants"
)

var ErrAccountInactive = fiber.NewError(fiber.StatusForbidden, "Account not activated or pending approval")
var ErrAccountSuspended = fiber.NewError(fiber.StatusForbidden, "Account suspended")

func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" {
		if cookieTok := c.Cookies("access_token"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", fmt.Errorf("unauthorized - No token provided")
	}

	// tolerate double spaces and any casing of "Bearer"
	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("unauthorized - Invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", fmt.Errorf("unauthorized - Empty token")
	}
	return tok, nil
}

// ensureUserActive returns the stored role of an active account.
func ensureUserActive(db *gorm.DB, userID uuid.UUID) (string, error) {
	var user struct {
		Role   string
		Status string
	}
	if err := db.Table("users").Select("role", "status").Where("id = ?", userID).Take(&user).Error; err != nil {
		return "", err
	}
	switch user.Status {
	case constants.UserStatusActive:
		return user.Role, nil
	case constants.UserStatusSuspended:
		return "", ErrAccountSuspended
	default:
		return "", ErrAccountInactive
	}
}
