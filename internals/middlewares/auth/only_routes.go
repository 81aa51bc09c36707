package auth

import (
	"github.com/gofiber/fiber/v2"
)

// OnlyRolesSlice is OnlyRoles for the grouped slices in constants.
func OnlyRolesSlice(message string, allowedRoles []string) fiber.Handler {
	return RoleMiddlewareWithCustomError(allowedRoles, message)
}
