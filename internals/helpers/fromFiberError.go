package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// FromFiberError renders a service error (usually a *fiber.Error, possibly wrapped)
// through the standard envelope. Anything else becomes a 500 without leaking details.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return Error(c, fe.Code, fe.Message)
	}
	if mapped := MapDBError(err); mapped != nil {
		return Error(c, mapped.Code, mapped.Message)
	}
	log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
	return Error(c, fiber.StatusInternalServerError, "Internal server error")
}

// ErrorHandler is installed as fiber.Config.ErrorHandler so middleware errors
// share the same envelope as controller errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromFiberError(c, err)
}
