package helper

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ✅ Success (200)
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return SuccessWithCode(c, fiber.StatusOK, message, data)
}

// ✅ Success with custom code (201 for created)
func SuccessWithCode(c *fiber.Ctx, code int, message string, data interface{}) error {
	if strings.TrimSpace(message) == "" {
		message = "ok"
	}
	return c.Status(code).JSON(fiber.Map{
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return SuccessWithCode(c, fiber.StatusCreated, message, data)
}

// ✅ Simple error
func Error(c *fiber.Ctx, code int, message string) error {
	if code == 0 {
		code = fiber.StatusInternalServerError
	}
	if strings.TrimSpace(message) == "" {
		message = fiber.ErrInternalServerError.Message
	}
	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

// ✅ Error with per-field details
func ErrorWithDetails(c *fiber.Ctx, code int, message string, errors interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"errors":  errors,
	})
}

// ✅ validator.v10 errors → 400 with field → tag map
func ValidationError(c *fiber.Ctx, err error) error {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return Error(c, fiber.StatusBadRequest, "Invalid input")
	}

	errorsMap := make(map[string]string, len(ve))
	for _, fieldErr := range ve {
		errorsMap[fieldErr.Field()] = fieldErr.Tag()
	}

	return ErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", errorsMap)
}
