package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes we care about
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsRetryableDBError reports contention errors worth another attempt.
func IsRetryableDBError(err error) bool {
	switch pgCode(err) {
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
		return true
	}
	return false
}

func IsUniqueViolation(err error) bool {
	if pgCode(err) == pgUniqueViolation {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// MapDBError turns known constraint errors into client errors, nil when unknown.
func MapDBError(err error) *fiber.Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Resource not found")
	}
	switch pgCode(err) {
	case pgUniqueViolation:
		return fiber.NewError(fiber.StatusBadRequest, "Duplicate value violates a unique constraint")
	case pgForeignKeyViolation:
		return fiber.NewError(fiber.StatusBadRequest, "Referenced resource does not exist")
	case pgCheckViolation:
		return fiber.NewError(fiber.StatusBadRequest, "Value violates a check constraint")
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fiber.NewError(fiber.StatusBadRequest, "Duplicate value violates a unique constraint")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fiber.NewError(fiber.StatusBadRequest, "Referenced resource does not exist")
	}
	return nil
}
