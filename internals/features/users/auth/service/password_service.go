package service

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"afrikticket_backend/internals/configs"
	database "afrikticket_backend/internals/databases"
	authRepo "afrikticket_backend/internals/features/users/auth/repository"
	helperAuth "afrikticket_backend/internals/helpers/auth"
)

const MinPasswordLength = 8

var (
	ErrWeakPassword     = fiber.NewError(fiber.StatusBadRequest, "Password must be at least 8 characters")
	ErrCurrentPassword  = fiber.NewError(fiber.StatusBadRequest, "Current password incorrect")
	ErrSamePassword     = fiber.NewError(fiber.StatusBadRequest, "New password must differ from the current one")
	ErrPasswordMismatch = fiber.NewError(fiber.StatusBadRequest, "Password confirmation does not match")
)

func HashPassword(password string) (string, error) {
	cost := configs.GetInt("BCRYPT_COST", bcrypt.DefaultCost)
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func CheckPasswordHash(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func validatePassword(p string) error {
	if len(strings.TrimSpace(p)) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// ChangePassword is self-service only, admins included. Every refresh token
// of the account is revoked so other sessions must sign in again.
func (s *AuthService) ChangePassword(ctx context.Context, actor helperAuth.Actor, targetID uuid.UUID, current, next, confirm string) error {
	if err := helperAuth.EnsureSelf(actor, targetID); err != nil {
		return err
	}
	if confirm != "" && confirm != next {
		return ErrPasswordMismatch
	}
	if err := validatePassword(next); err != nil {
		return err
	}

	user, err := authRepo.FindUserByID(s.DB.WithContext(ctx), targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		return err
	}
	if err := CheckPasswordHash(user.Password, current); err != nil {
		return ErrCurrentPassword
	}
	if current == next {
		return ErrSamePassword
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	now := s.now()
	return database.WithRetry(ctx, s.DB, func(tx *gorm.DB) error {
		if err := authRepo.UpdateUserPassword(tx, targetID, hash); err != nil {
			return err
		}
		return authRepo.RevokeAllRefreshTokens(tx, targetID, now)
	})
}
