// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authModel "afrikticket_backend/internals/features/users/auth/model"
	userModel "afrikticket_backend/internals/features/users/user/model"
)

/* ====================== USER ====================== */

func FindUserByEmail(db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByGoogleID(db *gorm.DB, googleID string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserWithProfiles loads the organization or admin profile alongside.
func FindUserWithProfiles(db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Preload("Organization").Preload("Admin").
		Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(db *gorm.DB, user *userModel.UserModel) error {
	return db.Create(user).Error
}

func UpdateUserPassword(db *gorm.DB, userID uuid.UUID, newPassword string) error {
	return db.Model(&userModel.UserModel{}).Where("id = ?", userID).Update("password", newPassword).Error
}

/* ====================== REFRESH TOKEN ====================== */

func CreateRefreshToken(db *gorm.DB, token *authModel.RefreshToken) error {
	return db.Create(token).Error
}

// FindActiveRefreshToken: not revoked, not expired.
func FindActiveRefreshToken(db *gorm.DB, hash string, now time.Time) (*authModel.RefreshToken, error) {
	var rt authModel.RefreshToken
	if err := db.
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", hash, now).
		First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// RevokeRefreshToken reports whether this call did the revoking, so a
// refresh token can be rotated exactly once.
func RevokeRefreshToken(db *gorm.DB, hash string, now time.Time) (bool, error) {
	res := db.Model(&authModel.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", hash).
		Update("revoked_at", now)
	return res.RowsAffected > 0, res.Error
}

func RevokeAllRefreshTokens(db *gorm.DB, userID uuid.UUID, now time.Time) error {
	return db.Model(&authModel.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error
}

// PurgeRefreshTokens hard-deletes expired or long revoked rows.
func PurgeRefreshTokens(db *gorm.DB, before time.Time) (int64, error) {
	res := db.Where("expires_at <= ? OR (revoked_at IS NOT NULL AND revoked_at <= ?)", before, before).
		Delete(&authModel.RefreshToken{})
	return res.RowsAffected, res.Error
}
