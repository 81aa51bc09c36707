package helper

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "afrikticket_backend/internals/features/users/auth/model"
)

func HmacHex(msg, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(msg))
	return hex.EncodeToString(m.Sum(nil))
}

// BlacklistToken stores HMAC(access_token) until it would have expired anyway.
func BlacklistToken(ctx context.Context, db *gorm.DB, rawAccessToken, secret string, expiresAt time.Time) error {
	if db == nil || strings.TrimSpace(rawAccessToken) == "" || strings.TrimSpace(secret) == "" {
		return nil
	}
	row := authModel.TokenBlacklist{
		Token:     HmacHex(rawAccessToken, secret),
		ExpiredAt: expiresAt.UTC(),
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"expired_at": row.ExpiredAt, "deleted_at": nil}),
	}).Create(&row).Error
}

func IsBlacklisted(ctx context.Context, db *gorm.DB, rawAccessToken, secret string) (bool, error) {
	if db == nil || strings.TrimSpace(rawAccessToken) == "" || strings.TrimSpace(secret) == "" {
		return false, nil
	}
	var n int64
	err := db.WithContext(ctx).
		Model(&authModel.TokenBlacklist{}).
		Where("token = ? AND expired_at > ?", HmacHex(rawAccessToken, secret), time.Now().UTC()).
		Count(&n).Error
	return n > 0, err
}

// PurgeExpired hard-deletes rows past their expiry.
func PurgeExpired(ctx context.Context, db *gorm.DB, before time.Time) (int64, error) {
	res := db.WithContext(ctx).Unscoped().
		Where("expired_at <= ?", before.UTC()).
		Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
