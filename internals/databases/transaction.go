package database

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "afrikticket_backend/internals/helpers"
)

const MaxTxAttempts = 3

var ErrTransactionFailed = fiber.NewError(fiber.StatusInternalServerError, "Transaction failed, nothing was changed")

// WithRetry runs fn in a transaction. Serialization, deadlock and lock-timeout
// failures are retried up to MaxTxAttempts; business errors (*fiber.Error) pass through as-is.
func WithRetry(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= MaxTxAttempts; attempt++ {
		err = db.WithContext(ctx).Transaction(fn)
		if err == nil {
			return nil
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) || helper.MapDBError(err) != nil {
			return err
		}
		if !helper.IsRetryableDBError(err) || ctx.Err() != nil {
			break
		}

		log.Printf("[TX] retryable error (attempt %d/%d): %v", attempt, MaxTxAttempts, err)
		time.Sleep(time.Duration(attempt*attempt) * 20 * time.Millisecond)
	}

	log.Printf("[TX] failed: %v", err)
	return errors.Join(ErrTransactionFailed, err)
}
