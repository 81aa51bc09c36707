package scheduler

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"afrikticket_backend/internals/configs"
	authRepo "afrikticket_backend/internals/features/users/auth/repository"
	helperAuth "afrikticket_backend/internals/helpers/auth"
)

// RunCleanup purges expired blacklist rows and dead refresh tokens once.
func RunCleanup(ctx context.Context, db *gorm.DB, now time.Time) (blacklisted, refresh int64, err error) {
	blacklisted, err = helperAuth.PurgeExpired(ctx, db, now)
	if err != nil {
		return 0, 0, err
	}
	refresh, err = authRepo.PurgeRefreshTokens(db.WithContext(ctx), now)
	return blacklisted, refresh, err
}

// StartBlacklistCleanupScheduler runs RunCleanup every TOKEN_CLEANUP_INTERVAL
// (default 24h) until ctx is cancelled.
func StartBlacklistCleanupScheduler(ctx context.Context, db *gorm.DB) {
	interval := configs.GetDuration("TOKEN_CLEANUP_INTERVAL", 24*time.Hour)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			log.Println("[CLEANUP] purging token_blacklist and refresh_tokens...")
			bl, rt, err := RunCleanup(ctx, db, time.Now().UTC())
			if err != nil {
				log.Printf("[CLEANUP ERROR] %v", err)
			} else {
				log.Printf("[CLEANUP] removed %d blacklisted, %d refresh tokens", bl, rt)
			}

			select {
			case <-ctx.Done():
				log.Println("[CLEANUP] stopped")
				return
			case <-ticker.C:
			}
		}
	}()
}
