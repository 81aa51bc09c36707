package seeds

import (
	"context"
	"log"

	"gorm.io/gorm"

	"afrikticket_backend/internals/seeds/users/admin"
	"afrikticket_backend/internals/seeds/users/demo"
)

const DemoUsersFile = "internals/seeds/users/demo/data_demo_users.json"

// RunAllSeeds is idempotent. demoFile == "" skips the demo accounts.
func RunAllSeeds(ctx context.Context, db *gorm.DB, demoFile string) error {
	if err := admin.SeedSuperAdmin(ctx, db); err != nil {
		return err
	}
	if demoFile == "" {
		return nil
	}
	if err := demo.SeedUsersFromJSON(ctx, db, demoFile); err != nil {
		return err
	}
	log.Println("✅ Seeding finished")
	return nil
}
