package admin

import (
	"context"
	"log"

	"gorm.io/gorm"

	"afrikticket_backend/internals/configs"
	adminService "afrikticket_backend/internals/features/users/admin/service"
)

// SeedSuperAdmin creates the ADMIN_EMAIL account once. Safe to rerun.
func SeedSuperAdmin(ctx context.Context, db *gorm.DB) error {
	if configs.AdminPassword == "" {
		log.Println("⚠️ ADMIN_PASSWORD is not set, super admin seed skipped")
		return nil
	}
	u, created, err := adminService.NewAdminService(db).
		EnsureSuperAdmin(ctx, configs.GetEnv("ADMIN_NAME", "Super Admin"), configs.AdminEmail, configs.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		log.Printf("✅ Super admin created: %s", u.Email)
	} else {
		log.Printf("ℹ️ Super admin '%s' already exists, skipped.", u.Email)
	}
	return nil
}
