package demo

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"afrikticket_backend/internals/constants"
	database "afrikticket_backend/internals/databases"
	orgModel "afrikticket_backend/internals/features/organizations/organization/model"
	authService "afrikticket_backend/internals/features/users/auth/service"
	userModel "afrikticket_backend/internals/features/users/user/model"
)

type OrganizationSeed struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type UserSeed struct {
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Password     string            `json:"password"`
	Role         string            `json:"role"`
	Status       string            `json:"status"`
	Phone        string            `json:"phone"`
	Organization *OrganizationSeed `json:"organization"`
}

// SeedUsersFromJSON inserts demo accounts; existing emails are skipped.
func SeedUsersFromJSON(ctx context.Context, db *gorm.DB, filePath string) error {
	log.Println("📥 Reading demo users:", filePath)
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	var seeds []UserSeed
	if err := sonic.Unmarshal(raw, &seeds); err != nil {
		return err
	}

	inserted := 0
	for _, s := range seeds {
		email := strings.ToLower(strings.TrimSpace(s.Email))
		var existing userModel.UserModel
		err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
		if err == nil {
			log.Printf("ℹ️ User '%s' already exists, skipped.", email)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := seedOne(ctx, db, email, s); err != nil {
			log.Printf("❌ Seeding '%s' failed: %v", email, err)
			continue
		}
		inserted++
	}
	log.Printf("✅ %d demo users inserted", inserted)
	return nil
}

func seedOne(ctx context.Context, db *gorm.DB, email string, s UserSeed) error {
	if s.Role == constants.RoleAdmin {
		return errors.New("admins are seeded through ADMIN_EMAIL")
	}
	hash, err := authService.HashPassword(s.Password)
	if err != nil {
		return err
	}
	u := &userModel.UserModel{
		Name:     s.Name,
		Email:    email,
		Password: hash,
		Role:     s.Role,
		Status:   s.Status,
	}
	if s.Phone != "" {
		u.Phone = &s.Phone
	}
	if err := u.Validate(); err != nil {
		return err
	}
	if u.Role == constants.RoleOrganization && s.Organization == nil {
		return errors.New("organization block missing")
	}

	return database.WithRetry(ctx, db, func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		if s.Organization == nil || u.Role != constants.RoleOrganization {
			return nil
		}
		o := s.Organization
		status := o.Status
		if status == "" {
			status = constants.OrganizationStatusPending
		}
		org := &orgModel.OrganizationModel{
			OrganizationUserID: u.ID,
			OrganizationName:   o.Name,
			OrganizationEmail:  strings.ToLower(strings.TrimSpace(o.Email)),
			OrganizationPhone:  o.Phone,
			OrganizationStatus: status,
		}
		if o.Description != "" {
			org.OrganizationDescription = &o.Description
		}
		return tx.Create(org).Error
	})
}
