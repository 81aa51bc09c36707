// Package dbtest opens a throwaway SQLite store with the full schema for tests.
package dbtest

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"afrikticket_backend/internals/constants"
	database "afrikticket_backend/internals/databases"
	eventModel "afrikticket_backend/internals/features/events/events/model"
	fundModel "afrikticket_backend/internals/features/fundraising/fundraisings/model"
	orgModel "afrikticket_backend/internals/features/organizations/organization/model"
	userModel "afrikticket_backend/internals/features/users/user/model"
	"afrikticket_backend/internals/helpers/storage"
)

const Password = "password123"

// Open returns a migrated DB. A single connection serializes transactions
// the way row locks would on Postgres.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func hash(t testing.TB) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func CreateUser(t testing.TB, db *gorm.DB, role, status string) *userModel.UserModel {
	t.Helper()
	u := &userModel.UserModel{
		Name:     "Test " + role,
		Email:    uuid.NewString()[:8] + "@example.com",
		Password: hash(t),
		Role:     role,
		Status:   status,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreateOrganization creates the owner account together with its organization.
func CreateOrganization(t testing.TB, db *gorm.DB, orgStatus string) (*userModel.UserModel, *orgModel.OrganizationModel) {
	t.Helper()
	userStatus := constants.UserStatusPending
	if orgStatus == constants.OrganizationStatusApproved {
		userStatus = constants.UserStatusActive
	}
	owner := CreateUser(t, db, constants.RoleOrganization, userStatus)
	org := &orgModel.OrganizationModel{
		OrganizationUserID: owner.ID,
		OrganizationName:   "Org " + owner.Email,
		OrganizationEmail:  owner.Email,
		OrganizationPhone:  "+2250700000000",
		OrganizationStatus: orgStatus,
	}
	if err := db.Create(org).Error; err != nil {
		t.Fatalf("create organization: %v", err)
	}
	return owner, org
}

func CreateEvent(t testing.TB, db *gorm.DB, orgID uuid.UUID, maxTickets int, status string) *eventModel.EventModel {
	t.Helper()
	ev := &eventModel.EventModel{
		EventTitle:          "Abidjan Jazz Night",
		EventDescription:    "Live music",
		EventDate:           time.Now().UTC().Add(72 * time.Hour),
		EventDuration:       constants.DefaultEventDuration,
		EventLocation:       "Plateau, Abidjan",
		EventMaxTickets:     maxTickets,
		EventPrice:          decimal.NewFromInt(5000),
		EventCategory:       "concert",
		EventOrganizationID: orgID,
		EventStatus:         status,
	}
	if err := db.Create(ev).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}
	return ev
}

func CreateFundraising(t testing.TB, db *gorm.DB, orgID uuid.UUID, goal, current int64, status string) *fundModel.FundraisingModel {
	t.Helper()
	f := &fundModel.FundraisingModel{
		FundraisingTitle:          "School roof",
		FundraisingDescription:    "Fix the roof before the rains",
		FundraisingGoal:           decimal.NewFromInt(goal),
		FundraisingCurrent:        decimal.NewFromInt(current),
		FundraisingCategory:       "education",
		FundraisingOrganizationID: orgID,
		FundraisingStatus:         status,
	}
	if err := db.Create(f).Error; err != nil {
		t.Fatalf("create fundraising: %v", err)
	}
	return f
}

// PNG is a tiny valid image upload.
func PNG(t testing.TB, name string) *storage.File {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return &storage.File{Filename: name, ContentType: "image/png", Data: buf.Bytes()}
}
