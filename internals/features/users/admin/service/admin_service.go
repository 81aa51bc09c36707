package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"afrikticket_backend/internals/constants"
	database "afrikticket_backend/internals/databases"
	eventModel "afrikticket_backend/internals/features/events/events/model"
	fundModel "afrikticket_backend/internals/features/fundraising/fundraisings/model"
	orgModel "afrikticket_backend/internals/features/organizations/organization/model"
	authService "afrikticket_backend/internals/features/users/auth/service"
	userModel "afrikticket_backend/internals/features/users/user/model"
	helper "afrikticket_backend/internals/helpers"
	helperAuth "afrikticket_backend/internals/helpers/auth"
)

const PermManageAdmins = "manage_admins"

var (
	ErrEmailTaken        = fiber.NewError(fiber.StatusBadRequest, "Email already registered")
	ErrUserNotFound      = fiber.NewError(fiber.StatusNotFound, "User not found")
	ErrInvalidRole       = fiber.NewError(fiber.StatusBadRequest, "Role must be user or admin")
	ErrInvalidAdminRole  = fiber.NewError(fiber.StatusBadRequest, "admin_role must be super_admin or moderator")
	ErrOrganizationRole  = fiber.NewError(fiber.StatusBadRequest, "Organization accounts cannot change role")
	ErrOwnRole           = fiber.NewError(fiber.StatusBadRequest, "You cannot change your own role")
	ErrMissingPermission = fiber.NewError(fiber.StatusForbidden, "Missing admin permission: "+PermManageAdmins)
)

type AdminService struct {
	DB *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{DB: db}
}

// requirePermission: super admins pass, others need the permission listed.
func requirePermission(db *gorm.DB, actor helperAuth.Actor, perm string) error {
	if err := helperAuth.RequireRole(actor, constants.RoleAdmin); err != nil {
		return err
	}
	var a userModel.AdminModel
	err := db.Where("admin_user_id = ?", actor.UserID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrMissingPermission
	}
	if err != nil {
		return err
	}
	if a.AdminRole == userModel.AdminRoleSuperAdmin {
		return nil
	}
	for _, p := range a.PermissionList() {
		if p == perm {
			return nil
		}
	}
	return ErrMissingPermission
}

/* =========================================================
   ADMIN ACCOUNTS
========================================================= */

type CreateAdminInput struct {
	Name        string
	Email       string
	Password    string
	Phone       string
	AdminRole   string
	Permissions []string
}

// CreateAdmin inserts the user and its admin profile in one transaction.
func (s *AdminService) CreateAdmin(ctx context.Context, actor helperAuth.Actor, in CreateAdminInput) (*userModel.UserModel, error) {
	if err := requirePermission(s.DB.WithContext(ctx), actor, PermManageAdmins); err != nil {
		return nil, err
	}
	return s.createAdmin(ctx, in)
}

// EnsureSuperAdmin is used by the seeder; an existing account is left as is.
func (s *AdminService) EnsureSuperAdmin(ctx context.Context, name, email, password string) (*userModel.UserModel, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var existing userModel.UserModel
	err := s.DB.WithContext(ctx).Preload("Admin").Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	u, err := s.createAdmin(ctx, CreateAdminInput{
		Name:        name,
		Email:       email,
		Password:    password,
		AdminRole:   userModel.AdminRoleSuperAdmin,
		Permissions: userModel.DefaultSuperAdminPermissions,
	})
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func (s *AdminService) createAdmin(ctx context.Context, in CreateAdminInput) (*userModel.UserModel, error) {
	adminRole := strings.ToLower(strings.TrimSpace(in.AdminRole))
	if adminRole == "" {
		adminRole = userModel.AdminRoleModerator
	}
	if !userModel.IsValidAdminRole(adminRole) {
		return nil, ErrInvalidAdminRole
	}
	if len(strings.TrimSpace(in.Password)) < authService.MinPasswordLength {
		return nil, authService.ErrWeakPassword
	}
	hash, err := authService.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &userModel.UserModel{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Password: hash,
		Role:     constants.RoleAdmin,
		Status:   constants.UserStatusActive,
	}
	if p := strings.TrimSpace(in.Phone); p != "" {
		u.Phone = &p
	}
	if err := u.Validate(); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	perms := in.Permissions
	if perms == nil && adminRole == userModel.AdminRoleSuperAdmin {
		perms = userModel.DefaultSuperAdminPermissions
	}
	a := &userModel.AdminModel{AdminRole: adminRole}
	if err := a.SetPermissions(perms); err != nil {
		return nil, err
	}

	err = database.WithRetry(ctx, s.DB, func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&userModel.UserModel{}).Where("email = ?", u.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrEmailTaken
		}
		u.ID = uuid.Nil
		if err := tx.Create(u).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}
		a.AdminID = uuid.Nil
		a.AdminUserID = u.ID
		return tx.Create(a).Error
	})
	if err != nil {
		return nil, err
	}
	u.Admin = a
	log.Printf("[Admin] created admin=%s role=%s", u.ID, adminRole)
	return u, nil
}

type ChangeRoleInput struct {
	Role        string
	AdminRole   string
	Permissions []string
}

// ChangeRole moves an account between user and admin. Promotion creates the
// admin profile, demotion removes it. Organization owners keep their role.
func (s *AdminService) ChangeRole(ctx context.Context, actor helperAuth.Actor, targetID uuid.UUID, in ChangeRoleInput) (*userModel.UserModel, error) {
	if err := requirePermission(s.DB.WithContext(ctx), actor, PermManageAdmins); err != nil {
		return nil, err
	}
	if actor.UserID == targetID {
		return nil, ErrOwnRole
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role != constants.RoleUser && role != constants.RoleAdmin {
		return nil, ErrInvalidRole
	}
	adminRole := strings.ToLower(strings.TrimSpace(in.AdminRole))
	if adminRole == "" {
		adminRole = userModel.AdminRoleModerator
	}
	if role == constants.RoleAdmin && !userModel.IsValidAdminRole(adminRole) {
		return nil, ErrInvalidAdminRole
	}

	var out userModel.UserModel
	err := database.WithRetry(ctx, s.DB, func(tx *gorm.DB) error {
		var u userModel.UserModel
		err := tx.Where("id = ?", targetID).First(&u).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}
		if u.Role == constants.RoleOrganization {
			return ErrOrganizationRole
		}

		if err := tx.Model(&userModel.UserModel{}).Where("id = ?", targetID).Update("role", role).Error; err != nil {
			return err
		}

		if role == constants.RoleUser {
			if err := tx.Where("admin_user_id = ?", targetID).Delete(&userModel.AdminModel{}).Error; err != nil {
				return err
			}
		} else {
			var a userModel.AdminModel
			err := tx.Where("admin_user_id = ?", targetID).First(&a).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			a.AdminUserID = targetID
			a.AdminRole = adminRole
			if in.Permissions != nil || a.AdminID == uuid.Nil {
				if err := a.SetPermissions(in.Permissions); err != nil {
					return err
				}
			}
			if err := tx.Save(&a).Error; err != nil {
				return err
			}
		}

		return tx.Preload("Admin").Where("id = ?", targetID).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Admin] role user=%s -> %s by=%s", targetID, role, actor.UserID)
	return &out, nil
}

/* =========================================================
   PENDING QUEUE
========================================================= */

type PendingQueue struct {
	Events        []eventModel.EventModel
	Fundraisings  []fundModel.FundraisingModel
	Organizations []orgModel.OrganizationModel

	EventCount        int64
	FundraisingCount  int64
	OrganizationCount int64
}

// Pending returns the oldest pending items of each kind, at most limit each.
func (s *AdminService) Pending(ctx context.Context, limit int) (*PendingQueue, error) {
	db := s.DB.WithContext(ctx)
	q := &PendingQueue{}

	evq := db.Model(&eventModel.EventModel{}).Where("event_status = ?", constants.EventStatusPending)
	if err := evq.Session(&gorm.Session{}).Count(&q.EventCount).Error; err != nil {
		return nil, err
	}
	if err := evq.Session(&gorm.Session{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("event_image_order ASC") }).
		Preload("Organization").
		Order("event_created_at ASC").Limit(limit).
		Find(&q.Events).Error; err != nil {
		return nil, err
	}

	fq := db.Model(&fundModel.FundraisingModel{}).Where("fundraising_status = ?", constants.FundraisingStatusPending)
	if err := fq.Session(&gorm.Session{}).Count(&q.FundraisingCount).Error; err != nil {
		return nil, err
	}
	if err := fq.Session(&gorm.Session{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("fundraising_image_order ASC") }).
		Preload("Organization").
		Order("fundraising_created_at ASC").Limit(limit).
		Find(&q.Fundraisings).Error; err != nil {
		return nil, err
	}

	oq := db.Model(&orgModel.OrganizationModel{}).Where("organization_status = ?", constants.OrganizationStatusPending)
	if err := oq.Session(&gorm.Session{}).Count(&q.OrganizationCount).Error; err != nil {
		return nil, err
	}
	if err := oq.Session(&gorm.Session{}).
		Order("organization_created_at ASC").Limit(limit).
		Find(&q.Organizations).Error; err != nil {
		return nil, err
	}
	return q, nil
}
