package service

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "afrikticket_backend/internals/features/users/user/model"
	helper "afrikticket_backend/internals/helpers"
	helperAuth "afrikticket_backend/internals/helpers/auth"
	"afrikticket_backend/internals/helpers/storage"
)

var (
	ErrUserNotFound    = fiber.NewError(fiber.StatusNotFound, "User not found")
	ErrEmailInUse      = fiber.NewError(fiber.StatusBadRequest, "Email already registered")
	ErrNothingToUpdate = fiber.NewError(fiber.StatusBadRequest, "Nothing to update")
)

type UserService struct {
	DB    *gorm.DB
	Store storage.Store
}

func NewUserService(db *gorm.DB, store storage.Store) *UserService {
	return &UserService{DB: db, Store: store}
}

// Get: self or admin. Profiles are preloaded for both.
func (s *UserService) Get(ctx context.Context, actor helperAuth.Actor, id uuid.UUID) (*userModel.UserModel, error) {
	if err := helperAuth.EnsureSelfOrAdmin(actor, id); err != nil {
		return nil, err
	}
	var u userModel.UserModel
	err := s.DB.WithContext(ctx).Preload("Organization").Preload("Admin").Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return &u, err
}

type UpdateUserInput struct {
	Name         *string
	Email        *string
	Phone        *string
	ProfileImage *storage.File
}

// Update is strictly self-service. A new profile image is stored before the
// row changes; the previous image is removed only after the update lands.
func (s *UserService) Update(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, in UpdateUserInput) (*userModel.UserModel, error) {
	if err := helperAuth.EnsureSelf(actor, id); err != nil {
		return nil, err
	}

	var current userModel.UserModel
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil && *in.Name != "" {
		updates["name"] = *in.Name
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Email != nil && *in.Email != "" && !strings.EqualFold(*in.Email, current.Email) {
		var n int64
		if err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
			Where("email = ? AND id <> ?", *in.Email, id).Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, ErrEmailInUse
		}
		updates["email"] = *in.Email
	}

	var newImage string
	if in.ProfileImage != nil {
		p, err := storage.PutImage(ctx, s.Store, storage.BucketProfileImages, in.ProfileImage)
		if err != nil {
			return nil, err
		}
		newImage = p
		updates["profile_image"] = p
	}
	if len(updates) == 0 {
		return nil, ErrNothingToUpdate
	}

	if err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		storage.Cleanup(context.WithoutCancel(ctx), s.Store, newImage)
		if helper.IsUniqueViolation(err) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	if newImage != "" && current.ProfileImage != nil {
		storage.Cleanup(context.WithoutCancel(ctx), s.Store, *current.ProfileImage)
	}
	return s.Get(ctx, actor, id)
}

type ListFilter struct {
	Role   string
	Status string
	Search string
}

// List is the admin user listing.
func (s *UserService) List(ctx context.Context, f ListFilter, order string, offset, limit int) ([]userModel.UserModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&userModel.UserModel{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		like := "%" + term + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if order == "" {
		order = "created_at DESC"
	}
	var rows []userModel.UserModel
	err := q.Preload("Organization").Preload("Admin").
		Order(order).Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}
