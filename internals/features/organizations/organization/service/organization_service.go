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
	"afrikticket_backend/internals/features/approval"
	eventModel "afrikticket_backend/internals/features/events/events/model"
	fundModel "afrikticket_backend/internals/features/fundraising/fundraisings/model"
	orgModel "afrikticket_backend/internals/features/organizations/organization/model"
	userModel "afrikticket_backend/internals/features/users/user/model"
)

var (
	ErrOrganizationNotFound = fiber.NewError(fiber.StatusNotFound, "Organization not found")
	ErrOrganizationInUse    = fiber.NewError(fiber.StatusBadRequest, "Organization still has events or fundraisings")
	ErrNothingToUpdate      = fiber.NewError(fiber.StatusBadRequest, "Nothing to update")
)

type OrganizationService struct {
	DB *gorm.DB
}

func NewOrganizationService(db *gorm.DB) *OrganizationService {
	return &OrganizationService{DB: db}
}

func (s *OrganizationService) Get(ctx context.Context, orgID uuid.UUID) (*orgModel.OrganizationModel, error) {
	var org orgModel.OrganizationModel
	err := s.DB.WithContext(ctx).Where("organization_id = ?", orgID).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrganizationNotFound
	}
	return &org, err
}

func (s *OrganizationService) GetByOwner(ctx context.Context, userID uuid.UUID) (*orgModel.OrganizationModel, error) {
	var org orgModel.OrganizationModel
	err := s.DB.WithContext(ctx).Where("organization_user_id = ?", userID).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrganizationNotFound
	}
	return &org, err
}

// List is the admin listing; status "" means all.
func (s *OrganizationService) List(ctx context.Context, status string, offset, limit int) ([]orgModel.OrganizationModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&orgModel.OrganizationModel{})
	if status = strings.TrimSpace(status); status != "" {
		q = q.Where("organization_status = ?", status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []orgModel.OrganizationModel
	err := q.Order("organization_created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

// UpdateProfile edits the owner's own organization.
func (s *OrganizationService) UpdateProfile(ctx context.Context, ownerID uuid.UUID, updates map[string]interface{}) (*orgModel.OrganizationModel, error) {
	if len(updates) == 0 {
		return nil, ErrNothingToUpdate
	}
	res := s.DB.WithContext(ctx).
		Model(&orgModel.OrganizationModel{}).
		Where("organization_user_id = ?", ownerID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrOrganizationNotFound
	}
	return s.GetByOwner(ctx, ownerID)
}

// UpdateStatus moves the organization through review and mirrors the outcome
// onto the owner account in the same transaction.
func (s *OrganizationService) UpdateStatus(ctx context.Context, orgID uuid.UUID, status, reason string) (*orgModel.OrganizationModel, error) {
	status = strings.ToLower(strings.TrimSpace(status))

	var out orgModel.OrganizationModel
	err := database.WithRetry(ctx, s.DB, func(tx *gorm.DB) error {
		var org orgModel.OrganizationModel
		err := tx.Where("organization_id = ?", orgID).First(&org).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrganizationNotFound
		}
		if err != nil {
			return err
		}
		if err := approval.CheckOrganization(org.OrganizationStatus, status, reason); err != nil {
			return err
		}

		// guarded on the status we just read so two reviewers cannot both win
		res := tx.Model(&orgModel.OrganizationModel{}).
			Where("organization_id = ? AND organization_status = ?", orgID, org.OrganizationStatus).
			Updates(map[string]interface{}{
				"organization_status":           status,
				"organization_rejection_reason": approval.ReasonFor(status, reason),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return approval.ErrInvalidTransition
		}

		if err := tx.Model(&userModel.UserModel{}).
			Where("id = ?", org.OrganizationUserID).
			Update("status", approval.OwnerStatusFor(status)).Error; err != nil {
			return err
		}

		return tx.Where("organization_id = ?", orgID).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Organization] %s -> %s", orgID, status)
	return &out, nil
}

// Delete removes the organization and its owner account. Refused while it
// still owns events or fundraisings, including soft-deleted ones.
func (s *OrganizationService) Delete(ctx context.Context, orgID uuid.UUID) error {
	return database.WithRetry(ctx, s.DB, func(tx *gorm.DB) error {
		var org orgModel.OrganizationModel
		err := tx.Where("organization_id = ?", orgID).First(&org).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrganizationNotFound
		}
		if err != nil {
			return err
		}

		var events, funds int64
		if err := tx.Unscoped().Model(&eventModel.EventModel{}).
			Where("event_organization_id = ?", orgID).Count(&events).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Model(&fundModel.FundraisingModel{}).
			Where("fundraising_organization_id = ?", orgID).Count(&funds).Error; err != nil {
			return err
		}
		if events+funds > 0 {
			return ErrOrganizationInUse
		}

		if err := tx.Delete(&orgModel.OrganizationModel{}, "organization_id = ?", orgID).Error; err != nil {
			return err
		}
		return tx.Delete(&userModel.UserModel{}, "id = ? AND role = ?", org.OrganizationUserID, constants.RoleOrganization).Error
	})
}
