package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"afrikticket_backend/internals/constants"
	database "afrikticket_backend/internals/databases"
	"afrikticket_backend/internals/features/approval"
	donationModel "afrikticket_backend/internals/features/fundraising/donations/model"
	fundModel "afrikticket_backend/internals/features/fundraising/fundraisings/model"
	helperAuth "afrikticket_backend/internals/helpers/auth"
	"afrikticket_backend/internals/helpers/storage"
)

var (
	ErrFundraisingNotFound = fiber.NewError(fiber.StatusNotFound, "Fundraising not found")
	ErrInvalidGoal         = fiber.NewError(fiber.StatusBadRequest, "Goal must be greater than zero")
	ErrTooManyImages       = fiber.NewError(fiber.StatusBadRequest, "Too many images")
	ErrHasDonations        = fiber.NewError(fiber.StatusBadRequest, "Fundraising cannot be deleted because it has received donations")
	ErrFundraisingChanged  = fiber.NewError(fiber.StatusBadRequest, "Fundraising was modified concurrently, please retry")
	ErrNothingToUpdate     = fiber.NewError(fiber.StatusBadRequest, "Nothing to update")
)

type FundraisingService struct {
	DB    *gorm.DB
	Store storage.Store
	Now   func() time.Time
}

func NewFundraisingService(db *gorm.DB, store storage.Store) *FundraisingService {
	return &FundraisingService{DB: db, Store: store, Now: time.Now}
}

func (s *FundraisingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func withImages(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("fundraising_image_order ASC")
	}).Preload("Organization")
}

/* =========================================================
   CREATE
========================================================= */

type CreateFundraisingInput struct {
	Title       string
	Description string
	Goal        decimal.Decimal
	Category    string
	Images      []*storage.File
}

// normalizeGoal rounds to the stored precision before the positive check.
func normalizeGoal(g decimal.Decimal) (decimal.Decimal, error) {
	g = g.Round(2)
	if !g.IsPositive() {
		return decimal.Zero, ErrInvalidGoal
	}
	return g, nil
}

// Create: pending campaign owned by the caller's approved organization.
// Images are optional.
func (s *FundraisingService) Create(ctx context.Context, actor helperAuth.Actor, in CreateFundraisingInput) (*fundModel.FundraisingModel, error) {
	org, err := helperAuth.OwnedOrganization(s.DB.WithContext(ctx), actor.UserID, true)
	if err != nil {
		return nil, err
	}
	goal, err := normalizeGoal(in.Goal)
	if err != nil {
		return nil, err
	}
	if len(in.Images) > constants.MaxImagesPerUpload {
		return nil, ErrTooManyImages
	}
	category := strings.ToLower(strings.TrimSpace(in.Category))
	if category == "" {
		category = "other"
	}

	paths, err := storage.PutImages(ctx, s.Store, storage.BucketFundraisingImages, in.Images)
	if err != nil {
		return nil, err
	}

	f := &fundModel.FundraisingModel{
		FundraisingTitle:          strings.TrimSpace(in.Title),
		FundraisingDescription:    strings.TrimSpace(in.Description),
		FundraisingGoal:           goal,
		FundraisingCurrent:        decimal.Zero,
		FundraisingCategory:       category,
		FundraisingOrganizationID: org.OrganizationID,
		FundraisingStatus:         constants.FundraisingStatusPending,
	}
	err = database.WithRetry(ctx, s.DB, func(tx *gorm.DB) error {
		f.FundraisingID = uuid.Nil
		if err := tx.Create(f).Error; err != nil {
			return err
		}
		if len(paths) == 0 {
			return nil
		}
		images := make([]fundModel.FundraisingImageModel, len(paths))
		for i, p := range paths {
			images[i] = fundModel.FundraisingImageModel{
				FundraisingImageFundraisingID: f.FundraisingID,
				FundraisingImagePath:          p,
				FundraisingImageIsMain:        i == 0,
				FundraisingImageOrder:         i,
			}
		}
		return tx.Create(&images).Error
	})
	if err != nil {
		storage.Cleanup(context.WithoutCancel(ctx), s.Store, paths...)
		return nil, err
	}

	log.Printf("[FundraisingCreate] fundraising=%s org=%s goal=%s", f.FundraisingID, org.OrganizationID, f.FundraisingGoal)
	return s.load(ctx, f.FundraisingID)
}

/* =========================================================
   UPDATE
========================================================= */

type UpdateFundraisingInput struct {
	Title       *string
	Description *string
	Goal        *decimal.Decimal
	Category    *string

	Status *string
	Reason *string

	NewImages      []*storage.File
	RemoveImageIDs []uuid.UUID
}

func (in UpdateFundraisingInput) empty() bool {
	return in.Title == nil && in.Description == nil && in.Goal == nil && in.Category == nil &&
		in.Status == nil && len(in.NewImages) == 0 && len(in.RemoveImageIDs) == 0
}

// Update applies owner/admin edits. Whenever the campaign ends up active, the
// completion rule is re-evaluated in the same UPDATE against the stored
// current amount, so lowering the goal to or below what was raised completes
// the campaign.
func (s *FundraisingService) Update(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, in UpdateFundraisingInput) (*fundModel.FundraisingModel, error) {
	if in.empty() {
		return nil, ErrNothingToUpdate
	}
	var newGoal decimal.Decimal
	if in.Goal != nil {
		g, err := normalizeGoal(*in.Goal)
		if err != nil {
			return nil, err
		}
		newGoal = g
	}
	if len(in.NewImages) > constants.MaxImagesPerUpload {
		return nil, ErrTooManyImages
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := helperAuth.EnsureOrganizationOwner(s.DB.WithContext(ctx), actor, current.FundraisingOrganizationID); err != nil {
		return nil, err
	}

	added, err := storage.PutImages(ctx, s.Store, storage.BucketFundraisingImages, in.NewImages)
	if err != nil {
		return nil, err
	}

	var removed []string
	now := s.now()
	err = database.WithRetry(ctx, s.DB, func(tx *gorm.DB) error {
		removed = nil

		var f fundModel.FundraisingModel
		if err := tx.Where("fundraising_id = ?", id).First(&f).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFundraisingNotFound
			}
			return err
		}

		updates := map[string]interface{}{"fundraising_updated_at": now}
		if in.Title != nil {
			updates["fundraising_title"] = strings.TrimSpace(*in.Title)
		}
		if in.Description != nil {
			updates["fundraising_description"] = strings.TrimSpace(*in.Description)
		}
		if in.Category != nil {
			updates["fundraising_category"] = strings.ToLower(strings.TrimSpace(*in.Category))
		}

		goal := f.FundraisingGoal
		if in.Goal != nil {
			goal = newGoal
			updates["fundraising_goal"] = goal
		}

		target := f.FundraisingStatus
		if in.Status != nil && *in.Status != f.FundraisingStatus {
			reason := ""
			if in.Reason != nil {
				reason = *in.Reason
			}
			if err := approval.CheckFundraising(f.FundraisingStatus, *in.Status, reason, actor.IsAdmin()); err != nil {
				return err
			}
			target = *in.Status
			updates["fundraising_status"] = target
			updates["fundraising_rejection_reason"] = approval.ReasonFor(target, reason)
		}
		if target == constants.FundraisingStatusActive {
			updates["fundraising_status"] = gorm.Expr(
				"CASE WHEN fundraising_current >= ? THEN ? ELSE ? END",
				goal, constants.FundraisingStatusCompleted, constants.FundraisingStatusActive)
			updates["fundraising_completed_at"] = gorm.Expr(
				"CASE WHEN fundraising_current >= ? THEN ? ELSE fundraising_completed_at END",
				goal, now)
		}

		res := tx.Model(&fundModel.FundraisingModel{}).
			Where("fundraising_id = ? AND fundraising_status = ?", id, f.FundraisingStatus).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrFundraisingChanged
		}

		var err error
		removed, err = syncImages(tx, id, added, in.RemoveImageIDs)
		return err
	})
	if err != nil {
		storage.Cleanup(context.WithoutCancel(ctx), s.Store, added...)
		return nil, err
	}
	storage.Cleanup(context.WithoutCancel(ctx), s.Store, removed...)

	out, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if out.FundraisingStatus == constants.FundraisingStatusCompleted && current.FundraisingStatus != constants.FundraisingStatusCompleted {
		log.Printf("[FundraisingComplete] fundraising=%s goal=%s current=%s", id, out.FundraisingGoal, out.FundraisingCurrent)
	}
	return out, nil
}

// syncImages: campaigns may end up with no image at all; a remaining image is
// promoted to main when the main one is removed.
func syncImages(tx *gorm.DB, id uuid.UUID, added []string, removeIDs []uuid.UUID) ([]string, error) {
	var removed []string
	if len(removeIDs) > 0 {
		var rows []fundModel.FundraisingImageModel
		if err := tx.Where("fundraising_image_fundraising_id = ? AND fundraising_image_id IN ?", id, removeIDs).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			removed = append(removed, r.FundraisingImagePath)
			if err := tx.Delete(&fundModel.FundraisingImageModel{}, "fundraising_image_id = ?", r.FundraisingImageID).Error; err != nil {
				return nil, err
			}
		}
	}

	var existing []fundModel.FundraisingImageModel
	if err := tx.Where("fundraising_image_fundraising_id = ?", id).Order("fundraising_image_order ASC").Find(&existing).Error; err != nil {
		return nil, err
	}
	next := 0
	hasMain := false
	for _, img := range existing {
		if img.FundraisingImageOrder >= next {
			next = img.FundraisingImageOrder + 1
		}
		hasMain = hasMain || img.FundraisingImageIsMain
	}
	if !hasMain && len(existing) > 0 {
		if err := tx.Model(&fundModel.FundraisingImageModel{}).
			Where("fundraising_image_id = ?", existing[0].FundraisingImageID).
			Update("fundraising_image_is_main", true).Error; err != nil {
			return nil, err
		}
		hasMain = true
	}
	if len(added) > 0 {
		rows := make([]fundModel.FundraisingImageModel, len(added))
		for i, p := range added {
			rows[i] = fundModel.FundraisingImageModel{
				FundraisingImageFundraisingID: id,
				FundraisingImagePath:          p,
				FundraisingImageIsMain:        !hasMain && i == 0,
				FundraisingImageOrder:         next + i,
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return nil, err
		}
	}
	return removed, nil
}

/* =========================================================
   DELETE
========================================================= */

func (s *FundraisingService) Delete(ctx context.Context, actor helperAuth.Actor, id uuid.UUID) error {
	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureOrganizationOwner(s.DB.WithContext(ctx), actor, current.FundraisingOrganizationID); err != nil {
		return err
	}

	var paths []string
	err = database.WithRetry(ctx, s.DB, func(tx *gorm.DB) error {
		paths = nil
		var n int64
		if err := tx.Model(&donationModel.DonationModel{}).Where("donation_fundraising_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrHasDonations
		}
		res := tx.Where("fundraising_id = ? AND fundraising_current = 0", id).Delete(&fundModel.FundraisingModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrHasDonations
		}
		if err := tx.Model(&fundModel.FundraisingImageModel{}).
			Where("fundraising_image_fundraising_id = ?", id).
			Pluck("fundraising_image_path", &paths).Error; err != nil {
			return err
		}
		return tx.Where("fundraising_image_fundraising_id = ?", id).Delete(&fundModel.FundraisingImageModel{}).Error
	})
	if err != nil {
		return err
	}
	storage.Cleanup(context.WithoutCancel(ctx), s.Store, paths...)
	log.Printf("[FundraisingDelete] fundraising=%s by=%s", id, actor.UserID)
	return nil
}

/* =========================================================
   READ
========================================================= */

func (s *FundraisingService) load(ctx context.Context, id uuid.UUID) (*fundModel.FundraisingModel, error) {
	var f fundModel.FundraisingModel
	err := withImages(s.DB.WithContext(ctx)).Where("fundraising_id = ?", id).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFundraisingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *FundraisingService) GetVisible(ctx context.Context, actor helperAuth.Actor, authenticated bool, id uuid.UUID) (*fundModel.FundraisingModel, error) {
	f, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if approval.IsPublicFundraising(f.FundraisingStatus) {
		return f, nil
	}
	if helperAuth.CanSeeUnpublished(s.DB.WithContext(ctx), actor, authenticated, f.FundraisingOrganizationID) {
		return f, nil
	}
	return nil, ErrFundraisingNotFound
}

type ListFilter struct {
	Status         string
	Category       string
	Search         string
	OrganizationID uuid.UUID
}

func (s *FundraisingService) List(ctx context.Context, f ListFilter, order string, offset, limit int) ([]fundModel.FundraisingModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&fundModel.FundraisingModel{})
	if f.Status != "" {
		q = q.Where("fundraising_status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("fundraising_category = ?", strings.ToLower(f.Category))
	}
	if f.OrganizationID != uuid.Nil {
		q = q.Where("fundraising_organization_id = ?", f.OrganizationID)
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		q = q.Where("LOWER(fundraising_title) LIKE ?", "%"+term+"%")
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if order == "" {
		order = "fundraising_created_at DESC"
	}
	var rows []fundModel.FundraisingModel
	err := withImages(q).Order(order).Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (s *FundraisingService) ListPublic(ctx context.Context, f ListFilter, order string, offset, limit int) ([]fundModel.FundraisingModel, int64, error) {
	f.Status = constants.FundraisingStatusActive
	f.OrganizationID = uuid.Nil
	return s.List(ctx, f, order, offset, limit)
}

func (s *FundraisingService) ListMine(ctx context.Context, actor helperAuth.Actor, f ListFilter, order string, offset, limit int) ([]fundModel.FundraisingModel, int64, error) {
	org, err := helperAuth.OwnedOrganization(s.DB.WithContext(ctx), actor.UserID, false)
	if err != nil {
		return nil, 0, err
	}
	f.OrganizationID = org.OrganizationID
	return s.List(ctx, f, order, offset, limit)
}

func (s *FundraisingService) Review(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, status, reason string) (*fundModel.FundraisingModel, error) {
	if !actor.IsAdmin() {
		return nil, approval.ErrAdminOnly
	}
	return s.Update(ctx, actor, id, UpdateFundraisingInput{Status: &status, Reason: &reason})
}
