package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"afrikticket_backend/internals/constants"
	database "afrikticket_backend/internals/databases"
	donationModel "afrikticket_backend/internals/features/fundraising/donations/model"
	fundModel "afrikticket_backend/internals/features/fundraising/fundraisings/model"
)

var (
	ErrFundraisingNotFound = fiber.NewError(fiber.StatusNotFound, "Fundraising not found")
	ErrCampaignNotActive   = fiber.NewError(fiber.StatusBadRequest, "This fundraising is not accepting donations")
	ErrInvalidAmount       = fiber.NewError(fiber.StatusBadRequest, "Donation amount must be greater than zero")
	ErrPaymentMethod       = fiber.NewError(fiber.StatusBadRequest, "Payment method is required")
)

type DonationService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewDonationService(db *gorm.DB) *DonationService {
	return &DonationService{DB: db, Now: time.Now}
}

func (s *DonationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// DonateResult carries the campaign snapshot right after the donation landed.
type DonateResult struct {
	Donation    donationModel.DonationModel
	Fundraising fundModel.FundraisingModel
	Completed   bool // this donation reached the goal
}

// Donate applies amount to the campaign. The increment and the completion
// check happen in one UPDATE guarded by status = active, so concurrent donors
// never lose an increment and only one of them can complete the campaign.
func (s *DonationService) Donate(ctx context.Context, fundraisingID, userID uuid.UUID, amount decimal.Decimal, paymentMethod string) (*DonateResult, error) {
	// stored with two decimals, so the positive check applies to the stored value
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		return nil, ErrPaymentMethod
	}
	now := s.now()

	var out DonateResult
	err := database.WithRetry(ctx, s.DB, func(tx *gorm.DB) error {
		out = DonateResult{}

		res := tx.Model(&fundModel.FundraisingModel{}).
			Where("fundraising_id = ? AND fundraising_status = ?", fundraisingID, constants.FundraisingStatusActive).
			Updates(map[string]interface{}{
				"fundraising_current": gorm.Expr("fundraising_current + ?", amount),
				"fundraising_status": gorm.Expr(
					"CASE WHEN fundraising_current + ? >= fundraising_goal THEN ? ELSE fundraising_status END",
					amount, constants.FundraisingStatusCompleted),
				"fundraising_completed_at": gorm.Expr(
					"CASE WHEN fundraising_current + ? >= fundraising_goal THEN ? ELSE fundraising_completed_at END",
					amount, now),
				"fundraising_updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&fundModel.FundraisingModel{}).Where("fundraising_id = ?", fundraisingID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrFundraisingNotFound
			}
			return ErrCampaignNotActive
		}

		d := donationModel.DonationModel{
			DonationUserID:        userID,
			DonationFundraisingID: fundraisingID,
			DonationAmount:        amount,
			DonationPaymentMethod: paymentMethod,
			DonationPaymentStatus: constants.PaymentStatusPending,
		}
		if err := tx.Create(&d).Error; err != nil {
			return err
		}

		var f fundModel.FundraisingModel
		if err := tx.Where("fundraising_id = ?", fundraisingID).First(&f).Error; err != nil {
			return err
		}
		out.Donation = d
		out.Fundraising = f
		out.Completed = f.FundraisingStatus == constants.FundraisingStatusCompleted
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Donation] fundraising=%s user=%s amount=%s current=%s/%s completed=%v",
		fundraisingID, userID, amount, out.Fundraising.FundraisingCurrent, out.Fundraising.FundraisingGoal, out.Completed)
	return &out, nil
}

func (s *DonationService) ListUserDonations(ctx context.Context, userID uuid.UUID, offset, limit int) ([]donationModel.DonationModel, int64, error) {
	q := s.DB.WithContext(ctx).
		Model(&donationModel.DonationModel{}).
		Where("donation_user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []donationModel.DonationModel
	err := q.
		Preload("Fundraising", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("donation_created_at DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

// DonatedCampaign is one campaign the user gave to, with their own total.
type DonatedCampaign struct {
	Fundraising   fundModel.FundraisingModel
	TotalDonated  decimal.Decimal
	DonationCount int64
	LastDonatedAt time.Time
}

func (s *DonationService) ListUserFundraisings(ctx context.Context, userID uuid.UUID) ([]DonatedCampaign, error) {
	var rows []donationModel.DonationModel
	if err := s.DB.WithContext(ctx).
		Where("donation_user_id = ?", userID).
		Order("donation_created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	byID := map[uuid.UUID]*DonatedCampaign{}
	var order []uuid.UUID
	for _, d := range rows {
		agg, ok := byID[d.DonationFundraisingID]
		if !ok {
			agg = &DonatedCampaign{TotalDonated: decimal.Zero, LastDonatedAt: d.DonationCreatedAt}
			byID[d.DonationFundraisingID] = agg
			order = append(order, d.DonationFundraisingID)
		}
		agg.TotalDonated = agg.TotalDonated.Add(d.DonationAmount)
		agg.DonationCount++
	}
	if len(order) == 0 {
		return []DonatedCampaign{}, nil
	}

	var funds []fundModel.FundraisingModel
	if err := s.DB.WithContext(ctx).Unscoped().
		Preload("Images").
		Where("fundraising_id IN ?", order).
		Find(&funds).Error; err != nil {
		return nil, err
	}
	for _, f := range funds {
		byID[f.FundraisingID].Fundraising = f
	}

	out := make([]DonatedCampaign, 0, len(order))
	for _, id := range order {
		if byID[id].Fundraising.FundraisingID == uuid.Nil {
			continue
		}
		out = append(out, *byID[id])
	}
	return out, nil
}

// SumDonations is the ledger total; it must always equal fundraising.current.
func (s *DonationService) SumDonations(ctx context.Context, fundraisingID uuid.UUID) (decimal.Decimal, error) {
	var rows []donationModel.DonationModel
	if err := s.DB.WithContext(ctx).
		Select("donation_amount").
		Where("donation_fundraising_id = ?", fundraisingID).
		Find(&rows).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, d := range rows {
		total = total.Add(d.DonationAmount)
	}
	return total, nil
}
