package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	donationModel "afrikticket_backend/internals/features/fundraising/donations/model"
	donationService "afrikticket_backend/internals/features/fundraising/donations/service"
	fundModel "afrikticket_backend/internals/features/fundraising/fundraisings/model"
)

// DonateRequest: amount travels as a decimal string or number; the
// service rejects non-positive values.
type DonateRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" validate:"required,max=50"`
}

func (r *DonateRequest) Normalize() {
	r.PaymentMethod = strings.ToLower(strings.TrimSpace(r.PaymentMethod))
}

type FundraisingSummary struct {
	FundraisingID       uuid.UUID       `json:"fundraising_id"`
	FundraisingTitle    string          `json:"fundraising_title"`
	FundraisingGoal     decimal.Decimal `json:"fundraising_goal"`
	FundraisingCurrent  decimal.Decimal `json:"fundraising_current"`
	FundraisingProgress float64         `json:"fundraising_progress"`
	FundraisingStatus   string          `json:"fundraising_status"`
	FundraisingImage    *string         `json:"fundraising_main_image,omitempty"`
}

func ToFundraisingSummary(m *fundModel.FundraisingModel) *FundraisingSummary {
	if m == nil || m.FundraisingID == uuid.Nil {
		return nil
	}
	s := &FundraisingSummary{
		FundraisingID:       m.FundraisingID,
		FundraisingTitle:    m.FundraisingTitle,
		FundraisingGoal:     m.FundraisingGoal,
		FundraisingCurrent:  m.FundraisingCurrent,
		FundraisingProgress: m.Progress(),
		FundraisingStatus:   m.FundraisingStatus,
	}
	for _, img := range m.Images {
		if img.FundraisingImageIsMain {
			p := img.FundraisingImagePath
			s.FundraisingImage = &p
			break
		}
	}
	return s
}

type DonationResponse struct {
	DonationID            uuid.UUID           `json:"donation_id"`
	DonationFundraisingID uuid.UUID           `json:"donation_fundraising_id"`
	DonationAmount        decimal.Decimal     `json:"donation_amount"`
	DonationPaymentMethod string              `json:"donation_payment_method"`
	DonationPaymentStatus string              `json:"donation_payment_status"`
	DonationCreatedAt     time.Time           `json:"donation_created_at"`
	Fundraising           *FundraisingSummary `json:"fundraising,omitempty"`
}

func ToDonationResponse(m *donationModel.DonationModel) DonationResponse {
	return DonationResponse{
		DonationID:            m.DonationID,
		DonationFundraisingID: m.DonationFundraisingID,
		DonationAmount:        m.DonationAmount,
		DonationPaymentMethod: m.DonationPaymentMethod,
		DonationPaymentStatus: m.DonationPaymentStatus,
		DonationCreatedAt:     m.DonationCreatedAt,
		Fundraising:           ToFundraisingSummary(m.Fundraising),
	}
}

func ToDonationResponses(rows []donationModel.DonationModel) []DonationResponse {
	out := make([]DonationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, ToDonationResponse(&rows[i]))
	}
	return out
}

// DonateResponse is returned right after a donation lands.
type DonateResponse struct {
	Donation           DonationResponse    `json:"donation"`
	Fundraising        *FundraisingSummary `json:"fundraising"`
	FundraisingReached bool                `json:"goal_reached"`
}

func ToDonateResponse(r *donationService.DonateResult) DonateResponse {
	return DonateResponse{
		Donation:           ToDonationResponse(&r.Donation),
		Fundraising:        ToFundraisingSummary(&r.Fundraising),
		FundraisingReached: r.Completed,
	}
}

type DonatedCampaignResponse struct {
	Fundraising   *FundraisingSummary `json:"fundraising"`
	TotalDonated  decimal.Decimal     `json:"total_donated"`
	DonationCount int64               `json:"donation_count"`
	LastDonatedAt time.Time           `json:"last_donated_at"`
}

func ToDonatedCampaignResponses(rows []donationService.DonatedCampaign) []DonatedCampaignResponse {
	out := make([]DonatedCampaignResponse, 0, len(rows))
	for i := range rows {
		out = append(out, DonatedCampaignResponse{
			Fundraising:   ToFundraisingSummary(&rows[i].Fundraising),
			TotalDonated:  rows[i].TotalDonated,
			DonationCount: rows[i].DonationCount,
			LastDonatedAt: rows[i].LastDonatedAt,
		})
	}
	return out
}
