package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	fundModel "afrikticket_backend/internals/features/fundraising/fundraisings/model"
)

type DonationModel struct {
	DonationID            uuid.UUID       `gorm:"column:donation_id;type:uuid;primaryKey" json:"donation_id"`
	DonationUserID        uuid.UUID       `gorm:"column:donation_user_id;type:uuid;not null;index" json:"donation_user_id"`
	DonationFundraisingID uuid.UUID       `gorm:"column:donation_fundraising_id;type:uuid;not null;index" json:"donation_fundraising_id"`
	DonationAmount        decimal.Decimal `gorm:"column:donation_amount;type:decimal(12,2);not null" json:"donation_amount"`
	DonationPaymentMethod string          `gorm:"column:donation_payment_method;size:50;not null" json:"donation_payment_method"`
	DonationPaymentStatus string          `gorm:"column:donation_payment_status;size:20;not null;default:'pending'" json:"donation_payment_status"`
	DonationCreatedAt     time.Time       `gorm:"column:donation_created_at;autoCreateTime" json:"donation_created_at"`
	DonationUpdatedAt     time.Time       `gorm:"column:donation_updated_at;autoUpdateTime" json:"donation_updated_at"`

	Fundraising *fundModel.FundraisingModel `gorm:"foreignKey:DonationFundraisingID;references:FundraisingID" json:"fundraising,omitempty"`
}

func (DonationModel) TableName() string {
	return "donations"
}

func (m *DonationModel) BeforeCreate(tx *gorm.DB) error {
	if m.DonationID == uuid.Nil {
		m.DonationID = uuid.New()
	}
	return nil
}
