package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	orgModel "afrikticket_backend/internals/features/organizations/organization/model"
)

type FundraisingModel struct {
	FundraisingID          uuid.UUID       `gorm:"column:fundraising_id;type:uuid;primaryKey" json:"fundraising_id"`
	FundraisingTitle       string          `gorm:"column:fundraising_title;size:200;not null" json:"fundraising_title"`
	FundraisingDescription string          `gorm:"column:fundraising_description;type:text;not null" json:"fundraising_description"`
	FundraisingGoal        decimal.Decimal `gorm:"column:fundraising_goal;type:decimal(12,2);not null" json:"fundraising_goal"`
	FundraisingCurrent     decimal.Decimal `gorm:"column:fundraising_current;type:decimal(12,2);not null;default:0" json:"fundraising_current"`
	FundraisingCategory    string          `gorm:"column:fundraising_category;size:50;not null;default:'other'" json:"fundraising_category"`

	FundraisingOrganizationID  uuid.UUID  `gorm:"column:fundraising_organization_id;type:uuid;not null;index" json:"fundraising_organization_id"`
	FundraisingStatus          string     `gorm:"column:fundraising_status;size:20;not null;default:'pending';index" json:"fundraising_status"`
	FundraisingRejectionReason *string    `gorm:"column:fundraising_rejection_reason;type:text" json:"fundraising_rejection_reason,omitempty"`
	FundraisingCompletedAt     *time.Time `gorm:"column:fundraising_completed_at" json:"fundraising_completed_at,omitempty"`

	FundraisingCreatedAt time.Time      `gorm:"column:fundraising_created_at;autoCreateTime" json:"fundraising_created_at"`
	FundraisingUpdatedAt time.Time      `gorm:"column:fundraising_updated_at;autoUpdateTime" json:"fundraising_updated_at"`
	FundraisingDeletedAt gorm.DeletedAt `gorm:"column:fundraising_deleted_at;index" json:"-"`

	Images       []FundraisingImageModel     `gorm:"foreignKey:FundraisingImageFundraisingID;references:FundraisingID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Organization *orgModel.OrganizationModel `gorm:"foreignKey:FundraisingOrganizationID;references:OrganizationID" json:"organization,omitempty"`
}

func (FundraisingModel) TableName() string {
	return "fundraisings"
}

func (m *FundraisingModel) BeforeCreate(tx *gorm.DB) error {
	if m.FundraisingID == uuid.Nil {
		m.FundraisingID = uuid.New()
	}
	return nil
}

// Progress in percent, capped at 100.
func (m *FundraisingModel) Progress() float64 {
	if !m.FundraisingGoal.IsPositive() {
		return 0
	}
	p, _ := m.FundraisingCurrent.Div(m.FundraisingGoal).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	if p > 100 {
		return 100
	}
	return p
}

type FundraisingImageModel struct {
	FundraisingImageID            uuid.UUID `gorm:"column:fundraising_image_id;type:uuid;primaryKey" json:"fundraising_image_id"`
	FundraisingImageFundraisingID uuid.UUID `gorm:"column:fundraising_image_fundraising_id;type:uuid;not null;index" json:"fundraising_image_fundraising_id"`
	FundraisingImagePath          string    `gorm:"column:fundraising_image_path;not null" json:"fundraising_image_path"`
	FundraisingImageIsMain        bool      `gorm:"column:fundraising_image_is_main;not null;default:false" json:"fundraising_image_is_main"`
	FundraisingImageOrder         int       `gorm:"column:fundraising_image_order;not null;default:0" json:"fundraising_image_order"`
	FundraisingImageCreatedAt     time.Time `gorm:"column:fundraising_image_created_at;autoCreateTime" json:"fundraising_image_created_at"`
}

func (FundraisingImageModel) TableName() string {
	return "fundraising_images"
}

func (m *FundraisingImageModel) BeforeCreate(tx *gorm.DB) error {
	if m.FundraisingImageID == uuid.Nil {
		m.FundraisingImageID = uuid.New()
	}
	return nil
}
