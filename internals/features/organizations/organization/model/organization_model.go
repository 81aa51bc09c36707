package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationModel struct {
	OrganizationID     uuid.UUID `gorm:"column:organization_id;type:uuid;primaryKey" json:"organization_id"`
	OrganizationUserID uuid.UUID `gorm:"column:organization_user_id;type:uuid;not null;uniqueIndex" json:"organization_user_id"`

	OrganizationName        string  `gorm:"column:organization_name;size:150;not null" json:"organization_name"`
	OrganizationEmail       string  `gorm:"column:organization_email;size:255;not null" json:"organization_email"`
	OrganizationPhone       string  `gorm:"column:organization_phone;size:30;not null" json:"organization_phone"`
	OrganizationDescription *string `gorm:"column:organization_description;type:text" json:"organization_description,omitempty"`

	// review state & verification documents, exposed to owner/admin only through the DTO
	OrganizationStatus           string  `gorm:"column:organization_status;size:20;not null;default:'pending';index" json:"-"`
	OrganizationRejectionReason  *string `gorm:"column:organization_rejection_reason;type:text" json:"-"`
	OrganizationIcdDocument      *string `gorm:"column:organization_icd_document" json:"-"`
	OrganizationCommerceRegister *string `gorm:"column:organization_commerce_register" json:"-"`

	OrganizationCreatedAt time.Time `gorm:"column:organization_created_at;autoCreateTime" json:"organization_created_at"`
	OrganizationUpdatedAt time.Time `gorm:"column:organization_updated_at;autoUpdateTime" json:"organization_updated_at"`
}

func (OrganizationModel) TableName() string {
	return "organizations"
}

func (m *OrganizationModel) BeforeCreate(tx *gorm.DB) error {
	if m.OrganizationID == uuid.Nil {
		m.OrganizationID = uuid.New()
	}
	return nil
}
