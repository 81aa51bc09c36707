package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	orgModel "afrikticket_backend/internals/features/organizations/organization/model"
)

type EventModel struct {
	EventID          uuid.UUID       `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	EventTitle       string          `gorm:"column:event_title;size:200;not null" json:"event_title"`
	EventDescription string          `gorm:"column:event_description;type:text;not null" json:"event_description"`
	EventDate        time.Time       `gorm:"column:event_date;not null;index" json:"event_date"`
	EventDuration    float64         `gorm:"column:event_duration;not null;default:2" json:"event_duration"` // hours
	EventLocation    string          `gorm:"column:event_location;size:255;not null" json:"event_location"`
	EventMaxTickets  int             `gorm:"column:event_max_tickets;not null" json:"event_max_tickets"`
	EventTicketsSold int             `gorm:"column:event_tickets_sold;not null;default:0" json:"event_tickets_sold"`
	EventPrice       decimal.Decimal `gorm:"column:event_price;type:decimal(12,2);not null" json:"event_price"`
	EventCategory    string          `gorm:"column:event_category;size:30;not null;default:'other'" json:"event_category"`

	EventOrganizationID  uuid.UUID `gorm:"column:event_organization_id;type:uuid;not null;index" json:"event_organization_id"`
	EventStatus          string    `gorm:"column:event_status;size:20;not null;default:'pending';index" json:"event_status"`
	EventRejectionReason *string   `gorm:"column:event_rejection_reason;type:text" json:"event_rejection_reason,omitempty"`

	EventCreatedAt time.Time      `gorm:"column:event_created_at;autoCreateTime" json:"event_created_at"`
	EventUpdatedAt time.Time      `gorm:"column:event_updated_at;autoUpdateTime" json:"event_updated_at"`
	EventDeletedAt gorm.DeletedAt `gorm:"column:event_deleted_at;index" json:"-"`

	Images       []EventImageModel           `gorm:"foreignKey:EventImageEventID;references:EventID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Organization *orgModel.OrganizationModel `gorm:"foreignKey:EventOrganizationID;references:OrganizationID" json:"organization,omitempty"`
}

func (EventModel) TableName() string {
	return "events"
}

func (m *EventModel) BeforeCreate(tx *gorm.DB) error {
	if m.EventID == uuid.Nil {
		m.EventID = uuid.New()
	}
	return nil
}

// EndDate = start + duration.
func (m *EventModel) EndDate() time.Time {
	return m.EventDate.Add(time.Duration(m.EventDuration * float64(time.Hour)))
}

func (m *EventModel) RemainingTickets() int {
	if left := m.EventMaxTickets - m.EventTicketsSold; left > 0 {
		return left
	}
	return 0
}

func (m *EventModel) IsOngoing(now time.Time) bool {
	return !now.Before(m.EventDate) && now.Before(m.EndDate())
}

// MainImage falls back to the first image by order.
func (m *EventModel) MainImage() *EventImageModel {
	var first *EventImageModel
	for i := range m.Images {
		img := &m.Images[i]
		if img.EventImageIsMain {
			return img
		}
		if first == nil || img.EventImageOrder < first.EventImageOrder {
			first = img
		}
	}
	return first
}
