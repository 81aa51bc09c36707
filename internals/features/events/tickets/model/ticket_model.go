package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	eventModel "afrikticket_backend/internals/features/events/events/model"
)

type TicketModel struct {
	TicketID      uuid.UUID       `gorm:"column:ticket_id;type:uuid;primaryKey" json:"ticket_id"`
	TicketEventID uuid.UUID       `gorm:"column:ticket_event_id;type:uuid;not null;index;uniqueIndex:uq_tickets_event_sequence,priority:1" json:"ticket_event_id"`
	TicketUserID  uuid.UUID       `gorm:"column:ticket_user_id;type:uuid;not null;index" json:"ticket_user_id"`
	TicketPrice   decimal.Decimal `gorm:"column:ticket_price;type:decimal(12,2);not null" json:"ticket_price"`

	TicketPurchaseDate time.Time `gorm:"column:ticket_purchase_date;not null" json:"ticket_purchase_date"`
	TicketSequence     int       `gorm:"column:ticket_sequence;not null;uniqueIndex:uq_tickets_event_sequence,priority:2" json:"ticket_sequence"`

	TicketStatus string     `gorm:"column:ticket_status;size:20;not null;default:'valid';index" json:"ticket_status"`
	TicketToken  string     `gorm:"column:ticket_token;type:text;not null;uniqueIndex" json:"ticket_token"`
	TicketUsedAt *time.Time `gorm:"column:ticket_used_at" json:"ticket_used_at,omitempty"`

	TicketCreatedAt time.Time `gorm:"column:ticket_created_at;autoCreateTime" json:"ticket_created_at"`
	TicketUpdatedAt time.Time `gorm:"column:ticket_updated_at;autoUpdateTime" json:"ticket_updated_at"`

	Event *eventModel.EventModel `gorm:"foreignKey:TicketEventID;references:EventID" json:"event,omitempty"`
}

func (TicketModel) TableName() string {
	return "tickets"
}

func (m *TicketModel) BeforeCreate(tx *gorm.DB) error {
	if m.TicketID == uuid.Nil {
		m.TicketID = uuid.New()
	}
	return nil
}
