package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	eventDTO "afrikticket_backend/internals/features/events/events/dto"
	"afrikticket_backend/internals/features/events/tickets/credential"
	ticketModel "afrikticket_backend/internals/features/events/tickets/model"
	"afrikticket_backend/internals/helpers/dbtime"
)

type PurchaseRequest struct {
	Quantity int `json:"quantity" validate:"omitempty,min=1,max=10"`
}

type ValidateRequest struct {
	Token string `json:"token" validate:"required"`
}

type TicketResponse struct {
	TicketID           uuid.UUID              `json:"ticket_id"`
	TicketEventID      uuid.UUID              `json:"ticket_event_id"`
	TicketUserID       uuid.UUID              `json:"ticket_user_id"`
	TicketPrice        decimal.Decimal        `json:"ticket_price"`
	TicketPurchaseDate time.Time              `json:"ticket_purchase_date"`
	TicketSequence     int                    `json:"ticket_sequence"`
	TicketStatus       string                 `json:"ticket_status"`
	TicketToken        string                 `json:"ticket_token"`
	TicketUsedAt       *time.Time             `json:"ticket_used_at,omitempty"`
	Event              *eventDTO.EventSummary `json:"event,omitempty"`
}

func ToTicketResponse(m *ticketModel.TicketModel, loc *time.Location) TicketResponse {
	out := TicketResponse{
		TicketID:           m.TicketID,
		TicketEventID:      m.TicketEventID,
		TicketUserID:       m.TicketUserID,
		TicketPrice:        m.TicketPrice,
		TicketPurchaseDate: dbtime.In(m.TicketPurchaseDate, loc),
		TicketSequence:     m.TicketSequence,
		TicketStatus:       m.TicketStatus,
		TicketToken:        m.TicketToken,
		TicketUsedAt:       m.TicketUsedAt,
		Event:              eventDTO.ToEventSummary(m.Event, loc),
	}
	return out
}

func ToTicketResponses(rows []ticketModel.TicketModel, loc *time.Location) []TicketResponse {
	out := make([]TicketResponse, 0, len(rows))
	for i := range rows {
		out = append(out, ToTicketResponse(&rows[i], loc))
	}
	return out
}

// VerifyResponse is the stateless check result; nothing here came from the store.
type VerifyResponse struct {
	Valid       bool      `json:"valid"`
	TicketID    string    `json:"ticket_id"`
	UserID      string    `json:"user_id"`
	EventID     string    `json:"event_id"`
	PurchasedAt time.Time `json:"purchased_at"`
	Sequence    int       `json:"seq"`
}

func ToVerifyResponse(c *credential.Claims) VerifyResponse {
	return VerifyResponse{
		Valid:       true,
		TicketID:    c.ID,
		UserID:      c.Subject,
		EventID:     c.EventID,
		PurchasedAt: time.Unix(c.PurchasedAt, 0).UTC(),
		Sequence:    c.Seq,
	}
}
