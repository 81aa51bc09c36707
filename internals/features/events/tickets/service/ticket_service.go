package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"afrikticket_backend/internals/constants"
	database "afrikticket_backend/internals/databases"
	eventModel "afrikticket_backend/internals/features/events/events/model"
	"afrikticket_backend/internals/features/events/tickets/credential"
	ticketModel "afrikticket_backend/internals/features/events/tickets/model"
	helperAuth "afrikticket_backend/internals/helpers/auth"
)

var (
	ErrEventNotFound    = fiber.NewError(fiber.StatusNotFound, "Event not found")
	ErrEventNotOnSale   = fiber.NewError(fiber.StatusBadRequest, "Event is not open for ticket sales")
	ErrCapacityExceeded = fiber.NewError(fiber.StatusBadRequest, "Not enough tickets available")
	ErrInvalidQuantity  = fiber.NewError(fiber.StatusBadRequest, "Quantity must be between 1 and 10")
	ErrTicketNotFound   = fiber.NewError(fiber.StatusNotFound, "Ticket not found")
	ErrAlreadyRedeemed  = fiber.NewError(fiber.StatusBadRequest, "Ticket has already been used or is no longer valid")
)

type TicketService struct {
	DB     *gorm.DB
	Signer *credential.Signer
	Now    func() time.Time
}

func NewTicketService(db *gorm.DB, signer *credential.Signer) *TicketService {
	return &TicketService{DB: db, Signer: signer, Now: time.Now}
}

func (s *TicketService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

/* =========================================================
   ISSUE
   The event row's tickets_sold counter is bumped with a single
   conditional UPDATE; the guard lives in the WHERE clause so two
   buyers can never both pass it for the last seat.
========================================================= */

func (s *TicketService) IssueTickets(ctx context.Context, eventID, userID uuid.UUID, quantity int) ([]ticketModel.TicketModel, error) {
	if quantity < 1 || quantity > constants.MaxTicketsPerPurchase {
		return nil, ErrInvalidQuantity
	}
	now := s.now()

	var issued []ticketModel.TicketModel
	err := database.WithRetry(ctx, s.DB, func(tx *gorm.DB) error {
		issued = nil

		var ev eventModel.EventModel
		if err := tx.Where("event_id = ?", eventID).First(&ev).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		if ev.EventStatus != constants.EventStatusActive || !ev.EventDate.After(now) {
			return ErrEventNotOnSale
		}
		if ev.EventTicketsSold+quantity > ev.EventMaxTickets {
			return ErrCapacityExceeded
		}

		res := tx.Model(&eventModel.EventModel{}).
			Where("event_id = ? AND event_status = ?", eventID, constants.EventStatusActive).
			Where("event_tickets_sold + ? <= event_max_tickets", quantity).
			Updates(map[string]interface{}{
				"event_tickets_sold": gorm.Expr("event_tickets_sold + ?", quantity),
				"event_updated_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// lost the race: either sold out or pulled from sale meanwhile
			var status []string
			if err := tx.Model(&eventModel.EventModel{}).Where("event_id = ?", eventID).Pluck("event_status", &status).Error; err != nil {
				return err
			}
			if len(status) == 0 || status[0] != constants.EventStatusActive {
				return ErrEventNotOnSale
			}
			return ErrCapacityExceeded
		}

		var sold []int
		if err := tx.Model(&eventModel.EventModel{}).Where("event_id = ?", eventID).Pluck("event_tickets_sold", &sold).Error; err != nil {
			return err
		}
		if len(sold) == 0 {
			return ErrEventNotFound
		}
		firstSeq := sold[0] - quantity + 1

		tickets := make([]ticketModel.TicketModel, quantity)
		for i := range tickets {
			id := uuid.New()
			seq := firstSeq + i
			token, err := s.Signer.Sign(id, userID, eventID, now, seq)
			if err != nil {
				return err
			}
			tickets[i] = ticketModel.TicketModel{
				TicketID:           id,
				TicketEventID:      eventID,
				TicketUserID:       userID,
				TicketPrice:        ev.EventPrice,
				TicketPurchaseDate: now,
				TicketSequence:     seq,
				TicketStatus:       constants.TicketStatusValid,
				TicketToken:        token,
			}
		}
		if err := tx.Create(&tickets).Error; err != nil {
			return err
		}
		issued = tickets
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[TicketIssue] event=%s user=%s qty=%d seq=%d..%d", eventID, userID, quantity,
		issued[0].TicketSequence, issued[len(issued)-1].TicketSequence)
	return issued, nil
}

/* =========================================================
   REDEEM
========================================================= */

// RedeemTicket flips valid → used. Only the organization owning the event
// (or an admin) may redeem.
func (s *TicketService) RedeemTicket(ctx context.Context, actor helperAuth.Actor, token string) (*ticketModel.TicketModel, error) {
	claims, err := s.Signer.Verify(token)
	if err != nil {
		return nil, err
	}
	now := s.now()

	var out ticketModel.TicketModel
	err = database.WithRetry(ctx, s.DB, func(tx *gorm.DB) error {
		var t ticketModel.TicketModel
		if err := tx.
			Preload("Event", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
			Where("ticket_token = ?", token).
			First(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}
			return err
		}
		if t.TicketID.String() != claims.ID {
			return credential.ErrInvalidCredential
		}
		if t.Event == nil {
			return ErrEventNotFound
		}
		if err := helperAuth.EnsureOrganizationOwner(tx, actor, t.Event.EventOrganizationID); err != nil {
			return err
		}
		if t.TicketStatus != constants.TicketStatusValid {
			return ErrAlreadyRedeemed
		}

		res := tx.Model(&ticketModel.TicketModel{}).
			Where("ticket_id = ? AND ticket_status = ?", t.TicketID, constants.TicketStatusValid).
			Updates(map[string]interface{}{
				"ticket_status":     constants.TicketStatusUsed,
				"ticket_used_at":    now,
				"ticket_updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyRedeemed
		}

		t.TicketStatus = constants.TicketStatusUsed
		t.TicketUsedAt = &now
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[TicketRedeem] ticket=%s event=%s by=%s", out.TicketID, out.TicketEventID, actor.UserID)
	return &out, nil
}

// VerifyToken is the stateless check: signature and claims only.
func (s *TicketService) VerifyToken(token string) (*credential.Claims, error) {
	return s.Signer.Verify(token)
}

/* =========================================================
   READ
========================================================= */

func (s *TicketService) ListUserTickets(ctx context.Context, userID uuid.UUID, offset, limit int) ([]ticketModel.TicketModel, int64, error) {
	q := s.DB.WithContext(ctx).
		Model(&ticketModel.TicketModel{}).
		Where("ticket_user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []ticketModel.TicketModel
	err := q.
		Preload("Event", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Event.Images").
		Order("ticket_purchase_date DESC, ticket_sequence ASC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, total, err
}
