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
	eventModel "afrikticket_backend/internals/features/events/events/model"
	ticketModel "afrikticket_backend/internals/features/events/tickets/model"
	helperAuth "afrikticket_backend/internals/helpers/auth"
	"afrikticket_backend/internals/helpers/storage"
)

var (
	ErrEventNotFound     = fiber.NewError(fiber.StatusNotFound, "Event not found")
	ErrImagesRequired    = fiber.NewError(fiber.StatusBadRequest, "At least one image is required")
	ErrTooManyImages     = fiber.NewError(fiber.StatusBadRequest, "Too many images")
	ErrDateInPast        = fiber.NewError(fiber.StatusBadRequest, "Event date must be in the future")
	ErrInvalidCapacity   = fiber.NewError(fiber.StatusBadRequest, "max_tickets must be greater than zero")
	ErrCapacityBelowSold = fiber.NewError(fiber.StatusBadRequest, "max_tickets cannot be lower than the number of tickets already sold")
	ErrInvalidPrice      = fiber.NewError(fiber.StatusBadRequest, "Price cannot be negative")
	ErrInvalidDuration   = fiber.NewError(fiber.StatusBadRequest, "Duration must be greater than zero")
	ErrInvalidCategory   = fiber.NewError(fiber.StatusBadRequest, "Unknown event category")
	ErrEventHasTickets   = fiber.NewError(fiber.StatusBadRequest, "Event cannot be deleted because tickets were sold")
	ErrEventChanged      = fiber.NewError(fiber.StatusBadRequest, "Event was modified concurrently, please retry")
	ErrNothingToUpdate   = fiber.NewError(fiber.StatusBadRequest, "Nothing to update")
)

type EventService struct {
	DB    *gorm.DB
	Store storage.Store
	Now   func() time.Time
}

func NewEventService(db *gorm.DB, store storage.Store) *EventService {
	return &EventService{DB: db, Store: store, Now: time.Now}
}

func (s *EventService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func withImages(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("event_image_order ASC")
	}).Preload("Organization")
}

/* =========================================================
   CREATE
========================================================= */

type CreateEventInput struct {
	Title       string
	Description string
	Date        time.Time
	Duration    float64
	Location    string
	MaxTickets  int
	Price       decimal.Decimal
	Category    string
	Images      []*storage.File
}

func (s *EventService) validateFields(date *time.Time, duration *float64, maxTickets *int, price *decimal.Decimal, category *string) error {
	if date != nil && !date.After(s.now()) {
		return ErrDateInPast
	}
	if duration != nil && *duration <= 0 {
		return ErrInvalidDuration
	}
	if maxTickets != nil && *maxTickets <= 0 {
		return ErrInvalidCapacity
	}
	if price != nil && price.IsNegative() {
		return ErrInvalidPrice
	}
	if category != nil && !constants.IsEventCategory(*category) {
		return ErrInvalidCategory
	}
	return nil
}

// Create stores the images first, then inserts the pending event and its
// image rows in one transaction. The first image is the main one.
func (s *EventService) Create(ctx context.Context, actor helperAuth.Actor, in CreateEventInput) (*eventModel.EventModel, error) {
	org, err := helperAuth.OwnedOrganization(s.DB.WithContext(ctx), actor.UserID, true)
	if err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	if in.Category == "" {
		in.Category = "other"
	}
	if in.Duration == 0 {
		in.Duration = constants.DefaultEventDuration
	}
	if err := s.validateFields(&in.Date, &in.Duration, &in.MaxTickets, &in.Price, &in.Category); err != nil {
		return nil, err
	}
	if len(in.Images) == 0 {
		return nil, ErrImagesRequired
	}
	if len(in.Images) > constants.MaxImagesPerUpload {
		return nil, ErrTooManyImages
	}

	paths, err := storage.PutImages(ctx, s.Store, storage.BucketEventImages, in.Images)
	if err != nil {
		return nil, err
	}

	ev := &eventModel.EventModel{
		EventTitle:          in.Title,
		EventDescription:    strings.TrimSpace(in.Description),
		EventDate:           in.Date.UTC(),
		EventDuration:       in.Duration,
		EventLocation:       in.Location,
		EventMaxTickets:     in.MaxTickets,
		EventPrice:          in.Price.Round(2),
		EventCategory:       in.Category,
		EventOrganizationID: org.OrganizationID,
		EventStatus:         constants.EventStatusPending,
	}
	err = database.WithRetry(ctx, s.DB, func(tx *gorm.DB) error {
		ev.EventID = uuid.Nil
		if err := tx.Create(ev).Error; err != nil {
			return err
		}
		images := make([]eventModel.EventImageModel, len(paths))
		for i, p := range paths {
			images[i] = eventModel.EventImageModel{
				EventImageEventID: ev.EventID,
				EventImagePath:    p,
				EventImageIsMain:  i == 0,
				EventImageOrder:   i,
			}
		}
		return tx.Create(&images).Error
	})
	if err != nil {
		storage.Cleanup(context.WithoutCancel(ctx), s.Store, paths...)
		return nil, err
	}

	log.Printf("[EventCreate] event=%s org=%s images=%d", ev.EventID, org.OrganizationID, len(paths))
	return s.load(ctx, s.DB, ev.EventID)
}

/* =========================================================
   UPDATE
========================================================= */

type UpdateEventInput struct {
	Title       *string
	Description *string
	Date        *time.Time
	Duration    *float64
	Location    *string
	MaxTickets  *int
	Price       *decimal.Decimal
	Category    *string

	Status *string
	Reason *string

	NewImages      []*storage.File
	RemoveImageIDs []uuid.UUID
}

func (in UpdateEventInput) empty() bool {
	return in.Title == nil && in.Description == nil && in.Date == nil && in.Duration == nil &&
		in.Location == nil && in.MaxTickets == nil && in.Price == nil && in.Category == nil &&
		in.Status == nil && len(in.NewImages) == 0 && len(in.RemoveImageIDs) == 0
}

// Update is shared by the owning organization and admins. Status moves go
// through the approval machine; only admins may activate. A new max_tickets
// is applied with a guard on tickets_sold so a concurrent purchase can never
// leave the event oversold.
func (s *EventService) Update(ctx context.Context, actor helperAuth.Actor, eventID uuid.UUID, in UpdateEventInput) (*eventModel.EventModel, error) {
	if in.empty() {
		return nil, ErrNothingToUpdate
	}
	if in.Category != nil {
		c := strings.ToLower(strings.TrimSpace(*in.Category))
		in.Category = &c
	}
	if err := s.validateFields(in.Date, in.Duration, in.MaxTickets, in.Price, in.Category); err != nil {
		return nil, err
	}
	if len(in.NewImages) > constants.MaxImagesPerUpload {
		return nil, ErrTooManyImages
	}

	current, err := s.load(ctx, s.DB, eventID)
	if err != nil {
		return nil, err
	}
	if err := helperAuth.EnsureOrganizationOwner(s.DB.WithContext(ctx), actor, current.EventOrganizationID); err != nil {
		return nil, err
	}

	added, err := storage.PutImages(ctx, s.Store, storage.BucketEventImages, in.NewImages)
	if err != nil {
		return nil, err
	}

	var removed []string
	now := s.now()
	err = database.WithRetry(ctx, s.DB, func(tx *gorm.DB) error {
		removed = nil

		var ev eventModel.EventModel
		if err := tx.Where("event_id = ?", eventID).First(&ev).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		updates := map[string]interface{}{"event_updated_at": now}
		if in.Title != nil {
			updates["event_title"] = strings.TrimSpace(*in.Title)
		}
		if in.Description != nil {
			updates["event_description"] = strings.TrimSpace(*in.Description)
		}
		if in.Date != nil {
			updates["event_date"] = in.Date.UTC()
		}
		if in.Duration != nil {
			updates["event_duration"] = *in.Duration
		}
		if in.Location != nil {
			updates["event_location"] = strings.TrimSpace(*in.Location)
		}
		if in.Price != nil {
			updates["event_price"] = in.Price.Round(2)
		}
		if in.Category != nil {
			updates["event_category"] = *in.Category
		}
		if in.MaxTickets != nil {
			updates["event_max_tickets"] = *in.MaxTickets
		}
		if in.Status != nil && *in.Status != ev.EventStatus {
			reason := ""
			if in.Reason != nil {
				reason = *in.Reason
			}
			if err := approval.CheckEvent(ev.EventStatus, *in.Status, reason, actor.IsAdmin()); err != nil {
				return err
			}
			updates["event_status"] = *in.Status
			updates["event_rejection_reason"] = approval.ReasonFor(*in.Status, reason)
		}

		q := tx.Model(&eventModel.EventModel{}).
			Where("event_id = ? AND event_status = ?", eventID, ev.EventStatus)
		if in.MaxTickets != nil {
			q = q.Where("event_tickets_sold <= ?", *in.MaxTickets)
		}
		res := q.Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var sold []int
			if err := tx.Model(&eventModel.EventModel{}).Where("event_id = ?", eventID).Pluck("event_tickets_sold", &sold).Error; err != nil {
				return err
			}
			if in.MaxTickets != nil && len(sold) > 0 && sold[0] > *in.MaxTickets {
				return ErrCapacityBelowSold
			}
			return ErrEventChanged
		}

		var err error
		removed, err = s.syncImages(tx, eventID, added, in.RemoveImageIDs)
		return err
	})
	if err != nil {
		storage.Cleanup(context.WithoutCancel(ctx), s.Store, added...)
		return nil, err
	}
	storage.Cleanup(context.WithoutCancel(ctx), s.Store, removed...)

	log.Printf("[EventUpdate] event=%s by=%s", eventID, actor.UserID)
	return s.load(ctx, s.DB, eventID)
}

// syncImages removes and appends image rows, keeps at least one image and
// promotes the lowest ordered image when the main one is gone. Returns the
// storage paths of removed rows.
func (s *EventService) syncImages(tx *gorm.DB, eventID uuid.UUID, added []string, removeIDs []uuid.UUID) ([]string, error) {
	var removed []string
	if len(removeIDs) > 0 {
		var rows []eventModel.EventImageModel
		if err := tx.Where("event_image_event_id = ? AND event_image_id IN ?", eventID, removeIDs).Find(&rows).Error; err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			ids := make([]uuid.UUID, len(rows))
			for i, r := range rows {
				ids[i] = r.EventImageID
				removed = append(removed, r.EventImagePath)
			}
			if err := tx.Where("event_image_id IN ?", ids).Delete(&eventModel.EventImageModel{}).Error; err != nil {
				return nil, err
			}
		}
	}

	var existing []eventModel.EventImageModel
	if err := tx.Where("event_image_event_id = ?", eventID).Order("event_image_order ASC").Find(&existing).Error; err != nil {
		return nil, err
	}
	next := 0
	hasMain := false
	for _, img := range existing {
		if img.EventImageOrder >= next {
			next = img.EventImageOrder + 1
		}
		hasMain = hasMain || img.EventImageIsMain
	}
	if len(added) > 0 {
		rows := make([]eventModel.EventImageModel, len(added))
		for i, p := range added {
			rows[i] = eventModel.EventImageModel{
				EventImageEventID: eventID,
				EventImagePath:    p,
				EventImageIsMain:  !hasMain && len(existing) == 0 && i == 0,
				EventImageOrder:   next + i,
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return nil, err
		}
		if len(existing) == 0 {
			hasMain = true
		}
	}
	if len(existing)+len(added) == 0 {
		return nil, ErrImagesRequired
	}
	if !hasMain && len(existing) > 0 {
		if err := tx.Model(&eventModel.EventImageModel{}).
			Where("event_image_id = ?", existing[0].EventImageID).
			Update("event_image_is_main", true).Error; err != nil {
			return nil, err
		}
	}
	return removed, nil
}

/* =========================================================
   DELETE
========================================================= */

// Delete soft-deletes an event that never sold a ticket. The guard sits in
// the DELETE itself so a purchase racing the delete cannot slip through.
func (s *EventService) Delete(ctx context.Context, actor helperAuth.Actor, eventID uuid.UUID) error {
	current, err := s.load(ctx, s.DB, eventID)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureOrganizationOwner(s.DB.WithContext(ctx), actor, current.EventOrganizationID); err != nil {
		return err
	}

	var paths []string
	err = database.WithRetry(ctx, s.DB, func(tx *gorm.DB) error {
		paths = nil
		var n int64
		if err := tx.Model(&ticketModel.TicketModel{}).Where("ticket_event_id = ?", eventID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrEventHasTickets
		}
		res := tx.Where("event_id = ? AND event_tickets_sold = 0", eventID).Delete(&eventModel.EventModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrEventHasTickets
		}
		if err := tx.Model(&eventModel.EventImageModel{}).
			Where("event_image_event_id = ?", eventID).
			Pluck("event_image_path", &paths).Error; err != nil {
			return err
		}
		return tx.Where("event_image_event_id = ?", eventID).Delete(&eventModel.EventImageModel{}).Error
	})
	if err != nil {
		return err
	}
	storage.Cleanup(context.WithoutCancel(ctx), s.Store, paths...)
	log.Printf("[EventDelete] event=%s by=%s", eventID, actor.UserID)
	return nil
}

/* =========================================================
   READ
========================================================= */

func (s *EventService) load(ctx context.Context, db *gorm.DB, eventID uuid.UUID) (*eventModel.EventModel, error) {
	var ev eventModel.EventModel
	err := withImages(db.WithContext(ctx)).Where("event_id = ?", eventID).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// GetVisible: active events for everyone, anything else only for the owning
// organization or an admin. Hidden events look missing.
func (s *EventService) GetVisible(ctx context.Context, actor helperAuth.Actor, authenticated bool, eventID uuid.UUID) (*eventModel.EventModel, error) {
	ev, err := s.load(ctx, s.DB, eventID)
	if err != nil {
		return nil, err
	}
	if approval.IsPublicEvent(ev.EventStatus) {
		return ev, nil
	}
	if helperAuth.CanSeeUnpublished(s.DB.WithContext(ctx), actor, authenticated, ev.EventOrganizationID) {
		return ev, nil
	}
	return nil, ErrEventNotFound
}

type ListFilter struct {
	Status         string
	Category       string
	Search         string
	OrganizationID uuid.UUID
	UpcomingOnly   bool
}

func (s *EventService) List(ctx context.Context, f ListFilter, order string, offset, limit int) ([]eventModel.EventModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&eventModel.EventModel{})
	if f.Status != "" {
		q = q.Where("event_status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("event_category = ?", strings.ToLower(f.Category))
	}
	if f.OrganizationID != uuid.Nil {
		q = q.Where("event_organization_id = ?", f.OrganizationID)
	}
	if f.UpcomingOnly {
		q = q.Where("event_date > ?", s.now())
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		like := "%" + term + "%"
		q = q.Where("LOWER(event_title) LIKE ? OR LOWER(event_location) LIKE ?", like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if order == "" {
		order = "event_date ASC"
	}
	var rows []eventModel.EventModel
	err := withImages(q).Order(order).Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

// ListPublic is the catalogue: active events only.
func (s *EventService) ListPublic(ctx context.Context, f ListFilter, order string, offset, limit int) ([]eventModel.EventModel, int64, error) {
	f.Status = constants.EventStatusActive
	f.OrganizationID = uuid.Nil
	return s.List(ctx, f, order, offset, limit)
}

// ListMine lists the caller's organization events in any status.
func (s *EventService) ListMine(ctx context.Context, actor helperAuth.Actor, f ListFilter, order string, offset, limit int) ([]eventModel.EventModel, int64, error) {
	org, err := helperAuth.OwnedOrganization(s.DB.WithContext(ctx), actor.UserID, false)
	if err != nil {
		return nil, 0, err
	}
	f.OrganizationID = org.OrganizationID
	return s.List(ctx, f, order, offset, limit)
}

// Review is the admin moderation shortcut: status + reason only.
func (s *EventService) Review(ctx context.Context, actor helperAuth.Actor, eventID uuid.UUID, status, reason string) (*eventModel.EventModel, error) {
	if !actor.IsAdmin() {
		return nil, approval.ErrAdminOnly
	}
	return s.Update(ctx, actor, eventID, UpdateEventInput{Status: &status, Reason: &reason})
}

// UserCalendar groups the events a user holds tickets for.
type UserCalendar struct {
	Upcoming []eventModel.EventModel
	Today    []eventModel.EventModel
	Past     []eventModel.EventModel
}

// UserEvents buckets by calendar day in loc: today means the event starts on
// the same day as now.
func (s *EventService) UserEvents(ctx context.Context, userID uuid.UUID, loc *time.Location) (*UserCalendar, error) {
	if loc == nil {
		loc = time.UTC
	}
	sub := s.DB.Model(&ticketModel.TicketModel{}).
		Select("DISTINCT ticket_event_id").
		Where("ticket_user_id = ?", userID)

	var rows []eventModel.EventModel
	if err := withImages(s.DB.WithContext(ctx).Unscoped()).
		Where("event_id IN (?)", sub).
		Order("event_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	now := s.now().In(loc)
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, loc)
	endOfDay := startOfDay.AddDate(0, 0, 1)

	out := &UserCalendar{
		Upcoming: []eventModel.EventModel{},
		Today:    []eventModel.EventModel{},
		Past:     []eventModel.EventModel{},
	}
	for _, ev := range rows {
		start := ev.EventDate.In(loc)
		switch {
		case start.Before(startOfDay):
			out.Past = append(out.Past, ev)
		case start.Before(endOfDay):
			out.Today = append(out.Today, ev)
		default:
			out.Upcoming = append(out.Upcoming, ev)
		}
	}
	return out, nil
}

const (
	CalendarPast     = "past"
	CalendarToday    = "today"
	CalendarUpcoming = "upcoming"
)

// CalendarEntry is one event of the caller's calendar feed with what they
// paid for it. Cancelled tickets are left out of the tally.
type CalendarEntry struct {
	Event       eventModel.EventModel
	TicketCount int
	TotalCost   decimal.Decimal
	Bucket      string
}

// CalendarEntries flattens UserEvents into date order and attaches the
// caller's ticket count and price sum per event.
func (s *EventService) CalendarEntries(ctx context.Context, userID uuid.UUID, loc *time.Location) ([]CalendarEntry, error) {
	cal, err := s.UserEvents(ctx, userID, loc)
	if err != nil {
		return nil, err
	}

	var tickets []struct {
		TicketEventID uuid.UUID
		TicketPrice   decimal.Decimal
	}
	if err := s.DB.WithContext(ctx).
		Model(&ticketModel.TicketModel{}).
		Select("ticket_event_id", "ticket_price").
		Where("ticket_user_id = ? AND ticket_status <> ?", userID, constants.TicketStatusCancelled).
		Find(&tickets).Error; err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int, len(tickets))
	costs := make(map[uuid.UUID]decimal.Decimal, len(tickets))
	for _, t := range tickets {
		counts[t.TicketEventID]++
		costs[t.TicketEventID] = costs[t.TicketEventID].Add(t.TicketPrice)
	}

	out := make([]CalendarEntry, 0, len(cal.Past)+len(cal.Today)+len(cal.Upcoming))
	add := func(rows []eventModel.EventModel, bucket string) {
		for _, ev := range rows {
			out = append(out, CalendarEntry{
				Event:       ev,
				TicketCount: counts[ev.EventID],
				TotalCost:   costs[ev.EventID],
				Bucket:      bucket,
			})
		}
	}
	add(cal.Past, CalendarPast)
	add(cal.Today, CalendarToday)
	add(cal.Upcoming, CalendarUpcoming)
	return out, nil
}
