package dto

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	eventModel "afrikticket_backend/internals/features/events/events/model"
	eventService "afrikticket_backend/internals/features/events/events/service"
	orgDTO "afrikticket_backend/internals/features/organizations/organization/dto"
	"afrikticket_backend/internals/helpers/dbtime"
	"afrikticket_backend/internals/helpers/storage"
)

var (
	ErrInvalidPrice   = fiber.NewError(fiber.StatusBadRequest, "Invalid price")
	ErrInvalidImageID = fiber.NewError(fiber.StatusBadRequest, "Invalid image id in remove_image_ids")
)

/* ===============================
   Requests
=================================*/

// CreateEventRequest arrives as multipart; images travel under "images".
type CreateEventRequest struct {
	Title       string   `json:"title" form:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" form:"description" validate:"required,max=10000"`
	Date        string   `json:"date" form:"date" validate:"required"`
	Duration    *float64 `json:"duration" form:"duration" validate:"omitempty,gt=0,lte=720"`
	Location    string   `json:"location" form:"location" validate:"required,max=255"`
	MaxTickets  int      `json:"max_tickets" form:"max_tickets" validate:"required,gt=0"`
	Price       string   `json:"price" form:"price" validate:"required"`
	Category    string   `json:"category" form:"category" validate:"omitempty,oneof=festival concert sport art education technology business other"`
}

func (r *CreateEventRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Location = strings.TrimSpace(r.Location)
	r.Price = strings.TrimSpace(r.Price)
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
}

func (r *CreateEventRequest) ToInput(loc *time.Location, images []*storage.File) (eventService.CreateEventInput, error) {
	date, err := dbtime.ParseDateTime(r.Date, loc)
	if err != nil {
		return eventService.CreateEventInput{}, err
	}
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return eventService.CreateEventInput{}, ErrInvalidPrice
	}
	in := eventService.CreateEventInput{
		Title:       r.Title,
		Description: r.Description,
		Date:        date,
		Location:    r.Location,
		MaxTickets:  r.MaxTickets,
		Price:       price,
		Category:    r.Category,
		Images:      images,
	}
	if r.Duration != nil {
		in.Duration = *r.Duration
	}
	return in, nil
}

// UpdateEventRequest is shared by owners and admins; every field optional.
// remove_image_ids may repeat or be comma separated.
type UpdateEventRequest struct {
	Title          *string  `json:"title" form:"title" validate:"omitempty,min=3,max=200"`
	Description    *string  `json:"description" form:"description" validate:"omitempty,max=10000"`
	Date           *string  `json:"date" form:"date"`
	Duration       *float64 `json:"duration" form:"duration" validate:"omitempty,gt=0,lte=720"`
	Location       *string  `json:"location" form:"location" validate:"omitempty,max=255"`
	MaxTickets     *int     `json:"max_tickets" form:"max_tickets" validate:"omitempty,gt=0"`
	Price          *string  `json:"price" form:"price"`
	Category       *string  `json:"category" form:"category" validate:"omitempty,oneof=festival concert sport art education technology business other"`
	Status         *string  `json:"status" form:"status" validate:"omitempty,oneof=pending active rejected cancelled"`
	Reason         *string  `json:"reason" form:"reason" validate:"omitempty,max=2000"`
	RemoveImageIDs []string `json:"remove_image_ids" form:"remove_image_ids"`
}

func (r *UpdateEventRequest) ToInput(loc *time.Location, images []*storage.File) (eventService.UpdateEventInput, error) {
	in := eventService.UpdateEventInput{
		Title:       r.Title,
		Description: r.Description,
		Duration:    r.Duration,
		Location:    r.Location,
		MaxTickets:  r.MaxTickets,
		Category:    r.Category,
		Status:      r.Status,
		Reason:      r.Reason,
		NewImages:   images,
	}
	date, err := dbtime.ParseDateTimePtr(r.Date, loc)
	if err != nil {
		return in, err
	}
	in.Date = date
	if r.Price != nil && strings.TrimSpace(*r.Price) != "" {
		p, err := decimal.NewFromString(strings.TrimSpace(*r.Price))
		if err != nil {
			return in, ErrInvalidPrice
		}
		in.Price = &p
	}
	ids, err := ParseUUIDList(r.RemoveImageIDs)
	if err != nil {
		return in, ErrInvalidImageID
	}
	in.RemoveImageIDs = ids
	return in, nil
}

// ParseUUIDList flattens repeated and comma separated values.
func ParseUUIDList(values []string) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, v := range values {
		for _, p := range strings.Split(v, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			id, err := uuid.Parse(p)
			if err != nil {
				return nil, err
			}
			out = append(out, id)
		}
	}
	return out, nil
}

// ReviewRequest is the admin moderation payload.
type ReviewRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active rejected cancelled"`
	Reason string `json:"reason" validate:"omitempty,max=2000"`
}

/* ===============================
   Responses
=================================*/

type EventImageResponse struct {
	EventImageID     uuid.UUID `json:"event_image_id"`
	EventImagePath   string    `json:"event_image_path"`
	EventImageIsMain bool      `json:"event_image_is_main"`
	EventImageOrder  int       `json:"event_image_order"`
}

type EventResponse struct {
	EventID              uuid.UUID                   `json:"event_id"`
	EventTitle           string                      `json:"event_title"`
	EventDescription     string                      `json:"event_description"`
	EventDate            time.Time                   `json:"event_date"`
	EventEndDate         time.Time                   `json:"event_end_date"`
	EventDuration        float64                     `json:"event_duration"`
	EventLocation        string                      `json:"event_location"`
	EventMaxTickets      int                         `json:"event_max_tickets"`
	EventTicketsSold     int                         `json:"event_tickets_sold"`
	EventRemaining       int                         `json:"event_remaining_tickets"`
	EventPrice           decimal.Decimal             `json:"event_price"`
	EventCategory        string                      `json:"event_category"`
	EventStatus          string                      `json:"event_status"`
	EventRejectionReason *string                     `json:"event_rejection_reason,omitempty"`
	EventIsOngoing       bool                        `json:"event_is_ongoing"`
	EventMainImage       *string                     `json:"event_main_image,omitempty"`
	EventImages          []EventImageResponse        `json:"event_images"`
	Organization         *orgDTO.OrganizationSummary `json:"organization,omitempty"`
	EventCreatedAt       time.Time                   `json:"event_created_at"`
	EventUpdatedAt       time.Time                   `json:"event_updated_at"`
}

func ToEventResponse(m *eventModel.EventModel, now time.Time, loc *time.Location) *EventResponse {
	if m == nil {
		return nil
	}
	images := make([]EventImageResponse, 0, len(m.Images))
	for _, img := range m.Images {
		images = append(images, EventImageResponse{
			EventImageID:     img.EventImageID,
			EventImagePath:   img.EventImagePath,
			EventImageIsMain: img.EventImageIsMain,
			EventImageOrder:  img.EventImageOrder,
		})
	}
	var main *string
	if img := m.MainImage(); img != nil {
		p := img.EventImagePath
		main = &p
	}
	return &EventResponse{
		EventID:              m.EventID,
		EventTitle:           m.EventTitle,
		EventDescription:     m.EventDescription,
		EventDate:            dbtime.In(m.EventDate, loc),
		EventEndDate:         dbtime.In(m.EndDate(), loc),
		EventDuration:        m.EventDuration,
		EventLocation:        m.EventLocation,
		EventMaxTickets:      m.EventMaxTickets,
		EventTicketsSold:     m.EventTicketsSold,
		EventRemaining:       m.RemainingTickets(),
		EventPrice:           m.EventPrice,
		EventCategory:        m.EventCategory,
		EventStatus:          m.EventStatus,
		EventRejectionReason: m.EventRejectionReason,
		EventIsOngoing:       m.IsOngoing(now),
		EventMainImage:       main,
		EventImages:          images,
		Organization:         orgDTO.ToSummary(m.Organization),
		EventCreatedAt:       m.EventCreatedAt,
		EventUpdatedAt:       m.EventUpdatedAt,
	}
}

func ToEventResponses(rows []eventModel.EventModel, now time.Time, loc *time.Location) []EventResponse {
	out := make([]EventResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *ToEventResponse(&rows[i], now, loc))
	}
	return out
}

// EventSummary is embedded in ticket listings.
type EventSummary struct {
	EventID        uuid.UUID `json:"event_id"`
	EventTitle     string    `json:"event_title"`
	EventDate      time.Time `json:"event_date"`
	EventEndDate   time.Time `json:"event_end_date"`
	EventLocation  string    `json:"event_location"`
	EventStatus    string    `json:"event_status"`
	EventMainImage *string   `json:"event_main_image,omitempty"`
}

func ToEventSummary(m *eventModel.EventModel, loc *time.Location) *EventSummary {
	if m == nil {
		return nil
	}
	s := &EventSummary{
		EventID:       m.EventID,
		EventTitle:    m.EventTitle,
		EventDate:     dbtime.In(m.EventDate, loc),
		EventEndDate:  dbtime.In(m.EndDate(), loc),
		EventLocation: m.EventLocation,
		EventStatus:   m.EventStatus,
	}
	if img := m.MainImage(); img != nil {
		p := img.EventImagePath
		s.EventMainImage = &p
	}
	return s
}

type UserCalendarResponse struct {
	Upcoming []EventResponse `json:"upcoming"`
	Today    []EventResponse `json:"today"`
	Past     []EventResponse `json:"past"`
}

func ToUserCalendarResponse(c *eventService.UserCalendar, now time.Time, loc *time.Location) UserCalendarResponse {
	return UserCalendarResponse{
		Upcoming: ToEventResponses(c.Upcoming, now, loc),
		Today:    ToEventResponses(c.Today, now, loc),
		Past:     ToEventResponses(c.Past, now, loc),
	}
}

// CalendarEventResponse follows the FullCalendar event object shape.
type CalendarEventResponse struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Start         time.Time     `json:"start"`
	End           time.Time     `json:"end"`
	AllDay        bool          `json:"allDay"`
	ExtendedProps CalendarProps `json:"extendedProps"`
}

type CalendarProps struct {
	Location     string          `json:"location"`
	Description  string          `json:"description"`
	TicketCount  int             `json:"ticketCount"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	Organization string          `json:"organization"`
	Image        *string         `json:"image,omitempty"`
	Status       string          `json:"status"`
}

func ToCalendarResponses(entries []eventService.CalendarEntry, loc *time.Location) []CalendarEventResponse {
	out := make([]CalendarEventResponse, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		org := "Unknown"
		if e.Event.Organization != nil && e.Event.Organization.OrganizationName != "" {
			org = e.Event.Organization.OrganizationName
		}
		props := CalendarProps{
			Location:     e.Event.EventLocation,
			Description:  e.Event.EventDescription,
			TicketCount:  e.TicketCount,
			TotalCost:    e.TotalCost,
			Organization: org,
			Status:       e.Bucket,
		}
		if img := e.Event.MainImage(); img != nil {
			p := img.EventImagePath
			props.Image = &p
		}
		out = append(out, CalendarEventResponse{
			ID:            e.Event.EventID,
			Title:         e.Event.EventTitle,
			Start:         dbtime.In(e.Event.EventDate, loc),
			End:           dbtime.In(e.Event.EndDate(), loc),
			ExtendedProps: props,
		})
	}
	return out
}
