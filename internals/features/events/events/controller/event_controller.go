package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	eventDTO "afrikticket_backend/internals/features/events/events/dto"
	eventService "afrikticket_backend/internals/features/events/events/service"
	helper "afrikticket_backend/internals/helpers"
	helperAuth "afrikticket_backend/internals/helpers/auth"
	"afrikticket_backend/internals/helpers/dbtime"
	"afrikticket_backend/internals/helpers/storage"
)

type EventController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *eventService.EventService
}

func NewEventController(db *gorm.DB, v *validator.Validate, store storage.Store) *EventController {
	if v == nil {
		v = validator.New()
	}
	return &EventController{DB: db, Validator: v, Service: eventService.NewEventService(db, store)}
}

var eventSortColumns = map[string]string{
	"date":       "event_date",
	"created_at": "event_created_at",
	"price":      "event_price",
	"title":      "event_title",
}

func listFilter(c *fiber.Ctx) eventService.ListFilter {
	return eventService.ListFilter{
		Status:       c.Query("status"),
		Category:     c.Query("category"),
		Search:       c.Query("q"),
		UpcomingOnly: c.QueryBool("upcoming", false),
	}
}

func imagesFrom(c *fiber.Ctx) ([]*storage.File, error) {
	files, err := storage.ReadFiles(storage.FormFiles(c, "images", "images[]"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Cannot read uploaded images")
	}
	return files, nil
}

/* ===============================
   Public
=================================*/

// GET /api/events
func (ctl *EventController) ListPublic(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	order := helper.SafeOrderClause(c, eventSortColumns, "date")
	if c.Query("order") == "" && c.Query("sort_by") == "" {
		order = "event_date ASC"
	}

	rows, total, err := ctl.Service.ListPublic(c.UserContext(), listFilter(c), order, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	loc := dbtime.GetLocation(c)
	return helper.JsonList(c, "Events retrieved", eventDTO.ToEventResponses(rows, time.Now(), loc), helper.BuildPagination(total, p, len(rows)))
}

// GET /api/events/:id (token optional)
func (ctl *EventController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	actor, ok := helperAuth.OptionalActor(c)
	ev, err := ctl.Service.GetVisible(c.UserContext(), actor, ok, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Event retrieved", eventDTO.ToEventResponse(ev, time.Now(), dbtime.GetLocation(c)))
}

/* ===============================
   Organization
=================================*/

// POST /api/events (multipart, at least one image)
func (ctl *EventController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req eventDTO.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	images, err := imagesFrom(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	loc := dbtime.GetLocation(c)
	in, err := req.ToInput(loc, images)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	ev, err := ctl.Service.Create(c.UserContext(), actor, in)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Created(c, "Event created and pending review", eventDTO.ToEventResponse(ev, time.Now(), loc))
}

// PUT /api/org/events/:id, PUT /api/admin/events/:id
func (ctl *EventController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req eventDTO.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	images, err := imagesFrom(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	loc := dbtime.GetLocation(c)
	in, err := req.ToInput(loc, images)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	ev, err := ctl.Service.Update(c.UserContext(), actor, id, in)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Event updated", eventDTO.ToEventResponse(ev, time.Now(), loc))
}

// DELETE /api/org/events/:id, DELETE /api/admin/events/:id
func (ctl *EventController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.Service.Delete(c.UserContext(), actor, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Event deleted", nil)
}

// GET /api/org/events
func (ctl *EventController) ListMine(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)
	order := helper.SafeOrderClause(c, eventSortColumns, "created_at")

	rows, total, err := ctl.Service.ListMine(c.UserContext(), actor, listFilter(c), order, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "Events retrieved", eventDTO.ToEventResponses(rows, time.Now(), dbtime.GetLocation(c)), helper.BuildPagination(total, p, len(rows)))
}

/* ===============================
   User & admin
=================================*/

// GET /api/user/events
func (ctl *EventController) UserEvents(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	loc := dbtime.GetLocation(c)
	cal, err := ctl.Service.UserEvents(c.UserContext(), actor.UserID, loc)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Events retrieved", eventDTO.ToUserCalendarResponse(cal, time.Now(), loc))
}

// GET /api/user/events/calendar
func (ctl *EventController) Calendar(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	loc := dbtime.GetLocation(c)
	entries, err := ctl.Service.CalendarEntries(c.UserContext(), actor.UserID, loc)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Calendar retrieved", eventDTO.ToCalendarResponses(entries, loc))
}

// GET /api/admin/pending/events
func (ctl *EventController) ListPending(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	f := listFilter(c)
	f.Status = "pending"
	rows, total, err := ctl.Service.List(c.UserContext(), f, "event_created_at ASC", p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "Pending events retrieved", eventDTO.ToEventResponses(rows, time.Now(), dbtime.GetLocation(c)), helper.BuildPagination(total, p, len(rows)))
}

// PUT /api/admin/events/:id/review
func (ctl *EventController) Review(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req eventDTO.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	ev, err := ctl.Service.Review(c.UserContext(), actor, id, req.Status, req.Reason)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Event reviewed", eventDTO.ToEventResponse(ev, time.Now(), dbtime.GetLocation(c)))
}
