package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"afrikticket_backend/internals/features/events/tickets/credential"
	ticketDTO "afrikticket_backend/internals/features/events/tickets/dto"
	ticketService "afrikticket_backend/internals/features/events/tickets/service"
	helper "afrikticket_backend/internals/helpers"
	helperAuth "afrikticket_backend/internals/helpers/auth"
	"afrikticket_backend/internals/helpers/dbtime"
)

type TicketController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *ticketService.TicketService
}

func NewTicketController(db *gorm.DB, v *validator.Validate, signer *credential.Signer) *TicketController {
	if v == nil {
		v = validator.New()
	}
	return &TicketController{DB: db, Validator: v, Service: ticketService.NewTicketService(db, signer)}
}

// POST /api/events/:eventId/tickets {quantity}
func (ctl *TicketController) Purchase(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	eventID, err := helper.ParseUUIDParam(c, "eventId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req ticketDTO.PurchaseRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	tickets, err := ctl.Service.IssueTickets(c.UserContext(), eventID, actor.UserID, req.Quantity)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Created(c, "Tickets purchased", ticketDTO.ToTicketResponses(tickets, dbtime.GetLocation(c)))
}

// POST /api/tickets/validate {token}
func (ctl *TicketController) Validate(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req ticketDTO.ValidateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Token = strings.TrimSpace(req.Token)
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	t, err := ctl.Service.RedeemTicket(c.UserContext(), actor, req.Token)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Ticket validated", ticketDTO.ToTicketResponse(t, dbtime.GetLocation(c)))
}

// GET /api/tickets/verify?token=
// Signature check only.
func (ctl *TicketController) Verify(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return helper.Error(c, fiber.StatusBadRequest, "token is required")
	}
	claims, err := ctl.Service.VerifyToken(token)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Ticket token is authentic", ticketDTO.ToVerifyResponse(claims))
}

// GET /api/user/tickets
func (ctl *TicketController) ListMine(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Service.ListUserTickets(c.UserContext(), actor.UserID, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "Tickets retrieved", ticketDTO.ToTicketResponses(rows, dbtime.GetLocation(c)), helper.BuildPagination(total, p, len(rows)))
}
