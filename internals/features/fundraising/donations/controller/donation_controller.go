package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	donationDTO "afrikticket_backend/internals/features/fundraising/donations/dto"
	donationService "afrikticket_backend/internals/features/fundraising/donations/service"
	helper "afrikticket_backend/internals/helpers"
	helperAuth "afrikticket_backend/internals/helpers/auth"
)

type DonationController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *donationService.DonationService
}

func NewDonationController(db *gorm.DB, v *validator.Validate) *DonationController {
	if v == nil {
		v = validator.New()
	}
	return &DonationController{DB: db, Validator: v, Service: donationService.NewDonationService(db)}
}

// POST /api/fundraising/:fundraisingId/donate
func (ctl *DonationController) Donate(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "fundraisingId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req donationDTO.DonateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := ctl.Service.Donate(c.UserContext(), id, actor.UserID, req.Amount, req.PaymentMethod)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	msg := "Donation received"
	if res.Completed {
		msg = "Donation received, fundraising goal reached"
	}
	return helper.Created(c, msg, donationDTO.ToDonateResponse(res))
}

// GET /api/user/donations
func (ctl *DonationController) ListMine(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Service.ListUserDonations(c.UserContext(), actor.UserID, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "Donations retrieved", donationDTO.ToDonationResponses(rows), helper.BuildPagination(total, p, len(rows)))
}

// GET /api/user/fundraisings
func (ctl *DonationController) ListMyFundraisings(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := ctl.Service.ListUserFundraisings(c.UserContext(), actor.UserID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Fundraisings retrieved", donationDTO.ToDonatedCampaignResponses(rows))
}
