package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"afrikticket_backend/internals/constants"
	orgDTO "afrikticket_backend/internals/features/organizations/organization/dto"
	orgService "afrikticket_backend/internals/features/organizations/organization/service"
	helper "afrikticket_backend/internals/helpers"
	helperAuth "afrikticket_backend/internals/helpers/auth"
)

type OrganizationController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *orgService.OrganizationService
}

func NewOrganizationController(db *gorm.DB, v *validator.Validate) *OrganizationController {
	if v == nil {
		v = validator.New()
	}
	return &OrganizationController{DB: db, Validator: v, Service: orgService.NewOrganizationService(db)}
}

// GET /api/organizations/:id
// Approved organizations are public; anything else only for the owner or an admin.
func (ctl *OrganizationController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	org, err := ctl.Service.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	actor, ok := helperAuth.OptionalActor(c)
	privileged := ok && (actor.IsAdmin() || actor.UserID == org.OrganizationUserID)
	if privileged {
		return helper.Success(c, "Organization retrieved", orgDTO.ToDetail(org))
	}
	if org.OrganizationStatus != constants.OrganizationStatusApproved {
		return helper.FromFiberError(c, orgService.ErrOrganizationNotFound)
	}
	return helper.Success(c, "Organization retrieved", orgDTO.ToSummary(org))
}

// GET /api/org/profile
func (ctl *OrganizationController) GetMine(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	org, err := ctl.Service.GetByOwner(c.UserContext(), actor.UserID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Organization retrieved", orgDTO.ToDetail(org))
}

// PUT /api/org/profile
func (ctl *OrganizationController) UpdateMine(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req orgDTO.UpdateOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	org, err := ctl.Service.UpdateProfile(c.UserContext(), actor.UserID, req.ToUpdates())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Organization updated", orgDTO.ToDetail(org))
}
