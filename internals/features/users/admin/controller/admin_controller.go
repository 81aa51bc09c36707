package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	orgDTO "afrikticket_backend/internals/features/organizations/organization/dto"
	orgService "afrikticket_backend/internals/features/organizations/organization/service"
	adminDTO "afrikticket_backend/internals/features/users/admin/dto"
	adminService "afrikticket_backend/internals/features/users/admin/service"
	userDTO "afrikticket_backend/internals/features/users/user/dto"
	helper "afrikticket_backend/internals/helpers"
	helperAuth "afrikticket_backend/internals/helpers/auth"
	"afrikticket_backend/internals/helpers/dbtime"
)

type AdminController struct {
	DB         *gorm.DB
	Validator  *validator.Validate
	Service    *adminService.AdminService
	OrgService *orgService.OrganizationService
}

func NewAdminController(db *gorm.DB, v *validator.Validate) *AdminController {
	if v == nil {
		v = validator.New()
	}
	return &AdminController{
		DB:         db,
		Validator:  v,
		Service:    adminService.NewAdminService(db),
		OrgService: orgService.NewOrganizationService(db),
	}
}

/* ===============================
   Organizations
=================================*/

// GET /api/admin/organizations?status=
func (ctl *AdminController) ListOrganizations(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.OrgService.List(c.UserContext(), c.Query("status"), p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "Organizations retrieved", orgDTO.ToDetails(rows), helper.BuildPagination(total, p, len(rows)))
}

// GET /api/admin/pending/orgs
func (ctl *AdminController) ListPendingOrganizations(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.OrgService.List(c.UserContext(), "pending", p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "Pending organizations retrieved", orgDTO.ToDetails(rows), helper.BuildPagination(total, p, len(rows)))
}

// PUT /api/admin/organizations/:id/status
func (ctl *AdminController) UpdateOrganizationStatus(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req adminDTO.OrganizationStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	org, err := ctl.OrgService.UpdateStatus(c.UserContext(), id, req.Status, req.Reason)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Organization status updated", orgDTO.ToDetail(org))
}

// DELETE /api/admin/organizations/:id
func (ctl *AdminController) DeleteOrganization(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.OrgService.Delete(c.UserContext(), id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Organization deleted", nil)
}

/* ===============================
   Moderation queue
=================================*/

// GET /api/admin/pending?limit=
func (ctl *AdminController) Pending(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q, err := ctl.Service.Pending(c.UserContext(), limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Pending items retrieved", adminDTO.ToPendingResponse(q, time.Now(), dbtime.GetLocation(c)))
}

/* ===============================
   Admin accounts
=================================*/

// POST /api/admin/create
func (ctl *AdminController) CreateAdmin(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req adminDTO.CreateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	u, err := ctl.Service.CreateAdmin(c.UserContext(), actor, req.ToInput())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Created(c, "Admin created", userDTO.ToUserResponse(u))
}

// PUT /api/admin/:id/role
func (ctl *AdminController) ChangeRole(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req adminDTO.ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	u, err := ctl.Service.ChangeRole(c.UserContext(), actor, id, req.ToInput())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Role updated", userDTO.ToUserResponse(u))
}
