package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	fundDTO "afrikticket_backend/internals/features/fundraising/fundraisings/dto"
	fundService "afrikticket_backend/internals/features/fundraising/fundraisings/service"
	helper "afrikticket_backend/internals/helpers"
	helperAuth "afrikticket_backend/internals/helpers/auth"
	"afrikticket_backend/internals/helpers/storage"
)

type FundraisingController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *fundService.FundraisingService
}

func NewFundraisingController(db *gorm.DB, v *validator.Validate, store storage.Store) *FundraisingController {
	if v == nil {
		v = validator.New()
	}
	return &FundraisingController{DB: db, Validator: v, Service: fundService.NewFundraisingService(db, store)}
}

var fundraisingSortColumns = map[string]string{
	"created_at": "fundraising_created_at",
	"goal":       "fundraising_goal",
	"current":    "fundraising_current",
	"title":      "fundraising_title",
}

func listFilter(c *fiber.Ctx) fundService.ListFilter {
	return fundService.ListFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("q"),
	}
}

// JSON bodies carry no files.
func imagesFrom(c *fiber.Ctx) ([]*storage.File, error) {
	if !storage.IsMultipart(c) {
		return nil, nil
	}
	files, err := storage.ReadFiles(storage.FormFiles(c, "images", "images[]"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Cannot read uploaded images")
	}
	return files, nil
}

// GET /api/fundraising
func (ctl *FundraisingController) ListPublic(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	order := helper.SafeOrderClause(c, fundraisingSortColumns, "created_at")

	rows, total, err := ctl.Service.ListPublic(c.UserContext(), listFilter(c), order, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "Fundraisings retrieved", fundDTO.ToFundraisingResponses(rows), helper.BuildPagination(total, p, len(rows)))
}

// GET /api/fundraising/:id (token optional)
func (ctl *FundraisingController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	actor, ok := helperAuth.OptionalActor(c)
	f, err := ctl.Service.GetVisible(c.UserContext(), actor, ok, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Fundraising retrieved", fundDTO.ToFundraisingResponse(f))
}

// POST /api/fundraising
func (ctl *FundraisingController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req fundDTO.CreateFundraisingRequest
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
	in, err := req.ToInput(images)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	f, err := ctl.Service.Create(c.UserContext(), actor, in)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Created(c, "Fundraising created and pending review", fundDTO.ToFundraisingResponse(f))
}

// PUT /api/org/fundraising/:id, PUT /api/admin/fundraising/:id
func (ctl *FundraisingController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req fundDTO.UpdateFundraisingRequest
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
	in, err := req.ToInput(images)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	f, err := ctl.Service.Update(c.UserContext(), actor, id, in)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Fundraising updated", fundDTO.ToFundraisingResponse(f))
}

// DELETE /api/org/fundraising/:id, DELETE /api/admin/fundraising/:id
func (ctl *FundraisingController) Delete(c *fiber.Ctx) error {
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
	return helper.Success(c, "Fundraising deleted", nil)
}

// GET /api/org/fundraisings
func (ctl *FundraisingController) ListMine(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)
	order := helper.SafeOrderClause(c, fundraisingSortColumns, "created_at")
	rows, total, err := ctl.Service.ListMine(c.UserContext(), actor, listFilter(c), order, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "Fundraisings retrieved", fundDTO.ToFundraisingResponses(rows), helper.BuildPagination(total, p, len(rows)))
}

// GET /api/admin/pending/fundraisings
func (ctl *FundraisingController) ListPending(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	f := listFilter(c)
	f.Status = "pending"
	rows, total, err := ctl.Service.List(c.UserContext(), f, "fundraising_created_at ASC", p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "Pending fundraisings retrieved", fundDTO.ToFundraisingResponses(rows), helper.BuildPagination(total, p, len(rows)))
}

// PUT /api/admin/fundraisings/:id/review
func (ctl *FundraisingController) Review(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req fundDTO.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	f, err := ctl.Service.Review(c.UserContext(), actor, id, req.Status, req.Reason)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Fundraising reviewed", fundDTO.ToFundraisingResponse(f))
}
