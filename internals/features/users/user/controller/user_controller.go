package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userDTO "afrikticket_backend/internals/features/users/user/dto"
	userService "afrikticket_backend/internals/features/users/user/service"
	helper "afrikticket_backend/internals/helpers"
	helperAuth "afrikticket_backend/internals/helpers/auth"
	"afrikticket_backend/internals/helpers/storage"
)

type UserController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *userService.UserService
}

func NewUserController(db *gorm.DB, v *validator.Validate, store storage.Store) *UserController {
	if v == nil {
		v = validator.New()
	}
	return &UserController{DB: db, Validator: v, Service: userService.NewUserService(db, store)}
}

var userSortColumns = map[string]string{
	"created_at": "created_at",
	"name":       "name",
	"email":      "email",
}

// GET /api/user/:id
func (ctl *UserController) GetByID(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	u, err := ctl.Service.Get(c.UserContext(), actor, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "User retrieved", userDTO.ToUserResponse(u))
}

// PUT /api/user/:id (JSON or multipart with profile_image)
func (ctl *UserController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req userDTO.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	in := userService.UpdateUserInput{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if fh, ferr := c.FormFile("profile_image"); ferr == nil {
		f, rerr := storage.ReadFile(fh)
		if rerr != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Cannot read profile_image")
		}
		in.ProfileImage = f
	}

	u, err := ctl.Service.Update(c.UserContext(), actor, id, in)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "User updated", userDTO.ToUserResponse(u))
}

// GET /api/admin/users?role=&status=&q=&page=&per_page=
func (ctl *UserController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	order := helper.SafeOrderClause(c, userSortColumns, "created_at")

	rows, total, err := ctl.Service.List(c.UserContext(), userService.ListFilter{
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Search: c.Query("q"),
	}, order, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "Users retrieved", userDTO.ToUserResponses(rows), helper.BuildPagination(total, p, len(rows)))
}
