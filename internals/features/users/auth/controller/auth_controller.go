package controller

import (
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"afrikticket_backend/internals/configs"
	authDTO "afrikticket_backend/internals/features/users/auth/dto"
	authService "afrikticket_backend/internals/features/users/auth/service"
	userDTO "afrikticket_backend/internals/features/users/user/dto"
	helper "afrikticket_backend/internals/helpers"
	helperAuth "afrikticket_backend/internals/helpers/auth"
	"afrikticket_backend/internals/helpers/storage"
)

const refreshCookie = "refresh_token"

type AuthController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *authService.AuthService
}

func NewAuthController(db *gorm.DB, v *validator.Validate, store storage.Store) *AuthController {
	if v == nil {
		v = validator.New()
	}
	return &AuthController{DB: db, Validator: v, Service: authService.NewAuthService(db, store)}
}

func clientMeta(c *fiber.Ctx) authService.ClientMeta {
	return authService.ClientMeta{UserAgent: c.Get(fiber.HeaderUserAgent), IP: c.IP()}
}

func cookieSecure() bool {
	return !strings.EqualFold(configs.GetEnv("COOKIE_SECURE", "true"), "false")
}

func setRefreshCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    token,
		HTTPOnly: true,
		Secure:   cookieSecure(),
		SameSite: "Lax",
		Path:     "/api/auth",
		Expires:  expires,
	})
}

func clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    "",
		HTTPOnly: true,
		Secure:   cookieSecure(),
		SameSite: "Lax",
		Path:     "/api/auth",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
	})
}

func (ctl *AuthController) respondTokens(c *fiber.Ctx, msg string, res *authService.LoginResult) error {
	setRefreshCookie(c, res.RefreshToken, res.RefreshExpiresAt)
	return helper.Success(c, msg, authDTO.TokenResponse{
		User:        userDTO.ToUserResponse(res.User),
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   res.AccessExpiresAt,
	})
}

/* ==========================
   REGISTER
========================== */

// POST /api/auth/register
// JSON for plain users; multipart when a profile image or the organization
// documents (org_icd_document, org_commerce_register) are attached.
func (ctl *AuthController) Register(c *fiber.Ctx) error {
	var req authDTO.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	in := authService.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Role:           req.Role,
		Phone:          req.Phone,
		OrgName:        req.OrgName,
		OrgEmail:       req.OrgEmail,
		OrgPhone:       req.OrgPhone,
		OrgDescription: req.OrgDescription,
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		var ferr error
		if in.ProfileImage, ferr = formFile(c, "profile_image"); ferr != nil {
			return helper.FromFiberError(c, ferr)
		}
		if in.IcdDocument, ferr = formFile(c, "org_icd_document"); ferr != nil {
			return helper.FromFiberError(c, ferr)
		}
		if in.CommerceRegister, ferr = formFile(c, "org_commerce_register"); ferr != nil {
			return helper.FromFiberError(c, ferr)
		}
	}

	user, err := ctl.Service.Register(c.UserContext(), in)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	msg := "Registration successful"
	if user.Organization != nil {
		msg = "Registration successful, your organization is pending approval"
	}
	return helper.Created(c, msg, userDTO.ToUserResponse(user))
}

// formFile is nil when the field is absent.
func formFile(c *fiber.Ctx, field string) (*storage.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	f, err := storage.ReadFile(fh)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Cannot read "+field)
	}
	return f, nil
}

/* ==========================
   LOGIN
========================== */

// POST /api/auth/login
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req authDTO.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := ctl.Service.Login(c.UserContext(), req.Email, req.Password, clientMeta(c))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return ctl.respondTokens(c, "Login successful", res)
}

// POST /api/auth/google
func (ctl *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req authDTO.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := ctl.Service.LoginGoogle(c.UserContext(), req.IDToken, clientMeta(c))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return ctl.respondTokens(c, "Login successful", res)
}

// POST /api/auth/refresh
// Cookie first, then body.
func (ctl *AuthController) Refresh(c *fiber.Ctx) error {
	raw := helper.GetRefreshTokenFromCookie(c)
	if raw == "" {
		var req authDTO.RefreshRequest
		_ = c.BodyParser(&req)
		raw = strings.TrimSpace(req.RefreshToken)
	}
	if raw == "" {
		return helper.Error(c, fiber.StatusUnauthorized, "Missing refresh token")
	}

	res, err := ctl.Service.Refresh(c.UserContext(), raw, clientMeta(c))
	if err != nil {
		clearRefreshCookie(c)
		return helper.FromFiberError(c, err)
	}
	return ctl.respondTokens(c, "Token refreshed", res)
}

// POST /api/auth/logout
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	rawRefresh := helper.GetRefreshTokenFromCookie(c)
	if rawRefresh == "" {
		var req authDTO.RefreshRequest
		_ = c.BodyParser(&req)
		rawRefresh = req.RefreshToken
	}
	if err := ctl.Service.Logout(c.UserContext(), helper.GetRawAccessToken(c), rawRefresh); err != nil {
		log.Printf("[Logout] %v", err)
		return helper.FromFiberError(c, err)
	}
	clearRefreshCookie(c)
	return helper.Success(c, "Logout successful", nil)
}

/* ==========================
   ME
========================== */

// GET /api/user, GET /api/user/profile
func (ctl *AuthController) Me(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	user, err := ctl.Service.Me(c.UserContext(), actor.UserID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "User retrieved", userDTO.ToUserResponse(user))
}

// PUT /api/user/:id/password
func (ctl *AuthController) ChangePassword(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	target, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req authDTO.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	if err := ctl.Service.ChangePassword(c.UserContext(), actor, target, req.CurrentPassword, req.NewPassword, req.NewPasswordConfirmation); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Password updated", nil)
}
