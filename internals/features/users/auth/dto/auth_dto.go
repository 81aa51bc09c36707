package dto

import (
	"strings"
	"time"

	userDTO "afrikticket_backend/internals/features/users/user/dto"
)

// RegisterRequest arrives as JSON or multipart; the documents are multipart only.
type RegisterRequest struct {
	Name                 string  `json:"name" form:"name" validate:"required,min=2,max=100"`
	Email                string  `json:"email" form:"email" validate:"required,email"`
	Password             string  `json:"password" form:"password" validate:"required,min=8"`
	PasswordConfirmation string  `json:"password_confirmation" form:"password_confirmation" validate:"required,eqfield=Password"`
	Role                 string  `json:"role" form:"role" validate:"omitempty,oneof=user organization"`
	Phone                *string `json:"phone" form:"phone" validate:"omitempty,max=30"`

	OrgName        string  `json:"org_name" form:"org_name" validate:"required_if=Role organization,omitempty,max=150"`
	OrgEmail       string  `json:"org_email" form:"org_email" validate:"required_if=Role organization,omitempty,email"`
	OrgPhone       string  `json:"org_phone" form:"org_phone" validate:"required_if=Role organization,omitempty,max=30"`
	OrgDescription *string `json:"org_description" form:"org_description" validate:"omitempty,max=5000"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	r.OrgName = strings.TrimSpace(r.OrgName)
	r.OrgEmail = strings.ToLower(strings.TrimSpace(r.OrgEmail))
	r.OrgPhone = strings.TrimSpace(r.OrgPhone)
	if r.Phone != nil {
		p := strings.TrimSpace(*r.Phone)
		if p == "" {
			r.Phone = nil
		} else {
			r.Phone = &p
		}
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword         string `json:"current_password" validate:"required"`
	NewPassword             string `json:"new_password" validate:"required,min=8"`
	NewPasswordConfirmation string `json:"new_password_confirmation" validate:"omitempty,eqfield=NewPassword"`
}

type TokenResponse struct {
	User        *userDTO.UserResponse `json:"user"`
	AccessToken string                `json:"access_token"`
	TokenType   string                `json:"token_type"`
	ExpiresAt   time.Time             `json:"expires_at"`
}
