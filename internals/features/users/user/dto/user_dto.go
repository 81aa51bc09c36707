package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	orgDTO "afrikticket_backend/internals/features/organizations/organization/dto"
	userModel "afrikticket_backend/internals/features/users/user/model"
)

type AdminProfile struct {
	AdminID          uuid.UUID `json:"admin_id"`
	AdminRole        string    `json:"admin_role"`
	AdminPermissions []string  `json:"admin_permissions"`
}

// UserResponse never carries the password hash. Organization details are
// included when the relation was loaded, i.e. for the owner or an admin.
type UserResponse struct {
	ID           uuid.UUID                  `json:"id"`
	Name         string                     `json:"name"`
	Email        string                     `json:"email"`
	Role         string                     `json:"role"`
	Phone        *string                    `json:"phone,omitempty"`
	Status       string                     `json:"status"`
	ProfileImage *string                    `json:"profile_image,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
	Organization *orgDTO.OrganizationDetail `json:"organization,omitempty"`
	Admin        *AdminProfile              `json:"admin,omitempty"`
}

func ToUserResponse(u *userModel.UserModel) *UserResponse {
	if u == nil {
		return nil
	}
	out := &UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Phone:        u.Phone,
		Status:       u.Status,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		Organization: orgDTO.ToDetail(u.Organization),
	}
	if u.Admin != nil {
		out.Admin = &AdminProfile{
			AdminID:          u.Admin.AdminID,
			AdminRole:        u.Admin.AdminRole,
			AdminPermissions: u.Admin.PermissionList(),
		}
	}
	return out
}

func ToUserResponses(rows []userModel.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *ToUserResponse(&rows[i]))
	}
	return out
}

// UpdateUserRequest: JSON or multipart (profile_image file).
type UpdateUserRequest struct {
	Name  *string `json:"name" form:"name" validate:"omitempty,min=2,max=100"`
	Email *string `json:"email" form:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" form:"phone" validate:"omitempty,max=30"`
}

func (r *UpdateUserRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &v
	}
	if r.Phone != nil {
		v := strings.TrimSpace(*r.Phone)
		r.Phone = &v
	}
}
