package dto

import (
	"strings"
	"time"

	eventDTO "afrikticket_backend/internals/features/events/events/dto"
	fundDTO "afrikticket_backend/internals/features/fundraising/fundraisings/dto"
	orgDTO "afrikticket_backend/internals/features/organizations/organization/dto"
	adminService "afrikticket_backend/internals/features/users/admin/service"
)

type CreateAdminRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8"`
	Phone       string   `json:"phone" validate:"omitempty,min=6,max=30"`
	AdminRole   string   `json:"admin_role" validate:"omitempty,oneof=super_admin moderator"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,required,max=50"`
}

func (r *CreateAdminRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.AdminRole = strings.ToLower(strings.TrimSpace(r.AdminRole))
}

func (r *CreateAdminRequest) ToInput() adminService.CreateAdminInput {
	return adminService.CreateAdminInput{
		Name:        r.Name,
		Email:       r.Email,
		Password:    r.Password,
		Phone:       r.Phone,
		AdminRole:   r.AdminRole,
		Permissions: r.Permissions,
	}
}

type ChangeRoleRequest struct {
	Role        string   `json:"role" validate:"required,oneof=user admin"`
	AdminRole   string   `json:"admin_role" validate:"omitempty,oneof=super_admin moderator"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,required,max=50"`
}

func (r *ChangeRoleRequest) ToInput() adminService.ChangeRoleInput {
	return adminService.ChangeRoleInput{
		Role:        strings.ToLower(strings.TrimSpace(r.Role)),
		AdminRole:   r.AdminRole,
		Permissions: r.Permissions,
	}
}

// OrganizationStatusRequest: approval or rejection of a registration.
type OrganizationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Reason string `json:"reason" validate:"omitempty,max=2000"`
}

type PendingResponse struct {
	Events        []eventDTO.EventResponse      `json:"events"`
	Fundraisings  []fundDTO.FundraisingResponse `json:"fundraisings"`
	Organizations []orgDTO.OrganizationDetail   `json:"organizations"`
	Counts        PendingCounts                 `json:"counts"`
}

type PendingCounts struct {
	Events        int64 `json:"events"`
	Fundraisings  int64 `json:"fundraisings"`
	Organizations int64 `json:"organizations"`
	Total         int64 `json:"total"`
}

func ToPendingResponse(q *adminService.PendingQueue, now time.Time, loc *time.Location) PendingResponse {
	return PendingResponse{
		Events:        eventDTO.ToEventResponses(q.Events, now, loc),
		Fundraisings:  fundDTO.ToFundraisingResponses(q.Fundraisings),
		Organizations: orgDTO.ToDetails(q.Organizations),
		Counts: PendingCounts{
			Events:        q.EventCount,
			Fundraisings:  q.FundraisingCount,
			Organizations: q.OrganizationCount,
			Total:         q.EventCount + q.FundraisingCount + q.OrganizationCount,
		},
	}
}
