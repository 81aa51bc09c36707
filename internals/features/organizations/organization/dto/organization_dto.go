package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	orgModel "afrikticket_backend/internals/features/organizations/organization/model"
)

// OrganizationSummary is what anonymous callers see next to an event or campaign.
type OrganizationSummary struct {
	OrganizationID          uuid.UUID `json:"organization_id"`
	OrganizationName        string    `json:"organization_name"`
	OrganizationEmail       string    `json:"organization_email"`
	OrganizationPhone       string    `json:"organization_phone"`
	OrganizationDescription *string   `json:"organization_description,omitempty"`
}

// OrganizationDetail adds review state and documents for the owner and admins.
type OrganizationDetail struct {
	OrganizationSummary
	OrganizationUserID           uuid.UUID `json:"organization_user_id"`
	OrganizationStatus           string    `json:"organization_status"`
	OrganizationRejectionReason  *string   `json:"organization_rejection_reason,omitempty"`
	OrganizationIcdDocument      *string   `json:"organization_icd_document,omitempty"`
	OrganizationCommerceRegister *string   `json:"organization_commerce_register,omitempty"`
	OrganizationCreatedAt        time.Time `json:"organization_created_at"`
	OrganizationUpdatedAt        time.Time `json:"organization_updated_at"`
}

func ToSummary(m *orgModel.OrganizationModel) *OrganizationSummary {
	if m == nil {
		return nil
	}
	return &OrganizationSummary{
		OrganizationID:          m.OrganizationID,
		OrganizationName:        m.OrganizationName,
		OrganizationEmail:       m.OrganizationEmail,
		OrganizationPhone:       m.OrganizationPhone,
		OrganizationDescription: m.OrganizationDescription,
	}
}

func ToDetail(m *orgModel.OrganizationModel) *OrganizationDetail {
	if m == nil {
		return nil
	}
	return &OrganizationDetail{
		OrganizationSummary:          *ToSummary(m),
		OrganizationUserID:           m.OrganizationUserID,
		OrganizationStatus:           m.OrganizationStatus,
		OrganizationRejectionReason:  m.OrganizationRejectionReason,
		OrganizationIcdDocument:      m.OrganizationIcdDocument,
		OrganizationCommerceRegister: m.OrganizationCommerceRegister,
		OrganizationCreatedAt:        m.OrganizationCreatedAt,
		OrganizationUpdatedAt:        m.OrganizationUpdatedAt,
	}
}

func ToDetails(rows []orgModel.OrganizationModel) []OrganizationDetail {
	out := make([]OrganizationDetail, 0, len(rows))
	for i := range rows {
		out = append(out, *ToDetail(&rows[i]))
	}
	return out
}

// UpdateOrganizationRequest is the owner's profile edit. Status never moves here.
type UpdateOrganizationRequest struct {
	OrganizationName        *string `json:"organization_name" form:"organization_name" validate:"omitempty,min=2,max=150"`
	OrganizationEmail       *string `json:"organization_email" form:"organization_email" validate:"omitempty,email"`
	OrganizationPhone       *string `json:"organization_phone" form:"organization_phone" validate:"omitempty,min=6,max=30"`
	OrganizationDescription *string `json:"organization_description" form:"organization_description" validate:"omitempty,max=5000"`
}

func (r *UpdateOrganizationRequest) Normalize() {
	trim := func(p *string) {
		if p != nil {
			v := strings.TrimSpace(*p)
			*p = v
		}
	}
	trim(r.OrganizationName)
	trim(r.OrganizationEmail)
	trim(r.OrganizationPhone)
	trim(r.OrganizationDescription)
	if r.OrganizationEmail != nil {
		v := strings.ToLower(*r.OrganizationEmail)
		r.OrganizationEmail = &v
	}
}

func (r *UpdateOrganizationRequest) ToUpdates() map[string]interface{} {
	m := map[string]interface{}{}
	if r.OrganizationName != nil {
		m["organization_name"] = *r.OrganizationName
	}
	if r.OrganizationEmail != nil {
		m["organization_email"] = *r.OrganizationEmail
	}
	if r.OrganizationPhone != nil {
		m["organization_phone"] = *r.OrganizationPhone
	}
	if r.OrganizationDescription != nil {
		m["organization_description"] = *r.OrganizationDescription
	}
	return m
}

// UpdateStatusRequest is the admin review payload.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Reason string `json:"reason" validate:"omitempty,max=2000"`
}
