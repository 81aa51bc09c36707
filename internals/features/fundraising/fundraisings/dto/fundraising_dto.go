package dto

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	eventDTO "afrikticket_backend/internals/features/events/events/dto"
	fundModel "afrikticket_backend/internals/features/fundraising/fundraisings/model"
	fundService "afrikticket_backend/internals/features/fundraising/fundraisings/service"
	orgDTO "afrikticket_backend/internals/features/organizations/organization/dto"
	"afrikticket_backend/internals/helpers/storage"
)

var (
	ErrInvalidGoal    = fiber.NewError(fiber.StatusBadRequest, "Invalid goal")
	ErrInvalidImageID = fiber.NewError(fiber.StatusBadRequest, "Invalid image id in remove_image_ids")
)

// CreateFundraisingRequest accepts JSON or multipart; goal is a decimal string.
type CreateFundraisingRequest struct {
	Title       string `json:"title" form:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" form:"description" validate:"required,max=10000"`
	Goal        string `json:"goal" form:"goal" validate:"required"`
	Category    string `json:"category" form:"category" validate:"omitempty,max=50"`
}

func (r *CreateFundraisingRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Goal = strings.TrimSpace(r.Goal)
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
}

func (r *CreateFundraisingRequest) ToInput(images []*storage.File) (fundService.CreateFundraisingInput, error) {
	goal, err := decimal.NewFromString(r.Goal)
	if err != nil {
		return fundService.CreateFundraisingInput{}, ErrInvalidGoal
	}
	return fundService.CreateFundraisingInput{
		Title:       r.Title,
		Description: r.Description,
		Goal:        goal,
		Category:    r.Category,
		Images:      images,
	}, nil
}

type UpdateFundraisingRequest struct {
	Title          *string  `json:"title" form:"title" validate:"omitempty,min=3,max=200"`
	Description    *string  `json:"description" form:"description" validate:"omitempty,max=10000"`
	Goal           *string  `json:"goal" form:"goal"`
	Category       *string  `json:"category" form:"category" validate:"omitempty,max=50"`
	Status         *string  `json:"status" form:"status" validate:"omitempty,oneof=pending active rejected completed cancelled"`
	Reason         *string  `json:"reason" form:"reason" validate:"omitempty,max=2000"`
	RemoveImageIDs []string `json:"remove_image_ids" form:"remove_image_ids"`
}

func (r *UpdateFundraisingRequest) ToInput(images []*storage.File) (fundService.UpdateFundraisingInput, error) {
	in := fundService.UpdateFundraisingInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Status:      r.Status,
		Reason:      r.Reason,
		NewImages:   images,
	}
	if r.Goal != nil && strings.TrimSpace(*r.Goal) != "" {
		g, err := decimal.NewFromString(strings.TrimSpace(*r.Goal))
		if err != nil {
			return in, ErrInvalidGoal
		}
		in.Goal = &g
	}
	ids, err := eventDTO.ParseUUIDList(r.RemoveImageIDs)
	if err != nil {
		return in, ErrInvalidImageID
	}
	in.RemoveImageIDs = ids
	return in, nil
}

type ReviewRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active rejected cancelled"`
	Reason string `json:"reason" validate:"omitempty,max=2000"`
}

/* ===============================
   Responses
=================================*/

type FundraisingImageResponse struct {
	FundraisingImageID     uuid.UUID `json:"fundraising_image_id"`
	FundraisingImagePath   string    `json:"fundraising_image_path"`
	FundraisingImageIsMain bool      `json:"fundraising_image_is_main"`
	FundraisingImageOrder  int       `json:"fundraising_image_order"`
}

type FundraisingResponse struct {
	FundraisingID              uuid.UUID                   `json:"fundraising_id"`
	FundraisingTitle           string                      `json:"fundraising_title"`
	FundraisingDescription     string                      `json:"fundraising_description"`
	FundraisingGoal            decimal.Decimal             `json:"fundraising_goal"`
	FundraisingCurrent         decimal.Decimal             `json:"fundraising_current"`
	FundraisingProgress        float64                     `json:"fundraising_progress"`
	FundraisingCategory        string                      `json:"fundraising_category"`
	FundraisingStatus          string                      `json:"fundraising_status"`
	FundraisingRejectionReason *string                     `json:"fundraising_rejection_reason,omitempty"`
	FundraisingCompletedAt     *time.Time                  `json:"fundraising_completed_at,omitempty"`
	FundraisingMainImage       *string                     `json:"fundraising_main_image,omitempty"`
	FundraisingImages          []FundraisingImageResponse  `json:"fundraising_images"`
	Organization               *orgDTO.OrganizationSummary `json:"organization,omitempty"`
	FundraisingCreatedAt       time.Time                   `json:"fundraising_created_at"`
	FundraisingUpdatedAt       time.Time                   `json:"fundraising_updated_at"`
}

func ToFundraisingResponse(m *fundModel.FundraisingModel) *FundraisingResponse {
	if m == nil {
		return nil
	}
	images := make([]FundraisingImageResponse, 0, len(m.Images))
	var main *string
	for _, img := range m.Images {
		images = append(images, FundraisingImageResponse{
			FundraisingImageID:     img.FundraisingImageID,
			FundraisingImagePath:   img.FundraisingImagePath,
			FundraisingImageIsMain: img.FundraisingImageIsMain,
			FundraisingImageOrder:  img.FundraisingImageOrder,
		})
		if img.FundraisingImageIsMain && main == nil {
			p := img.FundraisingImagePath
			main = &p
		}
	}
	return &FundraisingResponse{
		FundraisingID:              m.FundraisingID,
		FundraisingTitle:           m.FundraisingTitle,
		FundraisingDescription:     m.FundraisingDescription,
		FundraisingGoal:            m.FundraisingGoal,
		FundraisingCurrent:         m.FundraisingCurrent,
		FundraisingProgress:        m.Progress(),
		FundraisingCategory:        m.FundraisingCategory,
		FundraisingStatus:          m.FundraisingStatus,
		FundraisingRejectionReason: m.FundraisingRejectionReason,
		FundraisingCompletedAt:     m.FundraisingCompletedAt,
		FundraisingMainImage:       main,
		FundraisingImages:          images,
		Organization:               orgDTO.ToSummary(m.Organization),
		FundraisingCreatedAt:       m.FundraisingCreatedAt,
		FundraisingUpdatedAt:       m.FundraisingUpdatedAt,
	}
}

func ToFundraisingResponses(rows []fundModel.FundraisingModel) []FundraisingResponse {
	out := make([]FundraisingResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *ToFundraisingResponse(&rows[i]))
	}
	return out
}
