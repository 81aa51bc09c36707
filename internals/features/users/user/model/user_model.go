package model

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	orgModel "afrikticket_backend/internals/features/organizations/organization/model"
)

var validate = validator.New()

type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name" validate:"required,min=2,max=100"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email" validate:"required,email"`
	Password     string    `gorm:"not null" json:"-" validate:"required"`
	GoogleID     *string   `gorm:"size:255;uniqueIndex" json:"-"`
	Role         string    `gorm:"type:varchar(20);not null;default:'user'" json:"role" validate:"required,oneof=user organization admin"`
	Phone        *string   `gorm:"size:30" json:"phone,omitempty"`
	Status       string    `gorm:"type:varchar(20);not null;default:'active';index" json:"status" validate:"required,oneof=active pending suspended"`
	ProfileImage *string   `gorm:"column:profile_image" json:"profile_image,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Organization *orgModel.OrganizationModel `gorm:"foreignKey:OrganizationUserID;references:ID;constraint:OnDelete:CASCADE" json:"organization,omitempty"`
	Admin        *AdminModel                 `gorm:"foreignKey:AdminUserID;references:ID;constraint:OnDelete:CASCADE" json:"admin,omitempty"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *UserModel) SetDefaultValues() {
	if u.Role == "" {
		u.Role = "user"
	}
	if u.Status == "" {
		u.Status = "active"
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
}

func (u *UserModel) Validate() error {
	u.SetDefaultValues()
	if err := validate.Struct(u); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		switch fieldErr.Tag() {
		case "required":
			msgs = append(msgs, fieldErr.Field()+" is required.")
		case "email":
			msgs = append(msgs, "Invalid email format.")
		case "min":
			msgs = append(msgs, fieldErr.Field()+" must be at least "+fieldErr.Param()+" characters.")
		case "max":
			msgs = append(msgs, fieldErr.Field()+" must be at most "+fieldErr.Param()+" characters.")
		case "oneof":
			msgs = append(msgs, fieldErr.Field()+" must be one of "+fieldErr.Param()+".")
		default:
			msgs = append(msgs, fieldErr.Field()+" is invalid.")
		}
	}
	sort.Strings(msgs)
	return errors.New(strings.Join(msgs, " "))
}
