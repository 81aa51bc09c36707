package helper

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"afrikticket_backend/internals/constants"
	orgModel "afrikticket_backend/internals/features/organizations/organization/model"
)

// Locals keys written by the auth middleware
const (
	LocUserID = "user_id"
	LocRole   = "userRole"
)

var (
	ErrUnauthenticated         = fiber.NewError(fiber.StatusUnauthorized, "Unauthenticated")
	ErrForbidden               = fiber.NewError(fiber.StatusForbidden, "You are not allowed to perform this action")
	ErrSelfOnly                = fiber.NewError(fiber.StatusForbidden, "You can only modify your own account")
	ErrNotOwner                = fiber.NewError(fiber.StatusForbidden, "You do not own this resource")
	ErrNoOrganization          = fiber.NewError(fiber.StatusForbidden, "No organization linked to this account")
	ErrOrganizationNotApproved = fiber.NewError(fiber.StatusForbidden, "Organization is not approved yet")
)

// Actor is the authenticated caller.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) IsAdmin() bool        { return a.Role == constants.RoleAdmin }
func (a Actor) IsOrganization() bool { return a.Role == constants.RoleOrganization }

func ActorFromCtx(c *fiber.Ctx) (Actor, error) {
	a, ok := OptionalActor(c)
	if !ok {
		return Actor{}, ErrUnauthenticated
	}
	return a, nil
}

// OptionalActor is for public routes that show more to owners/admins.
func OptionalActor(c *fiber.Ctx) (Actor, bool) {
	raw, _ := c.Locals(LocUserID).(string)
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return Actor{}, false
	}
	role, _ := c.Locals(LocRole).(string)
	return Actor{UserID: id, Role: role}, true
}

func RequireRole(a Actor, roles ...string) error {
	for _, r := range roles {
		if a.Role == r {
			return nil
		}
	}
	return ErrForbidden
}

// EnsureSelf applies to admins too.
func EnsureSelf(a Actor, target uuid.UUID) error {
	if a.UserID == uuid.Nil || a.UserID != target {
		return ErrSelfOnly
	}
	return nil
}

// EnsureSelfOrAdmin is for reads.
func EnsureSelfOrAdmin(a Actor, target uuid.UUID) error {
	if a.IsAdmin() {
		return nil
	}
	return EnsureSelf(a, target)
}

// OwnedOrganization resolves the caller's organization.
func OwnedOrganization(db *gorm.DB, userID uuid.UUID, requireApproved bool) (*orgModel.OrganizationModel, error) {
	var org orgModel.OrganizationModel
	err := db.Where("organization_user_id = ?", userID).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoOrganization
	}
	if err != nil {
		return nil, err
	}
	if requireApproved && org.OrganizationStatus != constants.OrganizationStatusApproved {
		return nil, ErrOrganizationNotApproved
	}
	return &org, nil
}

// EnsureOrganizationOwner passes admins, otherwise the caller must own orgID.
// orgID comes from the persisted entity, never from the request body.
func EnsureOrganizationOwner(db *gorm.DB, a Actor, orgID uuid.UUID) error {
	if a.IsAdmin() {
		return nil
	}
	if !a.IsOrganization() {
		return ErrNotOwner
	}
	var n int64
	if err := db.Model(&orgModel.OrganizationModel{}).
		Where("organization_id = ? AND organization_user_id = ?", orgID, a.UserID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotOwner
	}
	return nil
}

// CanSeeUnpublished: owners and admins may see entities that are not public.
func CanSeeUnpublished(db *gorm.DB, a Actor, ok bool, orgID uuid.UUID) bool {
	if !ok {
		return false
	}
	return EnsureOrganizationOwner(db, a, orgID) == nil
}
