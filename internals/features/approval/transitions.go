// Package approval holds the review lifecycle of organizations, events and
// fundraising campaigns. It is pure: callers load the current status, ask
// for permission to move, then persist inside their own transaction.
package approval

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"afrikticket_backend/internals/constants"
)

var (
	ErrInvalidTransition = fiber.NewError(fiber.StatusBadRequest, "Status transition not allowed")
	ErrReasonRequired    = fiber.NewError(fiber.StatusBadRequest, "A reason is required for this status")
	ErrAdminOnly         = fiber.NewError(fiber.StatusForbidden, "Only admins can set this status")
	ErrUnknownStatus     = fiber.NewError(fiber.StatusBadRequest, "Unknown status")
)

type edge struct {
	adminOnly bool
	system    bool // reached by the engines only, never by a request
}

type machine map[string]map[string]edge

var organizationMachine = machine{
	constants.OrganizationStatusPending: {
		constants.OrganizationStatusApproved: {adminOnly: true},
		constants.OrganizationStatusRejected: {adminOnly: true},
	},
	constants.OrganizationStatusApproved: {
		constants.OrganizationStatusRejected: {adminOnly: true},
	},
	constants.OrganizationStatusRejected: {
		constants.OrganizationStatusApproved: {adminOnly: true},
	},
}

var eventMachine = machine{
	constants.EventStatusPending: {
		constants.EventStatusActive:    {adminOnly: true},
		constants.EventStatusRejected:  {adminOnly: true},
		constants.EventStatusCancelled: {},
	},
	constants.EventStatusActive: {
		constants.EventStatusPending:   {},
		constants.EventStatusRejected:  {adminOnly: true},
		constants.EventStatusCancelled: {},
	},
	constants.EventStatusRejected: {
		constants.EventStatusPending: {},
		constants.EventStatusActive:  {adminOnly: true},
	},
	constants.EventStatusCancelled: {},
}

var fundraisingMachine = machine{
	constants.FundraisingStatusPending: {
		constants.FundraisingStatusActive:    {adminOnly: true},
		constants.FundraisingStatusRejected:  {adminOnly: true},
		constants.FundraisingStatusCancelled: {},
	},
	constants.FundraisingStatusActive: {
		constants.FundraisingStatusCompleted: {system: true},
		constants.FundraisingStatusRejected:  {adminOnly: true},
		constants.FundraisingStatusCancelled: {},
	},
	constants.FundraisingStatusRejected: {
		constants.FundraisingStatusPending: {},
		constants.FundraisingStatusActive:  {adminOnly: true},
	},
	constants.FundraisingStatusCompleted: {
		constants.FundraisingStatusCancelled: {},
	},
	constants.FundraisingStatusCancelled: {},
}

func (m machine) check(from, to, reason string, byAdmin bool) error {
	if _, ok := m[to]; !ok {
		return ErrUnknownStatus
	}
	e, ok := m[from][to]
	if !ok || e.system {
		return ErrInvalidTransition
	}
	if e.adminOnly && !byAdmin {
		return ErrAdminOnly
	}
	if RequiresReason(to) && strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	return nil
}

func CheckOrganization(from, to, reason string) error {
	return organizationMachine.check(from, to, reason, true)
}

func CheckEvent(from, to, reason string, byAdmin bool) error {
	return eventMachine.check(from, to, reason, byAdmin)
}

func CheckFundraising(from, to, reason string, byAdmin bool) error {
	return fundraisingMachine.check(from, to, reason, byAdmin)
}

// RequiresReason: rejected and cancelled must carry an explanation.
func RequiresReason(status string) bool {
	return status == "rejected" || status == "cancelled"
}

// ReasonFor returns the rejection_reason to persist alongside status.
// Entering a non-reason state clears it.
func ReasonFor(status, reason string) *string {
	if !RequiresReason(status) {
		return nil
	}
	r := strings.TrimSpace(reason)
	return &r
}

// OwnerStatusFor maps an organization review outcome onto its owner account.
func OwnerStatusFor(orgStatus string) string {
	if orgStatus == constants.OrganizationStatusApproved {
		return constants.UserStatusActive
	}
	return constants.UserStatusPending
}

func IsPublicEvent(status string) bool {
	return status == constants.EventStatusActive
}

func IsPublicFundraising(status string) bool {
	return status == constants.FundraisingStatusActive
}
