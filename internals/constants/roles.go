package constants

import "fmt"

const (
	RoleUser         = "user"
	RoleOrganization = "organization"
	RoleAdmin        = "admin"
)

// Role error templates
const (
	ErrOnlyAdminsCanAccess        = "❌ Only admins can access %s."
	ErrOnlyOrganizationsCanAccess = "❌ Only organizations can access %s."
	ErrOnlyUsersCanAccess         = "❌ Only users can access %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorOrganization(feature string) string {
	return fmt.Sprintf(ErrOnlyOrganizationsCanAccess, feature)
}

func RoleErrorUser(feature string) string {
	return fmt.Sprintf(ErrOnlyUsersCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleUser,
		RoleOrganization,
		RoleAdmin,
	}

	OrganizationAndAdmin = []string{
		RoleOrganization,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
