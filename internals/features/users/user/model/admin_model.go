package model

import (
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AdminRoleSuperAdmin = "super_admin"
	AdminRoleModerator  = "moderator"
)

var DefaultSuperAdminPermissions = []string{
	"manage_users",
	"manage_events",
	"manage_fundraisings",
	"manage_organizations",
	"manage_admins",
}

type AdminModel struct {
	AdminID          uuid.UUID      `gorm:"column:admin_id;type:uuid;primaryKey" json:"admin_id"`
	AdminUserID      uuid.UUID      `gorm:"column:admin_user_id;type:uuid;not null;uniqueIndex" json:"admin_user_id"`
	AdminRole        string         `gorm:"column:admin_role;type:varchar(20);not null;default:'moderator'" json:"admin_role"`
	AdminPermissions datatypes.JSON `gorm:"column:admin_permissions" json:"admin_permissions"`
	AdminCreatedAt   time.Time      `gorm:"column:admin_created_at;autoCreateTime" json:"admin_created_at"`
	AdminUpdatedAt   time.Time      `gorm:"column:admin_updated_at;autoUpdateTime" json:"admin_updated_at"`
}

func (AdminModel) TableName() string {
	return "admins"
}

func (m *AdminModel) BeforeCreate(tx *gorm.DB) error {
	if m.AdminID == uuid.Nil {
		m.AdminID = uuid.New()
	}
	return nil
}

func IsValidAdminRole(r string) bool {
	return r == AdminRoleSuperAdmin || r == AdminRoleModerator
}

// PermissionList decodes the JSON column; malformed data reads as empty.
func (m *AdminModel) PermissionList() []string {
	out := []string{}
	if len(m.AdminPermissions) == 0 {
		return out
	}
	_ = sonic.Unmarshal(m.AdminPermissions, &out)
	return out
}

func (m *AdminModel) SetPermissions(perms []string) error {
	clean := make([]string, 0, len(perms))
	seen := map[string]bool{}
	for _, p := range perms {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		clean = append(clean, p)
	}
	raw, err := sonic.Marshal(clean)
	if err != nil {
		return err
	}
	m.AdminPermissions = datatypes.JSON(raw)
	return nil
}
