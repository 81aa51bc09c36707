package service

import (
	"context"
	"errors"
	"testing"

	"afrikticket_backend/internals/constants"
	"afrikticket_backend/internals/databases/dbtest"
	userModel "afrikticket_backend/internals/features/users/user/model"
	helperAuth "afrikticket_backend/internals/helpers/auth"
)

func superAdmin(t *testing.T, svc *AdminService) helperAuth.Actor {
	t.Helper()
	u, created, err := svc.EnsureSuperAdmin(context.Background(), "Root", "root@afrikticket.com", "supersecret")
	if err != nil || !created {
		t.Fatalf("seed super admin: created=%v err=%v", created, err)
	}
	return helperAuth.Actor{UserID: u.ID, Role: u.Role}
}

func TestEnsureSuperAdminIsIdempotent(t *testing.T) {
	t.Setenv("BCRYPT_COST", "4")
	db := dbtest.Open(t)
	svc := NewAdminService(db)
	first := superAdmin(t, svc)

	u, created, err := svc.EnsureSuperAdmin(context.Background(), "Root", "ROOT@afrikticket.com ", "other-password")
	if err != nil {
		t.Fatal(err)
	}
	if created || u.ID != first.UserID {
		t.Fatalf("second seed must reuse the account, created=%v id=%s", created, u.ID)
	}

	var admins int64
	db.Model(&userModel.AdminModel{}).Count(&admins)
	if admins != 1 {
		t.Fatalf("admins = %d, want 1", admins)
	}
	if u.Admin == nil || u.Admin.AdminRole != userModel.AdminRoleSuperAdmin {
		t.Fatalf("admin profile not loaded: %+v", u.Admin)
	}
}

func TestCreateAdmin(t *testing.T) {
	t.Setenv("BCRYPT_COST", "4")
	db := dbtest.Open(t)
	svc := NewAdminService(db)
	root := superAdmin(t, svc)
	ctx := context.Background()

	u, err := svc.CreateAdmin(ctx, root, CreateAdminInput{
		Name:        "Moderator",
		Email:       "mod@afrikticket.com",
		Password:    "moderator1",
		Permissions: []string{"manage_events", "manage_events", " "},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Role != constants.RoleAdmin || u.Status != constants.UserStatusActive {
		t.Fatalf("unexpected account: %s %s", u.Role, u.Status)
	}
	if u.Admin.AdminRole != userModel.AdminRoleModerator {
		t.Fatalf("admin role = %s", u.Admin.AdminRole)
	}
	if perms := u.Admin.PermissionList(); len(perms) != 1 || perms[0] != "manage_events" {
		t.Fatalf("permissions = %v", perms)
	}

	if _, err := svc.CreateAdmin(ctx, root, CreateAdminInput{Name: "Dup", Email: "mod@afrikticket.com", Password: "moderator1"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
	if _, err := svc.CreateAdmin(ctx, root, CreateAdminInput{Name: "Weak", Email: "weak@afrikticket.com", Password: "short"}); err == nil {
		t.Fatal("weak password accepted")
	}

	// a moderator without manage_admins cannot create admins
	mod := helperAuth.Actor{UserID: u.ID, Role: constants.RoleAdmin}
	if _, err := svc.CreateAdmin(ctx, mod, CreateAdminInput{Name: "X", Email: "x@afrikticket.com", Password: "moderator1"}); !errors.Is(err, ErrMissingPermission) {
		t.Fatalf("want ErrMissingPermission, got %v", err)
	}

	// plain users are rejected before any lookup
	user := dbtest.CreateUser(t, db, constants.RoleUser, constants.UserStatusActive)
	if _, err := svc.CreateAdmin(ctx, helperAuth.Actor{UserID: user.ID, Role: user.Role}, CreateAdminInput{}); !errors.Is(err, helperAuth.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}

func TestChangeRole(t *testing.T) {
	t.Setenv("BCRYPT_COST", "4")
	db := dbtest.Open(t)
	svc := NewAdminService(db)
	root := superAdmin(t, svc)
	ctx := context.Background()

	user := dbtest.CreateUser(t, db, constants.RoleUser, constants.UserStatusActive)

	got, err := svc.ChangeRole(ctx, root, user.ID, ChangeRoleInput{Role: "admin"})
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if got.Role != constants.RoleAdmin || got.Admin == nil || got.Admin.AdminRole != userModel.AdminRoleModerator {
		t.Fatalf("promotion incomplete: %+v", got)
	}

	got, err = svc.ChangeRole(ctx, root, user.ID, ChangeRoleInput{Role: "user"})
	if err != nil {
		t.Fatalf("demote: %v", err)
	}
	if got.Role != constants.RoleUser || got.Admin != nil {
		t.Fatalf("demotion incomplete: role=%s admin=%v", got.Role, got.Admin)
	}

	if _, err := svc.ChangeRole(ctx, root, root.UserID, ChangeRoleInput{Role: "user"}); !errors.Is(err, ErrOwnRole) {
		t.Fatalf("want ErrOwnRole, got %v", err)
	}
	owner, _ := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	if _, err := svc.ChangeRole(ctx, root, owner.ID, ChangeRoleInput{Role: "admin"}); !errors.Is(err, ErrOrganizationRole) {
		t.Fatalf("want ErrOrganizationRole, got %v", err)
	}
	if _, err := svc.ChangeRole(ctx, root, user.ID, ChangeRoleInput{Role: "organization"}); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("want ErrInvalidRole, got %v", err)
	}
}

func TestPendingQueue(t *testing.T) {
	t.Setenv("BCRYPT_COST", "4")
	db := dbtest.Open(t)
	svc := NewAdminService(db)

	_, approved := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	dbtest.CreateOrganization(t, db, constants.OrganizationStatusPending)
	dbtest.CreateEvent(t, db, approved.OrganizationID, 10, constants.EventStatusPending)
	dbtest.CreateEvent(t, db, approved.OrganizationID, 10, constants.EventStatusPending)
	dbtest.CreateEvent(t, db, approved.OrganizationID, 10, constants.EventStatusActive)
	dbtest.CreateFundraising(t, db, approved.OrganizationID, 1000, 0, constants.FundraisingStatusPending)

	q, err := svc.Pending(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if q.EventCount != 2 || q.FundraisingCount != 1 || q.OrganizationCount != 1 {
		t.Fatalf("counts = %d/%d/%d", q.EventCount, q.FundraisingCount, q.OrganizationCount)
	}
	if len(q.Events) != 1 || len(q.Fundraisings) != 1 || len(q.Organizations) != 1 {
		t.Fatalf("limit not applied: %d/%d/%d", len(q.Events), len(q.Fundraisings), len(q.Organizations))
	}
}
