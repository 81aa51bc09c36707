package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"afrikticket_backend/internals/constants"
	"afrikticket_backend/internals/databases/dbtest"
	"afrikticket_backend/internals/features/approval"
	orgModel "afrikticket_backend/internals/features/organizations/organization/model"
	userModel "afrikticket_backend/internals/features/users/user/model"
)

func TestApproveActivatesOwner(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewOrganizationService(db)
	owner, org := dbtest.CreateOrganization(t, db, constants.OrganizationStatusPending)

	got, err := svc.UpdateStatus(context.Background(), org.OrganizationID, "approved", "")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.OrganizationStatus != constants.OrganizationStatusApproved || got.OrganizationRejectionReason != nil {
		t.Fatalf("unexpected org state: %s %v", got.OrganizationStatus, got.OrganizationRejectionReason)
	}

	var u userModel.UserModel
	if err := db.First(&u, "id = ?", owner.ID).Error; err != nil {
		t.Fatal(err)
	}
	if u.Status != constants.UserStatusActive {
		t.Fatalf("owner status = %s, want active", u.Status)
	}
}

func TestRejectRequiresReasonAndDeactivatesOwner(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewOrganizationService(db)
	owner, org := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)

	if _, err := svc.UpdateStatus(context.Background(), org.OrganizationID, "rejected", "  "); !errors.Is(err, approval.ErrReasonRequired) {
		t.Fatalf("want ErrReasonRequired, got %v", err)
	}

	got, err := svc.UpdateStatus(context.Background(), org.OrganizationID, "rejected", "documents expired")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got.OrganizationRejectionReason == nil || *got.OrganizationRejectionReason != "documents expired" {
		t.Fatalf("reason not stored: %v", got.OrganizationRejectionReason)
	}

	var u userModel.UserModel
	_ = db.First(&u, "id = ?", owner.ID).Error
	if u.Status != constants.UserStatusPending {
		t.Fatalf("owner status = %s, want pending", u.Status)
	}

	// re-approval clears the reason
	got, err = svc.UpdateStatus(context.Background(), org.OrganizationID, "approved", "")
	if err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	if got.OrganizationRejectionReason != nil {
		t.Fatalf("reason should be cleared, got %q", *got.OrganizationRejectionReason)
	}
}

func TestUpdateStatusRejectsInvalidMoves(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewOrganizationService(db)
	_, org := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)

	if _, err := svc.UpdateStatus(context.Background(), org.OrganizationID, "approved", ""); !errors.Is(err, approval.ErrInvalidTransition) {
		t.Fatalf("same-state move: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), org.OrganizationID, "archived", ""); !errors.Is(err, approval.ErrUnknownStatus) {
		t.Fatalf("unknown status: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), uuid.New(), "approved", ""); !errors.Is(err, ErrOrganizationNotFound) {
		t.Fatalf("missing org: %v", err)
	}
}

func TestDeleteOrganization(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewOrganizationService(db)

	busyOwner, busy := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	dbtest.CreateEvent(t, db, busy.OrganizationID, 10, constants.EventStatusActive)
	if err := svc.Delete(context.Background(), busy.OrganizationID); !errors.Is(err, ErrOrganizationInUse) {
		t.Fatalf("want ErrOrganizationInUse, got %v", err)
	}
	var n int64
	db.Model(&userModel.UserModel{}).Where("id = ?", busyOwner.ID).Count(&n)
	if n != 1 {
		t.Fatal("owner of a busy organization was deleted")
	}

	idleOwner, idle := dbtest.CreateOrganization(t, db, constants.OrganizationStatusPending)
	if err := svc.Delete(context.Background(), idle.OrganizationID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	db.Model(&orgModel.OrganizationModel{}).Where("organization_id = ?", idle.OrganizationID).Count(&n)
	if n != 0 {
		t.Fatal("organization still present")
	}
	db.Model(&userModel.UserModel{}).Where("id = ?", idleOwner.ID).Count(&n)
	if n != 0 {
		t.Fatal("owner account still present")
	}
}

func TestUpdateProfile(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewOrganizationService(db)
	owner, _ := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)

	if _, err := svc.UpdateProfile(context.Background(), owner.ID, nil); !errors.Is(err, ErrNothingToUpdate) {
		t.Fatalf("empty update: %v", err)
	}
	got, err := svc.UpdateProfile(context.Background(), owner.ID, map[string]interface{}{"organization_name": "Dakar Events"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.OrganizationName != "Dakar Events" || got.OrganizationStatus != constants.OrganizationStatusApproved {
		t.Fatalf("unexpected org: %+v", got)
	}
}
