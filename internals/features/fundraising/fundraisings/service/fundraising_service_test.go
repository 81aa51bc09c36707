package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"afrikticket_backend/internals/constants"
	"afrikticket_backend/internals/databases/dbtest"
	"afrikticket_backend/internals/features/approval"
	donationService "afrikticket_backend/internals/features/fundraising/donations/service"
	helperAuth "afrikticket_backend/internals/helpers/auth"
	"afrikticket_backend/internals/helpers/storage"
)

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func str(s string) *string { return &s }

func TestCreateFundraising(t *testing.T) {
	db := dbtest.Open(t)
	store := storage.NewMemoryStore()
	svc := NewFundraisingService(db, store)
	owner, org := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	actor := helperAuth.Actor{UserID: owner.ID, Role: constants.RoleOrganization}

	f, err := svc.Create(context.Background(), actor, CreateFundraisingInput{
		Title:  "Clean water for Tamale",
		Goal:   decimal.NewFromInt(1000),
		Images: []*storage.File{dbtest.PNG(t, "well.png")},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if f.FundraisingStatus != constants.FundraisingStatusPending || f.FundraisingOrganizationID != org.OrganizationID {
		t.Fatalf("unexpected %+v", f)
	}
	if !f.FundraisingCurrent.IsZero() || f.FundraisingCategory != "other" {
		t.Fatalf("defaults: current=%s category=%s", f.FundraisingCurrent, f.FundraisingCategory)
	}
	if len(f.Images) != 1 || !f.Images[0].FundraisingImageIsMain || store.Len() != 1 {
		t.Fatalf("images = %+v", f.Images)
	}

	// images are optional
	if _, err := svc.Create(context.Background(), actor, CreateFundraisingInput{Title: "No pictures", Goal: decimal.NewFromInt(10)}); err != nil {
		t.Fatalf("create without images: %v", err)
	}
	if _, err := svc.Create(context.Background(), actor, CreateFundraisingInput{Title: "Zero", Goal: decimal.Zero}); !errors.Is(err, ErrInvalidGoal) {
		t.Fatalf("zero goal: %v", err)
	}

	if _, err := svc.Create(context.Background(), actor, CreateFundraisingInput{Title: "Sub-cent", Goal: decimal.RequireFromString("0.004")}); !errors.Is(err, ErrInvalidGoal) {
		t.Fatalf("sub-cent goal: %v", err)
	}

	user := dbtest.CreateUser(t, db, constants.RoleUser, constants.UserStatusActive)
	if _, err := svc.Create(context.Background(), helperAuth.Actor{UserID: user.ID, Role: constants.RoleUser}, CreateFundraisingInput{Title: "x", Goal: decimal.NewFromInt(10)}); !errors.Is(err, helperAuth.ErrNoOrganization) {
		t.Fatalf("plain user: %v", err)
	}
}

func TestLoweringGoalCompletesCampaign(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewFundraisingService(db, storage.NewMemoryStore())
	owner, org := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	actor := helperAuth.Actor{UserID: owner.ID, Role: constants.RoleOrganization}
	f := dbtest.CreateFundraising(t, db, org.OrganizationID, 100, 60, constants.FundraisingStatusActive)

	got, err := svc.Update(context.Background(), actor, f.FundraisingID, UpdateFundraisingInput{Goal: dec(80)})
	if err != nil {
		t.Fatalf("raise goal: %v", err)
	}
	if got.FundraisingStatus != constants.FundraisingStatusActive {
		t.Fatalf("still below goal but status %s", got.FundraisingStatus)
	}

	got, err = svc.Update(context.Background(), actor, f.FundraisingID, UpdateFundraisingInput{Goal: dec(60)})
	if err != nil {
		t.Fatalf("lower goal: %v", err)
	}
	if got.FundraisingStatus != constants.FundraisingStatusCompleted || got.FundraisingCompletedAt == nil {
		t.Fatalf("goal reached but status %s", got.FundraisingStatus)
	}

	// completed is one-way for donations
	_, err = donationService.NewDonationService(db).Donate(context.Background(), f.FundraisingID, owner.ID, decimal.NewFromInt(5), "card")
	if !errors.Is(err, donationService.ErrCampaignNotActive) {
		t.Fatalf("donation to completed campaign: %v", err)
	}
}

func TestUpdateRejectsGoalRoundingToZero(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewFundraisingService(db, storage.NewMemoryStore())
	owner, org := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	actor := helperAuth.Actor{UserID: owner.ID, Role: constants.RoleOrganization}
	f := dbtest.CreateFundraising(t, db, org.OrganizationID, 100, 0, constants.FundraisingStatusPending)

	tiny := decimal.RequireFromString("0.004")
	if _, err := svc.Update(context.Background(), actor, f.FundraisingID, UpdateFundraisingInput{Goal: &tiny}); !errors.Is(err, ErrInvalidGoal) {
		t.Fatalf("sub-cent goal: %v", err)
	}
	got, err := svc.Update(context.Background(), actor, f.FundraisingID, UpdateFundraisingInput{Goal: dec(250)})
	if err != nil {
		t.Fatalf("valid goal: %v", err)
	}
	if !got.FundraisingGoal.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("goal = %s", got.FundraisingGoal)
	}
}

func TestPendingGoalChangeDoesNotComplete(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewFundraisingService(db, storage.NewMemoryStore())
	owner, org := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	actor := helperAuth.Actor{UserID: owner.ID, Role: constants.RoleOrganization}
	f := dbtest.CreateFundraising(t, db, org.OrganizationID, 100, 0, constants.FundraisingStatusPending)

	got, err := svc.Update(context.Background(), actor, f.FundraisingID, UpdateFundraisingInput{Goal: dec(1)})
	if err != nil {
		t.Fatal(err)
	}
	if got.FundraisingStatus != constants.FundraisingStatusPending {
		t.Fatalf("status = %s", got.FundraisingStatus)
	}
}

func TestFundraisingTransitions(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewFundraisingService(db, storage.NewMemoryStore())
	owner, org := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	admin := dbtest.CreateUser(t, db, constants.RoleAdmin, constants.UserStatusActive)
	ownerActor := helperAuth.Actor{UserID: owner.ID, Role: constants.RoleOrganization}
	adminActor := helperAuth.Actor{UserID: admin.ID, Role: constants.RoleAdmin}
	f := dbtest.CreateFundraising(t, db, org.OrganizationID, 100, 0, constants.FundraisingStatusPending)

	if _, err := svc.Update(context.Background(), ownerActor, f.FundraisingID, UpdateFundraisingInput{Status: str(constants.FundraisingStatusActive)}); !errors.Is(err, approval.ErrAdminOnly) {
		t.Fatalf("owner activation: %v", err)
	}
	if _, err := svc.Review(context.Background(), adminActor, f.FundraisingID, constants.FundraisingStatusCompleted, ""); !errors.Is(err, approval.ErrInvalidTransition) {
		t.Fatalf("manual completion: %v", err)
	}
	got, err := svc.Review(context.Background(), adminActor, f.FundraisingID, constants.FundraisingStatusActive, "")
	if err != nil || got.FundraisingStatus != constants.FundraisingStatusActive {
		t.Fatalf("activate: %v", err)
	}
	if _, err := svc.Update(context.Background(), ownerActor, f.FundraisingID, UpdateFundraisingInput{Status: str(constants.FundraisingStatusCancelled)}); !errors.Is(err, approval.ErrReasonRequired) {
		t.Fatalf("cancel without reason: %v", err)
	}
	got, err = svc.Update(context.Background(), ownerActor, f.FundraisingID, UpdateFundraisingInput{
		Status: str(constants.FundraisingStatusCancelled),
		Reason: str("venue lost"),
	})
	if err != nil || got.FundraisingStatus != constants.FundraisingStatusCancelled {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.Review(context.Background(), adminActor, f.FundraisingID, constants.FundraisingStatusActive, ""); !errors.Is(err, approval.ErrInvalidTransition) {
		t.Fatalf("cancelled is terminal: %v", err)
	}
}

func TestDeleteRefusedWithDonations(t *testing.T) {
	db := dbtest.Open(t)
	store := storage.NewMemoryStore()
	svc := NewFundraisingService(db, store)
	owner, org := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	donor := dbtest.CreateUser(t, db, constants.RoleUser, constants.UserStatusActive)
	actor := helperAuth.Actor{UserID: owner.ID, Role: constants.RoleOrganization}

	funded := dbtest.CreateFundraising(t, db, org.OrganizationID, 100, 0, constants.FundraisingStatusActive)
	if _, err := donationService.NewDonationService(db).Donate(context.Background(), funded.FundraisingID, donor.ID, decimal.NewFromInt(10), "mobile_money"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(context.Background(), actor, funded.FundraisingID); !errors.Is(err, ErrHasDonations) {
		t.Fatalf("delete funded: %v", err)
	}

	empty, err := svc.Create(context.Background(), actor, CreateFundraisingInput{
		Title:  "Unused",
		Goal:   decimal.NewFromInt(10),
		Images: []*storage.File{dbtest.PNG(t, "a.png")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(context.Background(), actor, empty.FundraisingID); err != nil {
		t.Fatalf("delete empty: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("blobs left: %d", store.Len())
	}
	if _, err := svc.GetVisible(context.Background(), actor, true, empty.FundraisingID); !errors.Is(err, ErrFundraisingNotFound) {
		t.Fatalf("deleted campaign visible: %v", err)
	}
}

func TestPublicListOnlyActive(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewFundraisingService(db, storage.NewMemoryStore())
	_, org := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	dbtest.CreateFundraising(t, db, org.OrganizationID, 100, 0, constants.FundraisingStatusActive)
	dbtest.CreateFundraising(t, db, org.OrganizationID, 100, 0, constants.FundraisingStatusPending)
	dbtest.CreateFundraising(t, db, org.OrganizationID, 100, 100, constants.FundraisingStatusCompleted)

	rows, total, err := svc.ListPublic(context.Background(), ListFilter{}, "", 0, 10)
	if err != nil || total != 1 || len(rows) != 1 {
		t.Fatalf("public: %v total=%d", err, total)
	}
	rows, total, err = svc.List(context.Background(), ListFilter{Status: constants.FundraisingStatusPending}, "", 0, 10)
	if err != nil || total != 1 || rows[0].FundraisingStatus != constants.FundraisingStatusPending {
		t.Fatalf("pending: %v total=%d", err, total)
	}
}
