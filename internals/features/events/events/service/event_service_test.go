package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"afrikticket_backend/internals/constants"
	"afrikticket_backend/internals/databases/dbtest"
	"afrikticket_backend/internals/features/approval"
	eventModel "afrikticket_backend/internals/features/events/events/model"
	"afrikticket_backend/internals/features/events/tickets/credential"
	ticketService "afrikticket_backend/internals/features/events/tickets/service"
	helperAuth "afrikticket_backend/internals/helpers/auth"
	"afrikticket_backend/internals/helpers/storage"
)

func ptr[T any](v T) *T { return &v }

func newInput(t *testing.T, images int) CreateEventInput {
	in := CreateEventInput{
		Title:       "Fespaco Opening",
		Description: "Opening night",
		Date:        time.Now().Add(48 * time.Hour),
		Location:    "Ouagadougou",
		MaxTickets:  100,
		Price:       decimal.NewFromInt(2500),
		Category:    "Festival",
	}
	for i := 0; i < images; i++ {
		in.Images = append(in.Images, dbtest.PNG(t, "poster.png"))
	}
	return in
}

func TestCreateEvent(t *testing.T) {
	db := dbtest.Open(t)
	store := storage.NewMemoryStore()
	svc := NewEventService(db, store)
	owner, org := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	actor := helperAuth.Actor{UserID: owner.ID, Role: constants.RoleOrganization}

	ev, err := svc.Create(context.Background(), actor, newInput(t, 3))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ev.EventStatus != constants.EventStatusPending || ev.EventOrganizationID != org.OrganizationID {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.EventCategory != "festival" || ev.EventDuration != constants.DefaultEventDuration {
		t.Fatalf("defaults not applied: %s %v", ev.EventCategory, ev.EventDuration)
	}
	if len(ev.Images) != 3 || !ev.Images[0].EventImageIsMain || ev.Images[1].EventImageIsMain {
		t.Fatalf("images = %+v", ev.Images)
	}
	if store.Len() != 3 {
		t.Fatalf("stored blobs = %d", store.Len())
	}
}

func TestCreateEventRules(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewEventService(db, storage.NewMemoryStore())
	owner, _ := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	pending, _ := dbtest.CreateOrganization(t, db, constants.OrganizationStatusPending)
	actor := helperAuth.Actor{UserID: owner.ID, Role: constants.RoleOrganization}

	cases := []struct {
		name  string
		actor helperAuth.Actor
		edit  func(*CreateEventInput)
		want  error
	}{
		{"no images", actor, func(in *CreateEventInput) { in.Images = nil }, ErrImagesRequired},
		{"past date", actor, func(in *CreateEventInput) { in.Date = time.Now().Add(-time.Hour) }, ErrDateInPast},
		{"zero capacity", actor, func(in *CreateEventInput) { in.MaxTickets = 0 }, ErrInvalidCapacity},
		{"negative price", actor, func(in *CreateEventInput) { in.Price = decimal.NewFromInt(-1) }, ErrInvalidPrice},
		{"unknown category", actor, func(in *CreateEventInput) { in.Category = "karaoke" }, ErrInvalidCategory},
		{"pending organization", helperAuth.Actor{UserID: pending.ID, Role: constants.RoleOrganization}, func(*CreateEventInput) {}, helperAuth.ErrOrganizationNotApproved},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := newInput(t, 1)
			tc.edit(&in)
			if _, err := svc.Create(context.Background(), tc.actor, in); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestOnlyAdminActivates(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewEventService(db, storage.NewMemoryStore())
	owner, org := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	admin := dbtest.CreateUser(t, db, constants.RoleAdmin, constants.UserStatusActive)
	ev := dbtest.CreateEvent(t, db, org.OrganizationID, 10, constants.EventStatusPending)

	ownerActor := helperAuth.Actor{UserID: owner.ID, Role: constants.RoleOrganization}
	adminActor := helperAuth.Actor{UserID: admin.ID, Role: constants.RoleAdmin}

	if _, err := svc.Update(context.Background(), ownerActor, ev.EventID, UpdateEventInput{Status: ptr(constants.EventStatusActive)}); !errors.Is(err, approval.ErrAdminOnly) {
		t.Fatalf("owner activation: %v", err)
	}
	if _, err := svc.Review(context.Background(), adminActor, ev.EventID, constants.EventStatusRejected, ""); !errors.Is(err, approval.ErrReasonRequired) {
		t.Fatalf("reject without reason: %v", err)
	}
	got, err := svc.Review(context.Background(), adminActor, ev.EventID, constants.EventStatusRejected, "blurry poster")
	if err != nil || got.EventRejectionReason == nil || *got.EventRejectionReason != "blurry poster" {
		t.Fatalf("reject: %v %+v", err, got)
	}
	got, err = svc.Review(context.Background(), adminActor, ev.EventID, constants.EventStatusActive, "")
	if err != nil || got.EventStatus != constants.EventStatusActive || got.EventRejectionReason != nil {
		t.Fatalf("activate: %v %+v", err, got)
	}
	if _, err := svc.Review(context.Background(), ownerActor, ev.EventID, constants.EventStatusActive, ""); !errors.Is(err, approval.ErrAdminOnly) {
		t.Fatalf("review by owner: %v", err)
	}
}

func TestUpdateRequiresOwnership(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewEventService(db, storage.NewMemoryStore())
	_, org := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	other, _ := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	buyer := dbtest.CreateUser(t, db, constants.RoleUser, constants.UserStatusActive)
	ev := dbtest.CreateEvent(t, db, org.OrganizationID, 10, constants.EventStatusActive)

	for _, a := range []helperAuth.Actor{
		{UserID: other.ID, Role: constants.RoleOrganization},
		{UserID: buyer.ID, Role: constants.RoleUser},
	} {
		if _, err := svc.Update(context.Background(), a, ev.EventID, UpdateEventInput{Title: ptr("Hijacked")}); !errors.Is(err, helperAuth.ErrNotOwner) {
			t.Fatalf("%s: %v", a.Role, err)
		}
		if err := svc.Delete(context.Background(), a, ev.EventID); !errors.Is(err, helperAuth.ErrNotOwner) {
			t.Fatalf("%s delete: %v", a.Role, err)
		}
	}
}

func TestCapacityCannotDropBelowSold(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewEventService(db, storage.NewMemoryStore())
	owner, org := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	buyer := dbtest.CreateUser(t, db, constants.RoleUser, constants.UserStatusActive)
	ev := dbtest.CreateEvent(t, db, org.OrganizationID, 10, constants.EventStatusActive)
	actor := helperAuth.Actor{UserID: owner.ID, Role: constants.RoleOrganization}

	signer, err := credential.NewSigner("ticket-secret")
	if err != nil {
		t.Fatal(err)
	}
	tickets := ticketService.NewTicketService(db, signer)
	if _, err := tickets.IssueTickets(context.Background(), ev.EventID, buyer.ID, 4); err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := svc.Update(context.Background(), actor, ev.EventID, UpdateEventInput{MaxTickets: ptr(3)}); !errors.Is(err, ErrCapacityBelowSold) {
		t.Fatalf("lower below sold: %v", err)
	}
	got, err := svc.Update(context.Background(), actor, ev.EventID, UpdateEventInput{MaxTickets: ptr(4)})
	if err != nil || got.EventMaxTickets != 4 || got.RemainingTickets() != 0 {
		t.Fatalf("lower to sold: %v %+v", err, got)
	}

	if err := svc.Delete(context.Background(), actor, ev.EventID); !errors.Is(err, ErrEventHasTickets) {
		t.Fatalf("delete with tickets: %v", err)
	}
}

func TestImageEditsPromoteMain(t *testing.T) {
	db := dbtest.Open(t)
	store := storage.NewMemoryStore()
	svc := NewEventService(db, store)
	owner, _ := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	actor := helperAuth.Actor{UserID: owner.ID, Role: constants.RoleOrganization}

	ev, err := svc.Create(context.Background(), actor, newInput(t, 2))
	if err != nil {
		t.Fatal(err)
	}
	main := ev.MainImage()

	got, err := svc.Update(context.Background(), actor, ev.EventID, UpdateEventInput{
		RemoveImageIDs: []uuid.UUID{main.EventImageID},
		NewImages:      []*storage.File{dbtest.PNG(t, "extra.png")},
	})
	if err != nil {
		t.Fatalf("update images: %v", err)
	}
	if len(got.Images) != 2 {
		t.Fatalf("images = %d", len(got.Images))
	}
	newMain := got.MainImage()
	if newMain == nil || !newMain.EventImageIsMain || newMain.EventImageID == main.EventImageID {
		t.Fatalf("main not promoted: %+v", got.Images)
	}
	if store.Len() != 2 {
		t.Fatalf("removed blob not cleaned up: %d", store.Len())
	}

	ids := []uuid.UUID{got.Images[0].EventImageID, got.Images[1].EventImageID}
	if _, err := svc.Update(context.Background(), actor, ev.EventID, UpdateEventInput{RemoveImageIDs: ids}); !errors.Is(err, ErrImagesRequired) {
		t.Fatalf("removing every image: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("failed update touched storage: %d", store.Len())
	}
}

func TestDeleteUnsoldEvent(t *testing.T) {
	db := dbtest.Open(t)
	store := storage.NewMemoryStore()
	svc := NewEventService(db, store)
	owner, _ := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	actor := helperAuth.Actor{UserID: owner.ID, Role: constants.RoleOrganization}

	ev, err := svc.Create(context.Background(), actor, newInput(t, 1))
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(context.Background(), actor, ev.EventID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetVisible(context.Background(), actor, true, ev.EventID); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("deleted event still visible: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("images left in storage: %d", store.Len())
	}
}

func TestVisibility(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewEventService(db, storage.NewMemoryStore())
	owner, org := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	stranger := dbtest.CreateUser(t, db, constants.RoleUser, constants.UserStatusActive)
	admin := dbtest.CreateUser(t, db, constants.RoleAdmin, constants.UserStatusActive)
	active := dbtest.CreateEvent(t, db, org.OrganizationID, 10, constants.EventStatusActive)
	pending := dbtest.CreateEvent(t, db, org.OrganizationID, 10, constants.EventStatusPending)

	if _, err := svc.GetVisible(context.Background(), helperAuth.Actor{}, false, active.EventID); err != nil {
		t.Fatalf("anonymous active: %v", err)
	}
	if _, err := svc.GetVisible(context.Background(), helperAuth.Actor{}, false, pending.EventID); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("anonymous pending: %v", err)
	}
	if _, err := svc.GetVisible(context.Background(), helperAuth.Actor{UserID: stranger.ID, Role: constants.RoleUser}, true, pending.EventID); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("stranger pending: %v", err)
	}
	if _, err := svc.GetVisible(context.Background(), helperAuth.Actor{UserID: owner.ID, Role: constants.RoleOrganization}, true, pending.EventID); err != nil {
		t.Fatalf("owner pending: %v", err)
	}
	if _, err := svc.GetVisible(context.Background(), helperAuth.Actor{UserID: admin.ID, Role: constants.RoleAdmin}, true, pending.EventID); err != nil {
		t.Fatalf("admin pending: %v", err)
	}

	rows, total, err := svc.ListPublic(context.Background(), ListFilter{}, "", 0, 20)
	if err != nil || total != 1 || len(rows) != 1 || rows[0].EventID != active.EventID {
		t.Fatalf("public list: %v total=%d", err, total)
	}
	mine, total, err := svc.ListMine(context.Background(), helperAuth.Actor{UserID: owner.ID, Role: constants.RoleOrganization}, ListFilter{}, "", 0, 20)
	if err != nil || total != 2 || len(mine) != 2 {
		t.Fatalf("own list: %v total=%d", err, total)
	}
}

func TestUserEventsGrouping(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewEventService(db, storage.NewMemoryStore())
	_, org := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	buyer := dbtest.CreateUser(t, db, constants.RoleUser, constants.UserStatusActive)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	dates := map[string]time.Time{
		"past":     now.AddDate(0, 0, -3),
		"today":    now.Add(3 * time.Hour),
		"upcoming": now.AddDate(0, 0, 5),
	}
	for _, d := range dates {
		ev := dbtest.CreateEvent(t, db, org.OrganizationID, 10, constants.EventStatusActive)
		if err := db.Model(&eventModel.EventModel{}).Where("event_id = ?", ev.EventID).Update("event_date", d).Error; err != nil {
			t.Fatal(err)
		}
		for seq := 1; seq <= 2; seq++ {
			if err := db.Exec(
				"INSERT INTO tickets (ticket_id, ticket_event_id, ticket_user_id, ticket_price, ticket_purchase_date, ticket_sequence, ticket_status, ticket_token) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
				uuid.New(), ev.EventID, buyer.ID, "5000", now, seq, constants.TicketStatusValid, uuid.NewString(),
			).Error; err != nil {
				t.Fatal(err)
			}
		}
	}
	// someone else's event
	dbtest.CreateEvent(t, db, org.OrganizationID, 10, constants.EventStatusActive)

	cal, err := svc.UserEvents(context.Background(), buyer.ID, time.UTC)
	if err != nil {
		t.Fatalf("user events: %v", err)
	}
	if len(cal.Past) != 1 || len(cal.Today) != 1 || len(cal.Upcoming) != 1 {
		t.Fatalf("grouping = past %d today %d upcoming %d", len(cal.Past), len(cal.Today), len(cal.Upcoming))
	}
}

func TestCalendarEntries(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewEventService(db, storage.NewMemoryStore())
	_, org := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	buyer := dbtest.CreateUser(t, db, constants.RoleUser, constants.UserStatusActive)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	ev := dbtest.CreateEvent(t, db, org.OrganizationID, 10, constants.EventStatusActive)
	start := now.AddDate(0, 0, 5)
	if err := db.Model(&eventModel.EventModel{}).Where("event_id = ?", ev.EventID).Update("event_date", start).Error; err != nil {
		t.Fatal(err)
	}
	tickets := []string{constants.TicketStatusValid, constants.TicketStatusUsed, constants.TicketStatusCancelled}
	for i, status := range tickets {
		if err := db.Exec(
			"INSERT INTO tickets (ticket_id, ticket_event_id, ticket_user_id, ticket_price, ticket_purchase_date, ticket_sequence, ticket_status, ticket_token) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			uuid.New(), ev.EventID, buyer.ID, "5000", now, i+1, status, uuid.NewString(),
		).Error; err != nil {
			t.Fatal(err)
		}
	}

	entries, err := svc.CalendarEntries(context.Background(), buyer.ID, time.UTC)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.TicketCount != 2 {
		t.Errorf("ticket count = %d, want 2", e.TicketCount)
	}
	if !e.TotalCost.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("total cost = %s, want 10000", e.TotalCost)
	}
	if e.Bucket != CalendarUpcoming {
		t.Errorf("bucket = %q, want upcoming", e.Bucket)
	}
	wantEnd := start.Add(time.Duration(constants.DefaultEventDuration * float64(time.Hour)))
	if !e.Event.EndDate().Equal(wantEnd) {
		t.Errorf("end = %v, want %v", e.Event.EndDate(), wantEnd)
	}
	if e.Event.Organization == nil || e.Event.Organization.OrganizationName != org.OrganizationName {
		t.Errorf("organization not loaded: %+v", e.Event.Organization)
	}

	other := dbtest.CreateUser(t, db, constants.RoleUser, constants.UserStatusActive)
	empty, err := svc.CalendarEntries(context.Background(), other.ID, time.UTC)
	if err != nil || len(empty) != 0 {
		t.Fatalf("stranger calendar = %d entries, err %v", len(empty), err)
	}
}
