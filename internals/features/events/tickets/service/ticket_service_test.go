package service

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"afrikticket_backend/internals/constants"
	"afrikticket_backend/internals/databases/dbtest"
	eventModel "afrikticket_backend/internals/features/events/events/model"
	"afrikticket_backend/internals/features/events/tickets/credential"
	ticketModel "afrikticket_backend/internals/features/events/tickets/model"
	helperAuth "afrikticket_backend/internals/helpers/auth"
)

type fixture struct {
	db    *gorm.DB
	svc   *TicketService
	owner helperAuth.Actor
	orgID uuid.UUID
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := dbtest.Open(t)
	signer, err := credential.NewSigner("test-ticket-secret")
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	owner, org := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	return fixture{
		db:    db,
		svc:   NewTicketService(db, signer),
		owner: helperAuth.Actor{UserID: owner.ID, Role: constants.RoleOrganization},
		orgID: org.OrganizationID,
	}
}

func countTickets(t *testing.T, db *gorm.DB, eventID uuid.UUID) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&ticketModel.TicketModel{}).Where("ticket_event_id = ?", eventID).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func reloadEvent(t *testing.T, db *gorm.DB, id uuid.UUID) eventModel.EventModel {
	t.Helper()
	var ev eventModel.EventModel
	if err := db.First(&ev, "event_id = ?", id).Error; err != nil {
		t.Fatalf("reload event: %v", err)
	}
	return ev
}

func TestIssueTicketsCreatesSignedSequencedTickets(t *testing.T) {
	f := setup(t)
	ev := dbtest.CreateEvent(t, f.db, f.orgID, 10, constants.EventStatusActive)
	buyer := dbtest.CreateUser(t, f.db, constants.RoleUser, constants.UserStatusActive)

	tickets, err := f.svc.IssueTickets(context.Background(), ev.EventID, buyer.ID, 3)
	if err != nil {
		t.Fatalf("IssueTickets: %v", err)
	}
	if len(tickets) != 3 {
		t.Fatalf("want 3 tickets, got %d", len(tickets))
	}
	for i, tk := range tickets {
		if tk.TicketSequence != i+1 {
			t.Errorf("ticket %d: seq %d", i, tk.TicketSequence)
		}
		if !tk.TicketPrice.Equal(ev.EventPrice) {
			t.Errorf("price snapshot %s != %s", tk.TicketPrice, ev.EventPrice)
		}
		if tk.TicketStatus != constants.TicketStatusValid {
			t.Errorf("status %s", tk.TicketStatus)
		}
		claims, err := f.svc.VerifyToken(tk.TicketToken)
		if err != nil {
			t.Fatalf("token does not verify: %v", err)
		}
		if claims.ID != tk.TicketID.String() || claims.Subject != buyer.ID.String() || claims.Seq != tk.TicketSequence {
			t.Errorf("claims do not match ticket: %+v", claims)
		}
	}
	if got := reloadEvent(t, f.db, ev.EventID).EventTicketsSold; got != 3 {
		t.Fatalf("tickets_sold = %d, want 3", got)
	}

	more, err := f.svc.IssueTickets(context.Background(), ev.EventID, buyer.ID, 2)
	if err != nil {
		t.Fatalf("second purchase: %v", err)
	}
	if more[0].TicketSequence != 4 || more[1].TicketSequence != 5 {
		t.Fatalf("sequence should continue, got %d,%d", more[0].TicketSequence, more[1].TicketSequence)
	}
}

func TestIssueTicketsPreconditions(t *testing.T) {
	f := setup(t)
	buyer := dbtest.CreateUser(t, f.db, constants.RoleUser, constants.UserStatusActive)
	pending := dbtest.CreateEvent(t, f.db, f.orgID, 10, constants.EventStatusPending)
	past := dbtest.CreateEvent(t, f.db, f.orgID, 10, constants.EventStatusActive)
	if err := f.db.Model(past).Update("event_date", time.Now().UTC().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}
	active := dbtest.CreateEvent(t, f.db, f.orgID, 10, constants.EventStatusActive)

	cases := []struct {
		name    string
		eventID uuid.UUID
		qty     int
		want    error
	}{
		{"unknown event", uuid.New(), 1, ErrEventNotFound},
		{"pending event", pending.EventID, 1, ErrEventNotOnSale},
		{"past event", past.EventID, 1, ErrEventNotOnSale},
		{"zero quantity", active.EventID, 0, ErrInvalidQuantity},
		{"too many", active.EventID, 11, ErrInvalidQuantity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.IssueTickets(context.Background(), tc.eventID, buyer.ID, tc.qty)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestIssueTicketsIsAllOrNothing(t *testing.T) {
	f := setup(t)
	ev := dbtest.CreateEvent(t, f.db, f.orgID, 5, constants.EventStatusActive)
	buyer := dbtest.CreateUser(t, f.db, constants.RoleUser, constants.UserStatusActive)

	if _, err := f.svc.IssueTickets(context.Background(), ev.EventID, buyer.ID, 3); err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	_, err := f.svc.IssueTickets(context.Background(), ev.EventID, buyer.ID, 3)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("want ErrCapacityExceeded, got %v", err)
	}
	if n := countTickets(t, f.db, ev.EventID); n != 3 {
		t.Fatalf("partial batch leaked: %d tickets", n)
	}
	if got := reloadEvent(t, f.db, ev.EventID).EventTicketsSold; got != 3 {
		t.Fatalf("counter moved on failure: %d", got)
	}
}

func TestConcurrentPurchasesNeverOversell(t *testing.T) {
	f := setup(t)
	const capacity, buyers = 5, 12
	ev := dbtest.CreateEvent(t, f.db, f.orgID, capacity, constants.EventStatusActive)
	buyer := dbtest.CreateUser(t, f.db, constants.RoleUser, constants.UserStatusActive)

	var ok, refused atomic.Int32
	var g errgroup.Group
	for i := 0; i < buyers; i++ {
		g.Go(func() error {
			_, err := f.svc.IssueTickets(context.Background(), ev.EventID, buyer.ID, 1)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, ErrCapacityExceeded):
				refused.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ok.Load() != capacity || refused.Load() != buyers-capacity {
		t.Fatalf("ok=%d refused=%d", ok.Load(), refused.Load())
	}
	if n := countTickets(t, f.db, ev.EventID); n != capacity {
		t.Fatalf("tickets=%d, capacity=%d", n, capacity)
	}

	var seqs []int
	f.db.Model(&ticketModel.TicketModel{}).Where("ticket_event_id = ?", ev.EventID).Pluck("ticket_sequence", &seqs)
	sort.Ints(seqs)
	for i, s := range seqs {
		if s != i+1 {
			t.Fatalf("sequences not contiguous: %v", seqs)
		}
	}
}

func TestLastSeatTwoBuyers(t *testing.T) {
	f := setup(t)
	ev := dbtest.CreateEvent(t, f.db, f.orgID, 1, constants.EventStatusActive)
	a := dbtest.CreateUser(t, f.db, constants.RoleUser, constants.UserStatusActive)
	b := dbtest.CreateUser(t, f.db, constants.RoleUser, constants.UserStatusActive)

	errs := make([]error, 2)
	var g errgroup.Group
	for i, u := range []uuid.UUID{a.ID, b.ID} {
		g.Go(func() error {
			_, errs[i] = f.svc.IssueTickets(context.Background(), ev.EventID, u, 1)
			return nil
		})
	}
	_ = g.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else if !errors.Is(err, ErrCapacityExceeded) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("want exactly one winner, got %d", wins)
	}
	if n := countTickets(t, f.db, ev.EventID); n != 1 {
		t.Fatalf("tickets=%d", n)
	}
}

func TestRedeemTicket(t *testing.T) {
	f := setup(t)
	ev := dbtest.CreateEvent(t, f.db, f.orgID, 10, constants.EventStatusActive)
	buyer := dbtest.CreateUser(t, f.db, constants.RoleUser, constants.UserStatusActive)
	tickets, err := f.svc.IssueTickets(context.Background(), ev.EventID, buyer.ID, 1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	token := tickets[0].TicketToken

	// another organization cannot redeem
	otherOwner, _ := dbtest.CreateOrganization(t, f.db, constants.OrganizationStatusApproved)
	stranger := helperAuth.Actor{UserID: otherOwner.ID, Role: constants.RoleOrganization}
	if _, err := f.svc.RedeemTicket(context.Background(), stranger, token); !errors.Is(err, helperAuth.ErrNotOwner) {
		t.Fatalf("stranger redeem: want ErrNotOwner, got %v", err)
	}

	used, err := f.svc.RedeemTicket(context.Background(), f.owner, token)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if used.TicketStatus != constants.TicketStatusUsed || used.TicketUsedAt == nil {
		t.Fatalf("ticket not marked used: %+v", used)
	}

	if _, err := f.svc.RedeemTicket(context.Background(), f.owner, token); !errors.Is(err, ErrAlreadyRedeemed) {
		t.Fatalf("second redeem: want ErrAlreadyRedeemed, got %v", err)
	}

	admin := helperAuth.Actor{UserID: uuid.New(), Role: constants.RoleAdmin}
	if _, err := f.svc.RedeemTicket(context.Background(), admin, token); !errors.Is(err, ErrAlreadyRedeemed) {
		t.Fatalf("admin redeem of used ticket: want ErrAlreadyRedeemed, got %v", err)
	}
}

func TestConcurrentRedeemSingleWinner(t *testing.T) {
	f := setup(t)
	ev := dbtest.CreateEvent(t, f.db, f.orgID, 10, constants.EventStatusActive)
	buyer := dbtest.CreateUser(t, f.db, constants.RoleUser, constants.UserStatusActive)
	tickets, err := f.svc.IssueTickets(context.Background(), ev.EventID, buyer.ID, 1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var wins, dup atomic.Int32
	var g errgroup.Group
	for i := 0; i < 6; i++ {
		g.Go(func() error {
			_, err := f.svc.RedeemTicket(context.Background(), f.owner, tickets[0].TicketToken)
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, ErrAlreadyRedeemed):
				dup.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if wins.Load() != 1 || dup.Load() != 5 {
		t.Fatalf("wins=%d dup=%d", wins.Load(), dup.Load())
	}
}

func TestRedeemRejectsTamperedOrUnknownToken(t *testing.T) {
	f := setup(t)

	if _, err := f.svc.RedeemTicket(context.Background(), f.owner, "abc.def.ghi"); !errors.Is(err, credential.ErrInvalidCredential) {
		t.Fatalf("garbage token: got %v", err)
	}

	// well-signed but never issued
	orphan, err := f.svc.Signer.Sign(uuid.New(), uuid.New(), uuid.New(), time.Now(), 1)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := f.svc.RedeemTicket(context.Background(), f.owner, orphan); !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("orphan token: want ErrTicketNotFound, got %v", err)
	}
}

func TestCancelledEventTicketsStillRedeemable(t *testing.T) {
	f := setup(t)
	ev := dbtest.CreateEvent(t, f.db, f.orgID, 10, constants.EventStatusActive)
	buyer := dbtest.CreateUser(t, f.db, constants.RoleUser, constants.UserStatusActive)
	tickets, err := f.svc.IssueTickets(context.Background(), ev.EventID, buyer.ID, 1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := f.db.Model(ev).Update("event_status", constants.EventStatusCancelled).Error; err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := f.svc.RedeemTicket(context.Background(), f.owner, tickets[0].TicketToken); err != nil {
		t.Fatalf("redeem after cancel: %v", err)
	}
}
