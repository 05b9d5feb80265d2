package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/darshan87986/cultural-explorer/internal/notify"
	"github.com/darshan87986/cultural-explorer/internal/store"
)

func newTestService(t *testing.T) (*Service, *notify.Hub, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	kv := store.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	hub := notify.NewHub(nil)
	return NewService(kv, hub, 75), hub, mr
}

func validRequest() CreateRequest {
	return CreateRequest{
		PlaceID:   "place-1",
		PlaceName: "Old Fort",
		GuideName: "Ravi",
		Name:      "Asha",
		Email:     "asha@example.com",
		Date:      "2026-09-10",
	}
}

func TestCreateBooking(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", validRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(created.ID, "booking-") {
		t.Fatalf("unexpected id %q", created.ID)
	}
	if created.Status != StatusPending || created.Amount != 75 {
		t.Fatalf("unexpected booking: %+v", created)
	}

	pending, ok, err := svc.Pending(ctx, "user-1")
	if err != nil || !ok {
		t.Fatalf("expected a pending booking")
	}
	if pending.ID != created.ID {
		t.Fatalf("pending booking mismatch")
	}
}

func TestCreateRequiresFields(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := validRequest()
	req.Email = ""
	if _, err := svc.Create(context.Background(), "user-1", req); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected missing fields, got %v", err)
	}
}

func TestCreateIDsAreUnique(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		created, err := svc.Create(ctx, "user-1", validRequest())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if seen[created.ID] {
			t.Fatalf("duplicate id %q", created.ID)
		}
		seen[created.ID] = true
	}
}

func TestConfirmPayment(t *testing.T) {
	svc, hub, _ := newTestService(t)
	ctx := context.Background()

	ws := hub.Register("user-1")
	defer hub.Unregister(ws)

	created, err := svc.Create(ctx, "user-1", validRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	confirmed, err := svc.ConfirmPayment(ctx, "user-1", created.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != StatusConfirmed {
		t.Fatalf("unexpected status %q", confirmed.Status)
	}

	if _, ok, _ := svc.Pending(ctx, "user-1"); ok {
		t.Fatalf("pending pointer must be cleared after confirmation")
	}

	select {
	case <-ws.Send:
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("expected a confirmation event")
	}
}

func TestConfirmPaymentUnknownID(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", validRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.ConfirmPayment(ctx, "user-1", "booking-unknown"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	ledger, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ledger) != 1 || ledger[0].ID != created.ID || ledger[0].Status != StatusPending {
		t.Fatalf("ledger must be unchanged, got %+v", ledger)
	}
}

func TestConfirmPaymentTwice(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, _ := svc.Create(ctx, "user-1", validRequest())
	if _, err := svc.ConfirmPayment(ctx, "user-1", created.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := svc.ConfirmPayment(ctx, "user-1", created.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestCancelRetainsBooking(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, _ := svc.Create(ctx, "user-1", validRequest())
	if _, err := svc.ConfirmPayment(ctx, "user-1", created.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := svc.Cancel(ctx, "user-1", created.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	ledger, _ := svc.List(ctx, "user-1")
	if len(ledger) != 1 || ledger[0].Status != StatusCancelled {
		t.Fatalf("cancelled booking must stay in the ledger, got %+v", ledger)
	}

	confirmed, _ := svc.ListConfirmed(ctx, "user-1")
	if len(confirmed) != 0 {
		t.Fatalf("cancelled booking must not list as confirmed")
	}

	// a second cancel changes nothing
	if err := svc.Cancel(ctx, "user-1", created.ID); err != nil {
		t.Fatalf("repeat cancel must be a no-op, got %v", err)
	}
	ledger, _ = svc.List(ctx, "user-1")
	if ledger[0].Status != StatusCancelled {
		t.Fatalf("status must stay cancelled")
	}
}

func TestCancelAbsentIDIsNoOp(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Cancel(ctx, "user-1", "booking-never-existed"); err != nil {
		t.Fatalf("cancel of an absent id must be an idempotent no-op, got %v", err)
	}

	created, err := svc.Create(ctx, "user-1", validRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Cancel(ctx, "user-1", "booking-still-absent"); err != nil {
		t.Fatalf("cancel of an absent id must be an idempotent no-op, got %v", err)
	}

	ledger, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ledger) != 1 || ledger[0].ID != created.ID || ledger[0].Status != StatusPending {
		t.Fatalf("absent-id cancel must leave the ledger untouched, got %+v", ledger)
	}
}

func TestCancelClearsPendingPointer(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, _ := svc.Create(ctx, "user-1", validRequest())
	if err := svc.Cancel(ctx, "user-1", created.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, ok, _ := svc.Pending(ctx, "user-1"); ok {
		t.Fatalf("pending pointer must be cleared")
	}
}

func TestListConfirmedPreservesLedgerOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		created, err := svc.Create(ctx, "user-1", validRequest())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := svc.ConfirmPayment(ctx, "user-1", created.ID); err != nil {
			t.Fatalf("confirm: %v", err)
		}
		ids = append(ids, created.ID)
	}

	confirmed, err := svc.ListConfirmed(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(confirmed) != 3 {
		t.Fatalf("expected 3 confirmed bookings")
	}
	for i, b := range confirmed {
		if b.ID != ids[i] {
			t.Fatalf("order not preserved at %d", i)
		}
	}
}

func TestLedgerSurvivesReconnect(t *testing.T) {
	svc, _, mr := newTestService(t)
	ctx := context.Background()

	created, _ := svc.Create(ctx, "user-1", validRequest())

	kv := store.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	fresh := NewService(kv, nil, 75)
	ledger, err := fresh.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ledger) != 1 || ledger[0].ID != created.ID {
		t.Fatalf("ledger must survive a new service instance")
	}
}

func TestCreateSurfacesStoreFailure(t *testing.T) {
	svc, _, mr := newTestService(t)
	mr.Close()

	if _, err := svc.Create(context.Background(), "user-1", validRequest()); err == nil {
		t.Fatalf("expected persistence error")
	}
}
