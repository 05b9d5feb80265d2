package booking

import (
	"context"
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/darshan87986/cultural-explorer/internal/notify"
	"github.com/darshan87986/cultural-explorer/internal/store"
)

var (
	ErrMissingFields     = errors.New("place, name, email and date are required")
	ErrInvalidTransition = errors.New("invalid booking transition")
)

var nowFn = time.Now

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// newBookingID stays unique even for bookings created in the same
// millisecond; the monotonic reader bumps the entropy part.
func newBookingID(now time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return "booking-" + ulid.MustNew(ulid.Timestamp(now), entropy).String()
}

// Service keeps one append-only booking ledger per user plus a pointer to
// the booking currently awaiting payment.
type Service struct {
	kv  *store.KV
	hub *notify.Hub
	fee float64
}

func NewService(kv *store.KV, hub *notify.Hub, fee float64) *Service {
	return &Service{kv: kv, hub: hub, fee: fee}
}

func ledgerKey(userID string) string {
	return "user:" + userID + ":bookings"
}

func pendingKey(userID string) string {
	return "user:" + userID + ":pending_booking"
}

// Create appends a pending booking to the ledger and marks it as awaiting
// payment. Persistence failures surface to the caller; a booking that was
// not stored was not made.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (Booking, error) {
	if req.PlaceID == "" || req.Name == "" || req.Email == "" || req.Date == "" {
		return Booking{}, ErrMissingFields
	}

	booking := Booking{
		ID:        newBookingID(nowFn()),
		PlaceID:   req.PlaceID,
		PlaceName: req.PlaceName,
		GuideName: req.GuideName,
		Name:      req.Name,
		Email:     req.Email,
		Date:      req.Date,
		Notes:     req.Notes,
		Status:    StatusPending,
		Amount:    s.fee,
	}

	ledger, err := s.loadLedger(ctx, userID)
	if err != nil {
		return Booking{}, err
	}
	ledger = append(ledger, booking)
	if err := s.kv.SetJSON(ctx, ledgerKey(userID), ledger); err != nil {
		return Booking{}, err
	}
	if err := s.kv.SetJSON(ctx, pendingKey(userID), booking); err != nil {
		return Booking{}, err
	}
	return booking, nil
}

// Pending returns the booking currently awaiting payment, if any.
func (s *Service) Pending(ctx context.Context, userID string) (Booking, bool, error) {
	var booking Booking
	ok, err := s.kv.GetJSON(ctx, pendingKey(userID), &booking)
	return booking, ok, err
}

func (s *Service) List(ctx context.Context, userID string) ([]Booking, error) {
	return s.loadLedger(ctx, userID)
}

// ListConfirmed preserves ledger order.
func (s *Service) ListConfirmed(ctx context.Context, userID string) ([]Booking, error) {
	ledger, err := s.loadLedger(ctx, userID)
	if err != nil {
		return nil, err
	}
	confirmed := []Booking{}
	for _, b := range ledger {
		if b.Status == StatusConfirmed {
			confirmed = append(confirmed, b)
		}
	}
	return confirmed, nil
}

// ConfirmPayment moves a pending booking to confirmed. Payment completion
// arrives as an external signal, so an unknown id or an already settled
// booking is a transition error, never a crash.
func (s *Service) ConfirmPayment(ctx context.Context, userID, bookingID string) (Booking, error) {
	ledger, err := s.loadLedger(ctx, userID)
	if err != nil {
		return Booking{}, err
	}

	idx := indexOf(ledger, bookingID)
	if idx < 0 || ledger[idx].Status != StatusPending {
		return Booking{}, ErrInvalidTransition
	}

	ledger[idx].Status = StatusConfirmed
	if err := s.kv.SetJSON(ctx, ledgerKey(userID), ledger); err != nil {
		return Booking{}, err
	}
	if err := s.clearPendingIfMatches(ctx, userID, bookingID); err != nil {
		return Booking{}, err
	}

	confirmed := ledger[idx]
	s.publish(ctx, userID, "booking_confirmed", confirmed)
	return confirmed, nil
}

// Cancel flips the booking to cancelled and keeps it in the ledger.
// Cancelling an absent or already cancelled booking is a no-op.
func (s *Service) Cancel(ctx context.Context, userID, bookingID string) error {
	ledger, err := s.loadLedger(ctx, userID)
	if err != nil {
		return err
	}

	idx := indexOf(ledger, bookingID)
	if idx < 0 || ledger[idx].Status == StatusCancelled {
		return nil
	}

	ledger[idx].Status = StatusCancelled
	if err := s.kv.SetJSON(ctx, ledgerKey(userID), ledger); err != nil {
		return err
	}
	if err := s.clearPendingIfMatches(ctx, userID, bookingID); err != nil {
		return err
	}

	s.publish(ctx, userID, "booking_cancelled", ledger[idx])
	return nil
}

func (s *Service) loadLedger(ctx context.Context, userID string) ([]Booking, error) {
	var ledger []Booking
	if _, err := s.kv.GetJSON(ctx, ledgerKey(userID), &ledger); err != nil {
		return nil, err
	}
	if ledger == nil {
		ledger = []Booking{}
	}
	return ledger, nil
}

func (s *Service) clearPendingIfMatches(ctx context.Context, userID, bookingID string) error {
	pending, ok, err := s.Pending(ctx, userID)
	if err != nil || !ok || pending.ID != bookingID {
		return err
	}
	return s.kv.Delete(ctx, pendingKey(userID))
}

func (s *Service) publish(ctx context.Context, userID, eventType string, b Booking) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(ctx, userID, notify.Event{
		Type:      eventType,
		BookingID: b.ID,
		PlaceName: b.PlaceName,
		Status:    b.Status,
	})
}

func indexOf(ledger []Booking, bookingID string) int {
	for i, b := range ledger {
		if b.ID == bookingID {
			return i
		}
	}
	return -1
}
