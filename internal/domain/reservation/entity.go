package reservation

import (
	"time"

	"github.com/canchago/go-court-reservation/internal/domain/timeslot"
)

// Status is the reservation lifecycle state.
type Status string

const (
	StatusHold      Status = "hold"
	StatusPending   Status = "pending" // awaiting payment capture; set by an external flow
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
	// StatusReprogrammed marks a confirmed reservation superseded by a
	// rescheduled copy. Terminal.
	StatusReprogrammed Status = "reprogrammed"
)

// Active reports whether the status blocks its slot for other reservations.
func (s Status) Active() bool {
	return s == StatusHold || s == StatusPending || s == StatusConfirmed
}

// Terminal reports whether no further transition is legal from the status.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusExpired || s == StatusReprogrammed
}

// HoldWindow is the state payload only meaningful while Status is hold.
type HoldWindow struct {
	ExpiresAt time.Time
}

// Cancellation is the state payload only present once cancelled.
type Cancellation struct {
	Reason      string
	CancelledAt time.Time
}

// Refund summarizes the refund owed on cancellation. Informational only;
// payment side effects live outside this core.
type Refund struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Type     string `json:"type"` // total, parcial, sin_reembolso
}

// Price is the resolved price snapshot captured at hold time. It is never
// re-resolved on confirm.
type Price struct {
	Origin         string `json:"origin"`
	TariffID       string `json:"tariff_id"`
	Currency       string `json:"currency"`
	AmountPerBlock int64  `json:"price_per_block"`
}

// Reservation is a booking of one court slot by one identity. Rows are never
// deleted; terminal states are retained for audit.
type Reservation struct {
	ID      string
	VenueID string
	CourtID string
	UserID  string
	Slot    timeslot.Slot
	Status  Status
	Price   Price

	Hold        *HoldWindow   // non-nil only while Status == StatusHold
	Cancel      *Cancellation // non-nil only once Status == StatusCancelled
	ConfirmedAt *time.Time

	// Idempotency keys are kept per operation, independently of the ledger.
	HoldKey    string
	ConfirmKey string
	CancelKey  string

	RescheduledFrom *string
	RescheduledTo   *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewHold builds a reservation in hold state expiring at now+ttl.
func NewHold(venueID, courtID, userID string, slot timeslot.Slot, price Price, holdKey string, now time.Time, ttl time.Duration) *Reservation {
	return &Reservation{
		VenueID:   venueID,
		CourtID:   courtID,
		UserID:    userID,
		Slot:      slot,
		Status:    StatusHold,
		Price:     price,
		Hold:      &HoldWindow{ExpiresAt: now.Add(ttl)},
		HoldKey:   holdKey,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewRescheduled builds the confirmed replacement created when an existing
// confirmed reservation moves to a new slot. It has no hold phase and no
// hold key of its own.
func NewRescheduled(from *Reservation, slot timeslot.Slot, price Price, now time.Time) *Reservation {
	fromID := from.ID
	return &Reservation{
		VenueID:         from.VenueID,
		CourtID:         from.CourtID,
		UserID:          from.UserID,
		Slot:            slot,
		Status:          StatusConfirmed,
		Price:           price,
		ConfirmedAt:     &now,
		RescheduledFrom: &fromID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// HoldExpired reports whether a hold's window has passed. False for any
// other state.
func (r *Reservation) HoldExpired(now time.Time) bool {
	return r.Status == StatusHold && r.Hold != nil && !r.Hold.ExpiresAt.After(now)
}

// BlocksSlot reports whether the reservation should count in conflict
// checks: active states only, and a hold whose window already lapsed no
// longer blocks even before the sweeper has run.
func (r *Reservation) BlocksSlot(now time.Time) bool {
	if !r.Status.Active() {
		return false
	}
	return !r.HoldExpired(now)
}

// Confirm transitions hold to confirmed. The hold window is re-checked here;
// an expired hold cannot be confirmed even if the sweeper has not reached it
// yet.
func (r *Reservation) Confirm(key string, now time.Time) error {
	if r.Status != StatusHold {
		return &InvalidStateError{From: r.Status, Action: "confirm"}
	}
	if r.HoldExpired(now) {
		return &InvalidStateError{From: r.Status, Action: "confirm", Detail: "hold expired"}
	}
	r.Status = StatusConfirmed
	r.Hold = nil
	r.ConfirmedAt = &now
	if key != "" {
		r.ConfirmKey = key
	}
	r.UpdatedAt = now
	return nil
}

// MarkCancelled transitions hold or confirmed to cancelled, storing the
// reason. An already-cancelled reservation returns ErrAlreadyCancelled so
// callers can treat it as a no-op.
func (r *Reservation) MarkCancelled(reason, key string, now time.Time) error {
	if r.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if r.Status != StatusHold && r.Status != StatusConfirmed {
		return &InvalidStateError{From: r.Status, Action: "cancel"}
	}
	r.Status = StatusCancelled
	r.Hold = nil
	r.Cancel = &Cancellation{Reason: reason, CancelledAt: now}
	if key != "" {
		r.CancelKey = key
	}
	r.UpdatedAt = now
	return nil
}

// Expire transitions an overdue hold to expired. Returns false as a silent
// no-op when the reservation is no longer a hold or the window has not
// lapsed, so the sweeper is safe to race with lifecycle operations.
func (r *Reservation) Expire(now time.Time) bool {
	if !r.HoldExpired(now) {
		return false
	}
	r.Status = StatusExpired
	r.Hold = nil
	r.UpdatedAt = now
	return true
}

// MarkReprogrammed closes a confirmed reservation superseded by newID.
func (r *Reservation) MarkReprogrammed(newID string, now time.Time) error {
	if r.Status != StatusConfirmed {
		return &InvalidStateError{From: r.Status, Action: "reschedule"}
	}
	r.Status = StatusReprogrammed
	r.RescheduledTo = &newID
	r.UpdatedAt = now
	return nil
}
