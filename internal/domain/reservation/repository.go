package reservation

import (
	"context"
	"time"

	"github.com/canchago/go-court-reservation/internal/domain/transaction"
)

// Repository persists reservations. Only the lifecycle service mutates them.
type Repository interface {
	// Create inserts a new reservation. ErrHoldKeyExists when the hold
	// idempotency key is already taken.
	Create(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// GetByID returns a reservation or ErrReservationNotFound.
	GetByID(ctx context.Context, id string) (*Reservation, error)

	// GetByHoldKey looks a reservation up by its hold idempotency key.
	GetByHoldKey(ctx context.Context, key string) (*Reservation, error)

	// ListByUser returns a user's reservations, newest first.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Reservation, error)

	// ListBlocking returns the reservations on a court and date that still
	// block their slot at the given instant: active states, excluding holds
	// whose window has already lapsed even if unswept.
	ListBlocking(ctx context.Context, courtID, date string, now time.Time) ([]*Reservation, error)

	// Update persists a state transition.
	Update(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// ExpireOverdueHolds moves every hold with hold_expires_at <= now to
	// expired, returning how many rows changed. The status guard in the
	// update makes concurrent sweeps and lifecycle races a silent no-op.
	ExpireOverdueHolds(ctx context.Context, now time.Time) (int, error)
}
