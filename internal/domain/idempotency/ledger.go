package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrRecordNotFound = errors.New("idempotency record not found")
	ErrKeyRequired    = errors.New("idempotency key required")
)

// ProduceFunc computes a fresh result: the reservation it touched and the
// response payload to replay on retries.
type ProduceFunc func(ctx context.Context) (reservationID string, response json.RawMessage, err error)

// Ledger guarantees at most one successful produce per (operation, key,
// user). Concurrent or later callers with the same key observe the first
// result. A failed produce leaves no record, so the key may be retried.
type Ledger struct {
	store Store
	now   func() time.Time
}

func NewLedger(store Store, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{store: store, now: now}
}

// GetOrCreate returns the stored record for the key, or runs produce and
// records its result. The second return value is true on replay.
func (l *Ledger) GetOrCreate(ctx context.Context, op Operation, key, userID string, produce ProduceFunc) (*Record, bool, error) {
	if key == "" {
		return nil, false, ErrKeyRequired
	}

	if rec, err := l.store.Get(ctx, op, key, userID); err == nil {
		return rec, true, nil
	} else if !errors.Is(err, ErrRecordNotFound) {
		return nil, false, fmt.Errorf("idempotency lookup: %w", err)
	}

	reservationID, response, err := produce(ctx)
	if err != nil {
		return nil, false, err
	}

	rec := &Record{
		Operation:     op,
		Key:           key,
		UserID:        userID,
		ReservationID: reservationID,
		Response:      response,
		CreatedAt:     l.now(),
	}
	inserted, err := l.store.PutIfAbsent(ctx, rec)
	if err != nil {
		return nil, false, fmt.Errorf("idempotency record: %w", err)
	}
	if !inserted {
		// A concurrent caller won the insert; its result is the result.
		winner, err := l.store.Get(ctx, op, key, userID)
		if err != nil {
			return nil, false, fmt.Errorf("idempotency re-read: %w", err)
		}
		return winner, true, nil
	}
	return rec, false, nil
}
