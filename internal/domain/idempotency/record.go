package idempotency

import (
	"context"
	"encoding/json"
	"time"
)

// Operation scopes idempotency keys. A hold key and a cancel key with the
// same string value are distinct records.
type Operation string

const (
	OpHold       Operation = "reservation.hold"
	OpConfirm    Operation = "reservation.confirm"
	OpCancel     Operation = "reservation.cancel"
	OpReschedule Operation = "reservation.reschedule"
)

// Record maps (operation, key, acting user) to the result the first call
// produced. Records are immutable once written: replays return the stored
// payload even after the reservation has moved on.
type Record struct {
	Operation     Operation
	Key           string
	UserID        string
	ReservationID string
	Response      json.RawMessage
	CreatedAt     time.Time
}

// Store is the persistence contract for the ledger. PutIfAbsent must be an
// atomic insert-if-absent at the storage layer, not a read-then-write.
type Store interface {
	// Get returns the stored record or ErrRecordNotFound.
	Get(ctx context.Context, op Operation, key, userID string) (*Record, error)

	// PutIfAbsent inserts the record unless one already exists for the same
	// composite key. Returns false when an earlier writer won.
	PutIfAbsent(ctx context.Context, rec *Record) (bool, error)
}
