package reservation

import (
	"errors"
	"fmt"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrAlreadyCancelled    = errors.New("reservation already cancelled")
	ErrHoldKeyExists       = errors.New("a reservation with this hold key already exists")

	// ErrOverlappingReservation rejects a hold whose slot intersects an
	// active reservation on the same court, buffer included.
	ErrOverlappingReservation = errors.New("slot overlaps an existing reservation")

	// ErrNotOwner rejects lifecycle operations by a client identity that
	// does not own the reservation.
	ErrNotOwner = errors.New("reservation belongs to another user")

	// ErrSlotInPast rejects holds and reschedules onto a slot whose start
	// has already passed in the venue's zone.
	ErrSlotInPast = errors.New("slot start time is in the past")

	// ErrInvalidState is the errors.Is target for InvalidStateError.
	ErrInvalidState = errors.New("invalid reservation state for this transition")
)

// InvalidStateError reports a lifecycle transition attempted from an illegal
// source state. Reported to the caller, never retried.
type InvalidStateError struct {
	From   Status
	Action string
	Detail string
}

func (e *InvalidStateError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("cannot %s a reservation in state %s: %s", e.Action, e.From, e.Detail)
	}
	return fmt.Sprintf("cannot %s a reservation in state %s", e.Action, e.From)
}

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }
