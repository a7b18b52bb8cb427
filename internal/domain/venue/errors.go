package venue

import "errors"

var (
	ErrVenueNotFound       = errors.New("venue not found")
	ErrCourtNotFound       = errors.New("court not found")
	ErrCourtNotInVenue     = errors.New("court does not belong to the venue")
	ErrCourtNotReservable  = errors.New("court is not reservable")
	ErrOutsideOpeningHours = errors.New("slot falls outside opening hours")
	ErrInvalidSchedule     = errors.New("invalid opening-hours schedule")

	// ErrInvalidTimeZone is the errors.Is target for InvalidTimeZoneError.
	ErrInvalidTimeZone = errors.New("unresolvable venue time zone")
)

// InvalidTimeZoneError reports a venue whose configured zone cannot be
// loaded. This is a server-side fault that should alert operators.
type InvalidTimeZoneError struct {
	Zone string
	Err  error
}

func (e *InvalidTimeZoneError) Error() string {
	return "unresolvable venue time zone " + e.Zone
}

func (e *InvalidTimeZoneError) Unwrap() error { return e.Err }

func (e *InvalidTimeZoneError) Is(target error) bool { return target == ErrInvalidTimeZone }
