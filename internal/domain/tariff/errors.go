package tariff

import (
	"errors"
	"fmt"
	"time"

	"github.com/canchago/go-court-reservation/internal/domain/timeslot"
)

var (
	// ErrTariffNotFound is returned by repositories when no row matches.
	ErrTariffNotFound = errors.New("tariff not found")

	// ErrNoApplicableTariff is the errors.Is target for NoTariffError.
	ErrNoApplicableTariff = errors.New("no applicable tariff")
)

// NoTariffError reports that neither a court-scoped nor a venue-scoped
// tariff covers the requested window. It carries the normalized day and
// times that were checked.
type NoTariffError struct {
	Weekday time.Weekday
	Start   timeslot.Clock
	End     timeslot.Clock
}

func (e *NoTariffError) Error() string {
	return fmt.Sprintf("no tariff covers %s %s-%s", e.Weekday, e.Start, e.End)
}

func (e *NoTariffError) Is(target error) bool { return target == ErrNoApplicableTariff }
