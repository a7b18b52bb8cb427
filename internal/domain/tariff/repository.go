package tariff

import (
	"context"
	"time"

	"github.com/canchago/go-court-reservation/internal/domain/timeslot"
)

// Repository is the read-only tariff store. Administration enforces at most
// one applicable tariff per scope and instant at write time; both lookups
// still break ties deterministically by preferring the most recently
// created match.
type Repository interface {
	// FindApplicableForCourt returns the court-scoped tariff whose window
	// covers [start, end) on the given weekday, or ErrTariffNotFound.
	FindApplicableForCourt(ctx context.Context, courtID string, day time.Weekday, start, end timeslot.Clock) (*Tariff, error)

	// FindApplicableForVenue is the venue-scoped fallback.
	FindApplicableForVenue(ctx context.Context, venueID string, day time.Weekday, start, end timeslot.Clock) (*Tariff, error)
}
