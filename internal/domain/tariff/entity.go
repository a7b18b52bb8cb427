package tariff

import (
	"time"

	"github.com/canchago/go-court-reservation/internal/domain/timeslot"
)

// Scope tells whether a tariff applies to a single court or to the whole
// venue. The values double as resolution origin strings on the wire.
type Scope string

const (
	ScopeCourt Scope = "cancha"
	ScopeVenue Scope = "sede"
)

// Tariff is a price rule for one weekday time window. Court-scoped tariffs
// take precedence over venue-scoped ones. Read-only to the booking core.
type Tariff struct {
	ID            string
	VenueID       string
	CourtID       *string // nil means venue-wide
	Weekday       time.Weekday
	Start         timeslot.Clock
	End           timeslot.Clock
	PricePerBlock int64 // minor-unit-free amount in Currency
	Currency      string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Scope returns the tariff's scope.
func (t *Tariff) Scope() Scope {
	if t.CourtID != nil {
		return ScopeCourt
	}
	return ScopeVenue
}

// Covers reports whether the tariff's validity window contains the whole
// [start, end) interval on the given weekday.
func (t *Tariff) Covers(day time.Weekday, start, end timeslot.Clock) bool {
	return t.Active && t.Weekday == day && start >= t.Start && end <= t.End
}

// Resolution is the outcome of price resolution for a slot. It is what gets
// cached and snapshotted into reservations.
type Resolution struct {
	Origin        Scope  `json:"origin"`
	TariffID      string `json:"tariff_id"`
	Currency      string `json:"currency"`
	PricePerBlock int64  `json:"price_per_block"`
}
