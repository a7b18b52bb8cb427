package venue

import (
	"time"
)

// Venue is a sports complex that owns courts. The booking core reads venues,
// it never writes them.
type Venue struct {
	ID            string
	Name          string
	Address       string
	TimeZone      string // IANA identifier, e.g. America/Bogota
	OpeningHours  WeeklySchedule
	BufferMinutes int // safety margin enforced between consecutive reservations
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Location resolves the venue's IANA time zone. An unresolvable zone is a
// configuration defect, not user input, and surfaces as InvalidTimeZoneError.
func (v *Venue) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(v.TimeZone)
	if err != nil {
		return nil, &InvalidTimeZoneError{Zone: v.TimeZone, Err: err}
	}
	return loc, nil
}

// CourtStatus describes whether a court is in service.
type CourtStatus string

const (
	CourtStatusActive      CourtStatus = "activo"
	CourtStatusMaintenance CourtStatus = "mantenimiento"
)

// Court belongs to exactly one venue. Read-only to the booking core.
type Court struct {
	ID           string
	VenueID      string
	Name         string
	Surface      string
	Status       CourtStatus
	Active       bool
	OpeningHours WeeklySchedule // optional override; nil means use the venue's
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Reservable reports whether the court accepts new reservations.
func (c *Court) Reservable() bool {
	return c.Active && c.Status == CourtStatusActive
}

// BelongsTo reports whether the court is part of the given venue.
func (c *Court) BelongsTo(v *Venue) bool {
	return c.VenueID == v.ID
}

// Schedule returns the schedule governing the court: its own override when
// present, otherwise the venue's.
func (c *Court) Schedule(v *Venue) WeeklySchedule {
	if c.OpeningHours != nil {
		return c.OpeningHours
	}
	return v.OpeningHours
}
