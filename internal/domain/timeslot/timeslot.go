package timeslot

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidClock = errors.New("invalid time, expected HH:MM")
	ErrInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidRange = errors.New("end time must be after start time")
)

// Clock is a time of day expressed as minutes since midnight.
type Clock int

// ParseClock parses an HH:MM string into a Clock.
func ParseClock(s string) (Clock, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%2d:%2d", &h, &m); err != nil || len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock(h*60 + m), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Slot is a half-open [Start, End) interval on a calendar date.
// The date is naive; it only becomes an instant relative to a venue's zone.
type Slot struct {
	Date  string // YYYY-MM-DD
	Start Clock
	End   Clock
}

// New parses and validates a slot from its wire representation.
func New(date, start, end string) (Slot, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	s, err := ParseClock(start)
	if err != nil {
		return Slot{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Slot{}, err
	}
	if e <= s {
		return Slot{}, ErrInvalidRange
	}
	return Slot{Date: date, Start: s, End: e}, nil
}

// In resolves the slot to concrete instants in the given location.
func (s Slot) In(loc *time.Location) (start, end time.Time, err error) {
	day, err := time.ParseInLocation("2006-01-02", s.Date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s.Date)
	}
	start = day.Add(time.Duration(s.Start) * time.Minute)
	end = day.Add(time.Duration(s.End) * time.Minute)
	return start, end, nil
}

// Weekday returns the weekday of the slot's date in the given location.
func (s Slot) Weekday(loc *time.Location) (time.Weekday, error) {
	day, err := time.ParseInLocation("2006-01-02", s.Date, loc)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDate, s.Date)
	}
	return day.Weekday(), nil
}

// Minutes returns the slot length in minutes.
func (s Slot) Minutes() int {
	return int(s.End - s.Start)
}

// Overlaps reports whether candidate intersects existing after expanding the
// existing interval by buffer minutes on each side. Intervals are half-open,
// so a slot ending exactly when another begins does not overlap unless the
// buffer forces it.
func Overlaps(existing, candidate Slot, bufferMinutes int) bool {
	if existing.Date != candidate.Date {
		return false
	}
	lo := int(existing.Start) - bufferMinutes
	hi := int(existing.End) + bufferMinutes
	return lo < int(candidate.End) && int(candidate.Start) < hi
}
