package application

import (
	"context"
	"sort"

	"github.com/canchago/go-court-reservation/internal/domain/reservation"
	"github.com/canchago/go-court-reservation/internal/domain/timeslot"
	"github.com/canchago/go-court-reservation/internal/domain/venue"
	"github.com/canchago/go-court-reservation/internal/pkg/clock"
)

// AvailabilityService answers whether a slot collides with existing
// bookings on a court, applying the venue's buffer between sessions.
type AvailabilityService struct {
	venues       venue.Repository
	reservations reservation.Repository
	clock        clock.Clock
}

func NewAvailabilityService(venues venue.Repository, reservations reservation.Repository, clk clock.Clock) *AvailabilityService {
	return &AvailabilityService{venues: venues, reservations: reservations, clock: clk}
}

// HasConflict reports whether candidate collides with any blocking
// reservation on the court. Holds past their expiry are ignored even if
// the sweeper has not visited them yet.
func (s *AvailabilityService) HasConflict(ctx context.Context, courtID string, candidate timeslot.Slot, bufferMinutes int) (bool, error) {
	return s.hasConflict(ctx, courtID, candidate, bufferMinutes, "")
}

// HasConflictExcluding is HasConflict with one reservation excused, used
// when rescheduling a reservation onto a slot that may abut its own.
func (s *AvailabilityService) HasConflictExcluding(ctx context.Context, courtID string, candidate timeslot.Slot, bufferMinutes int, excludeID string) (bool, error) {
	return s.hasConflict(ctx, courtID, candidate, bufferMinutes, excludeID)
}

func (s *AvailabilityService) hasConflict(ctx context.Context, courtID string, candidate timeslot.Slot, bufferMinutes int, excludeID string) (bool, error) {
	blocking, err := s.reservations.ListBlocking(ctx, courtID, candidate.Date, s.clock.Now())
	if err != nil {
		return false, err
	}
	for _, r := range blocking {
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		if timeslot.Overlaps(r.Slot, candidate, bufferMinutes) {
			return true, nil
		}
	}
	return false, nil
}

// SlotStatus marks one contiguous span of a court's day as free or occupied.
type SlotStatus struct {
	Start    string `json:"start_time"`
	End      string `json:"end_time"`
	Occupied bool   `json:"occupied"`
}

// DaySchedule lists a court's day as alternating free and occupied spans
// inside its opening hours. Buffers are not applied here; the listing shows
// actual bookings, and the buffer only matters when placing a new one.
func (s *AvailabilityService) DaySchedule(ctx context.Context, venueID, courtID, date string) ([]SlotStatus, error) {
	v, err := s.venues.GetVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}
	c, err := s.venues.GetCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}
	if !c.BelongsTo(v) {
		return nil, venue.ErrCourtNotInVenue
	}

	slot, err := timeslot.New(date, "00:00", "23:59")
	if err != nil {
		return nil, err
	}
	loc, err := v.Location()
	if err != nil {
		return nil, err
	}
	day, err := slot.Weekday(loc)
	if err != nil {
		return nil, err
	}

	blocking, err := s.reservations.ListBlocking(ctx, courtID, date, s.clock.Now())
	if err != nil {
		return nil, err
	}
	sort.Slice(blocking, func(i, j int) bool {
		return blocking[i].Slot.Start < blocking[j].Slot.Start
	})

	var out []SlotStatus
	for _, open := range c.Schedule(v).Ranges(day) {
		cursor := open.Start
		for _, r := range blocking {
			if r.Slot.End <= open.Start || r.Slot.Start >= open.End {
				continue
			}
			if r.Slot.Start > cursor {
				out = append(out, SlotStatus{Start: cursor.String(), End: r.Slot.Start.String(), Occupied: false})
			}
			out = append(out, SlotStatus{Start: r.Slot.Start.String(), End: r.Slot.End.String(), Occupied: true})
			if r.Slot.End > cursor {
				cursor = r.Slot.End
			}
		}
		if cursor < open.End {
			out = append(out, SlotStatus{Start: cursor.String(), End: open.End.String(), Occupied: false})
		}
	}
	return out, nil
}
