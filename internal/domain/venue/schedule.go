package venue

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/canchago/go-court-reservation/internal/domain/timeslot"
)

// OpenRange is one open interval within a day, half-open [Start, End).
type OpenRange struct {
	Start timeslot.Clock
	End   timeslot.Clock
}

func (r OpenRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// WeeklySchedule holds the opening ranges for each weekday.
type WeeklySchedule map[time.Weekday][]OpenRange

// Weekday keys used in the stored JSON representation.
var dayNames = map[string]time.Weekday{
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miercoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sabado":    time.Saturday,
	"domingo":   time.Sunday,
}

var weekdayKeys = map[time.Weekday]string{
	time.Monday:    "lunes",
	time.Tuesday:   "martes",
	time.Wednesday: "miercoles",
	time.Thursday:  "jueves",
	time.Friday:    "viernes",
	time.Saturday:  "sabado",
	time.Sunday:    "domingo",
}

// ParseWeeklySchedule decodes the stored JSON form, a map of day name to a
// list of "HH:MM-HH:MM" ranges. Ranges crossing midnight are rejected.
func ParseWeeklySchedule(raw string) (WeeklySchedule, error) {
	var byDay map[string][]string
	if err := json.Unmarshal([]byte(raw), &byDay); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	schedule := make(WeeklySchedule, len(byDay))
	for name, ranges := range byDay {
		day, ok := dayNames[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown day %q", ErrInvalidSchedule, name)
		}
		parsed := make([]OpenRange, 0, len(ranges))
		for _, rng := range ranges {
			parts := strings.SplitN(rng, "-", 2)
			if len(parts) != 2 {
				return nil, fmt.Errorf("%w: range %q", ErrInvalidSchedule, rng)
			}
			start, err := timeslot.ParseClock(parts[0])
			if err != nil {
				return nil, fmt.Errorf("%w: range %q", ErrInvalidSchedule, rng)
			}
			end, err := timeslot.ParseClock(parts[1])
			if err != nil {
				return nil, fmt.Errorf("%w: range %q", ErrInvalidSchedule, rng)
			}
			if end <= start {
				return nil, fmt.Errorf("%w: inverted range %q", ErrInvalidSchedule, rng)
			}
			parsed = append(parsed, OpenRange{Start: start, End: end})
		}
		sort.Slice(parsed, func(i, j int) bool { return parsed[i].Start < parsed[j].Start })
		schedule[day] = parsed
	}
	return schedule, nil
}

// MarshalJSON encodes the schedule back into the stored representation.
func (s WeeklySchedule) MarshalJSON() ([]byte, error) {
	byDay := make(map[string][]string, len(s))
	for day, ranges := range s {
		texts := make([]string, len(ranges))
		for i, r := range ranges {
			texts[i] = r.String()
		}
		byDay[weekdayKeys[day]] = texts
	}
	return json.Marshal(byDay)
}

// Covers reports whether [start, end) fits entirely inside one of the
// day's open ranges. A day with no ranges is closed.
func (s WeeklySchedule) Covers(day time.Weekday, start, end timeslot.Clock) bool {
	for _, r := range s[day] {
		if start >= r.Start && end <= r.End {
			return true
		}
	}
	return false
}

// Ranges returns the open ranges for a day, sorted by start.
func (s WeeklySchedule) Ranges(day time.Weekday) []OpenRange {
	return s[day]
}
