package timetable

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Slots are the grid's row headers: seven teaching hours with a lunch gap
// after 11:00. Static, never mutated.
var Slots = []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00"}

// ClockHour converts an "HH:MM" string to a fractional hour number
// (e.g. "14:30" -> 14.5). Malformed input is a caller contract violation and
// is returned as a parse error, not sanitized.
func ClockHour(s string) (float64, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing clock value %q", s)
	}
	return float64(t.Hour()) + float64(t.Minute())/60, nil
}

// EventsForCell returns the subset of events occupying the (day, slot) grid
// cell under the given view mode, preserving the order of events. An event
// occupies a slot when the slot hour falls in the half-open interval
// [startHour, endHour) — an event ending exactly on a slot boundary does not
// occupy that slot. Events lacking the fields the mode matches on are
// silently excluded.
func EventsForCell(day time.Time, slot string, events []ScheduleEvent, mode ViewMode) ([]ScheduleEvent, error) {
	slotHour, err := ClockHour(slot)
	if err != nil {
		return nil, err
	}
	dayString := day.Format(DateLayout)
	weekday := strings.ToUpper(day.Weekday().String())

	var matched []ScheduleEvent
	for _, e := range events {
		if mode == ModeStudent {
			if e.EnrolledDate == "" || e.EnrolledDate != dayString {
				continue
			}
		} else if e.DayOfWeek != weekday {
			continue
		}

		startHour, err := ClockHour(e.StartTime)
		if err != nil {
			return nil, err
		}
		endHour, err := ClockHour(e.EndTime)
		if err != nil {
			return nil, err
		}
		if slotHour >= startHour && slotHour < endHour {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// CalculateDuration reports the whole-hour span between two clock values,
// clamped to a minimum of 1. A zero- or negative-length interval renders as a
// single hour rather than an error; the grid has no zero-height cells.
func CalculateDuration(start, end string) (int, error) {
	startHour, err := ClockHour(start)
	if err != nil {
		return 0, err
	}
	endHour, err := ClockHour(end)
	if err != nil {
		return 0, err
	}
	dur := int(endHour - startHour + 0.5)
	if dur < 1 {
		return 1, nil
	}
	return dur, nil
}
