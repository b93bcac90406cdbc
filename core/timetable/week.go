package timetable

import "time"

// NowFunc returns the current time; swapped out in tests.
var NowFunc = time.Now // mockable

// Week is the Monday-aligned 5-day window currently displayed. Navigation is
// clamped to the semester window when one is set; without a window every
// operation degenerates to the unclamped, today-anchored behavior.
//
// The anchor is the only mutable state and is only touched by explicit
// navigation calls from a single goroutine; Week is not safe for concurrent
// mutation and does not need to be.
type Week struct {
	start  time.Time // Monday of the displayed week
	window *SemesterWindow
}

// NewWeek anchors to the week containing the semester start when a window is
// known, otherwise to the week containing the current date.
func NewWeek(window *SemesterWindow) *Week {
	w := &Week{}
	if window != nil {
		w.SetWindow(*window)
	} else {
		w.start = StartOfWeek(NowFunc())
	}
	return w
}

// StartOfWeek returns the most recent Monday on or before t ("week starts on
// Monday" policy), truncated to a calendar date.
func StartOfWeek(t time.Time) time.Time {
	t = truncateToDay(t)
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return t.AddDate(0, 0, -offset)
}

// SetWindow re-anchors to the Monday of the window's start date, superseding
// any default anchor chosen before the semester was known. Calling it again
// with the same window yields the same anchor.
func (w *Week) SetWindow(window SemesterWindow) {
	w.window = &window
	w.start = StartOfWeek(window.Start)
}

// WeekStart returns the Monday of the displayed week.
func (w *Week) WeekStart() time.Time { return w.start }

// SetAnchor moves the displayed week to the one containing t, clamped into
// the window when one is set.
func (w *Week) SetAnchor(t time.Time) {
	start := StartOfWeek(t)
	if w.window != nil {
		if first := StartOfWeek(w.window.Start); start.Before(first) {
			start = first
		}
		if last := StartOfWeek(w.window.End); last.Before(start) {
			start = last
		}
	}
	w.start = start
}

// Next advances the anchor by 7 days unless that would pass the week
// containing the window's end date, in which case it is a no-op.
func (w *Week) Next() {
	next := w.start.AddDate(0, 0, 7)
	if w.window != nil && StartOfWeek(w.window.End).Before(next) {
		return
	}
	w.start = next
}

// Prev retreats the anchor by 7 days unless that would pass the week
// containing the window's start date, in which case it is a no-op.
func (w *Week) Prev() {
	prev := w.start.AddDate(0, 0, -7)
	if w.window != nil && prev.Before(StartOfWeek(w.window.Start)) {
		return
	}
	w.start = prev
}

// JumpToToday resets to the semester-start week when a window is known, else
// to the current-date week. This is a "back to start of term" affordance, not
// a jump to the real current week.
func (w *Week) JumpToToday() {
	if w.window != nil {
		w.start = StartOfWeek(w.window.Start)
		return
	}
	w.start = StartOfWeek(NowFunc())
}

// Days returns the 5 visible dates, Monday through Friday, recomputed from
// the anchor on every call.
func (w *Week) Days() []time.Time {
	days := make([]time.Time, 5)
	for i := range days {
		days[i] = w.start.AddDate(0, 0, i)
	}
	return days
}

// RangeLabel renders a "first day - last day" label for the visible days,
// e.g. "Jan 8, 2024 - Jan 12, 2024".
func (w *Week) RangeLabel() string {
	days := w.Days()
	if len(days) == 0 {
		return ""
	}
	const layout = "Jan 2, 2006"
	return days[0].Format(layout) + " - " + days[len(days)-1].Format(layout)
}
