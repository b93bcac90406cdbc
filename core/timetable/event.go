// Package timetable is the weekly calendar engine: it derives the bounded,
// navigable 5-day work-week view anchored to a semester window, and maps flat
// schedule events onto day/time-slot grid cells. It is pure computation over
// caller-supplied state; it performs no I/O and never mutates its inputs.
package timetable

import (
	"time"

	"github.com/pkg/errors"
)

// DateLayout is the wire format for calendar dates ("yyyy-MM-dd").
const DateLayout = "2006-01-02"

// ClockLayout is the wire format for times of day ("HH:MM", 24h).
const ClockLayout = "15:04"

// ViewMode selects the slot-matching semantics of EventsForCell.
type ViewMode string

const (
	// ModeStudent matches events by their concrete enrolled calendar date.
	ModeStudent ViewMode = "STUDENT"
	// ModeStaff matches events by their recurring weekday (teacher/admin view).
	ModeStaff ViewMode = "STAFF"
)

// ScheduleEvent is one occupied teaching hour-span as supplied by the caller.
// StartTime must precede EndTime within the same day; overnight events do not
// exist in this system. EnrolledDate, when set, is the concrete calendar date
// the event occupies and drives ModeStudent matching; DayOfWeek drives
// ModeStaff matching.
type ScheduleEvent struct {
	ID           int64  `json:"id"`
	DayOfWeek    string `json:"day_of_week"` // MONDAY..FRIDAY
	StartTime    string `json:"start_time"`  // HH:MM
	EndTime      string `json:"end_time"`    // HH:MM
	CourseCode   string `json:"course_code,omitempty"`
	CourseName   string `json:"course_name,omitempty"`
	TeacherName  string `json:"teacher_name,omitempty"`
	RoomName     string `json:"room_name,omitempty"`
	EnrolledDate string `json:"enrolled_date,omitempty"` // yyyy-MM-dd
}

var errWindowInverted = errors.New("semester window end date precedes start date")

// SemesterWindow is the inclusive calendar-date range bounding week navigation.
type SemesterWindow struct {
	Start time.Time
	End   time.Time
}

// NewSemesterWindow validates the bounds once at construction so that the
// clamping logic downstream never sees an inverted range.
func NewSemesterWindow(start, end time.Time) (SemesterWindow, error) {
	start, end = truncateToDay(start), truncateToDay(end)
	if end.Before(start) {
		return SemesterWindow{}, errWindowInverted
	}
	return SemesterWindow{Start: start, End: end}, nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
