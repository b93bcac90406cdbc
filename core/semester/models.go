package semester

import (
	"math"
	"time"

	"github.com/highschool/scheduler/core/timetable"
)

// Semester is one half of a school year. At most one semester is active at a
// time; its date range bounds all calendar navigation and enrollment dates.
type Semester struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	OrderInYear int       `json:"order_in_year"` // 1 = Fall, 2 = Spring
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	IsActive    bool      `json:"is_active"`
}

// Window returns the semester bounds as a validated calendar window.
func (s Semester) Window() (timetable.SemesterWindow, error) {
	return timetable.NewSemesterWindow(s.StartDate, s.EndDate)
}

// Weeks returns the semester length in weeks, rounded up.
func (s Semester) Weeks() int {
	days := s.EndDate.Sub(s.StartDate).Hours() / 24
	return int(math.Ceil(days / 7))
}

// Dates returns every calendar date of the semester falling on the given
// weekday, in order. Both bounds are inclusive.
func (s Semester) Dates(day time.Weekday) []time.Time {
	var dates []time.Time
	for d := s.StartDate; !d.After(s.EndDate); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == day {
			dates = append(dates, d)
		}
	}
	return dates
}
