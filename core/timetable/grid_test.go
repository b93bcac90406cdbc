package timetable

import (
	"testing"
	"time"
)

func TestBuildGrid(t *testing.T) {
	win := mustWindow(t, date(2024, time.January, 8), date(2024, time.January, 26))
	w := NewWeek(&win)

	events := []ScheduleEvent{
		{ID: 1, DayOfWeek: "MONDAY", StartTime: "09:00", EndTime: "10:00", CourseCode: "MATH101"},
		{ID: 2, DayOfWeek: "WEDNESDAY", StartTime: "13:00", EndTime: "15:00", CourseCode: "BIO201"},
	}

	grid, err := BuildGrid(w, events, ModeStaff)
	if err != nil {
		t.Fatalf("BuildGrid() failed: %v", err)
	}

	if grid.WeekStart != "2024-01-08" {
		t.Errorf("WeekStart = %q; want %q", grid.WeekStart, "2024-01-08")
	}
	if grid.RangeLabel != "Jan 8, 2024 - Jan 12, 2024" {
		t.Errorf("RangeLabel = %q", grid.RangeLabel)
	}
	if len(grid.Days) != 5 || grid.Days[0] != "2024-01-08" || grid.Days[4] != "2024-01-12" {
		t.Errorf("Days = %v", grid.Days)
	}
	if len(grid.Rows) != len(Slots) {
		t.Fatalf("len(Rows) = %d; want %d", len(grid.Rows), len(Slots))
	}

	// MATH101 in Monday 09:00 only
	if cell := grid.Rows[0].Cells[0]; len(cell) != 1 || cell[0].ID != 1 {
		t.Errorf("Monday 09:00 cell = %v", cell)
	}
	if cell := grid.Rows[1].Cells[0]; len(cell) != 0 {
		t.Errorf("Monday 10:00 cell = %v; want empty", cell)
	}

	// two hour BIO201 occupies Wednesday 13:00 and 14:00, not 15:00
	if cell := grid.Rows[3].Cells[2]; len(cell) != 1 || cell[0].ID != 2 {
		t.Errorf("Wednesday 13:00 cell = %v", cell)
	}
	if cell := grid.Rows[4].Cells[2]; len(cell) != 1 || cell[0].ID != 2 {
		t.Errorf("Wednesday 14:00 cell = %v", cell)
	}
	if cell := grid.Rows[5].Cells[2]; len(cell) != 0 {
		t.Errorf("Wednesday 15:00 cell = %v; want empty", cell)
	}
}

func TestBuildGrid_malformedEvent(t *testing.T) {
	win := mustWindow(t, date(2024, time.January, 8), date(2024, time.January, 26))
	w := NewWeek(&win)

	events := []ScheduleEvent{{DayOfWeek: "MONDAY", StartTime: "bad", EndTime: "10:00"}}
	if _, err := BuildGrid(w, events, ModeStaff); err == nil {
		t.Error("BuildGrid() accepted malformed event")
	}
}
