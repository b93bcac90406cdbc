package timetable

// GridRow is one time slot across the visible days; Cells is indexed by day
// (Monday first) and holds the events occupying that cell.
type GridRow struct {
	Slot  string            `json:"slot"`
	Cells [][]ScheduleEvent `json:"cells"`
}

// Grid is a fully materialized week view: the 7 slot rows crossed with the 5
// visible days.
type Grid struct {
	WeekStart  string    `json:"week_start"` // yyyy-MM-dd
	RangeLabel string    `json:"range_label"`
	Days       []string  `json:"days"` // yyyy-MM-dd, Monday..Friday
	Rows       []GridRow `json:"rows"`
}

// BuildGrid materializes the week grid for the given events under the given
// view mode.
func BuildGrid(w *Week, events []ScheduleEvent, mode ViewMode) (Grid, error) {
	days := w.Days()

	grid := Grid{
		WeekStart:  w.WeekStart().Format(DateLayout),
		RangeLabel: w.RangeLabel(),
		Days:       make([]string, len(days)),
		Rows:       make([]GridRow, 0, len(Slots)),
	}
	for i, day := range days {
		grid.Days[i] = day.Format(DateLayout)
	}

	for _, slot := range Slots {
		row := GridRow{Slot: slot, Cells: make([][]ScheduleEvent, len(days))}
		for i, day := range days {
			cell, err := EventsForCell(day, slot, events, mode)
			if err != nil {
				return Grid{}, err
			}
			row.Cells[i] = cell
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid, nil
}
