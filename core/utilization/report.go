// Package utilization reports how heavily teachers, rooms, days and time
// slots are used by the generated schedule. The report is pure computation
// over a slice of sections.
package utilization

import (
	"sort"
	"strconv"

	"github.com/highschool/scheduler/core/schedule"
)

// Capacity baselines. A teacher may teach at most 4 hours a day, a room may
// host at most 8, over a 5 day week.
const (
	TeacherMaxDaily = schedule.TeacherMaxDailyHours
	RoomMaxDaily    = 8
	TeachingDays    = 5
)

// ResourceUsage is one teacher's or room's booked hours against its maximum.
type ResourceUsage struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Hours    float64 `json:"hours"`
	MaxHours float64 `json:"max_hours"`
	Percent  float64 `json:"percent"`
}

// DayUsage is the total booked hours of one weekday.
type DayUsage struct {
	Day     string  `json:"day"`
	Hours   float64 `json:"hours"`
	Percent float64 `json:"percent"`
}

// SlotUsage is the total booked hours starting at one time slot.
type SlotUsage struct {
	Slot    string  `json:"slot"`
	Hours   float64 `json:"hours"`
	Percent float64 `json:"percent"`
}

// Summary aggregates the usage lists into averages and extremes.
type Summary struct {
	AvgTeacherPercent float64 `json:"avg_teacher_percent"`
	AvgRoomPercent    float64 `json:"avg_room_percent"`
	AvgDayPercent     float64 `json:"avg_day_percent"`
	AvgSlotPercent    float64 `json:"avg_slot_percent"`
	BusiestDay        string  `json:"busiest_day"`
	LightestDay       string  `json:"lightest_day"`
	BusiestSlot       string  `json:"busiest_slot"`
	LightestSlot      string  `json:"lightest_slot"`
}

// Report is the full utilization breakdown.
type Report struct {
	Summary  Summary         `json:"summary"`
	Teachers []ResourceUsage `json:"teachers"`
	Rooms    []ResourceUsage `json:"rooms"`
	Days     []DayUsage      `json:"days"`
	Slots    []SlotUsage     `json:"slots"`
}

// Calculate builds the utilization report for the given sections. An empty
// schedule yields an empty report with "-" extremes.
func Calculate(sections []schedule.Section) (Report, error) {
	if len(sections) == 0 {
		return emptyReport(), nil
	}

	teacherHours := map[string]float64{}
	teacherNames := map[string]string{}
	roomHours := map[int64]float64{}
	roomNames := map[int64]string{}
	dayHours := map[string]float64{}
	slotHours := map[string]float64{}

	for _, sec := range sections {
		dur, err := sec.Hours()
		if err != nil {
			return Report{}, err
		}
		hours := float64(dur)
		teacherHours[sec.TeacherID] += hours
		teacherNames[sec.TeacherID] = sec.TeacherName
		roomHours[sec.ClassroomID] += hours
		roomNames[sec.ClassroomID] = sec.RoomName
		dayHours[sec.DayOfWeek] += hours
		slotHours[sec.StartTime] += hours
	}

	rpt := Report{
		Teachers: resourceUsages(teacherHours, teacherNames, TeacherMaxDaily*TeachingDays),
		Rooms:    roomUsages(roomHours, roomNames, RoomMaxDaily*TeachingDays),
		Days:     dayUsages(dayHours),
		Slots:    slotUsages(slotHours),
	}
	rpt.Summary = summarize(rpt)
	return rpt, nil
}

func percent(used, max float64) float64 { return used / max * 100 }

func resourceUsages(hours map[string]float64, names map[string]string, max float64) []ResourceUsage {
	usages := make([]ResourceUsage, 0, len(hours))
	for id, h := range hours {
		usages = append(usages, ResourceUsage{
			ID:       id,
			Label:    names[id],
			Hours:    h,
			MaxHours: max,
			Percent:  percent(h, max),
		})
	}
	sortUsages(usages)
	return usages
}

func roomUsages(hours map[int64]float64, names map[int64]string, max float64) []ResourceUsage {
	usages := make([]ResourceUsage, 0, len(hours))
	for id, h := range hours {
		usages = append(usages, ResourceUsage{
			ID:       formatID(id),
			Label:    names[id],
			Hours:    h,
			MaxHours: max,
			Percent:  percent(h, max),
		})
	}
	sortUsages(usages)
	return usages
}

// sortUsages orders busiest first, label as tiebreak so output is stable.
func sortUsages(usages []ResourceUsage) {
	sort.SliceStable(usages, func(i, j int) bool {
		if usages[i].Percent != usages[j].Percent {
			return usages[i].Percent > usages[j].Percent
		}
		return usages[i].Label < usages[j].Label
	})
}

func dayUsages(hours map[string]float64) []DayUsage {
	max := float64(RoomMaxDaily * TeachingDays)
	usages := make([]DayUsage, 0, len(hours))
	for _, day := range schedule.Days {
		if h, ok := hours[day]; ok {
			usages = append(usages, DayUsage{Day: day, Hours: h, Percent: percent(h, max)})
		}
	}
	return usages
}

func slotUsages(hours map[string]float64) []SlotUsage {
	max := float64(RoomMaxDaily * TeachingDays)
	slots := make([]string, 0, len(hours))
	for slot := range hours {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	usages := make([]SlotUsage, 0, len(slots))
	for _, slot := range slots {
		usages = append(usages, SlotUsage{Slot: slot, Hours: hours[slot], Percent: percent(hours[slot], max)})
	}
	return usages
}

func summarize(rpt Report) Summary {
	s := Summary{
		BusiestDay: "-", LightestDay: "-",
		BusiestSlot: "-", LightestSlot: "-",
	}

	var sum float64
	for _, u := range rpt.Teachers {
		sum += u.Percent
	}
	if len(rpt.Teachers) > 0 {
		s.AvgTeacherPercent = sum / float64(len(rpt.Teachers))
	}

	sum = 0
	for _, u := range rpt.Rooms {
		sum += u.Percent
	}
	if len(rpt.Rooms) > 0 {
		s.AvgRoomPercent = sum / float64(len(rpt.Rooms))
	}

	sum = 0
	for i, u := range rpt.Days {
		sum += u.Percent
		if i == 0 || u.Percent > dayPercent(rpt.Days, s.BusiestDay) {
			s.BusiestDay = u.Day
		}
		if i == 0 || u.Percent < dayPercent(rpt.Days, s.LightestDay) {
			s.LightestDay = u.Day
		}
	}
	if len(rpt.Days) > 0 {
		s.AvgDayPercent = sum / float64(len(rpt.Days))
	}

	sum = 0
	for i, u := range rpt.Slots {
		sum += u.Percent
		if i == 0 || u.Percent > slotPercent(rpt.Slots, s.BusiestSlot) {
			s.BusiestSlot = u.Slot
		}
		if i == 0 || u.Percent < slotPercent(rpt.Slots, s.LightestSlot) {
			s.LightestSlot = u.Slot
		}
	}
	if len(rpt.Slots) > 0 {
		s.AvgSlotPercent = sum / float64(len(rpt.Slots))
	}
	return s
}

func dayPercent(days []DayUsage, day string) float64 {
	for _, d := range days {
		if d.Day == day {
			return d.Percent
		}
	}
	return 0
}

func slotPercent(slots []SlotUsage, slot string) float64 {
	for _, s := range slots {
		if s.Slot == slot {
			return s.Percent
		}
	}
	return 0
}

func emptyReport() Report {
	return Report{
		Summary: Summary{
			BusiestDay: "-", LightestDay: "-",
			BusiestSlot: "-", LightestSlot: "-",
		},
		Teachers: []ResourceUsage{},
		Rooms:    []ResourceUsage{},
		Days:     []DayUsage{},
		Slots:    []SlotUsage{},
	}
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }
