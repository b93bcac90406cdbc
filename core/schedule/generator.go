package schedule

import (
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/highschool/scheduler/core/course"
	"github.com/highschool/scheduler/core/semester"
	"github.com/highschool/scheduler/core/timetable"
	"github.com/highschool/scheduler/core/user"
)

// Scheduling rules.
const (
	RoomCapacity         = 10
	TeacherMaxDailyHours = 4
	MaxConsecutiveHours  = 2
)

// Days are the teaching days, in grid order.
var Days = []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY"}

// generator places the weekly hours of each course into the least loaded
// (day, slot) cells while honoring teacher and room constraints. It is built
// fresh for every run; all state is per-run.
type generator struct {
	sem      semester.Semester
	weeks    int
	teachers map[string][]user.User // by specialization
	rooms    map[string][]Classroom // by room type
	demand   *demandEstimator
	load     *loadTracker
	slotLoad map[string]int // "DAY|HH:MM" -> placed hours
}

func newGenerator(sem semester.Semester, teachers []user.User, rooms []Classroom, demand *demandEstimator) *generator {
	g := &generator{
		sem:      sem,
		weeks:    sem.Weeks(),
		teachers: make(map[string][]user.User),
		rooms:    make(map[string][]Classroom),
		demand:   demand,
		load:     newLoadTracker(),
		slotLoad: make(map[string]int, len(Days)*len(timetable.Slots)),
	}
	for _, t := range teachers {
		if t.Specialization != "" {
			g.teachers[t.Specialization] = append(g.teachers[t.Specialization], t)
		}
	}
	for _, r := range rooms {
		g.rooms[r.RoomType] = append(g.rooms[r.RoomType], r)
	}
	for _, day := range Days {
		for _, slot := range timetable.Slots {
			g.slotLoad[slotKey(day, slot)] = 0
		}
	}
	return g
}

func (g *generator) generate(courses []course.Course) ([]Section, error) {
	var result []Section
	for _, c := range courses {
		eligible := g.demand.eligibleCount(c)
		sectionsNeeded := (eligible + RoomCapacity*g.weeks - 1) / (RoomCapacity * g.weeks)
		if sectionsNeeded < 1 {
			sectionsNeeded = 1
		}
		if c.HoursPerWeek < sectionsNeeded {
			return nil, errors.Errorf("hoursPerWeek needs to be increased for course %q", c.Name)
		}

		if c.Specialization == "" {
			continue
		}
		pool := g.teachers[c.Specialization]
		roomPool := g.rooms[c.RoomType]
		if len(pool) == 0 || len(roomPool) == 0 {
			continue
		}

		result = append(result, g.placeWeeklyHours(c, pool, roomPool)...)
	}
	return result, nil
}

// placeWeeklyHours spreads the course's weekly hours over the globally least
// loaded cells, preferring two-hour blocks that do not cross the lunch gap.
func (g *generator) placeWeeklyHours(c course.Course, pool []user.User, roomPool []Classroom) []Section {
	var placed []Section
	remaining := c.HoursPerWeek

	for remaining > 0 {
		day, slot := g.leastLoadedSlot()

		// least loaded teachers first
		sort.SliceStable(pool, func(i, j int) bool {
			return g.load.weeklyHours(pool[i].ID) < g.load.weeklyHours(pool[j].ID)
		})

		sec, ok := g.tryPlace(c, pool, roomPool, day, slot, remaining)
		if !ok {
			// dead cell: penalize it so the search moves on, give up once
			// every cell has been tried
			g.slotLoad[slotKey(day, slot)]++
			if g.allSlotsLoaded() {
				break
			}
			continue
		}

		dur, _ := sec.Hours()
		placed = append(placed, sec)
		remaining -= dur
	}
	return placed
}

func (g *generator) tryPlace(c course.Course, pool []user.User, roomPool []Classroom, day, slot string, remaining int) (Section, bool) {
	for _, teacher := range pool {
		if g.load.teacherDailyHours(teacher.ID, day) >= TeacherMaxDailyHours {
			continue
		}
		for _, room := range roomPool {
			if g.load.isTeacherBusy(teacher.ID, day, slot) ||
				g.load.isRoomBusy(room.ID, day, slot) ||
				g.load.wouldExceedConsecutiveHours(teacher.ID, day, slot, 1) {
				continue
			}

			duration := 1
			if remaining >= 2 && canExtend(slot) &&
				!g.load.isTeacherBusy(teacher.ID, day, addHours(slot, 1)) &&
				!g.load.isRoomBusy(room.ID, day, addHours(slot, 1)) &&
				!g.load.wouldExceedConsecutiveHours(teacher.ID, day, slot, 2) {
				duration = 2
			}

			sec := Section{
				CourseID:     c.ID,
				TeacherID:    teacher.ID,
				ClassroomID:  room.ID,
				SemesterID:   g.sem.ID,
				DayOfWeek:    day,
				StartTime:    slot,
				EndTime:      addHours(slot, duration),
				CourseCode:   c.Code,
				CourseName:   c.Name,
				CourseType:   c.CourseType,
				TeacherName:  teacher.Name,
				RoomName:     room.Name,
				RoomCapacity: room.Capacity,
			}

			for h := 0; h < duration; h++ {
				g.load.markPlaced(teacher.ID, room.ID, day, addHours(slot, h))
			}
			g.slotLoad[slotKey(day, slot)] += duration
			return sec, true
		}
	}
	return Section{}, false
}

// leastLoadedSlot scans cells in grid order so ties resolve deterministically.
func (g *generator) leastLoadedSlot() (day, slot string) {
	day, slot = Days[0], timetable.Slots[0]
	min := g.slotLoad[slotKey(day, slot)]
	for _, d := range Days {
		for _, s := range timetable.Slots {
			if load := g.slotLoad[slotKey(d, s)]; load < min {
				day, slot, min = d, s, load
			}
		}
	}
	return day, slot
}

func (g *generator) allSlotsLoaded() bool {
	for _, v := range g.slotLoad {
		if v == 0 {
			return false
		}
	}
	return true
}

// canExtend reports whether a two-hour block may start at slot: it must not
// cross the lunch gap after 11:00 and must leave room for the second hour.
func canExtend(slot string) bool {
	t, err := time.Parse(timetable.ClockLayout, slot)
	if err != nil {
		return false
	}
	return t.Hour() != 11 && t.Hour() < 16
}

func addHours(slot string, h int) string {
	t, err := time.Parse(timetable.ClockLayout, slot)
	if err != nil {
		return slot
	}
	return t.Add(time.Duration(h) * time.Hour).Format(timetable.ClockLayout)
}

func slotKey(day, slot string) string { return day + "|" + slot }

// demandEstimator sizes course demand: how many students could take a course
// given their grade level, prerequisites and what they already passed.
type demandEstimator struct {
	students []user.User
	passed   map[string]map[int64]bool // studentID -> passed course IDs
}

func newDemandEstimator(students []user.User, passed map[string]map[int64]bool) *demandEstimator {
	return &demandEstimator{students: students, passed: passed}
}

func (d *demandEstimator) eligibleCount(c course.Course) int {
	var count int
	for _, s := range d.students {
		if !c.ForGradeLevel(s.GradeLevel) {
			continue
		}
		if c.HasPrerequisite() && !d.passed[s.ID][c.PrerequisiteID] {
			continue
		}
		if d.passed[s.ID][c.ID] {
			continue
		}
		count++
	}
	return count
}

// loadTracker tracks per-run teacher and room occupancy.
type loadTracker struct {
	teacherSlots  map[string]map[string]map[string]bool // teacher -> day -> slots
	teacherDaily  map[string]map[string]int
	teacherWeekly map[string]int
	roomBusy      map[string]bool // "room|day|slot"
}

func newLoadTracker() *loadTracker {
	return &loadTracker{
		teacherSlots:  make(map[string]map[string]map[string]bool),
		teacherDaily:  make(map[string]map[string]int),
		teacherWeekly: make(map[string]int),
		roomBusy:      make(map[string]bool),
	}
}

func (lt *loadTracker) isTeacherBusy(teacherID, day, slot string) bool {
	return lt.teacherSlots[teacherID][day][slot]
}

func (lt *loadTracker) isRoomBusy(roomID int64, day, slot string) bool {
	return lt.roomBusy[roomKey(roomID, day, slot)]
}

func (lt *loadTracker) weeklyHours(teacherID string) int {
	return lt.teacherWeekly[teacherID]
}

func (lt *loadTracker) teacherDailyHours(teacherID, day string) int {
	return lt.teacherDaily[teacherID][day]
}

func (lt *loadTracker) markPlaced(teacherID string, roomID int64, day, slot string) {
	if lt.teacherSlots[teacherID] == nil {
		lt.teacherSlots[teacherID] = make(map[string]map[string]bool)
	}
	if lt.teacherSlots[teacherID][day] == nil {
		lt.teacherSlots[teacherID][day] = make(map[string]bool)
	}
	lt.teacherSlots[teacherID][day][slot] = true

	if lt.teacherDaily[teacherID] == nil {
		lt.teacherDaily[teacherID] = make(map[string]int)
	}
	lt.teacherDaily[teacherID][day]++
	lt.teacherWeekly[teacherID]++
	lt.roomBusy[roomKey(roomID, day, slot)] = true
}

// wouldExceedConsecutiveHours checks the teacher's day with the proposed
// hours added for a streak longer than MaxConsecutiveHours.
func (lt *loadTracker) wouldExceedConsecutiveHours(teacherID, day, start string, duration int) bool {
	t, err := time.Parse(timetable.ClockLayout, start)
	if err != nil {
		return true
	}

	hours := make([]int, 0, 8)
	for slot := range lt.teacherSlots[teacherID][day] {
		if st, err := time.Parse(timetable.ClockLayout, slot); err == nil {
			hours = append(hours, st.Hour())
		}
	}
	for i := 0; i < duration; i++ {
		hours = append(hours, t.Hour()+i)
	}
	sort.Ints(hours)

	maxStreak, streak := 1, 1
	for i := 1; i < len(hours); i++ {
		if hours[i] == hours[i-1]+1 {
			streak++
			if streak > maxStreak {
				maxStreak = streak
			}
		} else if hours[i] != hours[i-1] {
			streak = 1
		}
	}
	return maxStreak > MaxConsecutiveHours
}

func roomKey(roomID int64, day, slot string) string {
	return strconv.FormatInt(roomID, 10) + "|" + day + "|" + slot
}
