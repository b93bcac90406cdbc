package schedule

import (
	"github.com/highschool/scheduler/core/timetable"
)

// Classroom is a physical room. RoomType ties it to the courses that may be
// taught in it (lab courses need lab rooms).
type Classroom struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	Equipment string `json:"equipment,omitempty"`
	RoomType  string `json:"room_type"`
}

// Section is one recurring weekly teaching block of a course: a (course,
// teacher, room, semester) assignment to a weekday and hour span. The display
// fields are denormalized copies filled in by the repository so a section
// renders without extra lookups.
type Section struct {
	ID          int64  `json:"id"`
	CourseID    int64  `json:"course_id"`
	TeacherID   string `json:"teacher_id"`
	ClassroomID int64  `json:"classroom_id"`
	SemesterID  int64  `json:"semester_id"`
	DayOfWeek   string `json:"day_of_week"` // MONDAY..FRIDAY
	StartTime   string `json:"start_time"`  // HH:MM
	EndTime     string `json:"end_time"`    // HH:MM

	// display fields
	CourseCode   string `json:"course_code"`
	CourseName   string `json:"course_name"`
	CourseType   string `json:"course_type,omitempty"`
	TeacherName  string `json:"teacher_name"`
	RoomName     string `json:"room_name"`
	RoomCapacity int    `json:"room_capacity"`
}

// Event projects the section onto the calendar engine's event shape. Staff
// views use it as is; student views stamp EnrolledDate on top.
func (s Section) Event() timetable.ScheduleEvent {
	return timetable.ScheduleEvent{
		ID:          s.ID,
		DayOfWeek:   s.DayOfWeek,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		CourseCode:  s.CourseCode,
		CourseName:  s.CourseName,
		TeacherName: s.TeacherName,
		RoomName:    s.RoomName,
	}
}

// Hours returns the section length in whole hours.
func (s Section) Hours() (int, error) {
	return timetable.CalculateDuration(s.StartTime, s.EndTime)
}
