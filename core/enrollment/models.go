package enrollment

import (
	"time"

	"github.com/highschool/scheduler/core/schedule"
	"github.com/highschool/scheduler/core/timetable"
)

// Course history statuses
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// Progress constants. Passing is recorded pass/fail only, so GPA maps passed
// to a full 4.0 and failed to 0.
const (
	CreditsRequired       = 30
	MaxCoursesPerSemester = 5

	gpaPass = 4.0
	gpaFail = 0.0
)

// Enrollment books a student into one concrete occurrence of a section: the
// section's weekly slot on a specific calendar date.
type Enrollment struct {
	ID           int64     `json:"id"`
	StudentID    string    `json:"student_id"`
	SectionID    int64     `json:"section_id"`
	SemesterID   int64     `json:"semester_id"`
	EnrolledDate time.Time `json:"enrolled_date"`
}

// Event projects the enrollment onto the calendar engine's event shape,
// stamping the concrete date so student views can match on it.
func (e Enrollment) Event(sec schedule.Section) timetable.ScheduleEvent {
	ev := sec.Event()
	ev.EnrolledDate = e.EnrolledDate.Format(timetable.DateLayout)
	return ev
}

// CourseHistory is a student's completed course record. The display fields
// are denormalized copies filled in by the repository.
type CourseHistory struct {
	ID         int64  `json:"id"`
	StudentID  string `json:"student_id"`
	CourseID   int64  `json:"course_id"`
	SemesterID int64  `json:"semester_id"`
	Status     string `json:"status"` // passed | failed

	// display fields
	SemesterName  string    `json:"semester_name"`
	SemesterStart time.Time `json:"-"`
	CourseName    string    `json:"course_name"`
	CourseType    string    `json:"course_type"`
	Credits       int       `json:"credits"`
}

// Passed reports whether the record is a pass.
func (h CourseHistory) Passed() bool { return h.Status == StatusPassed }

// EligibleSection is a section the student may enroll in, with its current
// seat usage.
type EligibleSection struct {
	SectionID     int64  `json:"section_id"`
	CourseID      int64  `json:"course_id"`
	CourseName    string `json:"course_name"`
	TeacherName   string `json:"teacher_name"`
	RoomName      string `json:"room_name"`
	DayOfWeek     string `json:"day_of_week"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Capacity      int    `json:"capacity"`
	EnrolledCount int    `json:"enrolled_count"`
	CourseType    string `json:"course_type"`
}

// CurrentEnrollment is one active-semester enrollment rendered for display.
type CurrentEnrollment struct {
	DayOfWeek    string `json:"day_of_week"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	CourseName   string `json:"course_name"`
	TeacherName  string `json:"teacher_name"`
	RoomName     string `json:"room_name"`
	EnrolledDate string `json:"enrolled_date"`
}

// Progress summarizes a student's standing against the graduation
// requirement.
type Progress struct {
	StudentID            string  `json:"student_id"`
	StudentName          string  `json:"student_name"`
	Email                string  `json:"email"`
	GradeLevel           int     `json:"grade_level"`
	GPA                  float64 `json:"gpa"`
	CreditsEarned        float64 `json:"credits_earned"`
	CreditsRequired      int     `json:"credits_required"`
	CreditsRemaining     float64 `json:"credits_remaining"`
	CompletionPercentage float64 `json:"completion_percentage"`
	PlannedThisSemester  int     `json:"planned_this_semester"`
	MaxCoursesReached    bool    `json:"max_courses_reached"`
}

// ValidationResult is the outcome of a single enrollment precondition check.
type ValidationResult struct {
	OK     bool     `json:"ok"`
	Errors []string `json:"errors"`
}
