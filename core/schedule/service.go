package schedule

import (
	"time"

	"github.com/pkg/errors"

	"github.com/highschool/scheduler/core/course"
	"github.com/highschool/scheduler/core/semester"
	"github.com/highschool/scheduler/core/timetable"
	"github.com/highschool/scheduler/core/user"
)

var (
	ErrSectionNotFound   = errors.New("section not found")
	ErrClassroomNotFound = errors.New("classroom not found")
)

type (
	Repository interface {
		QuerySectionsBySemester(semesterID int64) ([]Section, error)
		QuerySectionsByTeacher(teacherID string, semesterID int64) ([]Section, error)
		GetSectionByID(id int64) (Section, error)
		CreateSections(sections []Section) ([]Section, error)
		// DeleteSectionsBySemester removes the semester's sections along with
		// the enrollments hanging off them.
		DeleteSectionsBySemester(semesterID int64) error
		QueryAllClassrooms() ([]Classroom, error)
		GetClassroomByID(id int64) (Classroom, error)
	}

	// PassRecords is the slice of academic history the generator needs:
	// which courses each student has already passed.
	PassRecords interface {
		PassedCourseIDsByStudent() (map[string]map[int64]bool, error)
	}

	Service interface {
		Events() ([]timetable.ScheduleEvent, error)
		TeacherEvents(teacherID string) ([]timetable.ScheduleEvent, error)
		Timetable(anchor, nav, teacherID string) (timetable.Grid, error)
		Generate() ([]Section, error)
		Reset() error
		GetSection(id int64) (Section, error)
		Classrooms() ([]Classroom, error)
	}

	service struct {
		repo        Repository
		courseRepo  course.Repository
		semRepo     semester.Repository
		userRepo    user.Repository
		passRecords PassRecords
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	courseRepo course.Repository,
	semRepo semester.Repository,
	userRepo user.Repository,
	passRecords PassRecords,
) Service {
	return &service{
		repo:        repo,
		courseRepo:  courseRepo,
		semRepo:     semRepo,
		userRepo:    userRepo,
		passRecords: passRecords,
	}
}

func (svc *service) activeSections() ([]Section, semester.Semester, error) {
	sem, err := svc.semRepo.GetActiveSemester()
	if err != nil {
		return nil, semester.Semester{}, err
	}
	sections, err := svc.repo.QuerySectionsBySemester(sem.ID)
	if err != nil {
		return nil, semester.Semester{}, err
	}
	return sections, sem, nil
}

func (svc *service) Events() ([]timetable.ScheduleEvent, error) {
	sections, _, err := svc.activeSections()
	if err != nil {
		return nil, err
	}
	return sectionEvents(sections), nil
}

func (svc *service) TeacherEvents(teacherID string) ([]timetable.ScheduleEvent, error) {
	sem, err := svc.semRepo.GetActiveSemester()
	if err != nil {
		return nil, err
	}
	sections, err := svc.repo.QuerySectionsByTeacher(teacherID, sem.ID)
	if err != nil {
		return nil, err
	}
	return sectionEvents(sections), nil
}

// Timetable renders the staff week grid for the active semester. anchor
// (yyyy-MM-dd) picks the displayed week, nav is one of "next", "prev",
// "today" applied on top of it; teacherID narrows the events to one teacher.
func (svc *service) Timetable(anchor, nav, teacherID string) (timetable.Grid, error) {
	sections, sem, err := svc.activeSections()
	if err != nil {
		return timetable.Grid{}, err
	}
	if teacherID != "" {
		filtered := sections[:0:0]
		for _, s := range sections {
			if s.TeacherID == teacherID {
				filtered = append(filtered, s)
			}
		}
		sections = filtered
	}

	week, err := navigate(sem, anchor, nav)
	if err != nil {
		return timetable.Grid{}, err
	}
	return timetable.BuildGrid(week, sectionEvents(sections), timetable.ModeStaff)
}

func (svc *service) Generate() ([]Section, error) {
	sem, err := svc.semRepo.GetActiveSemester()
	if err != nil {
		return nil, err
	}

	// regenerate from a clean slate
	if err = svc.repo.DeleteSectionsBySemester(sem.ID); err != nil {
		return nil, err
	}

	courses, err := svc.courseRepo.QueryCoursesBySemesterOrder(sem.OrderInYear)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, nil
	}

	teachers, err := svc.userRepo.FilterUsers(user.QueryFilter{Roles: user.TeacherRoles})
	if err != nil {
		return nil, err
	}
	students, err := svc.userRepo.FilterUsers(user.QueryFilter{Roles: user.StudentRoles})
	if err != nil {
		return nil, err
	}
	rooms, err := svc.repo.QueryAllClassrooms()
	if err != nil {
		return nil, err
	}
	passed, err := svc.passRecords.PassedCourseIDsByStudent()
	if err != nil {
		return nil, err
	}

	gen := newGenerator(sem, teachers, rooms, newDemandEstimator(students, passed))
	sections, err := gen.generate(courses)
	if err != nil {
		return nil, err
	}
	return svc.repo.CreateSections(sections)
}

func (svc *service) Reset() error {
	sem, err := svc.semRepo.GetActiveSemester()
	if err != nil {
		return err
	}
	return svc.repo.DeleteSectionsBySemester(sem.ID)
}

func (svc *service) GetSection(id int64) (Section, error) {
	return svc.repo.GetSectionByID(id)
}

func (svc *service) Classrooms() ([]Classroom, error) {
	return svc.repo.QueryAllClassrooms()
}

func sectionEvents(sections []Section) []timetable.ScheduleEvent {
	events := make([]timetable.ScheduleEvent, len(sections))
	for i, s := range sections {
		events[i] = s.Event()
	}
	return events
}

// navigate builds the semester-bounded week and applies the requested anchor
// and navigation on it.
func navigate(sem semester.Semester, anchor, nav string) (*timetable.Week, error) {
	window, err := sem.Window()
	if err != nil {
		return nil, err
	}
	week := timetable.NewWeek(&window)

	if anchor != "" {
		t, err := time.Parse(timetable.DateLayout, anchor)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing week anchor %q", anchor)
		}
		week.SetAnchor(t)
	}

	switch nav {
	case "", "none":
	case "next":
		week.Next()
	case "prev":
		week.Prev()
	case "today":
		week.JumpToToday()
	default:
		return nil, errors.Errorf("unknown navigation %q", nav)
	}
	return week, nil
}
