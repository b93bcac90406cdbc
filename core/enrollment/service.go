package enrollment

import (
	"fmt"
	"net/mail"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/highschool/scheduler/core"
	"github.com/highschool/scheduler/core/course"
	"github.com/highschool/scheduler/core/schedule"
	"github.com/highschool/scheduler/core/semester"
	"github.com/highschool/scheduler/core/timetable"
	"github.com/highschool/scheduler/core/user"
)

var (
	ErrNotFound        = errors.New("enrollment not found")
	ErrAlreadyEnrolled = errors.New("already enrolled in this section")
)

type (
	Repository interface {
		CreateEnrollment(enr Enrollment) (Enrollment, error)
		QueryEnrollmentsByStudent(studentID string) ([]Enrollment, error)
		QueryEnrollmentsByStudentAndSemester(studentID string, semesterID int64) ([]Enrollment, error)
		// GetEnrollmentByStudentAndSection returns ErrNotFound when the
		// student is not enrolled in the section.
		GetEnrollmentByStudentAndSection(studentID string, sectionID int64) (Enrollment, error)
		CountEnrollmentsBySection(sectionID int64) (int, error)
		CountEnrollmentsBySectionAndDate(sectionID int64, date time.Time) (int, error)
		QueryHistoryByStudent(studentID string) ([]CourseHistory, error)
		// PassedCourseIDsByStudent maps every student to the set of course
		// IDs they passed; it also serves the schedule generator.
		PassedCourseIDsByStudent() (map[string]map[int64]bool, error)
	}

	Service interface {
		ScheduleEvents(studentID string) ([]timetable.ScheduleEvent, error)
		Timetable(studentID, anchor, nav string) (timetable.Grid, error)
		EligibleSections(studentID string) ([]EligibleSection, error)
		EligibleDates(sectionID int64) ([]string, error)
		ValidateConflict(studentID string, sectionID int64, date time.Time) (ValidationResult, error)
		ValidatePrerequisite(studentID string, courseID int64) (ValidationResult, error)
		Enroll(studentID string, sectionID int64, date time.Time) (PipelineResult, error)
		History(studentID string) ([]CourseHistory, error)
		Current(studentID string) ([]CurrentEnrollment, error)
		Progress(studentID string) (Progress, error)
	}

	service struct {
		repo        Repository
		sectionRepo schedule.Repository
		semRepo     semester.Repository
		userRepo    user.Repository
		courseRepo  course.Repository
		mailSvc     core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	sectionRepo schedule.Repository,
	semRepo semester.Repository,
	userRepo user.Repository,
	courseRepo course.Repository,
	mailSvc core.EmailService,
) Service {
	return &service{
		repo:        repo,
		sectionRepo: sectionRepo,
		semRepo:     semRepo,
		userRepo:    userRepo,
		courseRepo:  courseRepo,
		mailSvc:     mailSvc,
	}
}

// ScheduleEvents returns the student's enrollments as dated calendar events.
func (svc *service) ScheduleEvents(studentID string) ([]timetable.ScheduleEvent, error) {
	enrs, err := svc.repo.QueryEnrollmentsByStudent(studentID)
	if err != nil {
		return nil, err
	}
	events := make([]timetable.ScheduleEvent, 0, len(enrs))
	for _, enr := range enrs {
		sec, err := svc.sectionRepo.GetSectionByID(enr.SectionID)
		if err != nil {
			return nil, err
		}
		events = append(events, enr.Event(sec))
	}
	return events, nil
}

// Timetable renders the student's week grid over the active semester window.
func (svc *service) Timetable(studentID, anchor, nav string) (timetable.Grid, error) {
	sem, err := svc.semRepo.GetActiveSemester()
	if err != nil {
		return timetable.Grid{}, err
	}
	events, err := svc.ScheduleEvents(studentID)
	if err != nil {
		return timetable.Grid{}, err
	}

	window, err := sem.Window()
	if err != nil {
		return timetable.Grid{}, err
	}
	week := timetable.NewWeek(&window)
	if anchor != "" {
		t, err := time.Parse(timetable.DateLayout, anchor)
		if err != nil {
			return timetable.Grid{}, errors.Wrapf(err, "parsing week anchor %q", anchor)
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
		return timetable.Grid{}, errors.Errorf("unknown navigation %q", nav)
	}

	return timetable.BuildGrid(week, events, timetable.ModeStudent)
}

// EligibleSections lists the active-semester sections the student may still
// enroll in, ordered by day then start time.
func (svc *service) EligibleSections(studentID string) ([]EligibleSection, error) {
	student, err := svc.userRepo.GetUserByID(studentID)
	if err != nil {
		return nil, err
	}
	sem, err := svc.semRepo.GetActiveSemester()
	if err != nil {
		return nil, err
	}
	sections, err := svc.sectionRepo.QuerySectionsBySemester(sem.ID)
	if err != nil {
		return nil, err
	}
	history, err := svc.repo.QueryHistoryByStudent(studentID)
	if err != nil {
		return nil, err
	}
	enrolled, err := svc.repo.QueryEnrollmentsByStudentAndSemester(studentID, sem.ID)
	if err != nil {
		return nil, err
	}

	passed := make(map[int64]bool, len(history))
	for _, h := range history {
		if h.Passed() {
			passed[h.CourseID] = true
		}
	}
	enrolledCourses := make(map[int64]bool, len(enrolled))
	for _, enr := range enrolled {
		sec, err := svc.sectionRepo.GetSectionByID(enr.SectionID)
		if err != nil {
			return nil, err
		}
		enrolledCourses[sec.CourseID] = true
	}

	var eligible []EligibleSection
	for _, sec := range sections {
		if passed[sec.CourseID] || enrolledCourses[sec.CourseID] {
			continue
		}
		c, err := svc.courseRepo.GetCourseByID(sec.CourseID)
		if err != nil {
			return nil, err
		}
		if !c.ForGradeLevel(student.GradeLevel) {
			continue
		}
		if c.HasPrerequisite() && !passed[c.PrerequisiteID] {
			continue
		}

		count, err := svc.repo.CountEnrollmentsBySection(sec.ID)
		if err != nil {
			return nil, err
		}
		eligible = append(eligible, EligibleSection{
			SectionID:     sec.ID,
			CourseID:      c.ID,
			CourseName:    c.Name,
			TeacherName:   sec.TeacherName,
			RoomName:      sec.RoomName,
			DayOfWeek:     sec.DayOfWeek,
			StartTime:     sec.StartTime,
			EndTime:       sec.EndTime,
			Capacity:      sec.RoomCapacity,
			EnrolledCount: count,
			CourseType:    c.CourseType,
		})
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		di, dj := dayIndex(eligible[i].DayOfWeek), dayIndex(eligible[j].DayOfWeek)
		if di != dj {
			return di < dj
		}
		return eligible[i].StartTime < eligible[j].StartTime
	})
	return eligible, nil
}

// EligibleDates lists the semester dates on the section's weekday that still
// have seats left, as yyyy-MM-dd strings.
func (svc *service) EligibleDates(sectionID int64) ([]string, error) {
	sec, err := svc.sectionRepo.GetSectionByID(sectionID)
	if err != nil {
		return nil, err
	}
	sem, err := svc.semRepo.GetSemesterByID(sec.SemesterID)
	if err != nil {
		return nil, err
	}
	day, err := parseWeekday(sec.DayOfWeek)
	if err != nil {
		return nil, err
	}

	var dates []string
	for _, d := range sem.Dates(day) {
		count, err := svc.repo.CountEnrollmentsBySectionAndDate(sectionID, d)
		if err != nil {
			return nil, err
		}
		if count < sec.RoomCapacity {
			dates = append(dates, d.Format(timetable.DateLayout))
		}
	}
	return dates, nil
}

// ValidateConflict checks the student's same-date enrollments for a time
// overlap with the target section.
func (svc *service) ValidateConflict(studentID string, sectionID int64, date time.Time) (ValidationResult, error) {
	target, err := svc.sectionRepo.GetSectionByID(sectionID)
	if err != nil {
		return ValidationResult{}, err
	}
	existing, err := svc.repo.QueryEnrollmentsByStudentAndSemester(studentID, target.SemesterID)
	if err != nil {
		return ValidationResult{}, err
	}

	var msgs []string
	for _, enr := range existing {
		// a different day never conflicts
		if !sameDate(enr.EnrolledDate, date) {
			continue
		}
		sec, err := svc.sectionRepo.GetSectionByID(enr.SectionID)
		if err != nil {
			return ValidationResult{}, err
		}
		if overlap(sec, target) {
			msgs = append(msgs, fmt.Sprintf("Time conflict with %s (%s %s-%s)",
				sec.CourseName, sec.DayOfWeek, sec.StartTime, sec.EndTime))
		}
	}
	return ValidationResult{OK: len(msgs) == 0, Errors: msgs}, nil
}

// ValidatePrerequisite checks that the student passed the course's
// prerequisite, if it has one.
func (svc *service) ValidatePrerequisite(studentID string, courseID int64) (ValidationResult, error) {
	c, err := svc.courseRepo.GetCourseByID(courseID)
	if err != nil {
		return ValidationResult{}, err
	}
	if !c.HasPrerequisite() {
		return ValidationResult{OK: true}, nil
	}

	history, err := svc.repo.QueryHistoryByStudent(studentID)
	if err != nil {
		return ValidationResult{}, err
	}
	for _, h := range history {
		if h.CourseID == c.PrerequisiteID && h.Passed() {
			return ValidationResult{OK: true}, nil
		}
	}
	return ValidationResult{OK: false, Errors: []string{"Prerequisite not completed"}}, nil
}

// Enroll runs the enrollment pipeline for the student, section and date:
// conflict check, prerequisite check, then the enrollment itself (seat,
// duplicate and course-cap checks plus the insert). The first failing step
// ends the run in its failure state.
func (svc *service) Enroll(studentID string, sectionID int64, date time.Time) (PipelineResult, error) {
	return svc.enroll(studentID, sectionID, date, true)
}

func (svc *service) enroll(studentID string, sectionID int64, date time.Time, async bool) (PipelineResult, error) {
	sec, err := svc.sectionRepo.GetSectionByID(sectionID)
	if err != nil {
		return PipelineResult{}, err
	}
	student, err := svc.userRepo.GetUserByID(studentID)
	if err != nil {
		return PipelineResult{}, err
	}

	steps := []pipelineStep{
		{
			state: StateValidatingConflict,
			fail:  StateConflict,
			run: func() (*Enrollment, []string, error) {
				res, err := svc.ValidateConflict(studentID, sectionID, date)
				return nil, res.Errors, err
			},
		},
		{
			state: StateValidatingPrereq,
			fail:  StatePrereqUnmet,
			run: func() (*Enrollment, []string, error) {
				res, err := svc.ValidatePrerequisite(studentID, sec.CourseID)
				return nil, res.Errors, err
			},
		},
		{
			state: StateEnrolling,
			fail:  StateEnrollFailed,
			run: func() (*Enrollment, []string, error) {
				return svc.doEnroll(student, sec, date)
			},
		},
	}

	result, err := runPipeline(steps)
	if err != nil {
		return PipelineResult{}, err
	}
	if result.State == StateDone && result.Enrollment != nil {
		if async {
			go svc.sendConfirmationMail(student, sec, *result.Enrollment)
		} else {
			svc.sendConfirmationMail(student, sec, *result.Enrollment)
		}
	}
	return result, nil
}

// doEnroll applies the enrollment-step rules and creates the record.
func (svc *service) doEnroll(student user.User, sec schedule.Section, date time.Time) (*Enrollment, []string, error) {
	if _, err := svc.repo.GetEnrollmentByStudentAndSection(student.ID, sec.ID); err == nil {
		return nil, []string{ErrAlreadyEnrolled.Error()}, nil
	} else if errors.Cause(err) != ErrNotFound {
		return nil, nil, err
	}

	seated, err := svc.repo.CountEnrollmentsBySectionAndDate(sec.ID, date)
	if err != nil {
		return nil, nil, err
	}
	if seated >= sec.RoomCapacity {
		return nil, []string{fmt.Sprintf("Room is full for this section & date %s", date.Format(timetable.DateLayout))}, nil
	}

	planned, err := svc.repo.QueryEnrollmentsByStudentAndSemester(student.ID, sec.SemesterID)
	if err != nil {
		return nil, nil, err
	}
	if len(planned) >= MaxCoursesPerSemester {
		return nil, []string{fmt.Sprintf("Maximum of %d courses per semester reached.", MaxCoursesPerSemester)}, nil
	}

	enr, err := svc.repo.CreateEnrollment(Enrollment{
		StudentID:    student.ID,
		SectionID:    sec.ID,
		SemesterID:   sec.SemesterID,
		EnrolledDate: date,
	})
	if err != nil {
		return nil, nil, err
	}
	return &enr, nil, nil
}

// History returns the student's course records ordered by semester start.
func (svc *service) History(studentID string) ([]CourseHistory, error) {
	history, err := svc.repo.QueryHistoryByStudent(studentID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].SemesterStart.Before(history[j].SemesterStart)
	})
	return history, nil
}

// Current returns the student's active-semester enrollments ordered by day
// then start time.
func (svc *service) Current(studentID string) ([]CurrentEnrollment, error) {
	sem, err := svc.semRepo.GetActiveSemester()
	if err != nil {
		return nil, err
	}
	enrs, err := svc.repo.QueryEnrollmentsByStudentAndSemester(studentID, sem.ID)
	if err != nil {
		return nil, err
	}

	current := make([]CurrentEnrollment, 0, len(enrs))
	for _, enr := range enrs {
		sec, err := svc.sectionRepo.GetSectionByID(enr.SectionID)
		if err != nil {
			return nil, err
		}
		current = append(current, CurrentEnrollment{
			DayOfWeek:    sec.DayOfWeek,
			StartTime:    sec.StartTime,
			EndTime:      sec.EndTime,
			CourseName:   sec.CourseName,
			TeacherName:  sec.TeacherName,
			RoomName:     sec.RoomName,
			EnrolledDate: enr.EnrolledDate.Format(timetable.DateLayout),
		})
	}
	sort.SliceStable(current, func(i, j int) bool {
		di, dj := dayIndex(current[i].DayOfWeek), dayIndex(current[j].DayOfWeek)
		if di != dj {
			return di < dj
		}
		return current[i].StartTime < current[j].StartTime
	})
	return current, nil
}

// Progress computes the student's standing: pass/fail GPA, earned credits
// against the graduation requirement, and this semester's planned load.
func (svc *service) Progress(studentID string) (Progress, error) {
	student, err := svc.userRepo.GetUserByID(studentID)
	if err != nil {
		return Progress{}, err
	}
	history, err := svc.repo.QueryHistoryByStudent(studentID)
	if err != nil {
		return Progress{}, err
	}
	enrs, err := svc.repo.QueryEnrollmentsByStudent(studentID)
	if err != nil {
		return Progress{}, err
	}

	var credits float64
	var graded, points float64
	for _, h := range history {
		switch h.Status {
		case StatusPassed:
			credits += float64(h.Credits)
			graded++
			points += gpaPass
		case StatusFailed:
			graded++
			points += gpaFail
		}
	}
	var gpa float64
	if graded > 0 {
		gpa = points / graded
	}

	remaining := float64(CreditsRequired) - credits
	if remaining < 0 {
		remaining = 0
	}

	return Progress{
		StudentID:            student.ID,
		StudentName:          student.Name,
		Email:                student.Email,
		GradeLevel:           student.GradeLevel,
		GPA:                  gpa,
		CreditsEarned:        credits,
		CreditsRequired:      CreditsRequired,
		CreditsRemaining:     remaining,
		CompletionPercentage: credits / CreditsRequired * 100,
		PlannedThisSemester:  len(enrs),
		MaxCoursesReached:    len(enrs) >= MaxCoursesPerSemester,
	}, nil
}

func (svc *service) sendConfirmationMail(student user.User, sec schedule.Section, enr Enrollment) {
	svc.mailSvc.SendMessages(
		&core.EmailMessage{
			To:           []mail.Address{{Name: student.Name, Address: student.Email}},
			Subject:      "Enrollment Confirmation",
			TemplateName: "enrollment-confirmation",
			TemplateData: core.ContextData{
				FrontendBaseURL: core.Conf.FrontendBaseURL,
				Data: map[string]interface{}{
					"Name":       student.Name,
					"CourseName": sec.CourseName,
					"Teacher":    sec.TeacherName,
					"Room":       sec.RoomName,
					"DayOfWeek":  sec.DayOfWeek,
					"StartTime":  sec.StartTime,
					"EndTime":    sec.EndTime,
					"Date":       enr.EnrolledDate.Format(timetable.DateLayout),
				},
			},
		},
	)
}

// overlap reports whether two sections' hour spans intersect on the same
// weekday. HH:MM strings compare correctly as strings.
func overlap(a, b schedule.Section) bool {
	if a.DayOfWeek != b.DayOfWeek {
		return false
	}
	return a.StartTime < b.EndTime && b.StartTime < a.EndTime
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func dayIndex(day string) int {
	for i, d := range schedule.Days {
		if d == day {
			return i
		}
	}
	return len(schedule.Days)
}

func parseWeekday(day string) (time.Weekday, error) {
	switch day {
	case "MONDAY":
		return time.Monday, nil
	case "TUESDAY":
		return time.Tuesday, nil
	case "WEDNESDAY":
		return time.Wednesday, nil
	case "THURSDAY":
		return time.Thursday, nil
	case "FRIDAY":
		return time.Friday, nil
	}
	return 0, errors.Errorf("unknown weekday %q", day)
}
