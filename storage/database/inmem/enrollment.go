package inmemdb

import (
	"sort"
	"time"

	"github.com/highschool/scheduler/core/enrollment"
)

type enrollmentRepository struct {
	db *DB
}

func NewEnrollmentRepository(db *DB) enrollment.Repository {
	return &enrollmentRepository{db: db}
}

func (repo *enrollmentRepository) queryEnrollments(match func(enrollment.Enrollment) bool) []enrollment.Enrollment {
	var enrs []enrollment.Enrollment
	for _, enr := range repo.db.enrollments {
		if match(*enr) {
			enrs = append(enrs, *enr)
		}
	}
	sort.Slice(enrs, func(i, j int) bool { return enrs[i].ID < enrs[j].ID })
	return enrs
}

func (repo *enrollmentRepository) CreateEnrollment(enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if enr.ID == 0 {
		enr.ID = repo.db.nextPK()
	}
	repo.db.enrollments[enr.ID] = &enr
	return enr, nil
}

func (repo *enrollmentRepository) QueryEnrollmentsByStudent(studentID string) ([]enrollment.Enrollment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryEnrollments(func(e enrollment.Enrollment) bool { return e.StudentID == studentID }), nil
}

func (repo *enrollmentRepository) QueryEnrollmentsByStudentAndSemester(studentID string, semesterID int64) ([]enrollment.Enrollment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryEnrollments(func(e enrollment.Enrollment) bool {
		return e.StudentID == studentID && e.SemesterID == semesterID
	}), nil
}

func (repo *enrollmentRepository) GetEnrollmentByStudentAndSection(studentID string, sectionID int64) (enrollment.Enrollment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, enr := range repo.db.enrollments {
		if enr.StudentID == studentID && enr.SectionID == sectionID {
			return *enr, nil
		}
	}
	return enrollment.Enrollment{}, enrollment.ErrNotFound
}

func (repo *enrollmentRepository) CountEnrollmentsBySection(sectionID int64) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int
	for _, enr := range repo.db.enrollments {
		if enr.SectionID == sectionID {
			count++
		}
	}
	return count, nil
}

func (repo *enrollmentRepository) CountEnrollmentsBySectionAndDate(sectionID int64, date time.Time) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	y, m, d := date.Date()
	var count int
	for _, enr := range repo.db.enrollments {
		ey, em, ed := enr.EnrolledDate.Date()
		if enr.SectionID == sectionID && ey == y && em == m && ed == d {
			count++
		}
	}
	return count, nil
}

func (repo *enrollmentRepository) QueryHistoryByStudent(studentID string) ([]enrollment.CourseHistory, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var history []enrollment.CourseHistory
	for _, h := range repo.db.history {
		if h.StudentID == studentID {
			history = append(history, *h)
		}
	}
	sort.Slice(history, func(i, j int) bool { return history[i].ID < history[j].ID })
	return history, nil
}

func (repo *enrollmentRepository) PassedCourseIDsByStudent() (map[string]map[int64]bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	passed := make(map[string]map[int64]bool)
	for _, h := range repo.db.history {
		if !h.Passed() {
			continue
		}
		if passed[h.StudentID] == nil {
			passed[h.StudentID] = make(map[int64]bool)
		}
		passed[h.StudentID][h.CourseID] = true
	}
	return passed, nil
}
