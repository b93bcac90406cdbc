package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/highschool/scheduler/core/enrollment"
)

type enrollmentRow struct {
	ID           int64     `db:"id"`
	StudentID    string    `db:"student_id"`
	SectionID    int64     `db:"section_id"`
	SemesterID   int64     `db:"semester_id"`
	EnrolledDate time.Time `db:"enrolled_date"`
}

func (row enrollmentRow) enrollment() enrollment.Enrollment {
	return enrollment.Enrollment(row)
}

type historyRow struct {
	ID         int64  `db:"id"`
	StudentID  string `db:"student_id"`
	CourseID   int64  `db:"course_id"`
	SemesterID int64  `db:"semester_id"`
	Status     string `db:"status"`

	SemesterName  string    `db:"semester_name"`
	SemesterStart time.Time `db:"semester_start"`
	CourseName    string    `db:"course_name"`
	CourseType    string    `db:"course_type"`
	Credits       int       `db:"credits"`
}

func (row historyRow) history() enrollment.CourseHistory {
	return enrollment.CourseHistory(row)
}

type enrollmentRepository struct {
	db *sqlx.DB
}

func NewEnrollmentRepository(db *sqlx.DB) enrollment.Repository {
	return &enrollmentRepository{db: db}
}

func (repo *enrollmentRepository) CreateEnrollment(enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	query := `
		INSERT INTO enrollment (student_id, section_id, semester_id, enrolled_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := repo.db.QueryRow(
		query,
		enr.StudentID,
		enr.SectionID,
		enr.SemesterID,
		enr.EnrolledDate,
	).Scan(&enr.ID)
	if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "creating enrollment")
	}
	return enr, nil
}

func (repo *enrollmentRepository) queryEnrollments(query string, args ...interface{}) ([]enrollment.Enrollment, error) {
	var rows []enrollmentRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	enrs := make([]enrollment.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrs = append(enrs, row.enrollment())
	}
	return enrs, nil
}

func (repo *enrollmentRepository) QueryEnrollmentsByStudent(studentID string) ([]enrollment.Enrollment, error) {
	return repo.queryEnrollments(`SELECT * FROM enrollment WHERE student_id = $1 ORDER BY id`, studentID)
}

func (repo *enrollmentRepository) QueryEnrollmentsByStudentAndSemester(studentID string, semesterID int64) ([]enrollment.Enrollment, error) {
	return repo.queryEnrollments(
		`SELECT * FROM enrollment WHERE student_id = $1 AND semester_id = $2 ORDER BY id`, studentID, semesterID)
}

func (repo *enrollmentRepository) GetEnrollmentByStudentAndSection(studentID string, sectionID int64) (enrollment.Enrollment, error) {
	var row enrollmentRow
	query := `SELECT * FROM enrollment WHERE student_id = $1 AND section_id = $2`
	err := repo.db.Get(&row, query, studentID, sectionID)
	if err == sql.ErrNoRows {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	} else if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "getting enrollment")
	}
	return row.enrollment(), nil
}

func (repo *enrollmentRepository) CountEnrollmentsBySection(sectionID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM enrollment WHERE section_id = $1`
	if err := repo.db.Get(&count, query, sectionID); err != nil {
		return 0, errors.Wrap(err, "counting enrollments")
	}
	return count, nil
}

func (repo *enrollmentRepository) CountEnrollmentsBySectionAndDate(sectionID int64, date time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM enrollment WHERE section_id = $1 AND enrolled_date = $2`
	if err := repo.db.Get(&count, query, sectionID, date); err != nil {
		return 0, errors.Wrap(err, "counting enrollments")
	}
	return count, nil
}

func (repo *enrollmentRepository) QueryHistoryByStudent(studentID string) ([]enrollment.CourseHistory, error) {
	var rows []historyRow
	query := `
		SELECT h.id, h.student_id, h.course_id, h.semester_id, h.status,
		       sem.name AS semester_name, sem.start_date AS semester_start,
		       c.name AS course_name, c.course_type, c.credits
		FROM course_history h
		JOIN semester sem ON sem.id = h.semester_id
		JOIN course c ON c.id = h.course_id
		WHERE h.student_id = $1
		ORDER BY h.id
	`
	if err := repo.db.Select(&rows, query, studentID); err != nil {
		return nil, errors.Wrap(err, "querying course history")
	}
	history := make([]enrollment.CourseHistory, 0, len(rows))
	for _, row := range rows {
		history = append(history, row.history())
	}
	return history, nil
}

func (repo *enrollmentRepository) PassedCourseIDsByStudent() (map[string]map[int64]bool, error) {
	var rows []struct {
		StudentID string `db:"student_id"`
		CourseID  int64  `db:"course_id"`
	}
	query := `SELECT student_id, course_id FROM course_history WHERE status = $1`
	if err := repo.db.Select(&rows, query, enrollment.StatusPassed); err != nil {
		return nil, errors.Wrap(err, "querying passed courses")
	}

	passed := make(map[string]map[int64]bool)
	for _, row := range rows {
		if passed[row.StudentID] == nil {
			passed[row.StudentID] = make(map[int64]bool)
		}
		passed[row.StudentID][row.CourseID] = true
	}
	return passed, nil
}
