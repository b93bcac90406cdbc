package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/highschool/scheduler/core/course"
)

const courseCols = `
	id, code, name, credits, hours_per_week, COALESCE(prerequisite_id, 0) AS prerequisite_id,
	specialization, room_type, semester_order, grade_level_min, grade_level_max, course_type`

type courseRow struct {
	ID             int64  `db:"id"`
	Code           string `db:"code"`
	Name           string `db:"name"`
	Credits        int    `db:"credits"`
	HoursPerWeek   int    `db:"hours_per_week"`
	PrerequisiteID int64  `db:"prerequisite_id"`
	Specialization string `db:"specialization"`
	RoomType       string `db:"room_type"`
	SemesterOrder  int    `db:"semester_order"`
	GradeLevelMin  int    `db:"grade_level_min"`
	GradeLevelMax  int    `db:"grade_level_max"`
	CourseType     string `db:"course_type"`
}

func (row courseRow) course() course.Course {
	return course.Course(row)
}

type courseRepository struct {
	db *sqlx.DB
}

func NewCourseRepository(db *sqlx.DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) queryCourses(query string, args ...interface{}) ([]course.Course, error) {
	var rows []courseRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.course())
	}
	return courses, nil
}

func (repo *courseRepository) QueryAllCourses() ([]course.Course, error) {
	return repo.queryCourses(`SELECT ` + courseCols + ` FROM course ORDER BY code`)
}

func (repo *courseRepository) GetCourseByID(id int64) (course.Course, error) {
	var row courseRow
	err := repo.db.Get(&row, `SELECT `+courseCols+` FROM course WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return course.Course{}, course.ErrNotFound
	} else if err != nil {
		return course.Course{}, errors.Wrap(err, "getting course")
	}
	return row.course(), nil
}

func (repo *courseRepository) QueryCoursesBySemesterOrder(order int) ([]course.Course, error) {
	return repo.queryCourses(`SELECT `+courseCols+` FROM course WHERE semester_order = $1 ORDER BY code`, order)
}
