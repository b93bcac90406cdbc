package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/highschool/scheduler/core/schedule"
)

// sectionQuery joins in the denormalized display fields every section view
// needs.
const sectionQuery = `
	SELECT s.id, s.course_id, s.teacher_id, s.classroom_id, s.semester_id,
	       s.day_of_week, s.start_time, s.end_time,
	       c.code AS course_code, c.name AS course_name, c.course_type,
	       u.name AS teacher_name, r.name AS room_name, r.capacity AS room_capacity
	FROM section s
	JOIN course c ON c.id = s.course_id
	JOIN app_user u ON u.id = s.teacher_id
	JOIN classroom r ON r.id = s.classroom_id`

type sectionRow struct {
	ID          int64  `db:"id"`
	CourseID    int64  `db:"course_id"`
	TeacherID   string `db:"teacher_id"`
	ClassroomID int64  `db:"classroom_id"`
	SemesterID  int64  `db:"semester_id"`
	DayOfWeek   string `db:"day_of_week"`
	StartTime   string `db:"start_time"`
	EndTime     string `db:"end_time"`

	CourseCode   string `db:"course_code"`
	CourseName   string `db:"course_name"`
	CourseType   string `db:"course_type"`
	TeacherName  string `db:"teacher_name"`
	RoomName     string `db:"room_name"`
	RoomCapacity int    `db:"room_capacity"`
}

func (row sectionRow) section() schedule.Section {
	return schedule.Section(row)
}

type scheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) schedule.Repository {
	return &scheduleRepository{db: db}
}

func (repo *scheduleRepository) querySections(query string, args ...interface{}) ([]schedule.Section, error) {
	var rows []sectionRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying sections")
	}
	sections := make([]schedule.Section, 0, len(rows))
	for _, row := range rows {
		sections = append(sections, row.section())
	}
	return sections, nil
}

func (repo *scheduleRepository) QuerySectionsBySemester(semesterID int64) ([]schedule.Section, error) {
	return repo.querySections(sectionQuery+` WHERE s.semester_id = $1 ORDER BY s.id`, semesterID)
}

func (repo *scheduleRepository) QuerySectionsByTeacher(teacherID string, semesterID int64) ([]schedule.Section, error) {
	return repo.querySections(
		sectionQuery+` WHERE s.teacher_id = $1 AND s.semester_id = $2 ORDER BY s.id`, teacherID, semesterID)
}

func (repo *scheduleRepository) GetSectionByID(id int64) (schedule.Section, error) {
	var row sectionRow
	err := repo.db.Get(&row, sectionQuery+` WHERE s.id = $1`, id)
	if err == sql.ErrNoRows {
		return schedule.Section{}, schedule.ErrSectionNotFound
	} else if err != nil {
		return schedule.Section{}, errors.Wrap(err, "getting section")
	}
	return row.section(), nil
}

func (repo *scheduleRepository) CreateSections(sections []schedule.Section) ([]schedule.Section, error) {
	tx, err := repo.db.Beginx()
	if err != nil {
		return nil, errors.Wrap(err, "creating sections")
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO section (course_id, teacher_id, classroom_id, semester_id, day_of_week, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	created := make([]schedule.Section, 0, len(sections))
	for _, sec := range sections {
		err = tx.QueryRow(
			query,
			sec.CourseID,
			sec.TeacherID,
			sec.ClassroomID,
			sec.SemesterID,
			sec.DayOfWeek,
			sec.StartTime,
			sec.EndTime,
		).Scan(&sec.ID)
		if err != nil {
			return nil, errors.Wrap(err, "creating sections")
		}
		created = append(created, sec)
	}
	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "creating sections")
	}
	return created, nil
}

func (repo *scheduleRepository) DeleteSectionsBySemester(semesterID int64) error {
	// enrollments follow via ON DELETE CASCADE
	if _, err := repo.db.Exec(`DELETE FROM section WHERE semester_id = $1`, semesterID); err != nil {
		return errors.Wrap(err, "deleting sections")
	}
	return nil
}

type classroomRow struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Capacity  int    `db:"capacity"`
	Equipment string `db:"equipment"`
	RoomType  string `db:"room_type"`
}

func (row classroomRow) classroom() schedule.Classroom {
	return schedule.Classroom(row)
}

func (repo *scheduleRepository) QueryAllClassrooms() ([]schedule.Classroom, error) {
	var rows []classroomRow
	query := `SELECT * FROM classroom ORDER BY id`
	if err := repo.db.Select(&rows, query); err != nil {
		return nil, errors.Wrap(err, "querying classrooms")
	}
	rooms := make([]schedule.Classroom, 0, len(rows))
	for _, row := range rows {
		rooms = append(rooms, row.classroom())
	}
	return rooms, nil
}

func (repo *scheduleRepository) GetClassroomByID(id int64) (schedule.Classroom, error) {
	var row classroomRow
	err := repo.db.Get(&row, `SELECT * FROM classroom WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return schedule.Classroom{}, schedule.ErrClassroomNotFound
	} else if err != nil {
		return schedule.Classroom{}, errors.Wrap(err, "getting classroom")
	}
	return row.classroom(), nil
}
