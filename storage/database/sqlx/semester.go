package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/highschool/scheduler/core/semester"
)

type semesterRow struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Year        int       `db:"year"`
	OrderInYear int       `db:"order_in_year"`
	StartDate   time.Time `db:"start_date"`
	EndDate     time.Time `db:"end_date"`
	IsActive    bool      `db:"is_active"`
}

func (row semesterRow) semester() semester.Semester {
	return semester.Semester(row)
}

type semesterRepository struct {
	db *sqlx.DB
}

func NewSemesterRepository(db *sqlx.DB) semester.Repository {
	return &semesterRepository{db: db}
}

func (repo *semesterRepository) QueryAllSemesters() ([]semester.Semester, error) {
	var rows []semesterRow
	query := `SELECT * FROM semester ORDER BY start_date`
	if err := repo.db.Select(&rows, query); err != nil {
		return nil, errors.Wrap(err, "querying semesters")
	}
	semesters := make([]semester.Semester, 0, len(rows))
	for _, row := range rows {
		semesters = append(semesters, row.semester())
	}
	return semesters, nil
}

func (repo *semesterRepository) getSemester(query string, args ...interface{}) (semester.Semester, error) {
	var row semesterRow
	err := repo.db.Get(&row, query, args...)
	if err == sql.ErrNoRows {
		return semester.Semester{}, semester.ErrNotFound
	} else if err != nil {
		return semester.Semester{}, errors.Wrap(err, "getting semester")
	}
	return row.semester(), nil
}

func (repo *semesterRepository) GetSemesterByID(id int64) (semester.Semester, error) {
	return repo.getSemester(`SELECT * FROM semester WHERE id = $1`, id)
}

func (repo *semesterRepository) GetActiveSemester() (semester.Semester, error) {
	sem, err := repo.getSemester(`SELECT * FROM semester WHERE is_active LIMIT 1`)
	if errors.Cause(err) == semester.ErrNotFound {
		return semester.Semester{}, semester.ErrNoActive
	}
	return sem, err
}
