package inmemdb

import (
	"github.com/highschool/scheduler/core/semester"
)

type semesterRepository struct {
	db *DB
}

func NewSemesterRepository(db *DB) semester.Repository {
	return &semesterRepository{db: db}
}

func (repo *semesterRepository) QueryAllSemesters() ([]semester.Semester, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	semesters := make([]semester.Semester, 0, len(repo.db.semesters))
	for _, s := range repo.db.semesters {
		semesters = append(semesters, *s)
	}
	return semesters, nil
}

func (repo *semesterRepository) GetSemesterByID(id int64) (semester.Semester, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.semesters[id]; ok {
		return *s, nil
	}
	return semester.Semester{}, semester.ErrNotFound
}

func (repo *semesterRepository) GetActiveSemester() (semester.Semester, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, s := range repo.db.semesters {
		if s.IsActive {
			return *s, nil
		}
	}
	return semester.Semester{}, semester.ErrNoActive
}
