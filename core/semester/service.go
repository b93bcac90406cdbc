package semester

import "github.com/pkg/errors"

var (
	ErrNotFound = errors.New("semester not found")
	ErrNoActive = errors.New("no active semester found")
)

type (
	Repository interface {
		QueryAllSemesters() ([]Semester, error)
		GetSemesterByID(id int64) (Semester, error)
		GetActiveSemester() (Semester, error)
	}

	Service interface {
		QueryAll() ([]Semester, error)
		GetByID(id int64) (Semester, error)
		Active() (Semester, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) QueryAll() ([]Semester, error) {
	return svc.repo.QueryAllSemesters()
}

func (svc *service) GetByID(id int64) (Semester, error) {
	return svc.repo.GetSemesterByID(id)
}

func (svc *service) Active() (Semester, error) {
	return svc.repo.GetActiveSemester()
}
