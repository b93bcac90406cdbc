package course

import "github.com/pkg/errors"

var ErrNotFound = errors.New("course not found")

type (
	Repository interface {
		QueryAllCourses() ([]Course, error)
		GetCourseByID(id int64) (Course, error)
		// QueryCoursesBySemesterOrder returns the catalog subset taught in
		// the given half of the year (1 = Fall, 2 = Spring).
		QueryCoursesBySemesterOrder(order int) ([]Course, error)
	}

	Service interface {
		QueryAll() ([]Course, error)
		GetByID(id int64) (Course, error)
		QueryBySemesterOrder(order int) ([]Course, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) QueryAll() ([]Course, error) {
	return svc.repo.QueryAllCourses()
}

func (svc *service) GetByID(id int64) (Course, error) {
	return svc.repo.GetCourseByID(id)
}

func (svc *service) QueryBySemesterOrder(order int) ([]Course, error) {
	return svc.repo.QueryCoursesBySemesterOrder(order)
}
