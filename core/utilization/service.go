package utilization

import (
	"github.com/highschool/scheduler/core/schedule"
	"github.com/highschool/scheduler/core/semester"
)

type (
	Service interface {
		Report() (Report, error)
	}

	service struct {
		sectionRepo schedule.Repository
		semRepo     semester.Repository
	}
)

var _ Service = (*service)(nil)

func NewService(sectionRepo schedule.Repository, semRepo semester.Repository) Service {
	return &service{sectionRepo: sectionRepo, semRepo: semRepo}
}

// Report computes utilization over the active semester's sections.
func (svc *service) Report() (Report, error) {
	sem, err := svc.semRepo.GetActiveSemester()
	if err != nil {
		return Report{}, err
	}
	sections, err := svc.sectionRepo.QuerySectionsBySemester(sem.ID)
	if err != nil {
		return Report{}, err
	}
	return Calculate(sections)
}
