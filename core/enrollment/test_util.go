package enrollment

import (
	"time"

	"github.com/highschool/scheduler/core"
	"github.com/highschool/scheduler/core/course"
	"github.com/highschool/scheduler/core/schedule"
	"github.com/highschool/scheduler/core/semester"
	"github.com/highschool/scheduler/core/user"
)

type serviceMock struct {
	service
}

// NewServiceMock returns a Service whose confirmation mail is sent
// synchronously so tests can assert on the mailbox right away.
func NewServiceMock(
	repo Repository,
	sectionRepo schedule.Repository,
	semRepo semester.Repository,
	userRepo user.Repository,
	courseRepo course.Repository,
	mailSvc core.EmailService,
) Service {
	return &serviceMock{
		service: service{
			repo:        repo,
			sectionRepo: sectionRepo,
			semRepo:     semRepo,
			userRepo:    userRepo,
			courseRepo:  courseRepo,
			mailSvc:     mailSvc,
		},
	}
}

func (svc *serviceMock) Enroll(studentID string, sectionID int64, date time.Time) (PipelineResult, error) {
	return svc.enroll(studentID, sectionID, date, false)
}
