package user

import (
	"github.com/highschool/scheduler/core"
)

type serviceMock struct {
	service
}

// NewServiceMock returns a Service whose password reset mail is sent
// synchronously so tests can assert on the mailbox right away.
func NewServiceMock(repo Repository, mailSvc core.EmailService) Service {
	return &serviceMock{
		service: service{
			repo:    repo,
			mailSvc: mailSvc,
		},
	}
}

func (svc *serviceMock) RequestPasswordReset(email string) error {
	usr, err := svc.GetByEmail(email)
	if err != nil {
		return err
	}
	svc.sendPasswordResetMail(usr)
	return nil
}
