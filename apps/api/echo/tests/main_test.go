package tests

import (
	"log"
	"net/mail"
	"os"
	"testing"
	"time"

	"github.com/highschool/scheduler/core"
	"github.com/highschool/scheduler/core/user"
)

var testLogger = log.New(os.Stdout, "TEST : ", log.LstdFlags|log.Lshortfile)

func TestMain(m *testing.M) {
	core.Conf = &core.Config{
		AppName:                   "Scheduler",
		TestMode:                  true,
		SecretKey:                 "s3cr3t",
		WorkDir:                   core.Getwd(),
		FrontendBaseURL:           "http://localhost:3000",
		DefaultFromEmail:          mail.Address{Name: "Scheduler", Address: "noreply@school.test"},
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
	}
	core.Conf.Server.JWTExpirationDelta = 10 * time.Minute
	core.Conf.Server.JWTRefreshExpirationDelta = 4 * time.Hour
	core.InitValidators()
	user.RegisterValidators()

	os.Exit(m.Run())
}
