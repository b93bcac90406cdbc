// Package echoapi is the HTTP surface of the scheduler, built on echo.
package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/highschool/scheduler/core"
	"github.com/highschool/scheduler/core/course"
	"github.com/highschool/scheduler/core/enrollment"
	"github.com/highschool/scheduler/core/schedule"
	"github.com/highschool/scheduler/core/semester"
	"github.com/highschool/scheduler/core/user"
	"github.com/highschool/scheduler/core/utilization"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Logger   core.Logger
		Shutdown func() // signals main to stop the server

		UserSvc        user.Service
		CourseSvc      course.Service
		SemesterSvc    semester.Service
		ScheduleSvc    schedule.Service
		EnrollmentSvc  enrollment.Service
		UtilizationSvc utilization.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.Shutdown == nil {
		opts.Shutdown = func() {}
	}
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Shutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(newJWTConfig())

	registerUserAPI(api, jwt, s.opts.UserSvc)
	registerCourseAPI(api, jwt, s.opts.CourseSvc, s.opts.ScheduleSvc)
	registerSemesterAPI(api, jwt, s.opts.SemesterSvc)
	registerScheduleAPI(api, jwt, s.opts.ScheduleSvc, s.opts.EnrollmentSvc, s.opts.UserSvc)
	registerStudentAPI(api, jwt, s.opts.EnrollmentSvc, s.opts.UserSvc)
	registerUtilizationAPI(api, jwt, s.opts.UtilizationSvc)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the High School Scheduler API!")
}
