package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/highschool/scheduler/apps/api/echo"
	"github.com/highschool/scheduler/core"
	"github.com/highschool/scheduler/core/course"
	"github.com/highschool/scheduler/core/enrollment"
	"github.com/highschool/scheduler/core/schedule"
	"github.com/highschool/scheduler/core/semester"
	"github.com/highschool/scheduler/core/user"
	"github.com/highschool/scheduler/core/utilization"
	emailsvc "github.com/highschool/scheduler/services/email"
	logsvc "github.com/highschool/scheduler/services/logger"
	"github.com/highschool/scheduler/storage/database"
	sqlxrepos "github.com/highschool/scheduler/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("failed to close database", err)
		}
	}()
	sdb := sqlx.NewDb(db, conf.Database.Engine)

	usrRepo := sqlxrepos.NewUserRepository(sdb)
	courseRepo := sqlxrepos.NewCourseRepository(sdb)
	semRepo := sqlxrepos.NewSemesterRepository(sdb)
	schedRepo := sqlxrepos.NewScheduleRepository(sdb)
	enrRepo := sqlxrepos.NewEnrollmentRepository(sdb)

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService()
	}

	usrSvc := user.NewService(usrRepo, mailSvc)
	scheduleSvc := schedule.NewService(schedRepo, courseRepo, semRepo, usrRepo, enrRepo)
	enrollmentSvc := enrollment.NewService(enrRepo, schedRepo, semRepo, usrRepo, courseRepo, mailSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	core.InitValidators()
	user.RegisterValidators()

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(&echoapi.Options{
		Address:  conf.Server.Addr,
		Logger:   logger,
		Shutdown: func() { shutdown <- syscall.SIGTERM },

		UserSvc:        usrSvc,
		CourseSvc:      course.NewService(courseRepo),
		SemesterSvc:    semester.NewService(semRepo),
		ScheduleSvc:    scheduleSvc,
		EnrollmentSvc:  enrollmentSvc,
		UtilizationSvc: utilization.NewService(schedRepo, semRepo),
	})

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-serverErrors:
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = app.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db, conf); err != nil {
		return nil, err
	}
	return db, nil
}
