package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/highschool/scheduler/core/enrollment"
	"github.com/highschool/scheduler/core/schedule"
	"github.com/highschool/scheduler/core/semester"
	"github.com/highschool/scheduler/core/user"
)

type scheduleApi struct {
	svc           schedule.Service
	enrollmentSvc enrollment.Service
	userSvc       user.Service
}

func registerScheduleAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc schedule.Service,
	enrollmentSvc enrollment.Service,
	userSvc user.Service,
) {
	api := scheduleApi{svc: svc, enrollmentSvc: enrollmentSvc, userSvc: userSvc}

	sg := g.Group("/schedule", jwt)
	sg.GET("", api.events, teacherOrAdminMiddleware())
	sg.GET("/timetable", api.timetable, teacherOrAdminMiddleware())
	sg.POST("/generate", api.generate, adminMiddleware())
	sg.DELETE("/reset", api.reset, adminMiddleware())

	secg := g.Group("/course-sections", jwt)
	secg.GET("/:id", api.retrieveSection)
	secg.GET("/:id/eligible-dates", api.eligibleDates)
}

// events returns the active semester's full schedule as calendar events.
func (api *scheduleApi) events(ctx echo.Context) error {
	events, err := api.svc.Events()
	if err != nil {
		if errors.Cause(err) == semester.ErrNoActive {
			return errHttpNotFound
		}
		return errors.Wrap(err, "querying schedule events")
	}
	return ctx.JSON(http.StatusOK, events)
}

// timetable renders the weekly staff grid. Teachers get their own timetable;
// admins may pass teacher_id to view any teacher's, or none for the whole
// school.
func (api *scheduleApi) timetable(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	teacherID := ctx.QueryParam("teacher_id")
	if claims.IsTeacher && !claims.IsAdmin {
		teacherID = claims.Subject
	} else if teacherID != "" {
		usr, err := api.userSvc.GetByID(teacherID)
		if err != nil || !usr.IsTeacher() {
			return errHttpNotFound
		}
	}

	grid, err := api.svc.Timetable(ctx.QueryParam("anchor"), ctx.QueryParam("nav"), teacherID)
	if err != nil {
		if errors.Cause(err) == semester.ErrNoActive {
			return errHttpNotFound
		}
		return errors.Wrap(err, "building timetable")
	}
	return ctx.JSON(http.StatusOK, grid)
}

func (api *scheduleApi) generate(ctx echo.Context) error {
	sections, err := api.svc.Generate()
	if err != nil {
		if errors.Cause(err) == semester.ErrNoActive {
			return errHttpNotFound
		}
		return errors.Wrap(err, "generating schedule")
	}
	return ctx.JSON(http.StatusCreated, sections)
}

func (api *scheduleApi) reset(ctx echo.Context) error {
	if err := api.svc.Reset(); err != nil {
		if errors.Cause(err) == semester.ErrNoActive {
			return errHttpNotFound
		}
		return errors.Wrap(err, "resetting schedule")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *scheduleApi) retrieveSection(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return errHttpNotFound
	}
	sec, err := api.svc.GetSection(id)
	if err != nil {
		if errors.Cause(err) == schedule.ErrSectionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting section")
	}
	return ctx.JSON(http.StatusOK, sec)
}

// eligibleDates lists the section's semester dates that still have seats.
func (api *scheduleApi) eligibleDates(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return errHttpNotFound
	}
	dates, err := api.enrollmentSvc.EligibleDates(id)
	if err != nil {
		if errors.Cause(err) == schedule.ErrSectionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "querying eligible dates")
	}
	if dates == nil {
		dates = []string{}
	}
	return ctx.JSON(http.StatusOK, dates)
}
