package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/highschool/scheduler/core/course"
	"github.com/highschool/scheduler/core/schedule"
)

type courseApi struct {
	svc         course.Service
	scheduleSvc schedule.Service
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc course.Service, scheduleSvc schedule.Service) {
	api := courseApi{svc: svc, scheduleSvc: scheduleSvc}

	cg := g.Group("/courses", jwt)
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)

	g.GET("/classrooms", api.queryClassrooms, jwt)
}

func (api *courseApi) query(ctx echo.Context) error {
	var courses []course.Course
	var err error
	if order := ctx.QueryParam("semester_order"); order != "" {
		n, perr := strconv.Atoi(order)
		if perr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid semester_order")
		}
		courses, err = api.svc.QueryBySemesterOrder(n)
	} else {
		courses, err = api.svc.QueryAll()
	}
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return errHttpNotFound
	}
	c, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) queryClassrooms(ctx echo.Context) error {
	rooms, err := api.scheduleSvc.Classrooms()
	if err != nil {
		return errors.Wrap(err, "querying classrooms")
	}
	if rooms == nil {
		rooms = []schedule.Classroom{}
	}
	return ctx.JSON(http.StatusOK, rooms)
}
