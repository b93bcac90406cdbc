package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/highschool/scheduler/core/semester"
)

type semesterApi struct {
	svc semester.Service
}

func registerSemesterAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc semester.Service) {
	api := semesterApi{svc: svc}

	sg := g.Group("/semesters", jwt)
	sg.GET("", api.query)
	sg.GET("/active", api.active)
	sg.GET("/:id", api.retrieve)
}

func (api *semesterApi) query(ctx echo.Context) error {
	semesters, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying semesters")
	}
	if semesters == nil {
		semesters = []semester.Semester{}
	}
	return ctx.JSON(http.StatusOK, semesters)
}

func (api *semesterApi) active(ctx echo.Context) error {
	sem, err := api.svc.Active()
	if err != nil {
		if errors.Cause(err) == semester.ErrNoActive {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting active semester")
	}
	return ctx.JSON(http.StatusOK, sem)
}

func (api *semesterApi) retrieve(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return errHttpNotFound
	}
	sem, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == semester.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting semester")
	}
	return ctx.JSON(http.StatusOK, sem)
}
