package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/highschool/scheduler/core/semester"
	"github.com/highschool/scheduler/core/utilization"
)

type utilizationApi struct {
	svc utilization.Service
}

func registerUtilizationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc utilization.Service) {
	api := utilizationApi{svc: svc}
	g.GET("/utilization", api.report, jwt, teacherOrAdminMiddleware())
}

func (api *utilizationApi) report(ctx echo.Context) error {
	report, err := api.svc.Report()
	if err != nil {
		if errors.Cause(err) == semester.ErrNoActive {
			return errHttpNotFound
		}
		return errors.Wrap(err, "computing utilization")
	}
	return ctx.JSON(http.StatusOK, report)
}
