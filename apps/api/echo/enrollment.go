package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/highschool/scheduler/core"
	"github.com/highschool/scheduler/core/enrollment"
	"github.com/highschool/scheduler/core/semester"
	"github.com/highschool/scheduler/core/timetable"
	"github.com/highschool/scheduler/core/user"
)

type studentApi struct {
	svc enrollment.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc enrollment.Service, userSvc user.Service) {
	api := studentApi{svc: svc}

	sg := g.Group("/students/:id", jwt, studentRecordMiddleware(userSvc))
	sg.GET("/schedule", api.schedule)
	sg.GET("/timetable", api.timetable)
	sg.GET("/progress", api.progress)
	sg.GET("/history", api.history)
	sg.GET("/enrollments/current", api.current)
	sg.GET("/eligible-sections", api.eligibleSections)
	sg.POST("/validate-conflict", api.validateConflict)
	sg.POST("/validate-prereq", api.validatePrereq)
	sg.POST("/enroll", api.enroll)
}

func contextStudent(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get("student").(user.User); ok {
		return usr, nil
	}
	return user.User{}, errors.New("student object not found in echo.Context")
}

func (api *studentApi) schedule(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	events, err := api.svc.ScheduleEvents(student.ID)
	if err != nil {
		return errors.Wrap(err, "querying student schedule")
	}
	if events == nil {
		events = []timetable.ScheduleEvent{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *studentApi) timetable(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	grid, err := api.svc.Timetable(student.ID, ctx.QueryParam("anchor"), ctx.QueryParam("nav"))
	if err != nil {
		if errors.Cause(err) == semester.ErrNoActive {
			return errHttpNotFound
		}
		return errors.Wrap(err, "building student timetable")
	}
	return ctx.JSON(http.StatusOK, grid)
}

func (api *studentApi) progress(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	prog, err := api.svc.Progress(student.ID)
	if err != nil {
		return errors.Wrap(err, "computing progress")
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *studentApi) history(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	history, err := api.svc.History(student.ID)
	if err != nil {
		return errors.Wrap(err, "querying course history")
	}
	if history == nil {
		history = []enrollment.CourseHistory{}
	}
	return ctx.JSON(http.StatusOK, history)
}

func (api *studentApi) current(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	current, err := api.svc.Current(student.ID)
	if err != nil {
		if errors.Cause(err) == semester.ErrNoActive {
			return errHttpNotFound
		}
		return errors.Wrap(err, "querying current enrollments")
	}
	if current == nil {
		current = []enrollment.CurrentEnrollment{}
	}
	return ctx.JSON(http.StatusOK, current)
}

func (api *studentApi) eligibleSections(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	eligible, err := api.svc.EligibleSections(student.ID)
	if err != nil {
		if errors.Cause(err) == semester.ErrNoActive {
			return errHttpNotFound
		}
		return errors.Wrap(err, "querying eligible sections")
	}
	if eligible == nil {
		eligible = []enrollment.EligibleSection{}
	}
	return ctx.JSON(http.StatusOK, eligible)
}

func (api *studentApi) validateConflict(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	var data EnrollRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollRequest")
	}
	date, err := data.Validate()
	if err != nil {
		return err
	}

	res, err := api.svc.ValidateConflict(student.ID, data.SectionID, date)
	if err != nil {
		return errors.Wrap(err, "validating conflict")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *studentApi) validatePrereq(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	var data PrereqRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PrereqRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	res, err := api.svc.ValidatePrerequisite(student.ID, data.CourseID)
	if err != nil {
		return errors.Wrap(err, "validating prerequisite")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *studentApi) enroll(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	var data EnrollRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollRequest")
	}
	date, err := data.Validate()
	if err != nil {
		return err
	}

	res, err := api.svc.Enroll(student.ID, data.SectionID, date)
	if err != nil {
		return errors.Wrap(err, "enrolling")
	}
	code := http.StatusCreated
	if res.State.Failed() {
		code = http.StatusConflict
	}
	return ctx.JSON(code, res)
}

type (
	EnrollRequest struct {
		SectionID int64  `json:"section_id" validate:"required"`
		Date      string `json:"date" validate:"required"`
	}

	PrereqRequest struct {
		CourseID int64 `json:"course_id" validate:"required"`
	}
)

// Validate checks the payload and parses its date.
func (er *EnrollRequest) Validate() (time.Time, error) {
	if err := core.Validate.Struct(er); err != nil {
		return time.Time{}, err
	}
	date, err := time.Parse(timetable.DateLayout, er.Date)
	if err != nil {
		return time.Time{}, core.NewValidationError(nil,
			core.FieldError{Field: "date", Error: "must be a yyyy-MM-dd date"})
	}
	return date, nil
}

func (pr *PrereqRequest) Validate() error {
	return core.Validate.Struct(pr)
}
