package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/highschool/scheduler/core/user"
)

func adminMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin && contextHasAnyRole(ctx, roles) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

func teacherOrAdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsTeacher || claims.IsAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// studentRecordMiddleware guards the /students/:id endpoints: a student may
// only reach their own record; admins may reach any. The target student is
// stashed in the context under "student".
func studentRecordMiddleware(svc user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			id := ctx.Param("id")
			if (claims.IsStudent && claims.Subject == id) || claims.IsAdmin {
				if usr, err := svc.GetByID(id); err == nil && usr.IsStudent() {
					ctx.Set("student", usr)
					return next(ctx)
				} else if err != nil && errors.Cause(err) != user.ErrNotFound {
					return errors.Wrap(err, "finding student by ID")
				}
			}
			return errHttpNotFound
		}
	}
}
