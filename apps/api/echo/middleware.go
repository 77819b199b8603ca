package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/access"
	"github.com/darasa-lms/darasa/core/account"
)

// gateMiddleware resolves the session, classifies the request path and applies
// the access decision before any handler runs. Page paths get redirects; API
// paths (/api, /v1) get a 401 instead of a login redirect.
func gateMiddleware(conf *core.Config, svc *account.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			path := ctx.Request().URL.Path
			usr := resolveSessionUser(ctx, conf, svc)

			decision := access.Decide(usr, access.Classify(path), path)
			if decision.Allow {
				return next(ctx)
			}
			// API clients get JSON, not page redirects
			if isAPIPath(path) {
				if usr == nil {
					return errUnauthorized
				}
				return errAlreadyAuthenticated
			}
			return ctx.Redirect(http.StatusFound, decision.RedirectTo)
		}
	}
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/") ||
		path == "/v1" || strings.HasPrefix(path, "/v1/")
}

// studentMiddleware turns instructors away from student-only routes.
// Accounts without a role still pass, consistent with access.DashboardPath.
func studentMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			if usr.IsInstructor() {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

// instructorMiddleware limits a route group to instructor accounts.
func instructorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			if !usr.IsInstructor() {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}
