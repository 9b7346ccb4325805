package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/scm/dashboard-gateway/internal/core/access"
)

// RequireView gates a route behind a view of the access table. Anonymous
// sessions fail with ErrUnauthenticated, sessions lacking the role with
// ErrAuthorizationDenied; the error handler renders both.
func RequireView(table *access.Table, viewID string) echo.MiddlewareFunc {
	return RequireViewFrom(table, func(echo.Context) string { return viewID })
}

// RequireViewFrom is RequireView with the view chosen per request, e.g. from
// a path parameter.
func RequireViewFrom(table *access.Table, view func(echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d, err := table.AuthorizeView(SessionFrom(c), view(c))
			if err != nil {
				return err
			}
			if err := d.Err(); err != nil {
				return err
			}
			return next(c)
		}
	}
}
