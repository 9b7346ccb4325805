package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/scm/dashboard-gateway/internal/api/middleware"
	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/querysync"
	"github.com/scm/dashboard-gateway/internal/core/service"
)

// requestScope returns the caller's session and the request context. The
// query parameter refresh=true forces a refetch past the cache.
func requestScope(c echo.Context) (context.Context, domain.Session) {
	ctx := c.Request().Context()
	if force, _ := strconv.ParseBool(c.QueryParam("refresh")); force {
		ctx = service.WithRefresh(ctx)
	}
	return ctx, middleware.SessionFrom(c)
}

// requireSession fails fast for routes that need a login but no particular view.
func requireSession(c echo.Context) (domain.Session, error) {
	sess := middleware.SessionFrom(c)
	if !sess.Authenticated() {
		return sess, domain.ErrUnauthenticated
	}
	return sess, nil
}

// readResponse is the envelope of every cached read. When a refetch failed
// but earlier data exists, Data holds it, Stale is true and Error explains.
type readResponse[T any] struct {
	Data      T         `json:"data"`
	Stale     bool      `json:"stale"`
	FetchedAt time.Time `json:"fetchedAt,omitzero"`
	Error     string    `json:"error,omitempty"`
}

// respondRead renders a cache result. Failures without data go to the error
// handler, as do auth and not-found failures regardless of data.
func respondRead[T any](c echo.Context, r querysync.Result[T]) error {
	if r.Err != nil {
		if !r.HasData ||
			errors.Is(r.Err, domain.ErrUnauthenticated) ||
			errors.Is(r.Err, domain.ErrAuthorizationDenied) ||
			errors.Is(r.Err, domain.ErrNotFound) {
			return r.Err
		}
		return c.JSON(http.StatusOK, readResponse[T]{
			Data:      r.Data,
			Stale:     true,
			FetchedAt: r.FetchedAt,
			Error:     "showing last known data: remote service unavailable",
		})
	}
	return c.JSON(http.StatusOK, readResponse[T]{
		Data:      r.Data,
		Stale:     r.Stale,
		FetchedAt: r.FetchedAt,
	})
}
