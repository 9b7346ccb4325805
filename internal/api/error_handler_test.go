package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/scm/dashboard-gateway/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		code     int
		redirect string
		action   string
	}{
		{"invalid credentials", fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, domain.ErrUnauthenticated), http.StatusUnauthorized, "", ""},
		{"user exists", fmt.Errorf("%w: %w", domain.ErrUserExists, domain.ErrInvalidArgument), http.StatusConflict, "", ""},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, LoginPath, ""},
		{"revoked", domain.ErrTokenRevoked, http.StatusUnauthorized, LoginPath, ""},
		{"denied", domain.ErrAuthorizationDenied, http.StatusForbidden, "", "back"},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "", ""},
		{"invalid argument", fmt.Errorf("%w: bad mode", domain.ErrInvalidArgument), http.StatusBadRequest, "", ""},
		{"fetch failed", domain.ErrFetchFailed, http.StatusBadGateway, "", ""},
		{"mutation failed", domain.ErrMutationFailed, http.StatusBadGateway, "", ""},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed, "", ""},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "", ""},
	}

	handle := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/anything", nil), rec)

			handle(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error == "" {
				t.Fatalf("expected an error message")
			}
			if resp.Redirect != tc.redirect || resp.Action != tc.action {
				t.Fatalf("unexpected hints: %+v", resp)
			}
		})
	}
}

func TestHTTPErrorHandler_HidesInternalDetails(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("dial tcp 10.0.0.4:5432: secret detail"), c)

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Error != "internal server error" {
		t.Fatalf("expected a generic message, got %q", resp.Error)
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponses(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.NoContent(http.StatusAccepted)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrNotFound, c)

	if rec.Code != http.StatusAccepted || rec.Body.Len() != 0 {
		t.Fatalf("expected the committed response untouched, got %d %q", rec.Code, rec.Body.String())
	}
}
