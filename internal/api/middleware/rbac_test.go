package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/scm/dashboard-gateway/internal/core/access"
	"github.com/scm/dashboard-gateway/internal/core/domain"
)

func contextWith(t *testing.T, role domain.Role) echo.Context {
	t.Helper()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if role != domain.RoleNone {
		sess, err := domain.NewSession("u", role, "tkn")
		if err != nil {
			t.Fatalf("session: %v", err)
		}
		c.Set(SessionKey, sess)
	}
	return c
}

func TestRequireView_Allows(t *testing.T) {
	c := contextWith(t, domain.RoleGovernmentAdmin)

	called := false
	handler := RequireView(access.DefaultTable(), "system-status")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestRequireView_Forbids(t *testing.T) {
	c := contextWith(t, domain.RoleCityManager)

	handler := RequireView(access.DefaultTable(), "system-status")(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrAuthorizationDenied) {
		t.Fatalf("expected access denied, got %v", err)
	}
}

func TestRequireView_AnonymousRedirects(t *testing.T) {
	c := contextWith(t, domain.RoleNone)

	handler := RequireView(access.DefaultTable(), "dashboard")(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestRequireViewFrom_UnknownView(t *testing.T) {
	c := contextWith(t, domain.RoleGovernmentAdmin)
	c.SetParamNames("mode")
	c.SetParamValues("hovercraft")

	handler := RequireViewFrom(access.DefaultTable(), func(c echo.Context) string {
		return "indicators-" + c.Param("mode")
	})(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
