package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/scm/dashboard-gateway/internal/api/middleware"
	"github.com/scm/dashboard-gateway/internal/core/domain"
)

type stubAuthService struct {
	loginFn    func(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error)
	registerFn func(ctx context.Context, reg domain.Registration) (domain.AuthResult, error)
	logoutFn   func(ctx context.Context, sess domain.Session) error
}

func (s *stubAuthService) Login(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error) {
	return s.loginFn(ctx, creds)
}

func (s *stubAuthService) RegisterCityManager(ctx context.Context, reg domain.Registration) (domain.AuthResult, error) {
	reg.Role = domain.RoleCityManager
	return s.registerFn(ctx, reg)
}

func (s *stubAuthService) RegisterServiceProviderAdmin(ctx context.Context, reg domain.Registration) (domain.AuthResult, error) {
	reg.Role = domain.RoleServiceProviderAdmin
	return s.registerFn(ctx, reg)
}

func (s *stubAuthService) Authenticate(context.Context, string) (domain.Session, error) {
	return domain.AnonymousSession(), domain.ErrUnauthenticated
}

func (s *stubAuthService) Logout(ctx context.Context, sess domain.Session) error {
	return s.logoutFn(ctx, sess)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func mustSession(t *testing.T, user string, role domain.Role) domain.Session {
	t.Helper()
	sess, err := domain.NewSession(user, role, "token-"+user)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return sess
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(_ context.Context, creds domain.Credentials) (domain.AuthResult, error) {
			if creds.Username != "manager" || creds.Password != "manager123" {
				t.Fatalf("unexpected credentials: %+v", creds)
			}
			return domain.AuthResult{
				Token: "jwt",
				User:  domain.User{ID: "2", Username: "manager", Role: domain.RoleCityManager, IsActive: true},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/auth/login", `{"username":"manager","password":"manager123"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "jwt" {
		t.Fatalf("unexpected token: %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["username"] != "manager" || user["role"] != "CITY_MANAGER" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c, rec := jsonContext(e, http.MethodPost, "/auth/login", `{"username":`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_MissingPassword(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := jsonContext(e, http.MethodPost, "/auth/login", `{"username":"manager"}`)
	err := handler.Login(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
	if !strings.Contains(he.Message.(string), "password") {
		t.Fatalf("expected message to name the field, got %v", he.Message)
	}
}

func TestAuthHandler_Login_RejectedCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, domain.Credentials) (domain.AuthResult, error) {
			return domain.AuthResult{}, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := jsonContext(e, http.MethodPost, "/auth/login", `{"username":"manager","password":"nope"}`)
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_RegisterCityManager_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, reg domain.Registration) (domain.AuthResult, error) {
			if reg.Username != "alice" || reg.Role != domain.RoleCityManager || reg.FirstName != "Alice" {
				t.Fatalf("unexpected registration: %+v", reg)
			}
			return domain.AuthResult{Token: "jwt", User: domain.User{Username: reg.Username, Role: reg.Role}}, nil
		},
	}
	handler := NewAuthHandler(stub)

	body := `{"username":"alice","password":"secret1","email":"a@city.gov","firstName":"Alice"}`
	c, rec := jsonContext(e, http.MethodPost, "/auth/register/city-manager", body)
	if err := handler.RegisterCityManager(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, domain.Registration) (domain.AuthResult, error) {
			return domain.AuthResult{}, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub)

	body := `{"username":"bob","password":"secret1","email":"b@city.gov"}`
	c, _ := jsonContext(e, http.MethodPost, "/auth/register/service-provider-admin", body)
	if err := handler.RegisterServiceProviderAdmin(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidEmail(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	body := `{"username":"bob","password":"secret1","email":"not-an-email"}`
	c, _ := jsonContext(e, http.MethodPost, "/auth/register/city-manager", body)

	var he *echo.HTTPError
	if err := handler.RegisterCityManager(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	var got domain.Session
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, sess domain.Session) error {
			got = sess
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/auth/logout", "")
	c.Set(middleware.SessionKey, mustSession(t, "admin", domain.RoleGovernmentAdmin))
	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got.Username() != "admin" {
		t.Fatalf("expected logout for admin, got %q", got.Username())
	}
}

func TestAuthHandler_Logout_Anonymous(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		logoutFn: func(context.Context, domain.Session) error {
			t.Fatal("service must not be called")
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := jsonContext(e, http.MethodPost, "/auth/logout", "")
	if err := handler.Logout(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
