package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/scm/dashboard-gateway/internal/api/middleware"
	"github.com/scm/dashboard-gateway/internal/core/access"
	"github.com/scm/dashboard-gateway/internal/core/domain"
)

func TestSessionHandler_Session(t *testing.T) {
	e := newTestEcho()
	handler := NewSessionHandler(access.DefaultTable())

	c, rec := jsonContext(e, http.MethodGet, "/api/session", "")
	if err := handler.Session(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var anon sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &anon); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if anon.Authenticated || anon.Username != "" {
		t.Fatalf("expected anonymous session, got %+v", anon)
	}

	c, rec = jsonContext(e, http.MethodGet, "/api/session", "")
	c.Set(middleware.SessionKey, mustSession(t, "provider_admin", domain.RoleServiceProviderAdmin))
	if err := handler.Session(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Authenticated || resp.Role != "SERVICE_PROVIDER_ADMIN" || resp.RoleDisplayName != "Service Provider Admin" {
		t.Fatalf("unexpected session payload: %+v", resp)
	}
}

func TestSessionHandler_Navigation_GroupsBySection(t *testing.T) {
	e := newTestEcho()
	handler := NewSessionHandler(access.DefaultTable())

	c, rec := jsonContext(e, http.MethodGet, "/api/navigation", "")
	c.Set(middleware.SessionKey, mustSession(t, "manager", domain.RoleCityManager))
	if err := handler.Navigation(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var sections []navigationSectionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &sections); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	wantTitles := []string{"", "Transport Indicators", "Events & Construction", "Management"}
	if len(sections) != len(wantTitles) {
		t.Fatalf("expected %d sections, got %+v", len(wantTitles), sections)
	}
	for i, want := range wantTitles {
		if sections[i].Title != want {
			t.Fatalf("section %d: expected %q, got %q", i, want, sections[i].Title)
		}
	}
	if n := len(sections[1].Entries); n != 6 {
		t.Fatalf("expected 6 transport entries, got %d", n)
	}
	for _, entry := range sections[3].Entries {
		if entry.ID == "users" || entry.ID == "system-status" {
			t.Fatalf("city manager must not see %q", entry.ID)
		}
	}
}

func TestSessionHandler_Navigation_AnonymousIsEmpty(t *testing.T) {
	e := newTestEcho()
	handler := NewSessionHandler(access.DefaultTable())

	c, rec := jsonContext(e, http.MethodGet, "/api/navigation", "")
	if err := handler.Navigation(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected an empty array, got %q", body)
	}
}

func TestSessionHandler_ViewAccess(t *testing.T) {
	cases := []struct {
		name     string
		session  *domain.Role
		view     string
		decision string
		target   string
	}{
		{"anonymous", nil, "dashboard", "redirect", "/login"},
		{"allowed", rolePtr(domain.RoleGovernmentAdmin), "system-status", "allow", ""},
		{"denied", rolePtr(domain.RoleServiceProviderUser), "users", "deny", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho()
			handler := NewSessionHandler(access.DefaultTable())

			c, rec := jsonContext(e, http.MethodGet, "/api/views/"+tc.view+"/access", "")
			c.SetParamNames("view")
			c.SetParamValues(tc.view)
			if tc.session != nil {
				c.Set(middleware.SessionKey, mustSession(t, "someone", *tc.session))
			}

			if err := handler.ViewAccess(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			var resp viewAccessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.View != tc.view || resp.Decision != tc.decision || resp.Target != tc.target {
				t.Fatalf("unexpected decision: %+v", resp)
			}
		})
	}
}

func TestSessionHandler_ViewAccess_UnknownView(t *testing.T) {
	e := newTestEcho()
	handler := NewSessionHandler(access.DefaultTable())

	c, _ := jsonContext(e, http.MethodGet, "/api/views/nope/access", "")
	c.SetParamNames("view")
	c.SetParamValues("nope")
	if err := handler.ViewAccess(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func rolePtr(r domain.Role) *domain.Role { return &r }
