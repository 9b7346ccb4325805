package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/querysync"
)

const testSecret = "test-secret"

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

// stubRemote implements ports.RemoteAPI with canned data and per-method call
// counters.
type stubRemote struct {
	mu    sync.Mutex
	calls map[string]int
	err   error // returned by every call when set

	authResult    domain.AuthResult
	registered    []domain.Registration
	notifications []domain.Notification
	users         []domain.User
	simulations   []domain.Simulation
	status        domain.SystemStatus
}

func newStubRemote() *stubRemote {
	return &stubRemote{calls: make(map[string]int)}
}

func (r *stubRemote) hit(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[name]++
	return r.err
}

func (r *stubRemote) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}

func (r *stubRemote) setErr(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

func (r *stubRemote) Login(_ context.Context, _ domain.Credentials) (domain.AuthResult, error) {
	if err := r.hit("Login"); err != nil {
		return domain.AuthResult{}, err
	}
	return r.authResult, nil
}

func (r *stubRemote) Register(_ context.Context, reg domain.Registration) (domain.AuthResult, error) {
	if err := r.hit("Register"); err != nil {
		return domain.AuthResult{}, err
	}
	r.mu.Lock()
	r.registered = append(r.registered, reg)
	r.mu.Unlock()
	return domain.AuthResult{Token: "tok", User: domain.User{Username: reg.Username, Role: reg.Role}}, nil
}

func (r *stubRemote) DashboardStats(context.Context, string) (domain.DashboardStats, error) {
	if err := r.hit("DashboardStats"); err != nil {
		return domain.DashboardStats{}, err
	}
	return domain.DashboardStats{TotalVehicles: r.count("DashboardStats")}, nil
}

func (r *stubRemote) DashboardOverview(context.Context, string) (domain.DashboardOverview, error) {
	if err := r.hit("DashboardOverview"); err != nil {
		return domain.DashboardOverview{}, err
	}
	return domain.DashboardOverview{}, nil
}

func (r *stubRemote) Notifications(context.Context, string) ([]domain.Notification, error) {
	if err := r.hit("Notifications"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notification, len(r.notifications))
	copy(out, r.notifications)
	return out, nil
}

func (r *stubRemote) MarkNotificationRead(_ context.Context, _ string, id string) error {
	if err := r.hit("MarkNotificationRead"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications[i].Read = true
		}
	}
	return nil
}

func (r *stubRemote) MarkAllNotificationsRead(context.Context, string) error {
	if err := r.hit("MarkAllNotificationsRead"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		r.notifications[i].Read = true
	}
	return nil
}

func (r *stubRemote) Users(context.Context, string, domain.UserFilters) ([]domain.User, error) {
	if err := r.hit("Users"); err != nil {
		return nil, err
	}
	return r.users, nil
}

func (r *stubRemote) ServiceProviderUsers(context.Context, string) ([]domain.User, error) {
	if err := r.hit("ServiceProviderUsers"); err != nil {
		return nil, err
	}
	return r.users, nil
}

func (r *stubRemote) User(_ context.Context, _ string, id string) (domain.User, error) {
	if err := r.hit("User"); err != nil {
		return domain.User{}, err
	}
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (r *stubRemote) CreateServiceProviderUser(_ context.Context, _ string, in domain.CreateUserInput) (domain.User, error) {
	if err := r.hit("CreateServiceProviderUser"); err != nil {
		return domain.User{}, err
	}
	return domain.User{ID: "new", Username: in.Username, Role: in.Role}, nil
}

func (r *stubRemote) UpdateUser(_ context.Context, _ string, id string, _ domain.UpdateUserInput) (domain.User, error) {
	if err := r.hit("UpdateUser"); err != nil {
		return domain.User{}, err
	}
	return domain.User{ID: id}, nil
}

func (r *stubRemote) DeleteUser(context.Context, string, string) error {
	return r.hit("DeleteUser")
}

func (r *stubRemote) Simulations(context.Context, string) ([]domain.Simulation, error) {
	if err := r.hit("Simulations"); err != nil {
		return nil, err
	}
	return r.simulations, nil
}

func (r *stubRemote) Simulation(_ context.Context, _ string, id string) (domain.Simulation, error) {
	if err := r.hit("Simulation"); err != nil {
		return domain.Simulation{}, err
	}
	return domain.Simulation{ID: id}, nil
}

func (r *stubRemote) RunSimulation(_ context.Context, _ string, in domain.RunSimulationInput) (domain.Simulation, error) {
	if err := r.hit("RunSimulation"); err != nil {
		return domain.Simulation{}, err
	}
	return domain.Simulation{ID: "sim-1", Name: in.Name, Status: domain.SimulationRunning}, nil
}

func (r *stubRemote) DeleteSimulation(context.Context, string, string) error {
	return r.hit("DeleteSimulation")
}

func (r *stubRemote) TransportIndicator(_ context.Context, _ string, mode domain.TransportMode, _ domain.IndicatorFilters) (domain.TransportIndicator, error) {
	if err := r.hit("TransportIndicator:" + string(mode)); err != nil {
		return domain.TransportIndicator{}, err
	}
	return domain.TransportIndicator{Mode: mode}, nil
}

func (r *stubRemote) CityEvents(context.Context, string, domain.IndicatorFilters) ([]domain.CityEvent, error) {
	if err := r.hit("CityEvents"); err != nil {
		return nil, err
	}
	return []domain.CityEvent{{ID: "e1"}}, nil
}

func (r *stubRemote) ConstructionProjects(context.Context, string, domain.IndicatorFilters) ([]domain.ConstructionProject, error) {
	if err := r.hit("ConstructionProjects"); err != nil {
		return nil, err
	}
	return []domain.ConstructionProject{{ID: "c1"}}, nil
}

func (r *stubRemote) SystemStatus(context.Context, string) (domain.SystemStatus, error) {
	if err := r.hit("SystemStatus"); err != nil {
		return domain.SystemStatus{}, err
	}
	return domain.SystemStatus{Status: "operational", Uptime: int64(r.count("SystemStatus"))}, nil
}

func (r *stubRemote) SystemHealth(context.Context, string) (domain.SystemHealth, error) {
	if err := r.hit("SystemHealth"); err != nil {
		return domain.SystemHealth{}, err
	}
	return domain.SystemHealth{Overall: "healthy"}, nil
}

type stubAudit struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
	err     error
}

func (a *stubAudit) Insert(_ context.Context, e domain.AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, e)
	return nil
}

type stubTokens struct {
	revoked map[string]time.Duration
	err     error
}

func newStubTokens() *stubTokens {
	return &stubTokens{revoked: make(map[string]time.Duration)}
}

func (s *stubTokens) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.revoked[token] = ttl
	return nil
}

func (s *stubTokens) IsRevoked(_ context.Context, token string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.revoked[token]
	return ok, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newCache(t *testing.T) *querysync.Client {
	t.Helper()
	c := querysync.New(zerolog.Nop(), nil)
	t.Cleanup(c.Close)
	return c
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func session(t *testing.T, user string, role domain.Role) domain.Session {
	t.Helper()
	s, err := domain.NewSession(user, role, "token-"+user)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func testPolicies() Policies {
	return DefaultPolicies(0)
}
