package remote

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/ports"
)

const (
	demoTokenTTL      = 24 * time.Hour
	demoSimulationRun = 5 * time.Second
)

type demoAccount struct {
	user     domain.User
	password []byte
}

// Demo is an in-memory RemoteAPI seeded with the four test accounts and a
// little mock data. Tokens are HS256 JWTs signed with the gateway's secret so
// the gateway validates them like real ones.
type Demo struct {
	mu            sync.Mutex
	secret        []byte
	now           func() time.Time
	accounts      map[string]*demoAccount // by username
	nextUserID    int
	simulations   []domain.Simulation
	nextSimID     int
	notifications map[string][]domain.Notification // by username
	nextNotifID   int
	started       time.Time
}

var _ ports.RemoteAPI = (*Demo)(nil)

// DemoAccounts are the seeded credentials.
var DemoAccounts = []struct {
	Username, Password, Email, Name string
	Role                            domain.Role
}{
	{"admin", "admin123", "admin@city.gov", "Admin User", domain.RoleGovernmentAdmin},
	{"manager", "manager123", "manager@city.gov", "City Manager", domain.RoleCityManager},
	{"provider_admin", "provider123", "provideradmin@city.gov", "Provider Admin", domain.RoleServiceProviderAdmin},
	{"provider_user", "user123", "provideruser@city.gov", "Provider User", domain.RoleServiceProviderUser},
}

// NewDemo builds the demo backend. It returns an error only if password
// hashing fails.
func NewDemo(jwtSecret string) (*Demo, error) {
	d := &Demo{
		secret:        []byte(jwtSecret),
		now:           time.Now,
		accounts:      make(map[string]*demoAccount),
		nextUserID:    1,
		nextSimID:     1,
		notifications: make(map[string][]domain.Notification),
		nextNotifID:   1,
	}
	d.started = d.now()

	for _, a := range DemoAccounts {
		first, last, _ := strings.Cut(a.Name, " ")
		if _, err := d.addAccount(a.Username, a.Password, domain.User{
			Email:     a.Email,
			Role:      a.Role,
			FirstName: first,
			LastName:  last,
		}); err != nil {
			return nil, err
		}
	}

	d.simulations = append(d.simulations, domain.Simulation{
		ID:          d.simID(),
		Name:        "Rush hour baseline",
		Description: "Evening peak with high traffic density",
		Scenario:    "traffic_flow",
		Parameters:  domain.SimulationParameters{DurationMinutes: 60, TrafficIncrease: 20},
		Status:      domain.SimulationCompleted,
		CreatedBy:   "admin",
		CreatedAt:   d.started.Add(-2 * time.Hour),
		StartedAt:   d.started.Add(-2 * time.Hour),
		CompletedAt: d.started.Add(-2*time.Hour + demoSimulationRun),
		Results: &domain.SimulationResults{
			Summary:         domain.SimulationSummary{AvgSpeed: 45.5, CongestionLevel: 0.65, TotalDelay: 320, AffectedVehicles: 1200},
			Recommendations: []string{"Extend green phase on Route 101"},
		},
	})
	return d, nil
}

func (d *Demo) addAccount(username, password string, u domain.User) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	u.ID = strconv.Itoa(d.nextUserID)
	d.nextUserID++
	u.Username = username
	u.IsActive = true
	u.CreatedAt = d.now()
	u.UpdatedAt = u.CreatedAt
	d.accounts[username] = &demoAccount{user: u, password: hash}
	return u, nil
}

func (d *Demo) simID() string {
	id := strconv.Itoa(d.nextSimID)
	d.nextSimID++
	return id
}

func (d *Demo) issue(u domain.User) (string, error) {
	now := d.now()
	claims := jwt.MapClaims{
		"sub":  u.Username,
		"role": u.Role.String(),
		"iat":  now.Unix(),
		"exp":  now.Add(demoTokenTTL).Unix(),
		"jti":  uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(d.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// caller resolves the account behind token. Expiry is left to the gateway.
func (d *Demo) caller(token string) (*demoAccount, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return d.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	sub, _ := claims["sub"].(string)
	acc, ok := d.accounts[sub]
	if !ok || !acc.user.IsActive {
		return nil, domain.ErrUnauthenticated
	}
	return acc, nil
}

func (d *Demo) require(token string, roles ...domain.Role) (*demoAccount, error) {
	acc, err := d.caller(token)
	if err != nil {
		return nil, err
	}
	if len(roles) > 0 && !slices.Contains(roles, acc.user.Role) {
		return nil, domain.ErrAuthorizationDenied
	}
	return acc, nil
}

func (d *Demo) Login(_ context.Context, creds domain.Credentials) (domain.AuthResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	acc, ok := d.accounts[creds.Username]
	if !ok || !acc.user.IsActive {
		return domain.AuthResult{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.password, []byte(creds.Password)); err != nil {
		return domain.AuthResult{}, domain.ErrInvalidCredentials
	}
	acc.user.LastLogin = d.now()

	token, err := d.issue(acc.user)
	if err != nil {
		return domain.AuthResult{}, err
	}
	return domain.AuthResult{Token: token, User: acc.user}, nil
}

func (d *Demo) Register(_ context.Context, reg domain.Registration) (domain.AuthResult, error) {
	if reg.Role != domain.RoleCityManager && reg.Role != domain.RoleServiceProviderAdmin {
		return domain.AuthResult{}, fmt.Errorf("%w: role %s cannot self-register", domain.ErrInvalidArgument, reg.Role)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.accounts[reg.Username]; exists {
		return domain.AuthResult{}, domain.ErrUserExists
	}
	u, err := d.addAccount(reg.Username, reg.Password, domain.User{
		Email:     reg.Email,
		Role:      reg.Role,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
	})
	if err != nil {
		return domain.AuthResult{}, err
	}
	token, err := d.issue(u)
	if err != nil {
		return domain.AuthResult{}, err
	}
	return domain.AuthResult{Token: token, User: u}, nil
}

func (d *Demo) DashboardStats(_ context.Context, token string) (domain.DashboardStats, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.require(token); err != nil {
		return domain.DashboardStats{}, err
	}
	return d.stats(), nil
}

func (d *Demo) stats() domain.DashboardStats {
	r := d.rng("stats")
	return domain.DashboardStats{
		TotalVehicles:      15000 + r.IntN(1000),
		ActiveRoutes:       12,
		AvgSpeed:           40 + r.Float64()*10,
		CongestionLevel:    "moderate",
		CongestionScore:    0.5 + r.Float64()*0.3,
		CO2Emissions:       98.5,
		PublicTransitUsage: 34,
	}
}

func (d *Demo) DashboardOverview(_ context.Context, token string) (domain.DashboardOverview, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.require(token); err != nil {
		return domain.DashboardOverview{}, err
	}

	now := d.now()
	overview := domain.DashboardOverview{
		Stats: d.stats(),
		RecentAlerts: []domain.Alert{
			{ID: "1", Kind: domain.KindWarning, Message: "High traffic on Route 101", Timestamp: now, Severity: "medium"},
			{ID: "2", Kind: domain.KindInfo, Message: "Scheduled maintenance in Zone A", Timestamp: now.Add(-time.Hour), Severity: "low"},
		},
	}
	for i, v := range []float64{120, 80, 450, 380, 520, 290} {
		overview.Trends = append(overview.Trends, domain.TrendPoint{
			Timestamp: now.Truncate(24 * time.Hour).Add(time.Duration(i*4) * time.Hour),
			Value:     v,
			Category:  "traffic",
		})
	}
	return overview, nil
}

func (d *Demo) feed(username string) []domain.Notification {
	if feed, ok := d.notifications[username]; ok {
		return feed
	}
	now := d.now()
	seed := []struct {
		kind        domain.NotificationKind
		title, body string
		read        bool
		age         time.Duration
	}{
		{domain.KindInfo, "Welcome", "Welcome to the Smart City dashboard", false, 0},
		{domain.KindWarning, "Traffic alert", "High congestion reported on Route 101", false, 30 * time.Minute},
		{domain.KindSuccess, "Simulation complete", "Rush hour baseline finished", true, 2 * time.Hour},
	}
	feed := make([]domain.Notification, 0, len(seed))
	for _, s := range seed {
		feed = append(feed, domain.Notification{
			ID:        strconv.Itoa(d.nextNotifID),
			Kind:      s.kind,
			Title:     s.title,
			Body:      s.body,
			CreatedAt: now.Add(-s.age),
			Read:      s.read,
			UserID:    username,
		})
		d.nextNotifID++
	}
	d.notifications[username] = feed
	return feed
}

func (d *Demo) Notifications(_ context.Context, token string) ([]domain.Notification, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	acc, err := d.require(token)
	if err != nil {
		return nil, err
	}
	return slices.Clone(d.feed(acc.user.Username)), nil
}

func (d *Demo) MarkNotificationRead(_ context.Context, token, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	acc, err := d.require(token)
	if err != nil {
		return err
	}
	feed := d.feed(acc.user.Username)
	for i := range feed {
		if feed[i].ID == id {
			feed[i].Read = true
			return nil
		}
	}
	return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
}

func (d *Demo) MarkAllNotificationsRead(_ context.Context, token string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	acc, err := d.require(token)
	if err != nil {
		return err
	}
	feed := d.feed(acc.user.Username)
	for i := range feed {
		feed[i].Read = true
	}
	return nil
}

// Notify appends a notification to username's feed and returns it, for
// pushing demo events through the gateway.
func (d *Demo) Notify(username string, kind domain.NotificationKind, title, body string) domain.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := domain.Notification{
		ID:        strconv.Itoa(d.nextNotifID),
		Kind:      kind,
		Title:     title,
		Body:      body,
		CreatedAt: d.now(),
		UserID:    username,
	}
	d.nextNotifID++
	d.notifications[username] = append([]domain.Notification{n}, d.feed(username)...)
	return n
}

var userManagers = []domain.Role{domain.RoleGovernmentAdmin, domain.RoleServiceProviderAdmin}

func (d *Demo) sortedUsers(keep func(domain.User) bool) []domain.User {
	out := make([]domain.User, 0, len(d.accounts))
	for _, acc := range d.accounts {
		if keep(acc.user) {
			out = append(out, acc.user)
		}
	}
	slices.SortFunc(out, func(a, b domain.User) int {
		ai, _ := strconv.Atoi(a.ID)
		bi, _ := strconv.Atoi(b.ID)
		return ai - bi
	})
	return out
}

func (d *Demo) Users(_ context.Context, token string, f domain.UserFilters) ([]domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.require(token, userManagers...); err != nil {
		return nil, err
	}
	search := strings.ToLower(f.Search)
	return d.sortedUsers(func(u domain.User) bool {
		if f.Role != domain.RoleNone && u.Role != f.Role {
			return false
		}
		if f.IsActive != nil && u.IsActive != *f.IsActive {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Username), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			return false
		}
		return true
	}), nil
}

func (d *Demo) ServiceProviderUsers(_ context.Context, token string) ([]domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.require(token, userManagers...); err != nil {
		return nil, err
	}
	return d.sortedUsers(func(u domain.User) bool {
		return u.Role == domain.RoleServiceProviderUser
	}), nil
}

func (d *Demo) byID(id string) (*demoAccount, error) {
	for _, acc := range d.accounts {
		if acc.user.ID == id {
			return acc, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
}

func (d *Demo) User(_ context.Context, token, id string) (domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.require(token, userManagers...); err != nil {
		return domain.User{}, err
	}
	acc, err := d.byID(id)
	if err != nil {
		return domain.User{}, err
	}
	return acc.user, nil
}

func (d *Demo) CreateServiceProviderUser(_ context.Context, token string, in domain.CreateUserInput) (domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.require(token, userManagers...); err != nil {
		return domain.User{}, err
	}
	if _, exists := d.accounts[in.Username]; exists {
		return domain.User{}, domain.ErrUserExists
	}
	return d.addAccount(in.Username, in.Password, domain.User{
		Email:       in.Email,
		Role:        domain.RoleServiceProviderUser,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Department:  in.Department,
		PhoneNumber: in.PhoneNumber,
	})
}

func (d *Demo) UpdateUser(_ context.Context, token, id string, in domain.UpdateUserInput) (domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.require(token, userManagers...); err != nil {
		return domain.User{}, err
	}
	acc, err := d.byID(id)
	if err != nil {
		return domain.User{}, err
	}
	u := &acc.user
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.Email, in.Email)
	set(&u.FirstName, in.FirstName)
	set(&u.LastName, in.LastName)
	set(&u.Department, in.Department)
	set(&u.PhoneNumber, in.PhoneNumber)
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	u.UpdatedAt = d.now()
	return *u, nil
}

func (d *Demo) DeleteUser(_ context.Context, token, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.require(token, userManagers...); err != nil {
		return err
	}
	acc, err := d.byID(id)
	if err != nil {
		return err
	}
	delete(d.accounts, acc.user.Username)
	delete(d.notifications, acc.user.Username)
	return nil
}

// settle completes runs whose simulated duration has elapsed.
func (d *Demo) settle() {
	now := d.now()
	for i := range d.simulations {
		s := &d.simulations[i]
		if s.Status != domain.SimulationRunning || now.Sub(s.StartedAt) < demoSimulationRun {
			continue
		}
		r := d.rng("simulation:" + s.ID)
		s.Status = domain.SimulationCompleted
		s.CompletedAt = s.StartedAt.Add(demoSimulationRun)
		s.Results = &domain.SimulationResults{
			Summary: domain.SimulationSummary{
				AvgSpeed:         40 + r.Float64()*20,
				CongestionLevel:  r.Float64(),
				TotalDelay:       float64(r.IntN(600)),
				AffectedVehicles: r.IntN(5000),
			},
			Recommendations: []string{"Review signal timing on affected routes"},
		}
	}
}

func (d *Demo) Simulations(_ context.Context, token string) ([]domain.Simulation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.require(token); err != nil {
		return nil, err
	}
	d.settle()
	return slices.Clone(d.simulations), nil
}

func (d *Demo) Simulation(_ context.Context, token, id string) (domain.Simulation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.require(token); err != nil {
		return domain.Simulation{}, err
	}
	d.settle()
	for _, s := range d.simulations {
		if s.ID == id {
			return s, nil
		}
	}
	return domain.Simulation{}, fmt.Errorf("simulation %s: %w", id, domain.ErrNotFound)
}

func (d *Demo) RunSimulation(_ context.Context, token string, in domain.RunSimulationInput) (domain.Simulation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	acc, err := d.require(token)
	if err != nil {
		return domain.Simulation{}, err
	}
	now := d.now()
	s := domain.Simulation{
		ID:          d.simID(),
		Name:        in.Name,
		Description: in.Description,
		Scenario:    in.Scenario,
		Parameters:  in.Parameters,
		Status:      domain.SimulationRunning,
		CreatedBy:   acc.user.Username,
		CreatedAt:   now,
		StartedAt:   now,
	}
	d.simulations = append(d.simulations, s)
	return s, nil
}

func (d *Demo) DeleteSimulation(_ context.Context, token, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.require(token); err != nil {
		return err
	}
	i := slices.IndexFunc(d.simulations, func(s domain.Simulation) bool { return s.ID == id })
	if i < 0 {
		return fmt.Errorf("simulation %s: %w", id, domain.ErrNotFound)
	}
	d.simulations = slices.Delete(d.simulations, i, i+1)
	return nil
}

// rng is seeded per label and hour so values drift slowly but repeat
// within a polling window.
func (d *Demo) rng(label string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(label))
	return rand.New(rand.NewPCG(h.Sum64(), uint64(d.now().Unix()/3600)))
}

func rangeSamples(r domain.TimeRange) (int, time.Duration) {
	switch r {
	case domain.Range7d:
		return 7, 24 * time.Hour
	case domain.Range30d:
		return 30, 24 * time.Hour
	default:
		return 24, time.Hour
	}
}

func (d *Demo) TransportIndicator(_ context.Context, token string, mode domain.TransportMode, f domain.IndicatorFilters) (domain.TransportIndicator, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.require(token); err != nil {
		return domain.TransportIndicator{}, err
	}

	r := d.rng("indicator:" + string(mode))
	n, step := rangeSamples(f.TimeRange)
	end := d.now().Truncate(step)
	history := make([]domain.IndicatorPoint, n)
	for i := range history {
		history[i] = domain.IndicatorPoint{
			Timestamp: end.Add(-time.Duration(n-1-i) * step),
			Value:     50 + r.Float64()*50,
		}
	}
	current := history[n-1].Value
	prev := history[max(n-2, 0)].Value
	ind := domain.TransportIndicator{
		Mode:         mode,
		CurrentValue: current,
		Change:       current - prev,
		History:      history,
		Metrics: domain.TransportMetrics{
			AvgSpeed:        30 + r.Float64()*20,
			TotalVehicles:   500 + r.IntN(1000),
			PeakHour:        "17:00",
			Efficiency:      70 + r.Float64()*25,
			CarbonEmissions: r.Float64() * 100,
		},
	}
	if prev != 0 {
		ind.ChangePercentage = (current - prev) / prev * 100
	}
	return ind, nil
}

func (d *Demo) CityEvents(_ context.Context, token string, _ domain.IndicatorFilters) ([]domain.CityEvent, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.require(token); err != nil {
		return nil, err
	}
	day := d.now().Truncate(24 * time.Hour)
	return []domain.CityEvent{
		{
			ID: "1", Name: "City Marathon", Type: "sports", Location: "Downtown",
			StartDate: day.AddDate(0, 0, 3).Format(time.DateOnly), EndDate: day.AddDate(0, 0, 3).Format(time.DateOnly),
			ExpectedImpact: domain.ImpactHigh, Status: "planned", AffectedRoutes: []string{"Route 101", "Main St"},
		},
		{
			ID: "2", Name: "Farmers Market", Type: "market", Location: "Central Square",
			StartDate: day.Format(time.DateOnly), EndDate: day.Format(time.DateOnly),
			ExpectedImpact: domain.ImpactLow, Status: "ongoing",
		},
	}, nil
}

func (d *Demo) ConstructionProjects(_ context.Context, token string, _ domain.IndicatorFilters) ([]domain.ConstructionProject, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.require(token); err != nil {
		return nil, err
	}
	day := d.now().Truncate(24 * time.Hour)
	return []domain.ConstructionProject{
		{
			ID: "1", ProjectName: "Bridge resurfacing", Location: "River Bridge",
			StartDate: day.AddDate(0, -1, 0).Format(time.DateOnly), EstimatedEndDate: day.AddDate(0, 2, 0).Format(time.DateOnly),
			Progress: 35, Impact: domain.ImpactMedium, AffectedAreas: []string{"Zone A"}, Status: "in_progress",
		},
	}, nil
}

func (d *Demo) SystemStatus(_ context.Context, token string) (domain.SystemStatus, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.require(token); err != nil {
		return domain.SystemStatus{}, err
	}
	now := d.now()
	r := d.rng("system")
	services := make([]domain.ServiceStatus, 0, 4)
	for _, name := range []string{"api", "cache", "database", "monitoring"} {
		services = append(services, domain.ServiceStatus{
			Name:         name,
			Status:       "healthy",
			ResponseTime: float64(2 + r.IntN(15)),
			LastChecked:  now,
		})
	}
	return domain.SystemStatus{
		Status:      "healthy",
		Uptime:      int64(now.Sub(d.started).Seconds()),
		LastUpdated: now,
		Services:    services,
		Metrics: domain.SystemMetrics{
			CPUUsage:            20 + r.Float64()*40,
			MemoryUsage:         40 + r.Float64()*30,
			DiskUsage:           55,
			ActiveConnections:   10 + r.IntN(90),
			RequestsPerMinute:   100 + r.IntN(400),
			AverageResponseTime: 20 + r.Float64()*30,
		},
	}, nil
}

func (d *Demo) SystemHealth(_ context.Context, token string) (domain.SystemHealth, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.require(token); err != nil {
		return domain.SystemHealth{}, err
	}
	now := d.now()
	return domain.SystemHealth{
		Overall: "UP",
		Checks: []domain.HealthCheck{
			{Name: "api", Status: "UP", Timestamp: now},
			{Name: "simulation-engine", Status: "UP", Timestamp: now},
		},
		Timestamp: now,
	}, nil
}
