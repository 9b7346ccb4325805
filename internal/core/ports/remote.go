package ports

import (
	"context"

	"github.com/scm/dashboard-gateway/internal/core/domain"
)

// The remote REST API is split per resource so services depend only on what
// they call. Every call except the AuthAPI ones forwards the caller's bearer
// token unchanged.

type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error)
	// Register creates an account of reg.Role. Only CITY_MANAGER and
	// SERVICE_PROVIDER_ADMIN may self-register.
	Register(ctx context.Context, reg domain.Registration) (domain.AuthResult, error)
}

type DashboardAPI interface {
	DashboardStats(ctx context.Context, token string) (domain.DashboardStats, error)
	DashboardOverview(ctx context.Context, token string) (domain.DashboardOverview, error)
}

type NotificationAPI interface {
	Notifications(ctx context.Context, token string) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, token, id string) error
	MarkAllNotificationsRead(ctx context.Context, token string) error
}

type UserAPI interface {
	Users(ctx context.Context, token string, filters domain.UserFilters) ([]domain.User, error)
	ServiceProviderUsers(ctx context.Context, token string) ([]domain.User, error)
	User(ctx context.Context, token, id string) (domain.User, error)
	CreateServiceProviderUser(ctx context.Context, token string, in domain.CreateUserInput) (domain.User, error)
	UpdateUser(ctx context.Context, token, id string, in domain.UpdateUserInput) (domain.User, error)
	DeleteUser(ctx context.Context, token, id string) error
}

type SimulationAPI interface {
	Simulations(ctx context.Context, token string) ([]domain.Simulation, error)
	Simulation(ctx context.Context, token, id string) (domain.Simulation, error)
	RunSimulation(ctx context.Context, token string, in domain.RunSimulationInput) (domain.Simulation, error)
	DeleteSimulation(ctx context.Context, token, id string) error
}

type IndicatorAPI interface {
	TransportIndicator(ctx context.Context, token string, mode domain.TransportMode, f domain.IndicatorFilters) (domain.TransportIndicator, error)
	CityEvents(ctx context.Context, token string, f domain.IndicatorFilters) ([]domain.CityEvent, error)
	ConstructionProjects(ctx context.Context, token string, f domain.IndicatorFilters) ([]domain.ConstructionProject, error)
}

type SystemAPI interface {
	SystemStatus(ctx context.Context, token string) (domain.SystemStatus, error)
	SystemHealth(ctx context.Context, token string) (domain.SystemHealth, error)
}

// RemoteAPI is implemented by the HTTP client and by the demo backend.
type RemoteAPI interface {
	AuthAPI
	DashboardAPI
	NotificationAPI
	UserAPI
	SimulationAPI
	IndicatorAPI
	SystemAPI
}
