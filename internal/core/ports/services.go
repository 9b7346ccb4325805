package ports

import (
	"context"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/notification"
	"github.com/scm/dashboard-gateway/internal/core/querysync"
)

type AuthService interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error)
	RegisterCityManager(ctx context.Context, reg domain.Registration) (domain.AuthResult, error)
	RegisterServiceProviderAdmin(ctx context.Context, reg domain.Registration) (domain.AuthResult, error)
	// Authenticate turns a bearer token into a session. Invalid, expired and
	// revoked tokens fail with ErrUnauthenticated or ErrTokenRevoked.
	Authenticate(ctx context.Context, token string) (domain.Session, error)
	Logout(ctx context.Context, sess domain.Session) error
}

type DashboardService interface {
	Stats(ctx context.Context, sess domain.Session) querysync.Result[domain.DashboardStats]
	Overview(ctx context.Context, sess domain.Session) querysync.Result[domain.DashboardOverview]
}

type NotificationService interface {
	List(ctx context.Context, sess domain.Session, f notification.Filter) querysync.Result[[]domain.Notification]
	Stats(ctx context.Context, sess domain.Session) querysync.Result[domain.NotificationStats]
	MarkRead(ctx context.Context, sess domain.Session, id string) error
	MarkAllRead(ctx context.Context, sess domain.Session) error
	Push(user string, n domain.Notification) error
}

type UserService interface {
	List(ctx context.Context, sess domain.Session, f domain.UserFilters) querysync.Result[[]domain.User]
	ServiceProviderUsers(ctx context.Context, sess domain.Session) querysync.Result[[]domain.User]
	Get(ctx context.Context, sess domain.Session, id string) querysync.Result[domain.User]
	CreateServiceProviderUser(ctx context.Context, sess domain.Session, in domain.CreateUserInput) (domain.User, error)
	Update(ctx context.Context, sess domain.Session, id string, in domain.UpdateUserInput) (domain.User, error)
	Delete(ctx context.Context, sess domain.Session, id string) error
}

type SimulationService interface {
	List(ctx context.Context, sess domain.Session) querysync.Result[[]domain.Simulation]
	Get(ctx context.Context, sess domain.Session, id string) querysync.Result[domain.Simulation]
	Run(ctx context.Context, sess domain.Session, in domain.RunSimulationInput) (domain.Simulation, error)
	Delete(ctx context.Context, sess domain.Session, id string) error
}

type IndicatorService interface {
	Transport(ctx context.Context, sess domain.Session, mode domain.TransportMode, f domain.IndicatorFilters) querysync.Result[domain.TransportIndicator]
	Events(ctx context.Context, sess domain.Session, f domain.IndicatorFilters) querysync.Result[[]domain.CityEvent]
	Construction(ctx context.Context, sess domain.Session, f domain.IndicatorFilters) querysync.Result[[]domain.ConstructionProject]
}

type SystemService interface {
	Status(ctx context.Context, sess domain.Session) querysync.Result[domain.SystemStatus]
	Health(ctx context.Context, sess domain.Session) querysync.Result[domain.SystemHealth]
	// WatchStatus streams the polled status until ctx is done.
	WatchStatus(ctx context.Context, sess domain.Session) <-chan querysync.Result[domain.SystemStatus]
}
