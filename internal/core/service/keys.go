package service

import (
	"context"
	"time"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/querysync"
)

// Cache key namespace. Each resource owns one prefix; parameterised reads
// append their serialised parameters. Every payload fetched with a caller's
// token is cached under scoped(key, sess), so the values below are the
// prefixes mutations invalidate across all callers.
var (
	DashboardStatsKey    = querysync.NewKey("dashboard", "stats")
	DashboardOverviewKey = querysync.NewKey("dashboard", "overview")

	UsersListKey            = querysync.NewKey("users", "list")
	ServiceProviderUsersKey = querysync.NewKey("users", "service-providers")

	SimulationsListKey = querysync.NewKey("simulations", "list")

	CityEventsKey           = querysync.NewKey("indicators", "events")
	ConstructionProjectsKey = querysync.NewKey("indicators", "construction")

	SystemStatusKey = querysync.NewKey("system", "status")
	SystemHealthKey = querysync.NewKey("system", "health")
)

func NotificationsKey(user string) querysync.Key {
	return querysync.NewKey("notifications", "list").For(user)
}

func FilteredUsersKey(f domain.UserFilters) querysync.Key {
	return UsersListKey.WithParams(f)
}

func UserDetailKey(id string) querysync.Key {
	return querysync.NewKey("users", "detail", id)
}

func SimulationDetailKey(id string) querysync.Key {
	return querysync.NewKey("simulations", "detail", id)
}

func TransportIndicatorKey(mode domain.TransportMode, f domain.IndicatorFilters) querysync.Key {
	return querysync.NewKey("indicators", "transport", string(mode)).WithParams(f)
}

// scoped binds key to the caller whose token the loader forwards.
func scoped(key querysync.Key, sess domain.Session) querysync.Key {
	return key.For(sess.Username())
}

// Policies holds the freshness policy of every resource.
type Policies struct {
	Dashboard     querysync.Policy
	Notifications querysync.Policy
	Users         querysync.Policy
	Simulations   querysync.Policy
	Indicators    querysync.Policy
	SystemStatus  querysync.Policy
	SystemHealth  querysync.Policy
}

// DefaultPolicies returns the stock policies. statusPoll overrides the system
// status refresh interval when positive.
func DefaultPolicies(statusPoll time.Duration) Policies {
	p := Policies{
		Dashboard:     querysync.Policy{StaleAfter: 30 * time.Second, RefetchInterval: time.Minute},
		Notifications: querysync.Policy{StaleAfter: 30 * time.Second, RefetchInterval: time.Minute},
		Users:         querysync.Policy{StaleAfter: time.Minute},
		Simulations:   querysync.Policy{StaleAfter: time.Minute},
		Indicators:    querysync.Policy{StaleAfter: time.Minute},
		SystemStatus:  querysync.Policy{StaleAfter: 15 * time.Second, RefetchInterval: 30 * time.Second},
		SystemHealth:  querysync.Policy{StaleAfter: time.Minute},
	}
	if statusPoll > 0 {
		p.SystemStatus.RefetchInterval = statusPoll
	}
	return p
}

type refreshKey struct{}

// WithRefresh marks ctx so reads bypass the cache and supersede any fetch in
// flight.
func WithRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, refreshKey{}, true)
}

func read[T any](ctx context.Context, q querysync.Query[T]) querysync.Result[T] {
	if force, _ := ctx.Value(refreshKey{}).(bool); force {
		return q.Refetch(ctx)
	}
	return q.Read(ctx)
}
