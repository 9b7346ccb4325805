package service

import (
	"context"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/ports"
	"github.com/scm/dashboard-gateway/internal/core/querysync"
)

type dashboardService struct {
	api    ports.DashboardAPI
	cache  *querysync.Client
	policy querysync.Policy
}

func NewDashboardService(api ports.DashboardAPI, cache *querysync.Client, p Policies) ports.DashboardService {
	return &dashboardService{api: api, cache: cache, policy: p.Dashboard}
}

func (s *dashboardService) Stats(ctx context.Context, sess domain.Session) querysync.Result[domain.DashboardStats] {
	return read(ctx, querysync.NewQuery(s.cache, scoped(DashboardStatsKey, sess), s.policy, func(ctx context.Context) (domain.DashboardStats, error) {
		return s.api.DashboardStats(ctx, sess.Token())
	}))
}

func (s *dashboardService) Overview(ctx context.Context, sess domain.Session) querysync.Result[domain.DashboardOverview] {
	return read(ctx, querysync.NewQuery(s.cache, scoped(DashboardOverviewKey, sess), s.policy, func(ctx context.Context) (domain.DashboardOverview, error) {
		return s.api.DashboardOverview(ctx, sess.Token())
	}))
}
