package service

import (
	"context"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/ports"
	"github.com/scm/dashboard-gateway/internal/core/querysync"
)

type systemService struct {
	api    ports.SystemAPI
	cache  *querysync.Client
	status querysync.Policy
	health querysync.Policy
}

func NewSystemService(api ports.SystemAPI, cache *querysync.Client, p Policies) ports.SystemService {
	return &systemService{api: api, cache: cache, status: p.SystemStatus, health: p.SystemHealth}
}

func (s *systemService) statusQuery(sess domain.Session) querysync.Query[domain.SystemStatus] {
	return querysync.NewQuery(s.cache, scoped(SystemStatusKey, sess), s.status, func(ctx context.Context) (domain.SystemStatus, error) {
		return s.api.SystemStatus(ctx, sess.Token())
	})
}

func (s *systemService) Status(ctx context.Context, sess domain.Session) querysync.Result[domain.SystemStatus] {
	return read(ctx, s.statusQuery(sess))
}

func (s *systemService) Health(ctx context.Context, sess domain.Session) querysync.Result[domain.SystemHealth] {
	return read(ctx, querysync.NewQuery(s.cache, scoped(SystemHealthKey, sess), s.health, func(ctx context.Context) (domain.SystemHealth, error) {
		return s.api.SystemHealth(ctx, sess.Token())
	}))
}

func (s *systemService) WatchStatus(ctx context.Context, sess domain.Session) <-chan querysync.Result[domain.SystemStatus] {
	return s.statusQuery(sess).Watch(ctx)
}
