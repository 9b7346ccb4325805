package service

import (
	"context"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/ports"
	"github.com/scm/dashboard-gateway/internal/core/querysync"
)

type indicatorService struct {
	api    ports.IndicatorAPI
	cache  *querysync.Client
	policy querysync.Policy
}

func NewIndicatorService(api ports.IndicatorAPI, cache *querysync.Client, p Policies) ports.IndicatorService {
	return &indicatorService{api: api, cache: cache, policy: p.Indicators}
}

func (s *indicatorService) Transport(ctx context.Context, sess domain.Session, mode domain.TransportMode, f domain.IndicatorFilters) querysync.Result[domain.TransportIndicator] {
	key := scoped(TransportIndicatorKey(mode, f), sess)
	return read(ctx, querysync.NewQuery(s.cache, key, s.policy, func(ctx context.Context) (domain.TransportIndicator, error) {
		return s.api.TransportIndicator(ctx, sess.Token(), mode, f)
	}))
}

func (s *indicatorService) Events(ctx context.Context, sess domain.Session, f domain.IndicatorFilters) querysync.Result[[]domain.CityEvent] {
	key := scoped(CityEventsKey.WithParams(f), sess)
	return read(ctx, querysync.NewQuery(s.cache, key, s.policy, func(ctx context.Context) ([]domain.CityEvent, error) {
		return s.api.CityEvents(ctx, sess.Token(), f)
	}))
}

func (s *indicatorService) Construction(ctx context.Context, sess domain.Session, f domain.IndicatorFilters) querysync.Result[[]domain.ConstructionProject] {
	key := scoped(ConstructionProjectsKey.WithParams(f), sess)
	return read(ctx, querysync.NewQuery(s.cache, key, s.policy, func(ctx context.Context) ([]domain.ConstructionProject, error) {
		return s.api.ConstructionProjects(ctx, sess.Token(), f)
	}))
}
