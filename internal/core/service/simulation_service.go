package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/ports"
	"github.com/scm/dashboard-gateway/internal/core/querysync"
)

type simulationService struct {
	api    ports.SimulationAPI
	cache  *querysync.Client
	policy querysync.Policy
	audit  *auditor
}

// NewSimulationService wires the simulation reads and writes. audit may be nil.
func NewSimulationService(api ports.SimulationAPI, cache *querysync.Client, p Policies, audit ports.AuditRepository, log zerolog.Logger) ports.SimulationService {
	return &simulationService{api: api, cache: cache, policy: p.Simulations, audit: newAuditor(audit, log)}
}

func (s *simulationService) List(ctx context.Context, sess domain.Session) querysync.Result[[]domain.Simulation] {
	return read(ctx, querysync.NewQuery(s.cache, scoped(SimulationsListKey, sess), s.policy, func(ctx context.Context) ([]domain.Simulation, error) {
		return s.api.Simulations(ctx, sess.Token())
	}))
}

func (s *simulationService) Get(ctx context.Context, sess domain.Session, id string) querysync.Result[domain.Simulation] {
	if id == "" {
		return querysync.Result[domain.Simulation]{Err: fmt.Errorf("%w: empty simulation id", domain.ErrInvalidArgument)}
	}
	return read(ctx, querysync.NewQuery(s.cache, scoped(SimulationDetailKey(id), sess), s.policy, func(ctx context.Context) (domain.Simulation, error) {
		return s.api.Simulation(ctx, sess.Token(), id)
	}))
}

func (s *simulationService) Run(ctx context.Context, sess domain.Session, in domain.RunSimulationInput) (domain.Simulation, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Scenario) == "" {
		return domain.Simulation{}, fmt.Errorf("run simulation: %w: name and scenario are required", domain.ErrInvalidArgument)
	}

	keys := []querysync.Key{SimulationsListKey}
	out, err := s.cache.Mutate(ctx, func(ctx context.Context) (any, error) {
		return s.api.RunSimulation(ctx, sess.Token(), in)
	}, keys...)
	s.audit.record(ctx, sess, "simulation.run", "simulations/"+in.Name, keys, err)
	if err != nil {
		return domain.Simulation{}, fmt.Errorf("run simulation: %w", err)
	}
	sim, _ := out.(domain.Simulation)
	return sim, nil
}

func (s *simulationService) Delete(ctx context.Context, sess domain.Session, id string) error {
	if id == "" {
		return fmt.Errorf("delete simulation: %w: empty id", domain.ErrInvalidArgument)
	}

	keys := []querysync.Key{SimulationsListKey, SimulationDetailKey(id)}
	_, err := s.cache.Mutate(ctx, func(ctx context.Context) (any, error) {
		return nil, s.api.DeleteSimulation(ctx, sess.Token(), id)
	}, keys...)
	s.audit.record(ctx, sess, "simulation.delete", "simulations/"+id, keys, err)
	if err != nil {
		return fmt.Errorf("delete simulation: %w", err)
	}
	return nil
}
