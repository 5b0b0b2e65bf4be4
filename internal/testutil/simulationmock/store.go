package simulationmock

import (
	"context"

	domain "kavak-credito/internal/domain/simulation"
)

var (
	_ domain.Store          = (*Store)(nil)
	_ domain.EventPublisher = (*Publisher)(nil)
)

// Store is a function-backed mock that satisfies domain.Store.
type Store struct {
	SaveFn func(ctx context.Context, s *domain.Simulation) error
	GetFn  func(ctx context.Context, id string) (*domain.Simulation, error)
}

func (m *Store) Save(ctx context.Context, s *domain.Simulation) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}

func (m *Store) Get(ctx context.Context, id string) (*domain.Simulation, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, domain.ErrSimulationNotFound
}

// Publisher is a function-backed mock that satisfies domain.EventPublisher.
type Publisher struct {
	PublishSimulationCreatedFn func(ctx context.Context, s *domain.Simulation) error
}

func (m *Publisher) PublishSimulationCreated(ctx context.Context, s *domain.Simulation) error {
	if m.PublishSimulationCreatedFn != nil {
		return m.PublishSimulationCreatedFn(ctx, s)
	}
	return nil
}
