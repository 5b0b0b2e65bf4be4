package simulation

import "context"

// Store keeps computed simulations for later schedule lookups.
type Store interface {
	Save(ctx context.Context, s *Simulation) error
	// Get returns ErrSimulationNotFound when the id is unknown or expired.
	Get(ctx context.Context, id string) (*Simulation, error)
}

// EventPublisher announces simulation lifecycle events.
type EventPublisher interface {
	PublishSimulationCreated(ctx context.Context, s *Simulation) error
}
