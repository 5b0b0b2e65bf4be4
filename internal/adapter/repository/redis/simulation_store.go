package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kavak-credito/internal/domain/simulation"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "sim:"

// SimulationStore keeps simulations as JSON documents that expire after ttl.
type SimulationStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewSimulationStore(rdb *goredis.Client, ttl time.Duration) *SimulationStore {
	return &SimulationStore{rdb: rdb, ttl: ttl}
}

func simulationKey(id string) string { return keyPrefix + id }

func (s *SimulationStore) Save(ctx context.Context, sim *simulation.Simulation) error {
	payload, err := json.Marshal(sim)
	if err != nil {
		return fmt.Errorf("encode simulation %s: %w", sim.ID, err)
	}
	return s.rdb.Set(ctx, simulationKey(sim.ID), payload, s.ttl).Err()
}

func (s *SimulationStore) Get(ctx context.Context, id string) (*simulation.Simulation, error) {
	v, err := s.rdb.Get(ctx, simulationKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, simulation.ErrSimulationNotFound
	}
	if err != nil {
		return nil, err
	}

	var sim simulation.Simulation
	if err := json.Unmarshal(v, &sim); err != nil {
		return nil, fmt.Errorf("decode simulation %s: %w", id, err)
	}
	return &sim, nil
}
