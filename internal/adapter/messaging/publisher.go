// Package messaging publishes simulation domain events.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kavak-credito/internal/domain/simulation"
	"kavak-credito/pkg/id"

	kafkago "github.com/segmentio/kafka-go"
)

// ActionSimulationCreated is the employee activity log action for a new simulation.
const ActionSimulationCreated = "SIMULATION_CREATED"

type SimulationCreatedEvent struct {
	EventID       string    `json:"eventId"`
	Action        string    `json:"action"`
	SimulationID  string    `json:"simulationId"`
	CountryCode   string    `json:"countryCode"`
	DealID        string    `json:"dealId,omitempty"`
	CreatedBy     string    `json:"createdBy,omitempty"`
	VehiclePrice  float64   `json:"vehiclePrice"`
	ScenarioCount int       `json:"scenarioCount"`
	OccurredAt    time.Time `json:"occurredAt"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher writes one message per event, keyed by simulation id.
type KafkaPublisher struct {
	w     messageWriter
	topic string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafkago.Writer{
			Addr:                   kafkago.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafkago.Hash{},
			BatchTimeout:           10 * time.Millisecond,
			RequiredAcks:           kafkago.RequireAll,
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}
}

func (p *KafkaPublisher) PublishSimulationCreated(ctx context.Context, sim *simulation.Simulation) error {
	evt := SimulationCreatedEvent{
		EventID:       id.NewID32(),
		Action:        ActionSimulationCreated,
		SimulationID:  sim.ID,
		CountryCode:   sim.CountryCode,
		DealID:        sim.DealID,
		CreatedBy:     sim.CreatedBy,
		VehiclePrice:  sim.VehiclePrice,
		ScenarioCount: len(sim.Results),
		OccurredAt:    sim.CreatedAt,
	}
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", ActionSimulationCreated, err)
	}

	msg := kafkago.Message{
		Key:   []byte(sim.ID),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "action", Value: []byte(ActionSimulationCreated)},
			{Key: "content-type", Value: []byte("application/json")},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

// NoopPublisher drops events. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishSimulationCreated(context.Context, *simulation.Simulation) error {
	return nil
}
