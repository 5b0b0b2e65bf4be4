package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"kavak-credito/internal/domain/simulation"

	kafkago "github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { f.closed = true; return nil }

func TestNewKafkaPublisher(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092", "localhost:9093"}, "simulations")
	w, ok := p.w.(*kafkago.Writer)
	if !ok {
		t.Fatalf("expected *kafka.Writer, got %T", p.w)
	}
	if w.Topic != "simulations" {
		t.Errorf("topic = %q, want simulations", w.Topic)
	}
	if w.Addr.String() != "localhost:9092,localhost:9093" {
		t.Errorf("unexpected brokers: %s", w.Addr.String())
	}
}

func TestPublishSimulationCreated(t *testing.T) {
	fw := &fakeWriter{}
	p := &KafkaPublisher{w: fw, topic: "simulations"}

	sim := &simulation.Simulation{
		ID:           "0123456789abcdef0123456789abcdef",
		CountryCode:  "CL",
		DealID:       "deal-7",
		CreatedBy:    "ffffffffffffffffffffffffffffffff",
		VehiclePrice: 15_000_000,
		Results:      make([]simulation.ScenarioResult, 2),
		CreatedAt:    time.Date(2025, 9, 5, 10, 0, 0, 0, time.UTC),
	}
	if err := p.PublishSimulationCreated(context.Background(), sim); err != nil {
		t.Fatalf("PublishSimulationCreated: %v", err)
	}
	if len(fw.msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(fw.msgs))
	}

	msg := fw.msgs[0]
	if string(msg.Key) != sim.ID {
		t.Errorf("key = %q, want simulation id", msg.Key)
	}
	var evt SimulationCreatedEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if evt.Action != ActionSimulationCreated || evt.SimulationID != sim.ID || evt.ScenarioCount != 2 {
		t.Errorf("unexpected event: %+v", evt)
	}
	if evt.DealID != "deal-7" || evt.CountryCode != "CL" || !evt.OccurredAt.Equal(sim.CreatedAt) {
		t.Errorf("unexpected event metadata: %+v", evt)
	}
	if len(evt.EventID) != 32 {
		t.Errorf("event id = %q, want 32 chars", evt.EventID)
	}

	var action string
	for _, h := range msg.Headers {
		if h.Key == "action" {
			action = string(h.Value)
		}
	}
	if action != ActionSimulationCreated {
		t.Errorf("action header = %q", action)
	}

	if err := p.Close(); err != nil || !fw.closed {
		t.Errorf("Close: err=%v closed=%v", err, fw.closed)
	}
}

func TestPublishSimulationCreated_WriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &KafkaPublisher{w: &fakeWriter{err: boom}, topic: "simulations"}

	err := p.PublishSimulationCreated(context.Background(), &simulation.Simulation{ID: "x"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped broker error, got %v", err)
	}
}

func TestNoopPublisher(t *testing.T) {
	if err := (NoopPublisher{}).PublishSimulationCreated(context.Background(), &simulation.Simulation{}); err != nil {
		t.Fatalf("noop publisher returned %v", err)
	}
}
