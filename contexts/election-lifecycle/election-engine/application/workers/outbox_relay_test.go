package workers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"suffrage/contexts/election-lifecycle/election-engine/adapters/memory"
	"suffrage/contexts/election-lifecycle/election-engine/application/workers"
	"suffrage/contexts/election-lifecycle/election-engine/ports"
)

type capturePublisher struct {
	topics []string
	failAt int
}

func (p *capturePublisher) Publish(_ context.Context, topic string, _ ports.EventEnvelope) error {
	if p.failAt > 0 && len(p.topics)+1 == p.failAt {
		return errors.New("broker unavailable")
	}
	p.topics = append(p.topics, topic)
	return nil
}

func appendEvent(t *testing.T, store *memory.Store, eventID string, eventType string) {
	t.Helper()
	data, _ := json.Marshal(map[string]any{"election_id": 1})
	err := store.AppendOutbox(context.Background(), ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		OccurredAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		SourceService: "election-engine",
		SchemaVersion: 1,
		Data:          data,
	})
	if err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}
}

func TestOutboxRelayPublishesAndAcks(t *testing.T) {
	store := memory.NewStore()
	appendEvent(t, store, "evt-1", "election.created")
	appendEvent(t, store, "evt-2", "vote.cast")

	publisher := &capturePublisher{}
	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
		BatchSize: 10,
	}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.topics) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(publisher.topics))
	}
	if got := store.PendingOutboxCount(); got != 0 {
		t.Fatalf("expected empty outbox after relay, got %d pending", got)
	}

	// A second cycle with nothing pending is a no-op.
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("idle relay run failed: %v", err)
	}
	if len(publisher.topics) != 2 {
		t.Fatalf("expected no extra publishes, got %d", len(publisher.topics))
	}
}

func TestOutboxRelayStopsOnPublishFailure(t *testing.T) {
	store := memory.NewStore()
	appendEvent(t, store, "evt-1", "election.created")
	appendEvent(t, store, "evt-2", "vote.cast")

	publisher := &capturePublisher{failAt: 2}
	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
		BatchSize: 10,
	}

	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected relay error on publish failure")
	}
	if got := store.PendingOutboxCount(); got != 1 {
		t.Fatalf("expected 1 pending row kept for retry, got %d", got)
	}

	// Retry drains the remaining row once the broker recovers.
	publisher.failAt = 0
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("retry relay run failed: %v", err)
	}
	if got := store.PendingOutboxCount(); got != 0 {
		t.Fatalf("expected outbox drained after retry, got %d", got)
	}
}
