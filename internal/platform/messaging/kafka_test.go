package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cliprewards/contexts/clipping-rewards/submission-service/ports"
)

func TestBusDeliversToSubscriber(t *testing.T) {
	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ports.EventEnvelope, 1)
	if err := bus.Subscribe(ctx, "submission.approved", "audit", func(_ context.Context, event ports.EventEnvelope) error {
		received <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	sent := ports.EventEnvelope{
		EventID:       "evt-1",
		EventType:     "submission.approved",
		SchemaVersion: 1,
		PartitionKey:  "sub-1",
		Data:          json.RawMessage(`{"submission_id":"sub-1"}`),
	}
	if err := bus.Publish(context.Background(), "submission.approved", sent); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-received:
		if got.EventID != "evt-1" || got.EventType != "submission.approved" || got.PartitionKey != "sub-1" {
			t.Fatalf("delivered envelope = %+v, want the published one", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never received the event")
	}
}

func TestBusSurvivesHandlerError(t *testing.T) {
	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seen := make(chan string, 2)
	first := true
	if err := bus.Subscribe(ctx, "submission.approved", "audit", func(_ context.Context, event ports.EventEnvelope) error {
		seen <- event.EventID
		if first {
			first = false
			return errors.New("handler hiccup")
		}
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	for _, id := range []string{"evt-1", "evt-2"} {
		if err := bus.Publish(context.Background(), "submission.approved", ports.EventEnvelope{EventID: id}); err != nil {
			t.Fatalf("publish %s failed: %v", id, err)
		}
	}

	for _, want := range []string{"evt-1", "evt-2"} {
		select {
		case got := <-seen:
			if got != want {
				t.Fatalf("consumed %s, want %s", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("consumer stopped before %s", want)
		}
	}
}

func TestBusPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}
	if err := bus.Publish(context.Background(), "submission.created", ports.EventEnvelope{EventID: "evt-1"}); err != nil {
		t.Fatalf("publish to empty topic failed: %v", err)
	}
}
