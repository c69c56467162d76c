package workers

import (
	"context"
	"encoding/json"
	"testing"

	"cliprewards/contexts/clipping-rewards/submission-service/ports"
)

type recordingSubscriber struct {
	topic   string
	group   string
	handler func(context.Context, ports.EventEnvelope) error
}

func (s *recordingSubscriber) Subscribe(
	_ context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	s.topic = topic
	s.group = consumerGroup
	s.handler = handler
	return nil
}

func TestApprovalAuditConsumerSubscribesToApprovals(t *testing.T) {
	sub := &recordingSubscriber{}
	consumer := ApprovalAuditConsumer{Events: sub}

	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if sub.topic != "submission.approved" {
		t.Fatalf("subscribed topic = %q, want submission.approved", sub.topic)
	}
	if sub.handler == nil {
		t.Fatal("no handler registered")
	}

	event := ports.EventEnvelope{
		EventID:   "evt-1",
		EventType: "submission.approved",
		Data:      json.RawMessage(`{"submission_id":"sub-1","campaign_id":"campaign-1","user_id":"creator-1","delta_views":9000,"earnings_usd":45.0}`),
	}
	if err := sub.handler(context.Background(), event); err != nil {
		t.Fatalf("handler rejected a well-formed event: %v", err)
	}

	bad := ports.EventEnvelope{EventID: "evt-2", Data: json.RawMessage(`not-json`)}
	if err := sub.handler(context.Background(), bad); err == nil {
		t.Fatal("handler accepted a malformed payload")
	}
}

func TestApprovalAuditConsumerWithoutBusIsNoop(t *testing.T) {
	consumer := ApprovalAuditConsumer{}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start without a bus failed: %v", err)
	}
}
