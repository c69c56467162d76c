package messaging

import (
	"context"
	"log/slog"
	"sync"

	"cliprewards/contexts/clipping-rewards/submission-service/ports"
)

const subscriberBuffer = 128

type subscriber struct {
	group string
	ch    chan ports.EventEnvelope
}

// Kafka carries submission lifecycle events between the outbox relay and
// consumers. The implementation is in-process until an external broker is
// provisioned; the Publish/Subscribe surface already matches one.
type Kafka struct {
	mu     sync.RWMutex
	topics map[string][]*subscriber
	logger *slog.Logger
}

func NewKafka(_ []string, logger *slog.Logger) (*Kafka, error) {
	return &Kafka{
		topics: make(map[string][]*subscriber),
		logger: logger,
	}, nil
}

// Publish fans the event out to every subscriber of the topic. A subscriber
// whose buffer is full loses the event rather than stalling the relay; the
// outbox row is already marked published at that point.
func (k *Kafka) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	k.mu.RLock()
	subs := append([]*subscriber(nil), k.topics[topic]...)
	k.mu.RUnlock()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub.ch <- event:
		default:
			if k.logger != nil {
				k.logger.Warn("event dropped for saturated subscriber",
					"event", "bus_publish_drop",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"topic", topic,
					"consumer_group", sub.group,
					"event_id", event.EventID,
				)
			}
		}
	}

	if k.logger != nil {
		k.logger.Info("event published",
			"event", "bus_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
	}
	return nil
}

// Subscribe starts a consumer goroutine for the topic. Handler errors are
// logged and the consumer keeps going; cancellation detaches it from the bus.
func (k *Kafka) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	sub := &subscriber{
		group: consumerGroup,
		ch:    make(chan ports.EventEnvelope, subscriberBuffer),
	}

	k.mu.Lock()
	k.topics[topic] = append(k.topics[topic], sub)
	k.mu.Unlock()

	go k.consume(ctx, topic, sub, handler)
	return nil
}

func (k *Kafka) consume(
	ctx context.Context,
	topic string,
	sub *subscriber,
	handler func(context.Context, ports.EventEnvelope) error,
) {
	for {
		select {
		case <-ctx.Done():
			k.detach(topic, sub)
			return
		case event := <-sub.ch:
			if err := handler(ctx, event); err != nil && k.logger != nil {
				k.logger.Error("consumer handler failed",
					"event", "bus_consume_failed",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"topic", topic,
					"consumer_group", sub.group,
					"event_id", event.EventID,
					"event_type", event.EventType,
					"error", err.Error(),
				)
			}
		}
	}
}

func (k *Kafka) detach(topic string, target *subscriber) {
	k.mu.Lock()
	defer k.mu.Unlock()

	items := k.topics[topic]
	filtered := items[:0]
	for _, item := range items {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	k.topics[topic] = filtered
}
