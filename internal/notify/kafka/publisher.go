// Package kafka publishes billing domain events to a Kafka topic so other
// services (receipt reconciliation, analytics) can consume them.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"entitle/internal/notify"
	platformkafka "entitle/internal/platform/kafka"
)

// DefaultTopic is where billing events land unless overridden.
const DefaultTopic = "entitle.billing.events"

// Publisher is a notify.Sink that writes events to Kafka, keyed by event id
// so replays of the same event coalesce per partition.
type Publisher struct {
	producer *platformkafka.Producer
	topic    string
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithTopic overrides the destination topic.
func WithTopic(topic string) Option {
	return func(p *Publisher) {
		if topic != "" {
			p.topic = topic
		}
	}
}

// New creates a Kafka-backed event publisher.
func New(producer *platformkafka.Producer, opts ...Option) *Publisher {
	p := &Publisher{producer: producer, topic: DefaultTopic}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish marshals the event and produces it synchronously.
func (p *Publisher) Publish(ctx context.Context, event notify.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.producer.Produce(ctx, p.topic, []byte(event.ID.String()), value)
}
