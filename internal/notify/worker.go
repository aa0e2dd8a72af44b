package notify

import (
	"context"
	"log/slog"
)

// Sink is where the worker hands events off to, typically a message-bus
// publisher.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Buffer is a channel-backed Notifier that decouples the controller's
// ingestion pipeline from slow sinks. Events are dropped (and counted in the
// log) when the buffer is full; domain events are advisory, the ledger is
// the source of truth.
type Buffer struct {
	inbox  chan Event
	logger *slog.Logger
}

// NewBuffer creates a buffered notifier with the given capacity.
func NewBuffer(capacity int, logger *slog.Logger) *Buffer {
	return &Buffer{
		inbox:  make(chan Event, capacity),
		logger: logger,
	}
}

// Notify enqueues the event without blocking.
func (b *Buffer) Notify(_ context.Context, event Event) {
	select {
	case b.inbox <- event:
	default:
		b.logger.Warn("notify buffer full, dropping event", "type", event.Type, "id", event.ID)
	}
}

// Run drains the buffer into the sink until the context is canceled.
func (b *Buffer) Run(ctx context.Context, sink Sink) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-b.inbox:
			if err := sink.Publish(ctx, event); err != nil {
				b.logger.Error("failed to publish event", "type", event.Type, "id", event.ID, "error", err)
			}
		}
	}
}
