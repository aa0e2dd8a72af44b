package notify

import (
	"context"
	"sync"
)

// Fanout delivers each event synchronously to every subscribed func, in
// subscription order. It replaces the event-bus publish/subscribe of typical
// UI plumbing with an explicit callback list.
type Fanout struct {
	mu   sync.RWMutex
	subs []func(Event)
}

// NewFanout creates an empty fan-out notifier.
func NewFanout() *Fanout {
	return &Fanout{}
}

// Subscribe registers a callback for all future events.
func (f *Fanout) Subscribe(fn func(Event)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
}

// Notify delivers the event to every subscriber.
func (f *Fanout) Notify(_ context.Context, event Event) {
	f.mu.RLock()
	subs := f.subs
	f.mu.RUnlock()
	for _, fn := range subs {
		fn(event)
	}
}

// Multi composes several notifiers into one.
type Multi []Notifier

// Notify delivers the event to each composed notifier in order.
func (m Multi) Notify(ctx context.Context, event Event) {
	for _, n := range m {
		n.Notify(ctx, event)
	}
}
