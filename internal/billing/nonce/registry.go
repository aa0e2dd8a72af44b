// Package nonce issues and tracks the one-time tokens that protect signed
// storefront payloads from replay.
package nonce

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"
)

// Registry tracks outstanding nonces. Generate adds a fresh nonce to the
// outstanding set; Consume implements exactly-once verification: a payload
// whose nonce is unknown is stale, replayed or forged, and a known nonce
// leaves the set in the same step that reports it known, so two concurrent
// deliveries of the same signed payload cannot both verify.
type Registry interface {
	Generate(ctx context.Context) (uint64, error)
	IsKnown(ctx context.Context, nonce uint64) (bool, error)
	// Consume removes the nonce and reports whether it was outstanding.
	// Check and removal are one atomic step.
	Consume(ctx context.Context, nonce uint64) (bool, error)
	// Remove releases a nonce without consuming it, for requests that fail
	// before a payload can arrive. Removing an unknown nonce is a no-op.
	Remove(ctx context.Context, nonce uint64) error
}

// InMemoryRegistry keeps outstanding nonces in process memory. This matches
// the lifetime of the pending-request table it pairs with.
type InMemoryRegistry struct {
	mu          sync.Mutex
	outstanding map[uint64]struct{}
}

// NewInMemoryRegistry creates an empty registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{outstanding: make(map[uint64]struct{})}
}

// Generate draws a cryptographically random 64-bit nonce and records it as
// outstanding.
func (r *InMemoryRegistry) Generate(_ context.Context) (uint64, error) {
	n, err := random()
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outstanding[n] = struct{}{}
	return n, nil
}

// IsKnown reports whether the nonce is currently outstanding.
func (r *InMemoryRegistry) IsKnown(_ context.Context, nonce uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.outstanding[nonce]
	return ok, nil
}

// Consume removes the nonce under the registry lock, reporting whether it
// was outstanding. Exactly one of several concurrent callers wins.
func (r *InMemoryRegistry) Consume(_ context.Context, nonce uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.outstanding[nonce]
	if ok {
		delete(r.outstanding, nonce)
	}
	return ok, nil
}

// Remove releases the nonce. Removing an unknown nonce is a no-op.
func (r *InMemoryRegistry) Remove(_ context.Context, nonce uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.outstanding, nonce)
	return nil
}

func random() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("could not generate nonce: %w", err)
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}
