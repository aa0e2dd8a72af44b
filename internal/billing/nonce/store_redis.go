package nonce

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var checkDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "entitle_nonce_check_duration_ms",
	Help:    "Latency of nonce lookups in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

const nonceKeyPrefix = "billing:nonce:"

// RedisRegistry shares outstanding nonces through Redis so that the
// verification of a payload can land on a different instance than the one
// that issued the restore request.
type RedisRegistry struct {
	client *redis.Client
	// ttl bounds how long a nonce stays outstanding. Zero means no expiry,
	// which matches the single-process registry: a request that never gets a
	// response leaves its nonce outstanding forever.
	ttl time.Duration
}

// RedisRegistryOption configures a RedisRegistry instance.
type RedisRegistryOption func(*RedisRegistry)

// WithTTL bounds the lifetime of outstanding nonces.
func WithTTL(ttl time.Duration) RedisRegistryOption {
	return func(r *RedisRegistry) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// NewRedisRegistry constructs a Redis-backed nonce registry.
func NewRedisRegistry(client *redis.Client, opts ...RedisRegistryOption) *RedisRegistry {
	r := &RedisRegistry{client: client}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Generate draws a random nonce and records it in Redis.
func (r *RedisRegistry) Generate(ctx context.Context) (uint64, error) {
	n, err := random()
	if err != nil {
		return 0, err
	}
	if err := r.client.Set(ctx, key(n), "1", r.ttl).Err(); err != nil {
		return 0, fmt.Errorf("record nonce: %w", err)
	}
	return n, nil
}

// IsKnown reports whether the nonce is currently outstanding.
func (r *RedisRegistry) IsKnown(ctx context.Context, nonce uint64) (bool, error) {
	start := time.Now()
	defer func() {
		checkDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	_, err := r.client.Get(ctx, key(nonce)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check nonce: %w", err)
	}
	return true, nil
}

// Consume removes the nonce, reporting whether it was outstanding. DEL's
// deleted count makes the check-and-remove a single atomic step, so two
// instances verifying the same payload cannot both win.
func (r *RedisRegistry) Consume(ctx context.Context, nonce uint64) (bool, error) {
	deleted, err := r.client.Del(ctx, key(nonce)).Result()
	if err != nil {
		return false, fmt.Errorf("consume nonce: %w", err)
	}
	return deleted > 0, nil
}

// Remove releases the nonce. Removing an unknown nonce is a no-op.
func (r *RedisRegistry) Remove(ctx context.Context, nonce uint64) error {
	if err := r.client.Del(ctx, key(nonce)).Err(); err != nil {
		return fmt.Errorf("remove nonce: %w", err)
	}
	return nil
}

func key(nonce uint64) string {
	return nonceKeyPrefix + strconv.FormatUint(nonce, 10)
}
