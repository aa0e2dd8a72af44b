// Package config assembles process configuration from the environment so
// main stays lean.
package config

import (
	"crypto/hmac"
	"crypto/sha256"
	"os"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
}

// Redis captures Redis connection configuration. An empty URL means Redis is
// not in use and in-memory stores are wired instead.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Postgres captures the ledger database configuration. An empty DSN selects
// the in-memory ledger.
type Postgres struct {
	DSN string
}

// Kafka captures event publishing configuration. No brokers means events stay
// in-process.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Storefront captures how to reach the storefront billing service.
type Storefront struct {
	URL string
}

// Billing captures the verification material for the storefront integration.
type Billing struct {
	// StorefrontPublicKey is the storefront's base64-encoded public key.
	// Empty disables signature validation (degraded mode).
	StorefrontPublicKey string
	// SaltSecret seeds per-identity obfuscation salts. Empty stores plaintext.
	SaltSecret string
	// Debug accepts unsigned payloads; never enable outside a sandbox.
	Debug bool
}

// Config is everything the process needs to start.
type Config struct {
	Server     Server
	Redis      Redis
	Postgres   Postgres
	Kafka      Kafka
	Storefront Storefront
	Billing    Billing
}

// FromEnv builds the full configuration from environment variables.
func FromEnv() Config {
	addr := os.Getenv("ENTITLE_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default, override in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	storefrontURL := os.Getenv("STOREFRONT_URL")
	if storefrontURL == "" {
		storefrontURL = "http://localhost:9090"
	}

	return Config{
		Server: Server{
			Addr:          addr,
			JWTSigningKey: jwtSigningKey,
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Postgres: Postgres{
			DSN: os.Getenv("POSTGRES_DSN"),
		},
		Kafka: Kafka{
			Brokers: brokers,
			Topic:   os.Getenv("KAFKA_BILLING_TOPIC"),
		},
		Storefront: Storefront{
			URL: storefrontURL,
		},
		Billing: Billing{
			StorefrontPublicKey: os.Getenv("BILLING_PUBLIC_KEY"),
			SaltSecret:          os.Getenv("BILLING_SALT_SECRET"),
			Debug:               os.Getenv("BILLING_DEBUG") == "true",
		},
	}
}

// Salt derives a per-identity obfuscation salt from the configured secret.
// Identities never share a salt, so a leaked ledger from one identity does
// not help reading another's. Returns nil when no secret is configured.
func (b Billing) Salt(identity string) []byte {
	if b.SaltSecret == "" {
		return nil
	}
	mac := hmac.New(sha256.New, []byte(b.SaltSecret))
	mac.Write([]byte(identity))
	return mac.Sum(nil)
}

// PublicKey returns the storefront public key; the key does not vary by
// identity for this storefront protocol.
func (b Billing) PublicKey(string) string {
	return b.StorefrontPublicKey
}
