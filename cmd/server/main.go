package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"entitle/internal/authtoken"
	"entitle/internal/billing/controller"
	"entitle/internal/billing/ledger"
	"entitle/internal/billing/metrics"
	"entitle/internal/billing/nonce"
	"entitle/internal/billing/security"
	"entitle/internal/billing/storefront"
	"entitle/internal/notify"
	notifykafka "entitle/internal/notify/kafka"
	"entitle/internal/platform/config"
	"entitle/internal/platform/httpserver"
	"entitle/internal/platform/kafka"
	"entitle/internal/platform/logger"
	"entitle/internal/platform/redis"
	httptransport "entitle/internal/transport/http"
)

// staticKeyProvider serves the storefront public key from configuration.
type staticKeyProvider string

func (p staticKeyProvider) PublicKey() string { return string(p) }

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Ledger: Postgres when configured, in-memory otherwise.
	var store ledger.Store = ledger.NewInMemoryStore()
	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			log.Error("could not open ledger database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("could not reach ledger database", "error", err)
			os.Exit(1)
		}
		store = ledger.NewPostgresStore(db)
	}

	// Nonce registry: Redis when configured, in-memory otherwise.
	var nonces nonce.Registry = nonce.NewInMemoryRegistry()
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("could not connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		nonces = nonce.NewRedisRegistry(redisClient.Client, nonce.WithTTL(24*time.Hour))
	}

	// Events: synchronous fan-out for in-process subscribers, plus a buffered
	// worker into Kafka when brokers are configured.
	fan := notify.NewFanout()
	var notifier notify.Notifier = fan
	var buffer *notify.Buffer

	producer, err := kafka.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		log.Error("could not create kafka producer", "error", err)
		os.Exit(1)
	}
	if producer != nil {
		defer producer.Close()
		buffer = notify.NewBuffer(256, log)
		notifier = notify.Multi{fan, buffer}
	}

	validator := security.NewRSAValidator(staticKeyProvider(cfg.Billing.StorefrontPublicKey), log)
	billing := controller.New(
		storefront.New(cfg.Storefront.URL),
		notifier,
		validator,
		nonces,
		store,
		cfg.Billing,
		log,
		controller.WithMetrics(metrics.New()),
		controller.WithDebug(cfg.Billing.Debug),
	)

	tokens := authtoken.NewService(cfg.Server.JWTSigningKey, "entitle", "entitle-api")
	callbacks := httptransport.NewCallbackHandler(billing, log)
	entitlements := httptransport.NewEntitlementHandler(billing, authtoken.NewMiddlewareAdapter(tokens), log)
	router := httptransport.NewRouter(log, callbacks, entitlements)

	srv := httpserver.New(cfg.Server.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting entitle", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if buffer != nil {
		g.Go(func() error {
			topic := notifykafka.DefaultTopic
			if cfg.Kafka.Topic != "" {
				topic = cfg.Kafka.Topic
			}
			err := buffer.Run(ctx, notifykafka.New(producer, notifykafka.WithTopic(topic)))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
