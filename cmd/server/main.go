// Command server runs a covenant node: the Postgres-backed registries, the
// transfer diagnostic surface, and the outbox relay that ships ledger events
// to Kafka. Business logic lives in the internal feature packages; this file
// only wires them together and owns the process lifecycle.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"covenant/internal/asset"
	assetmetrics "covenant/internal/asset/metrics"
	"covenant/internal/claims"
	"covenant/internal/compliance"
	compliancemetrics "covenant/internal/compliance/metrics"
	jwttoken "covenant/internal/jwt_token"
	"covenant/internal/ledger"
	"covenant/internal/platform/config"
	"covenant/internal/platform/httpserver"
	"covenant/internal/platform/logger"
	platformmetrics "covenant/internal/platform/metrics"
	"covenant/internal/platform/postgres"
	"covenant/internal/platform/redis"
	"covenant/internal/transfer"
	transfermetrics "covenant/internal/transfer/metrics"
	"covenant/internal/transfer/ports"
	httptransport "covenant/internal/transport/http"
	"covenant/pkg/platform/events"
	"covenant/pkg/platform/events/kafka"
	eventspg "covenant/pkg/platform/events/store/postgres"
	"covenant/pkg/platform/events/worker"
	"covenant/pkg/platform/tx"
)

const (
	shutdownGrace = 10 * time.Second

	eventTopicPartitions  = 3
	eventTopicReplication = 1
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()

	if _, err := postgres.RunMigrations(db, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	runner := &tx.SQLRunner{DB: db}

	// One store serves both roles: the services append through it inside
	// their transactions, the relay drains it.
	outbox := eventspg.New(db)
	publisher := events.NewPublisher(outbox,
		events.WithLogger(log),
		events.WithMetrics(events.New()),
	)

	var provider claims.Provider = claims.NewInMemoryProvider()
	if redisClient != nil {
		provider = claims.NewCache(redisClient.Client, provider,
			claims.WithTTL(cfg.Redis.ClaimCacheTTL),
			claims.WithLogger(log),
		)
	}

	registry := asset.New(asset.NewPostgresStore(db), runner, publisher,
		asset.Config{
			MaxTickerLength:           cfg.Ledger.MaxTickerLength,
			MaxNameLength:             cfg.Ledger.MaxNameLength,
			MaxFundingRoundNameLength: cfg.Ledger.MaxFundingRoundNameLength,
			RegistrationLength:        cfg.Ledger.TickerRegistrationLength,
		},
		asset.WithLogger(log),
		asset.WithMetrics(assetmetrics.New()),
	)

	balances := ledger.New(ledger.NewPostgresStore(db), runner, publisher,
		ledger.WithLogger(log),
	)

	engine := compliance.New(compliance.NewPostgresStore(db), runner, publisher, provider, registry,
		compliance.Config{MaxComplexity: cfg.Ledger.MaxConditionComplexity},
		compliance.WithLogger(log),
		compliance.WithMetrics(compliancemetrics.New()),
	)

	pipeline := transfer.New(registry, balances, engine, provider,
		ports.NewInMemoryCheckpoint(),
		ports.NewInMemoryPortfolio(),
		ports.NewInMemoryStatistics(),
		runner, publisher,
		transfer.WithLogger(log),
		transfer.WithMetrics(transfermetrics.New()),
	)

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:    log,
		Metrics:   platformmetrics.New(),
		Validator: jwttoken.NewJWTServiceAdapter(jwtService),
		Transfers: httptransport.NewTransferHandler(pipeline, log),
		Assets:    httptransport.NewAssetHandler(engine, log),
		Ready: func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return err
			}
			if redisClient != nil {
				return redisClient.Health(ctx)
			}
			return nil
		},
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("covenant listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		defer producer.Close()

		if err := producer.EnsureTopic(ctx, eventTopicPartitions, eventTopicReplication); err != nil {
			return fmt.Errorf("ensure topic: %w", err)
		}

		relay := worker.NewWorker(runner, outbox, producer, log)
		g.Go(func() error {
			if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("outbox relay: %w", err)
			}
			return nil
		})
		log.Info("outbox relay started", "topic", cfg.Kafka.Topic, "brokers", cfg.Kafka.Brokers)
	} else {
		log.Warn("kafka brokers not configured, events stay in the outbox")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("covenant stopped")
	return nil
}
