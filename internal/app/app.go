// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/AccelByte/extend-struggle-engine/internal/config"
	"github.com/AccelByte/extend-struggle-engine/internal/server"
	"github.com/AccelByte/extend-struggle-engine/pkg/metrics"
	"github.com/AccelByte/extend-struggle-engine/pkg/pipeline"
	"github.com/AccelByte/extend-struggle-engine/pkg/report"
	"github.com/AccelByte/extend-struggle-engine/pkg/session"
	"github.com/AccelByte/extend-struggle-engine/pkg/state"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	httpServer        *server.HTTPServer
	grpcServer        *server.GRPCServer
	metricsServer     *server.MetricsServer
	redisClient       *redis.Client
	pipelines         *pipeline.Manager
	sessions          *session.Manager
	shutdownTelemetry func(context.Context) error
}

// New creates and initializes a new application instance.
//
// Components are initialized in dependency order:
// 1. Redis (session snapshots)
// 2. Pipeline config (detectors, actions, engine tuning)
// 3. Metrics (the session host records into the registry)
// 4. Session host
// 5. Servers (ingest API, gRPC health)
// 6. Telemetry (OpenTelemetry tracing)
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	// ============================================================
	// Step 1: Initialize Redis
	// ============================================================
	if err := app.initRedis(ctx); err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}

	// ============================================================
	// Step 2: Load pipeline configuration
	// ============================================================
	pipelines, err := pipeline.NewManager(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline config from %s: %w", cfg.ConfigPath, err)
	}
	pipelines.OnReload(func(p *pipeline.Pipeline) {
		logrus.Infof("pipeline reloaded with %d detectors; new sessions will use it", len(p.Config().Detectors))
	})
	app.pipelines = pipelines
	logrus.Infof("loaded pipeline configuration from %s", cfg.ConfigPath)

	// ============================================================
	// Step 3: Setup metrics
	// ============================================================
	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics")
	if err := app.metricsServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}
	collector := metrics.NewCollector(app.metricsServer.Registry())

	// ============================================================
	// Step 4: Session host
	// ============================================================
	snapshots := state.NewRedisSnapshotStore(app.redisClient, state.RedisSnapshotStoreConfig{TTL: cfg.SnapshotTTL})
	app.sessions = session.NewManager(
		session.Config{IdleTimeout: cfg.SessionIdleTimeout},
		session.Options{
			Pipelines: pipelines,
			Store:     snapshots,
			Collector: collector,
			Transport: app.initTransport(),
		},
	)

	// ============================================================
	// Step 5: Setup servers
	// ============================================================
	app.httpServer, err = server.NewHTTPServer(cfg.HTTPPort, app.sessions, cfg.DefaultTenant)
	if err != nil {
		return nil, fmt.Errorf("failed to setup ingest API: %w", err)
	}

	app.grpcServer = server.NewGRPCServer(cfg.GRPCPort, state.NewHealthChecker(app.redisClient))
	if err := app.grpcServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup gRPC server: %w", err)
	}

	// ============================================================
	// Step 6: Setup telemetry
	// ============================================================
	if cfg.OtelEnabled {
		shutdownTelemetry, err := server.SetupTelemetry(ctx, cfg.ServiceName, cfg.Environment, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to setup telemetry: %w", err)
		}
		app.shutdownTelemetry = shutdownTelemetry
	}

	logrus.Info("application initialized successfully")

	return app, nil
}

// initRedis initializes the Redis client.
func (a *App) initRedis(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:         a.cfg.RedisHost + ":" + a.cfg.RedisPort,
		Password:     a.cfg.RedisPassword,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Duration(a.cfg.RedisRetryDelayMs) * time.Millisecond
	maxRetries := backoff.WithContext(backoff.WithMaxRetries(b, uint64(a.cfg.RedisMaxRetries)), ctx)

	err := backoff.Retry(
		func() error {
			_, err := client.Ping(ctx).Result()
			if err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		maxRetries,
	)

	if err != nil {
		_ = client.Close()
		return err
	}

	a.redisClient = client
	logrus.Info("Redis client initialized")
	return nil
}

// initTransport returns the collector transport shared by all sessions, or
// nil when each engine should use the endpoint from the pipeline file.
func (a *App) initTransport() report.Transport {
	if a.cfg.CollectorEndpoint == "" {
		return nil
	}

	logrus.Infof("reports will be delivered to %s", report.FeedbackURL(a.cfg.CollectorEndpoint))
	return report.NewHTTPTransport(report.HTTPTransportConfig{
		Endpoint:       a.cfg.CollectorEndpoint,
		MaxRetries:     a.cfg.CollectorRetries,
		RequestTimeout: a.cfg.CollectorTimeout,
	})
}
