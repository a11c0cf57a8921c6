// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import "time"

// Config holds all application configuration loaded from environment variables.
// This struct uses github.com/caarlos0/env for automatic environment variable parsing.
type Config struct {
	// ============================================================
	// Server configuration
	// ============================================================
	GRPCPort    int    `env:"GRPC_PORT" envDefault:"6565"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8000"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"StruggleEngine"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// ============================================================
	// Redis configuration
	// ============================================================
	RedisHost         string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         string        `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string        `env:"REDIS_PASSWORD"`
	RedisMaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	RedisRetryDelayMs int           `env:"REDIS_RETRY_DELAY_MS" envDefault:"1000"`
	SnapshotTTL       time.Duration `env:"SNAPSHOT_TTL" envDefault:"24h"`

	// ============================================================
	// Pipeline configuration
	// ============================================================
	ConfigPath    string `env:"CONFIG_PATH" envDefault:"config/pipeline.yaml"`
	WatchConfig   bool   `env:"WATCH_CONFIG" envDefault:"true"`
	DefaultTenant string `env:"TENANT_ID"`

	// ============================================================
	// Sessions and reports
	// ============================================================
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	CollectorEndpoint  string        `env:"COLLECTOR_ENDPOINT"`
	CollectorTimeout   time.Duration `env:"COLLECTOR_TIMEOUT" envDefault:"10s"`
	CollectorRetries   int           `env:"COLLECTOR_MAX_RETRIES" envDefault:"3"`

	// ============================================================
	// Telemetry configuration
	// ============================================================
	OtelEnabled bool `env:"OTEL_ENABLED" envDefault:"true"`
}
