// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"testing"
	"time"

	"github.com/AccelByte/extend-struggle-engine/internal/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, mr *miniredis.Miniredis) *config.Config {
	t.Helper()

	cfg, err := config.Parse()
	require.NoError(t, err)

	cfg.RedisHost = mr.Host()
	cfg.RedisPort = mr.Port()
	cfg.RedisMaxRetries = 1
	cfg.RedisRetryDelayMs = 10
	cfg.ConfigPath = "../../config/pipeline.yaml"
	cfg.OtelEnabled = false
	return cfg
}

func TestNew_WiresComponents(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, mr)
	cfg.CollectorEndpoint = "https://collector.example.com/"

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)

	assert.NotNil(t, a.httpServer)
	assert.NotNil(t, a.grpcServer)
	assert.NotNil(t, a.sessions)
	assert.NotNil(t, a.pipelines.Current())
	assert.NotNil(t, a.initTransport())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, a.Shutdown(ctx))
}

func TestNew_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, mr)
	mr.Close()

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestInitTransport_Disabled(t *testing.T) {
	a := &App{cfg: &config.Config{}}
	assert.Nil(t, a.initTransport())
}
