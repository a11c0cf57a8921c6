// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AccelByte/extend-struggle-engine/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServer_ServesEngineMetrics(t *testing.T) {
	m := NewMetricsServer(0, "/metrics")
	require.NoError(t, m.Setup())

	collector := metrics.NewCollector(m.Registry())
	collector.Alerts.WithLabelValues("level1").Inc()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
	assert.Contains(t, string(body), `struggle_alerts_total{level="level1"} 1`)
}
