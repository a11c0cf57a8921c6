// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// HealthChecker reports whether the snapshot backend is reachable.
type HealthChecker struct {
	client  redis.UniversalClient
	timeout time.Duration
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(client redis.UniversalClient) *HealthChecker {
	return &HealthChecker{client: client, timeout: 2 * time.Second}
}

// Check performs a Redis health check
func (h *HealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if _, err := h.client.Ping(ctx).Result(); err != nil {
		logrus.Errorf("Redis health check failed: %v", err)
		return err
	}

	logrus.Debugf("Redis health check passed")
	return nil
}

// Watch polls Check every interval and calls onChange whenever health flips,
// plus once with the initial result. It returns when ctx is done.
func (h *HealthChecker) Watch(ctx context.Context, interval time.Duration, onChange func(healthy bool)) {
	healthy := h.Check(ctx) == nil
	onChange(healthy)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := h.Check(ctx) == nil
			if now != healthy {
				logrus.Warnf("snapshot store health changed: healthy=%v", now)
				healthy = now
				onChange(healthy)
			}
		}
	}
}
