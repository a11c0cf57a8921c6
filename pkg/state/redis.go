// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultSnapshotTTL is how long an idle session snapshot is kept in Redis.
	DefaultSnapshotTTL = 24 * time.Hour
	// KeyPrefix is the prefix for all session snapshot keys.
	KeyPrefix = "struggle_engine:session_state:"
)

// RedisSnapshotStoreConfig tunes the snapshot store.
type RedisSnapshotStoreConfig struct {
	TTL time.Duration
}

// RedisSnapshotStore persists engine snapshots per session.
type RedisSnapshotStore struct {
	client redis.UniversalClient
	cfg    RedisSnapshotStoreConfig
}

// NewRedisSnapshotStore creates a Redis-backed snapshot store.
func NewRedisSnapshotStore(client redis.UniversalClient, cfg RedisSnapshotStoreConfig) *RedisSnapshotStore {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSnapshotTTL
	}
	return &RedisSnapshotStore{
		client: client,
		cfg:    cfg,
	}
}

// makeKey creates a Redis key for a session
func makeKey(sessionID string) string {
	return fmt.Sprintf("%s%s", KeyPrefix, sessionID)
}

// GetSnapshot loads a session snapshot. A session with no stored state
// yields a fresh snapshot and found=false.
func (r *RedisSnapshotStore) GetSnapshot(ctx context.Context, sessionID string) (*Snapshot, bool, error) {
	key := makeKey(sessionID)

	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		logrus.Debugf("no existing state for session %s, returning new state", sessionID)
		return &Snapshot{State: *NewScoreState()}, false, nil
	}
	if err != nil {
		logrus.Errorf("failed to get state for session %s: %v", sessionID, err)
		return nil, false, fmt.Errorf("failed to get state: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		logrus.Errorf("failed to unmarshal state for session %s: %v", sessionID, err)
		return nil, false, fmt.Errorf("failed to unmarshal state: %w", err)
	}

	if snap.State.SensitivityMultiplier < 1 {
		snap.State.SensitivityMultiplier = 1
	}

	logrus.Debugf("retrieved state for session %s (score=%.1f)", sessionID, snap.State.Score)
	return &snap, true, nil
}

// SaveSnapshot stores a session snapshot and refreshes its TTL.
func (r *RedisSnapshotStore) SaveSnapshot(ctx context.Context, sessionID string, snap *Snapshot) error {
	key := makeKey(sessionID)

	data, err := json.Marshal(snap)
	if err != nil {
		logrus.Errorf("failed to marshal state for session %s: %v", sessionID, err)
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.cfg.TTL).Err(); err != nil {
		logrus.Errorf("failed to set state for session %s: %v", sessionID, err)
		return fmt.Errorf("failed to set state: %w", err)
	}

	logrus.Debugf("updated state for session %s with TTL %v", sessionID, r.cfg.TTL)
	return nil
}

// DeleteSnapshot removes a session snapshot.
func (r *RedisSnapshotStore) DeleteSnapshot(ctx context.Context, sessionID string) error {
	key := makeKey(sessionID)

	if err := r.client.Del(ctx, key).Err(); err != nil {
		logrus.Errorf("failed to delete state for session %s: %v", sessionID, err)
		return fmt.Errorf("failed to delete state: %w", err)
	}

	logrus.Infof("deleted state for session %s", sessionID)
	return nil
}
