// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package session

import (
	"context"

	"github.com/AccelByte/extend-struggle-engine/pkg/pipeline"
	"github.com/AccelByte/extend-struggle-engine/pkg/state"
)

// SnapshotStore persists engine snapshots between requests and restarts.
type SnapshotStore interface {
	GetSnapshot(ctx context.Context, sessionID string) (*state.Snapshot, bool, error)
	SaveSnapshot(ctx context.Context, sessionID string, snap *state.Snapshot) error
	DeleteSnapshot(ctx context.Context, sessionID string) error
}

// PipelineSource provides the pipeline new engines are built from.
type PipelineSource interface {
	Current() *pipeline.Pipeline
}
