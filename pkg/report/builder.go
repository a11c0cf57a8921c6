// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package report

import (
	"math"

	"github.com/AccelByte/extend-struggle-engine/pkg/clock"
	"github.com/AccelByte/extend-struggle-engine/pkg/state"
	"github.com/google/uuid"
)

// Builder assembles reports for one tenant.
type Builder struct {
	tenantID string
	clock    clock.Clock
}

// NewBuilder creates a report builder.
func NewBuilder(tenantID string, clk clock.Clock) *Builder {
	return &Builder{
		tenantID: tenantID,
		clock:    clk,
	}
}

// Input is everything a report is built from.
type Input struct {
	Trigger Trigger
	Score   float64
	Trail   []state.FocusEntry
	Trace   []string
	Page    Page
}

// Build assembles an immutable report with a fresh idempotency ID.
func (b *Builder) Build(in Input) *Report {
	now := b.clock.Now()

	trail := in.Trail
	if len(trail) > FocusHistoryLength {
		trail = trail[len(trail)-FocusHistoryLength:]
	}
	history := make([]FocusItem, 0, len(trail))
	for _, entry := range trail {
		history = append(history, FocusItem{
			Time:    entry.Timestamp.UnixMilli(),
			Element: entry.Element,
		})
	}

	trace := append([]string{}, in.Trace...)

	return &Report{
		ID:              uuid.NewString(),
		Trigger:         in.Trigger,
		TenantID:        b.tenantID,
		Timestamp:       formatTimestamp(now),
		URL:             in.Page.URL,
		StruggleScore:   int(math.Floor(math.Max(in.Score, 0))),
		Description:     in.Trigger.Description(),
		BehavioralTrace: trace,
		Context: Context{
			ActiveElement: newActiveElement(in.Page.ActiveElement),
			PageTitle:     in.Page.Title,
			FocusHistory:  history,
		},
		Metadata: Metadata{
			UserAgent:    in.Page.UserAgent,
			ScreenSize:   in.Page.Screen,
			ViewportSize: in.Page.Viewport,
			Language:     in.Page.Language,
			Timestamp:    now.UnixMilli(),
		},
	}
}
