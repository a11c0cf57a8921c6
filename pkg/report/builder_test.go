// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/clock"
	"github.com/AccelByte/extend-struggle-engine/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrigger_Description(t *testing.T) {
	assert.Equal(t, "Manual user report", TriggerManual.Description())
	assert.Equal(t, "Auto-triggered alert", TriggerAuto.Description())
}

func TestBuilder_Build(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 123000000, time.UTC)
	b := NewBuilder("tenant-1", clock.NewFake(now))

	var trail []state.FocusEntry
	for i := 0; i < 8; i++ {
		trail = append(trail, state.FocusEntry{
			Timestamp: now.Add(time.Duration(i) * time.Second),
			TargetID:  string(rune('a' + i)),
			Element:   state.ElementRef{TagName: "INPUT", ID: string(rune('a' + i))},
		})
	}

	r := b.Build(Input{
		Trigger: TriggerManual,
		Score:   250.9,
		Trail:   trail,
		Trace:   []string{"/home", "/cart"},
		Page: Page{
			URL:           "https://shop.test/cart",
			Title:         "Cart",
			ActiveElement: &state.ElementRef{TagName: "BUTTON", ID: "pay"},
			UserAgent:     "test-agent",
			Screen:        Size{Width: 1920, Height: 1080},
			Viewport:      Size{Width: 1280, Height: 720},
			Language:      "en-US",
		},
	})

	require.NotEmpty(t, r.ID)
	assert.Equal(t, "tenant-1", r.TenantID)
	assert.Equal(t, "2025-03-01T12:00:00.123Z", r.Timestamp)
	assert.Equal(t, 250, r.StruggleScore)
	assert.Equal(t, "Manual user report", r.Description)
	assert.Equal(t, []string{"/home", "/cart"}, r.BehavioralTrace)
	assert.Equal(t, "Cart", r.Context.PageTitle)
	assert.Equal(t, now.UnixMilli(), r.Metadata.Timestamp)

	require.Len(t, r.Context.FocusHistory, FocusHistoryLength)
	assert.Equal(t, "d", r.Context.FocusHistory[0].Element.ID)
	assert.Equal(t, "h", r.Context.FocusHistory[4].Element.ID)

	require.NotNil(t, r.Context.ActiveElement.TagName)
	assert.Equal(t, "BUTTON", *r.Context.ActiveElement.TagName)
	assert.Nil(t, r.Context.ActiveElement.ClassName)

	other := b.Build(Input{Trigger: TriggerAuto})
	assert.NotEqual(t, r.ID, other.ID)
}

func TestBuilder_WireFormat(t *testing.T) {
	b := NewBuilder("t", clock.NewFake(time.Unix(1700000000, 0)))
	r := b.Build(Input{Trigger: TriggerAuto, Score: 120})

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &wire))

	for _, key := range []string{"tenantId", "timestamp", "url", "struggleScore", "description", "behavioralTrace", "context", "metadata"} {
		assert.Contains(t, wire, key)
	}
	assert.NotContains(t, wire, "ID")
	assert.Equal(t, []interface{}{}, wire["behavioralTrace"])

	ctx := wire["context"].(map[string]interface{})
	active := ctx["activeElement"].(map[string]interface{})
	assert.Nil(t, active["tagName"])
	assert.Equal(t, []interface{}{}, ctx["focusHistory"])

	meta := wire["metadata"].(map[string]interface{})
	assert.Contains(t, meta, "screenSize")
	assert.Contains(t, meta, "viewportSize")
}
