// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"fmt"
	"strings"
	"time"
)

// AlertLevel is the escalation tier derived from score thresholds.
type AlertLevel int

const (
	AlertNone AlertLevel = iota
	AlertLevel1
	AlertLevel2
)

// String returns the wire name of the level.
func (l AlertLevel) String() string {
	switch l {
	case AlertLevel1:
		return "level1"
	case AlertLevel2:
		return "level2"
	default:
		return "none"
	}
}

// ParseAlertLevel parses a level name as written in configuration.
func ParseAlertLevel(name string) (AlertLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none":
		return AlertNone, nil
	case "level1", "1":
		return AlertLevel1, nil
	case "level2", "2":
		return AlertLevel2, nil
	}
	return AlertNone, fmt.Errorf("unknown alert level: %q", name)
}

// ScoreState is the single mutable score record of an engine.
type ScoreState struct {
	Score                 float64    `json:"score"`
	MomentumActive        bool       `json:"momentumActive"`
	MomentumExpiresAt     time.Time  `json:"momentumExpiresAt"`
	SensitivityMultiplier float64    `json:"sensitivityMultiplier"`
	SensitivityExpiresAt  time.Time  `json:"sensitivityExpiresAt"`
	ErrorSensitivity      bool       `json:"errorSensitivity"`
	AlertLevel            AlertLevel `json:"alertLevel"`
}

// NewScoreState returns the initial state: zero score, multiplier 1.
func NewScoreState() *ScoreState {
	return &ScoreState{
		SensitivityMultiplier: 1,
	}
}

// ElementRef describes an element well enough to be reported.
type ElementRef struct {
	TagName   string `json:"tagName"`
	ID        string `json:"id"`
	ClassName string `json:"className"`
	Role      string `json:"role"`
}

// FocusEntry is one step of the focus/navigation trail.
type FocusEntry struct {
	Timestamp time.Time  `json:"time"`
	TargetID  string     `json:"targetId"`
	Element   ElementRef `json:"element"`
}

// Snapshot is the persisted form of a session's engine state.
type Snapshot struct {
	TenantID string       `json:"tenantId"`
	State    ScoreState   `json:"state"`
	Trail    []FocusEntry `json:"trail"`
	Path     []string     `json:"path"`
	SavedAt  time.Time    `json:"savedAt"`
}
