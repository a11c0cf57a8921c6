// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package engine

import (
	"github.com/AccelByte/extend-struggle-engine/pkg/report"
	"github.com/AccelByte/extend-struggle-engine/pkg/state"
)

// Presenter renders engine output. Calls happen on the engine goroutine
// and must not block.
type Presenter interface {
	ShowAlert(level state.AlertLevel)
	ShowPrompt()
	HidePrompt()
	RenderScore(score int)
	ReportOutcome(trigger report.Trigger, err error)
}

// NopPresenter discards all presentation calls.
type NopPresenter struct{}

func (NopPresenter) ShowAlert(state.AlertLevel)          {}
func (NopPresenter) ShowPrompt()                         {}
func (NopPresenter) HidePrompt()                         {}
func (NopPresenter) RenderScore(int)                     {}
func (NopPresenter) ReportOutcome(report.Trigger, error) {}

// Observer receives engine activity for instrumentation.
type Observer interface {
	DetectorFired(detectorID string, delta float64)
	AlertRaised(level state.AlertLevel)
	ReportFinished(trigger report.Trigger, err error)
	ScoreChanged(score float64)
}

type nopObserver struct{}

func (nopObserver) DetectorFired(string, float64)        {}
func (nopObserver) AlertRaised(state.AlertLevel)         {}
func (nopObserver) ReportFinished(report.Trigger, error) {}
func (nopObserver) ScoreChanged(float64)                 {}
