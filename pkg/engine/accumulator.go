// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package engine

import (
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/state"
)

// Accumulator owns the leaky-bucket score: decay, scaled deltas and momentum.
type Accumulator struct {
	state    *state.ScoreState
	rates    state.DrainRates
	delta    float64
	duration time.Duration
	momentum timerSlot
}

// NewAccumulator creates an accumulator over the engine's score state.
func NewAccumulator(s *state.ScoreState, cfg Config, sched *scheduler) *Accumulator {
	return &Accumulator{
		state:    s,
		rates:    cfg.Drain,
		delta:    cfg.MomentumDelta,
		duration: cfg.MomentumDuration,
		momentum: timerSlot{sched: sched},
	}
}

// Tick drains dt worth of score and returns the amount removed. Exactly
// one drain rate applies; they are never summed.
func (a *Accumulator) Tick(dt time.Duration) float64 {
	return state.Drain(a.state, dt.Seconds(), a.rates)
}

// Apply adds a delta, scaling positive deltas by the sensitivity multiplier.
func (a *Accumulator) Apply(delta float64) float64 {
	return state.ApplyDelta(a.state, delta)
}

// Momentum records forward progress: the success drain applies, the score
// drops by the unscaled momentum delta and the expiry is (re)armed.
func (a *Accumulator) Momentum(now time.Time) float64 {
	a.state.MomentumActive = true
	a.state.MomentumExpiresAt = now.Add(a.duration)
	a.momentum.arm(a.duration, func() {
		a.state.MomentumActive = false
		a.state.MomentumExpiresAt = time.Time{}
	})
	return a.Apply(a.delta)
}

// ClearMomentum ends momentum immediately.
func (a *Accumulator) ClearMomentum() {
	a.momentum.cancel()
	a.state.MomentumActive = false
	a.state.MomentumExpiresAt = time.Time{}
}

func (a *Accumulator) stop() {
	a.momentum.cancel()
}
