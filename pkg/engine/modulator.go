// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package engine

import (
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/state"
	"github.com/sirupsen/logrus"
)

// Modulator drives the sensitivity multiplier. The multiplier is a level,
// not a stack: submission and error spikes both raise it to the same value.
type Modulator struct {
	state *state.ScoreState
	cfg   Config

	submissionActive bool
	submission       timerSlot
	errorSpike       timerSlot
}

// NewModulator creates a modulator over the engine's score state.
func NewModulator(s *state.ScoreState, cfg Config, sched *scheduler) *Modulator {
	return &Modulator{
		state:      s,
		cfg:        cfg,
		submission: timerSlot{sched: sched},
		errorSpike: timerSlot{sched: sched},
	}
}

// OnSubmission raises the multiplier for the submission window, restarting
// the window when one is already running.
func (m *Modulator) OnSubmission(now time.Time) {
	m.armSubmission(now, m.cfg.SubmissionSensitivityDuration)
}

func (m *Modulator) armSubmission(now time.Time, d time.Duration) {
	m.submissionActive = true
	m.state.SensitivityExpiresAt = now.Add(d)
	m.submission.arm(d, func() {
		m.submissionActive = false
		m.state.SensitivityExpiresAt = time.Time{}
		m.apply()
	})
	m.apply()
}

// OnErrorAnnounced raises the multiplier according to the error policy.
func (m *Modulator) OnErrorAnnounced() {
	m.state.ErrorSensitivity = true
	if m.cfg.ErrorSensitivity == ErrorSensitivityTimed {
		m.errorSpike.arm(m.cfg.ErrorSensitivityTTL, func() {
			m.state.ErrorSensitivity = false
			m.apply()
		})
	}
	logrus.Debugf("error announced, sensitivity raised (%s)", m.cfg.ErrorSensitivity)
	m.apply()
}

// restore re-arms spikes from a persisted state.
func (m *Modulator) restore(now time.Time) {
	m.submissionActive = false
	if remaining := m.state.SensitivityExpiresAt.Sub(now); !m.state.SensitivityExpiresAt.IsZero() && remaining > 0 {
		m.armSubmission(now, remaining)
	} else {
		m.state.SensitivityExpiresAt = time.Time{}
	}
	if m.state.ErrorSensitivity {
		m.OnErrorAnnounced()
	}
	m.apply()
}

func (m *Modulator) apply() {
	if m.submissionActive || m.state.ErrorSensitivity {
		m.state.SensitivityMultiplier = m.cfg.SensitivityMultiplier
		return
	}
	m.state.SensitivityMultiplier = 1
}

func (m *Modulator) stop() {
	m.submission.cancel()
	m.errorSpike.cancel()
}
