// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"github.com/sirupsen/logrus"
)

const (
	// DefaultBaseDecayRate is the drain in points per second outside momentum.
	DefaultBaseDecayRate = 2.0
	// DefaultSuccessDrainRate is the drain in points per second while momentum is active.
	DefaultSuccessDrainRate = 10.0
	// DefaultLevel1Threshold is the lower bound of the Level1 band.
	DefaultLevel1Threshold = 100.0
	// DefaultLevel2Threshold is the lower bound of the Level2 band.
	DefaultLevel2Threshold = 200.0
)

// Thresholds are the lower bounds of the alert bands.
type Thresholds struct {
	Level1 float64 `yaml:"level1" json:"level1"`
	Level2 float64 `yaml:"level2" json:"level2"`
}

// DefaultThresholds returns the [100, 200) / [200, ∞) bands.
func DefaultThresholds() Thresholds {
	return Thresholds{Level1: DefaultLevel1Threshold, Level2: DefaultLevel2Threshold}
}

// DrainRates holds the two mutually exclusive decay regimes.
type DrainRates struct {
	Base    float64 `yaml:"base" json:"base"`
	Success float64 `yaml:"success" json:"success"`
}

// DefaultDrainRates returns 2/s baseline and 10/s during momentum.
func DefaultDrainRates() DrainRates {
	return DrainRates{Base: DefaultBaseDecayRate, Success: DefaultSuccessDrainRate}
}

// Drain applies dtSeconds of leak to the score and returns the amount removed.
// Exactly one of the two rates applies, depending on momentum.
func Drain(s *ScoreState, dtSeconds float64, rates DrainRates) float64 {
	rate := rates.Base
	if s.MomentumActive {
		rate = rates.Success
	}

	before := s.Score
	s.Score = clampScore(s.Score - rate*dtSeconds)
	return before - s.Score
}

// ApplyDelta adds a detector or momentum delta to the score.
// Positive deltas are scaled by the sensitivity multiplier, negative ones are not.
// Returns the delta actually applied after scaling.
func ApplyDelta(s *ScoreState, delta float64) float64 {
	adjusted := delta
	if delta > 0 {
		adjusted = delta * multiplier(s)
	}

	s.Score = clampScore(s.Score + adjusted)
	return adjusted
}

// EvaluateAlert moves the alert level after a score mutation.
// It returns the new level and whether an upward crossing happened that
// must be announced. Levels only fall when rearm is set; otherwise the
// caller resets them through ResetScore.
func EvaluateAlert(s *ScoreState, t Thresholds, rearm bool) (AlertLevel, bool) {
	if rearm {
		switch {
		case s.Score < t.Level1 && s.AlertLevel != AlertNone:
			logrus.Debugf("score %.1f fell below level1 band, rearming alerts", s.Score)
			s.AlertLevel = AlertNone
		case s.Score < t.Level2 && s.AlertLevel == AlertLevel2:
			logrus.Debugf("score %.1f fell below level2 band, rearming level2", s.Score)
			s.AlertLevel = AlertLevel1
		}
	}

	if s.Score >= t.Level2 && s.AlertLevel < AlertLevel2 {
		s.AlertLevel = AlertLevel2
		return s.AlertLevel, true
	}

	if s.Score >= t.Level1 && s.Score < t.Level2 && s.AlertLevel == AlertNone {
		s.AlertLevel = AlertLevel1
		return s.AlertLevel, true
	}

	return s.AlertLevel, false
}

// ResetScore zeroes the score and returns the alert level to None.
func ResetScore(s *ScoreState) {
	s.Score = 0
	s.AlertLevel = AlertNone
}

func multiplier(s *ScoreState) float64 {
	if s.SensitivityMultiplier < 1 {
		return 1
	}
	return s.SensitivityMultiplier
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
