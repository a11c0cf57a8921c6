// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/state"
)

// ErrorSensitivityPolicy decides how long an error announcement keeps the
// sensitivity multiplier raised.
type ErrorSensitivityPolicy string

const (
	// ErrorSensitivitySticky keeps the multiplier raised for the life of the engine.
	ErrorSensitivitySticky ErrorSensitivityPolicy = "sticky"
	// ErrorSensitivityTimed lowers it after ErrorSensitivityTTL.
	ErrorSensitivityTimed ErrorSensitivityPolicy = "timed"
)

const (
	DefaultTickInterval                  = time.Second
	DefaultMomentumDelta                 = -10.0
	DefaultMomentumDuration              = 5 * time.Second
	DefaultSensitivityMultiplier         = 2.0
	DefaultSubmissionSensitivityDuration = 30 * time.Second
	DefaultErrorSensitivityTTL           = 30 * time.Second
	DefaultTrailCapacity                 = 50
	DefaultPathCapacity                  = 50
	DefaultPromptShortcut                = "t"
)

// Config holds the init parameters and tuning of one engine.
type Config struct {
	TenantID          string `yaml:"tenant_id"`
	CollectorEndpoint string `yaml:"collector_endpoint"`
	SessionID         string `yaml:"-"`

	Thresholds state.Thresholds `yaml:"thresholds"`
	Drain      state.DrainRates `yaml:"drain"`

	TickInterval     time.Duration `yaml:"tick_interval"`
	MomentumDelta    float64       `yaml:"momentum_delta"`
	MomentumDuration time.Duration `yaml:"momentum_duration"`

	SensitivityMultiplier         float64                `yaml:"sensitivity_multiplier"`
	SubmissionSensitivityDuration time.Duration          `yaml:"submission_sensitivity_duration"`
	ErrorSensitivity              ErrorSensitivityPolicy `yaml:"error_sensitivity"`
	ErrorSensitivityTTL           time.Duration          `yaml:"error_sensitivity_ttl"`

	// RearmOnDecay lets an alert level fire again after the score has
	// decayed below its band. Without it only a delivered report resets alerts.
	RearmOnDecay bool `yaml:"rearm_on_decay"`

	TrailCapacity int `yaml:"trail_capacity"`
	PathCapacity  int `yaml:"path_capacity"`

	// PromptShortcut is the key that opens the prompt together with Alt.
	PromptShortcut string `yaml:"prompt_shortcut"`

	// AlertActions lists the action IDs run when a level is reached.
	AlertActions map[state.AlertLevel][]string `yaml:"-"`
}

// DefaultConfig returns the observed tuning of the engine.
func DefaultConfig() Config {
	return Config{
		Thresholds:                    state.DefaultThresholds(),
		Drain:                         state.DefaultDrainRates(),
		TickInterval:                  DefaultTickInterval,
		MomentumDelta:                 DefaultMomentumDelta,
		MomentumDuration:              DefaultMomentumDuration,
		SensitivityMultiplier:         DefaultSensitivityMultiplier,
		SubmissionSensitivityDuration: DefaultSubmissionSensitivityDuration,
		ErrorSensitivity:              ErrorSensitivitySticky,
		ErrorSensitivityTTL:           DefaultErrorSensitivityTTL,
		TrailCapacity:                 DefaultTrailCapacity,
		PathCapacity:                  DefaultPathCapacity,
		PromptShortcut:                DefaultPromptShortcut,
		AlertActions:                  DefaultAlertActions(),
	}
}

// DefaultAlertActions opens the prompt on both levels.
func DefaultAlertActions() map[state.AlertLevel][]string {
	return map[state.AlertLevel][]string{
		state.AlertLevel1: {"log_alert", "show_prompt"},
		state.AlertLevel2: {"log_alert", "show_prompt"},
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Thresholds.Level1 <= 0 || c.Thresholds.Level2 <= c.Thresholds.Level1 {
		errs = append(errs, fmt.Errorf("thresholds must satisfy 0 < level1 < level2, got %v/%v", c.Thresholds.Level1, c.Thresholds.Level2))
	}
	if c.Drain.Base < 0 || c.Drain.Success < 0 {
		errs = append(errs, errors.New("drain rates must not be negative"))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, errors.New("tick_interval must be positive"))
	}
	if c.MomentumDelta > 0 {
		errs = append(errs, errors.New("momentum_delta must not be positive"))
	}
	if c.MomentumDuration <= 0 || c.SubmissionSensitivityDuration <= 0 {
		errs = append(errs, errors.New("momentum and submission durations must be positive"))
	}
	if c.SensitivityMultiplier < 1 {
		errs = append(errs, errors.New("sensitivity_multiplier must be at least 1"))
	}
	switch c.ErrorSensitivity {
	case ErrorSensitivitySticky:
	case ErrorSensitivityTimed:
		if c.ErrorSensitivityTTL <= 0 {
			errs = append(errs, errors.New("error_sensitivity_ttl must be positive for the timed policy"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown error_sensitivity policy %q", c.ErrorSensitivity))
	}
	if c.TrailCapacity < state.MinTrailCapacity {
		errs = append(errs, fmt.Errorf("trail_capacity must be at least %d", state.MinTrailCapacity))
	}
	if c.PathCapacity < 1 {
		errs = append(errs, errors.New("path_capacity must be positive"))
	}

	return errors.Join(errs...)
}
