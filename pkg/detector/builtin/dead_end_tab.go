package builtin

import (
	"context"

	"github.com/AccelByte/extend-struggle-engine/pkg/detector"
	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
	"github.com/sirupsen/logrus"
)

const (
	// DeadEndTabDetectorID is the identifier for the dead-end tabbing detector
	DeadEndTabDetectorID = "dead_end_tab"

	DefaultDeadEndTabThreshold = 15
	DefaultDeadEndTabDelta     = 40.0
)

// DeadEndTabDetector fires when focus keeps moving without the user
// getting anywhere. The counter resets after every fire, and optionally
// on clicks and key presses.
type DeadEndTabDetector struct {
	config          detector.DetectorConfig
	threshold       int
	delta           float64
	resetOnActivity bool

	focusCount int
}

// NewDeadEndTabDetector creates a new dead-end tabbing detector.
func NewDeadEndTabDetector(config detector.DetectorConfig) *DeadEndTabDetector {
	return &DeadEndTabDetector{
		config:          config,
		threshold:       config.GetInt("threshold", DefaultDeadEndTabThreshold),
		delta:           config.GetFloat("delta", DefaultDeadEndTabDelta),
		resetOnActivity: config.GetBool("reset_on_activity", false),
	}
}

func (d *DeadEndTabDetector) ID() string                      { return d.config.ID }
func (d *DeadEndTabDetector) Name() string                    { return "Dead-End Tab Detection" }
func (d *DeadEndTabDetector) Config() detector.DetectorConfig { return d.config }

func (d *DeadEndTabDetector) Kinds() []signal.Kind {
	if d.resetOnActivity {
		return []signal.Kind{signal.KindFocus, signal.KindClick, signal.KindKeyDown}
	}
	return []signal.Kind{signal.KindFocus}
}

// Evaluate counts focus changes.
func (d *DeadEndTabDetector) Evaluate(ctx context.Context, ev *signal.Event) (bool, *detector.Trigger, error) {
	if ev.Kind != signal.KindFocus {
		d.focusCount = 0
		return false, nil, nil
	}

	d.focusCount++
	if d.focusCount <= d.threshold {
		return false, nil, nil
	}

	count := d.focusCount
	d.focusCount = 0
	logrus.Infof("dead-end tabbing detected: %d focus changes", count)

	trigger := detector.NewTrigger(d.ID(), "Dead-end tabbing detected", d.delta, d.config.Priority, ev.Timestamp).
		WithMetadata("focus_count", count)
	return true, trigger, nil
}
