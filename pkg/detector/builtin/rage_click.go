package builtin

import (
	"context"
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/detector"
	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
	"github.com/sirupsen/logrus"
)

const (
	// RageClickDetectorID is the identifier for the rage click detector
	RageClickDetectorID = "rage_click"

	DefaultRageClickWindow    = 2000 * time.Millisecond
	DefaultRageClickThreshold = 5
	DefaultRageClickDelta     = 60.0
)

type clickEntry struct {
	at     time.Time
	target string
}

// RageClickDetector fires when a non-interactive element is clicked more
// than threshold times within the window.
type RageClickDetector struct {
	config    detector.DetectorConfig
	window    time.Duration
	threshold int
	delta     float64

	clicks []clickEntry
}

// NewRageClickDetector creates a new rage click detector.
func NewRageClickDetector(config detector.DetectorConfig) *RageClickDetector {
	return &RageClickDetector{
		config:    config,
		window:    config.GetDuration("window", DefaultRageClickWindow),
		threshold: config.GetInt("threshold", DefaultRageClickThreshold),
		delta:     config.GetFloat("delta", DefaultRageClickDelta),
	}
}

func (d *RageClickDetector) ID() string                      { return d.config.ID }
func (d *RageClickDetector) Name() string                    { return "Rage Click Detection" }
func (d *RageClickDetector) Kinds() []signal.Kind            { return []signal.Kind{signal.KindClick} }
func (d *RageClickDetector) Config() detector.DetectorConfig { return d.config }

// Evaluate records the click and checks the burst on its target.
func (d *RageClickDetector) Evaluate(ctx context.Context, ev *signal.Event) (bool, *detector.Trigger, error) {
	if ev.Target.IsInteractive() {
		return false, nil, nil
	}

	d.prune(ev.Timestamp)
	d.clicks = append(d.clicks, clickEntry{at: ev.Timestamp, target: ev.TargetID})

	count := 0
	for _, c := range d.clicks {
		if c.target == ev.TargetID {
			count++
		}
	}

	if count <= d.threshold {
		return false, nil, nil
	}

	d.forget(ev.TargetID)
	logrus.Infof("rage click detected on %s: %d clicks within %v", ev.TargetID, count, d.window)

	trigger := detector.NewTrigger(d.ID(), "Rage click detected", d.delta, d.config.Priority, ev.Timestamp).
		WithMetadata("target_id", ev.TargetID).
		WithMetadata("click_count", count)
	trigger.SuppressMomentum = true

	return true, trigger, nil
}

// prune drops clicks that are a full window old or older.
func (d *RageClickDetector) prune(now time.Time) {
	kept := d.clicks[:0]
	for _, c := range d.clicks {
		if now.Sub(c.at) < d.window {
			kept = append(kept, c)
		}
	}
	d.clicks = kept
}

func (d *RageClickDetector) forget(target string) {
	kept := d.clicks[:0]
	for _, c := range d.clicks {
		if c.target != target {
			kept = append(kept, c)
		}
	}
	d.clicks = kept
}
