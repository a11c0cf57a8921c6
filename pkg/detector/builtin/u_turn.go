package builtin

import (
	"context"

	"github.com/AccelByte/extend-struggle-engine/pkg/detector"
	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
	"github.com/sirupsen/logrus"
)

const (
	// UTurnDetectorID is the identifier for the U-turn detector
	UTurnDetectorID = "u_turn"

	DefaultUTurnDelta = 30.0

	uTurnLength = 5
)

// UTurnDetector fires when the user retraces their steps: A→B→C→B→A.
// Focus changes are read from the session focus trail; navigations are
// tracked by the detector itself.
type UTurnDetector struct {
	config detector.DetectorConfig
	delta  float64

	navigations []string
}

// NewUTurnDetector creates a new U-turn detector.
func NewUTurnDetector(config detector.DetectorConfig) *UTurnDetector {
	return &UTurnDetector{
		config: config,
		delta:  config.GetFloat("delta", DefaultUTurnDelta),
	}
}

func (d *UTurnDetector) ID() string                      { return d.config.ID }
func (d *UTurnDetector) Name() string                    { return "U-Turn Detection" }
func (d *UTurnDetector) Config() detector.DetectorConfig { return d.config }

func (d *UTurnDetector) Kinds() []signal.Kind {
	return []signal.Kind{signal.KindFocus, signal.KindNavigate}
}

// Evaluate checks the most recent steps for a U-turn.
func (d *UTurnDetector) Evaluate(ctx context.Context, ev *signal.Event) (bool, *detector.Trigger, error) {
	var steps []string

	switch ev.Kind {
	case signal.KindFocus:
		trail := ev.Context().Trail
		if len(trail) > uTurnLength {
			trail = trail[len(trail)-uTurnLength:]
		}
		for _, entry := range trail {
			steps = append(steps, entry.TargetID)
		}
	case signal.KindNavigate:
		d.navigations = append(d.navigations, ev.TargetID)
		if len(d.navigations) > uTurnLength {
			d.navigations = d.navigations[len(d.navigations)-uTurnLength:]
		}
		steps = d.navigations
	}

	if !IsUTurn(steps) {
		return false, nil, nil
	}

	if ev.Kind == signal.KindNavigate {
		d.navigations = nil
	}

	logrus.Infof("u-turn detected: %v", steps)

	trigger := detector.NewTrigger(d.ID(), "U-turn detected", d.delta, d.config.Priority, ev.Timestamp).
		WithMetadata("path", append([]string(nil), steps...))
	return true, trigger, nil
}

// IsUTurn reports whether the last five steps read A→B→C→B→A with A, B
// and C pairwise distinct.
func IsUTurn(steps []string) bool {
	if len(steps) < uTurnLength {
		return false
	}
	s := steps[len(steps)-uTurnLength:]
	a, b, c := s[0], s[1], s[2]
	if a == b || b == c || a == c {
		return false
	}
	return s[3] == b && s[4] == a
}
