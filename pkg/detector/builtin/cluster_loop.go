package builtin

import (
	"context"
	"math"
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/detector"
	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
	"github.com/sirupsen/logrus"
)

const (
	// ClusterLoopDetectorID is the identifier for the cluster loop detector
	ClusterLoopDetectorID = "cluster_loop"

	DefaultClusterLoopWindow   = 5000 * time.Millisecond
	DefaultClusterLoopRadius   = 300.0
	DefaultClusterLoopMinCount = 5
	DefaultClusterLoopDelta    = 15.0
)

type positionedEntry struct {
	at  time.Time
	pos signal.Point
}

// ClusterLoopDetector fires when the pointer keeps landing in the same
// screen region across different targets.
type ClusterLoopDetector struct {
	config   detector.DetectorConfig
	window   time.Duration
	radius   float64
	minCount int
	delta    float64

	entries []positionedEntry
}

// NewClusterLoopDetector creates a new cluster loop detector.
func NewClusterLoopDetector(config detector.DetectorConfig) *ClusterLoopDetector {
	return &ClusterLoopDetector{
		config:   config,
		window:   config.GetDuration("window", DefaultClusterLoopWindow),
		radius:   config.GetFloat("radius", DefaultClusterLoopRadius),
		minCount: config.GetInt("min_count", DefaultClusterLoopMinCount),
		delta:    config.GetFloat("delta", DefaultClusterLoopDelta),
	}
}

func (d *ClusterLoopDetector) ID() string                      { return d.config.ID }
func (d *ClusterLoopDetector) Name() string                    { return "Cluster Loop Detection" }
func (d *ClusterLoopDetector) Kinds() []signal.Kind            { return []signal.Kind{signal.KindClick} }
func (d *ClusterLoopDetector) Config() detector.DetectorConfig { return d.config }

// Evaluate records the pointer position and checks its neighbourhood.
func (d *ClusterLoopDetector) Evaluate(ctx context.Context, ev *signal.Event) (bool, *detector.Trigger, error) {
	if ev.Position == nil {
		return false, nil, nil
	}

	kept := d.entries[:0]
	for _, e := range d.entries {
		if ev.Timestamp.Sub(e.at) <= d.window {
			kept = append(kept, e)
		}
	}
	d.entries = append(kept, positionedEntry{at: ev.Timestamp, pos: *ev.Position})

	near := 0
	for _, e := range d.entries {
		if d.within(e.pos, *ev.Position) {
			near++
		}
	}

	if near < d.minCount {
		return false, nil, nil
	}

	far := d.entries[:0]
	for _, e := range d.entries {
		if !d.within(e.pos, *ev.Position) {
			far = append(far, e)
		}
	}
	d.entries = far

	logrus.Infof("cluster loop detected: %d clicks within %.0fpx of (%.0f,%.0f)",
		near, d.radius, ev.Position.X, ev.Position.Y)

	trigger := detector.NewTrigger(d.ID(), "Cluster loop detected", d.delta, d.config.Priority, ev.Timestamp).
		WithMetadata("cluster_size", near).
		WithMetadata("x", ev.Position.X).
		WithMetadata("y", ev.Position.Y)
	return true, trigger, nil
}

func (d *ClusterLoopDetector) within(a, b signal.Point) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= d.radius
}
