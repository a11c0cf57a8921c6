package detector

import (
	"context"
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
)

// Detector recognizes a struggle pattern in the event stream and emits a
// trigger carrying a score delta. Detectors own their private windows and
// counters; one instance serves exactly one session.
type Detector interface {
	// ID returns unique detector identifier.
	ID() string

	// Name returns human-readable detector name.
	Name() string

	// Kinds returns which event kinds this detector handles.
	// An empty slice means the detector handles all kinds.
	Kinds() []signal.Kind

	// Evaluate feeds the event to the detector.
	// Returns true and trigger data if the pattern fired, false otherwise.
	// Returns error only for unexpected failures, not mismatches.
	Evaluate(ctx context.Context, ev *signal.Event) (bool, *Trigger, error)

	// Config returns the detector's configuration.
	Config() DetectorConfig
}

// Trigger represents a detected pattern that adds to the struggle score.
type Trigger struct {
	DetectorID string                 // ID of the detector that fired
	Timestamp  time.Time              // Time of the event that completed the pattern
	Reason     string                 // Human-readable reason
	Delta      float64                // Unscaled score delta
	Priority   int                    // Higher first
	Metadata   map[string]interface{} // Detector-specific evidence

	// SuppressMomentum marks the triggering event as not being forward progress.
	SuppressMomentum bool
}

// NewTrigger creates a new trigger with the given parameters.
func NewTrigger(detectorID, reason string, delta float64, priority int, at time.Time) *Trigger {
	return &Trigger{
		DetectorID: detectorID,
		Timestamp:  at,
		Reason:     reason,
		Delta:      delta,
		Priority:   priority,
		Metadata:   make(map[string]interface{}),
	}
}

// WithMetadata adds metadata to the trigger and returns it for chaining.
func (t *Trigger) WithMetadata(key string, value interface{}) *Trigger {
	t.Metadata[key] = value
	return t
}
