package signal

import (
	"github.com/AccelByte/extend-struggle-engine/pkg/clock"

	"github.com/sirupsen/logrus"
)

// Normalizer converts raw environment signals into Events.
// Translation is pure: signals that cannot be resolved are dropped, never errors.
type Normalizer struct {
	registry *EventProcessorRegistry
	clock    clock.Clock
}

// NewNormalizer creates a normalizer with an empty processor registry.
func NewNormalizer(clk clock.Clock) *Normalizer {
	return &Normalizer{
		registry: NewEventProcessorRegistry(),
		clock:    clk,
	}
}

// GetEventProcessorRegistry returns the registry for registering processors.
func (n *Normalizer) GetEventProcessorRegistry() *EventProcessorRegistry {
	return n.registry
}

// Normalize translates a raw signal. ok is false when the signal is dropped.
func (n *Normalizer) Normalize(raw RawSignal) (*Event, bool) {
	processor := n.registry.Get(raw.Type)
	if processor == nil {
		logrus.Debugf("dropping raw signal of unknown type '%s'", raw.Type)
		return nil, false
	}

	ev, ok := processor.Process(raw, raw.Time(n.clock.Now()))
	if !ok {
		logrus.Debugf("dropping unresolvable '%s' signal", raw.Type)
		return nil, false
	}

	return ev, true
}
