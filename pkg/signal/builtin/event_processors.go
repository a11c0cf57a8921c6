package builtin

import (
	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
)

// RegisterEventProcessors registers all built-in event processors.
func RegisterEventProcessors(registry *signal.EventProcessorRegistry) {
	registry.Register(&ClickEventProcessor{})
	registry.Register(&KeyDownEventProcessor{})
	registry.Register(&FocusInEventProcessor{})
	registry.Register(&FocusOutEventProcessor{})
	registry.Register(&SubmitEventProcessor{})
	registry.Register(&DOMInsertEventProcessor{})
	registry.Register(&NavigateEventProcessor{})
}

// targeted builds an event for signals that need a resolvable target.
func targeted(kind signal.Kind, raw signal.RawSignal) (*signal.Event, bool) {
	target, ok := raw.ResolveTarget()
	if !ok {
		return nil, false
	}
	return &signal.Event{
		Kind:     kind,
		TargetID: target.NodeID,
		Target:   target,
	}, true
}
