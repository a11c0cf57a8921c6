package signal

import (
	"sync"
	"time"
)

// EventProcessor translates one raw signal type into an Event.
// Implementations return ok=false to drop the signal.
type EventProcessor interface {
	// EventType returns the raw signal type this processor handles.
	// Examples: "click", "focusin", "dom_insert"
	EventType() string

	// Process converts a raw signal observed at the given time.
	Process(raw RawSignal, at time.Time) (*Event, bool)
}

// EventProcessorRegistry manages registered event processors.
type EventProcessorRegistry struct {
	mu         sync.RWMutex
	processors map[string]EventProcessor
}

// NewEventProcessorRegistry creates a new event processor registry.
func NewEventProcessorRegistry() *EventProcessorRegistry {
	return &EventProcessorRegistry{
		processors: make(map[string]EventProcessor),
	}
}

// Register adds an event processor to the registry.
// A processor for the same type is replaced.
func (r *EventProcessorRegistry) Register(processor EventProcessor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processors[processor.EventType()] = processor
}

// Get retrieves an event processor by raw type.
func (r *EventProcessorRegistry) Get(eventType string) EventProcessor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.processors[eventType]
}

// Types returns the raw types with a registered processor.
func (r *EventProcessorRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.processors))
	for k := range r.processors {
		result = append(result, k)
	}
	return result
}

// Count returns the number of registered event processors.
func (r *EventProcessorRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.processors)
}
