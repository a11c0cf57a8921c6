package builtin

import (
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
)

// FocusInEventProcessor processes focus changes.
type FocusInEventProcessor struct{}

func (p *FocusInEventProcessor) EventType() string {
	return signal.RawFocusIn
}

func (p *FocusInEventProcessor) Process(raw signal.RawSignal, at time.Time) (*signal.Event, bool) {
	ev, ok := targeted(signal.KindFocus, raw)
	if !ok {
		return nil, false
	}
	ev.Timestamp = at
	return ev, true
}

// FocusOutEventProcessor processes blurs.
type FocusOutEventProcessor struct{}

func (p *FocusOutEventProcessor) EventType() string {
	return signal.RawFocusOut
}

func (p *FocusOutEventProcessor) Process(raw signal.RawSignal, at time.Time) (*signal.Event, bool) {
	ev, ok := targeted(signal.KindBlur, raw)
	if !ok {
		return nil, false
	}
	ev.Timestamp = at
	return ev, true
}
