package builtin

import (
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
)

// KeyDownEventProcessor processes key presses. Keys pressed with no
// focused element are attributed to the document body.
type KeyDownEventProcessor struct{}

func (p *KeyDownEventProcessor) EventType() string {
	return signal.RawKeyDown
}

func (p *KeyDownEventProcessor) Process(raw signal.RawSignal, at time.Time) (*signal.Event, bool) {
	if raw.Target == nil {
		raw.Target = &signal.Element{NodeID: "body", TagName: "BODY"}
	}

	ev, ok := targeted(signal.KindKeyDown, raw)
	if !ok {
		return nil, false
	}
	ev.Timestamp = at
	ev.Key = raw.Key
	ev.Alt = raw.AltKey
	return ev, true
}
