package builtin

import (
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
)

// ClickEventProcessor processes pointer clicks.
type ClickEventProcessor struct{}

func (p *ClickEventProcessor) EventType() string {
	return signal.RawClick
}

func (p *ClickEventProcessor) Process(raw signal.RawSignal, at time.Time) (*signal.Event, bool) {
	ev, ok := targeted(signal.KindClick, raw)
	if !ok {
		return nil, false
	}
	ev.Timestamp = at
	ev.Position = raw.Position()
	return ev, true
}
