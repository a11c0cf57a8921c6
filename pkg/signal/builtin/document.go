package builtin

import (
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
)

// SubmitEventProcessor processes form submissions.
type SubmitEventProcessor struct{}

func (p *SubmitEventProcessor) EventType() string {
	return signal.RawSubmit
}

func (p *SubmitEventProcessor) Process(raw signal.RawSignal, at time.Time) (*signal.Event, bool) {
	ev, ok := targeted(signal.KindSubmit, raw)
	if !ok {
		return nil, false
	}
	ev.Timestamp = at
	return ev, true
}

// DOMInsertEventProcessor turns inserted alert regions into error announcements.
// Any other insertion is dropped.
type DOMInsertEventProcessor struct{}

func (p *DOMInsertEventProcessor) EventType() string {
	return signal.RawDOMInsert
}

func (p *DOMInsertEventProcessor) Process(raw signal.RawSignal, at time.Time) (*signal.Event, bool) {
	ev, ok := targeted(signal.KindErrorAnnounced, raw)
	if !ok || !ev.Target.AnnouncesError() {
		return nil, false
	}
	ev.Timestamp = at
	return ev, true
}

// NavigateEventProcessor processes page or route changes. The URL is the identity.
type NavigateEventProcessor struct{}

func (p *NavigateEventProcessor) EventType() string {
	return signal.RawNavigate
}

func (p *NavigateEventProcessor) Process(raw signal.RawSignal, at time.Time) (*signal.Event, bool) {
	if raw.URL == "" {
		return nil, false
	}
	return &signal.Event{
		Kind:      signal.KindNavigate,
		TargetID:  raw.URL,
		Target:    signal.Element{NodeID: raw.URL, TagName: "DOCUMENT"},
		Timestamp: at,
		URL:       raw.URL,
		Title:     raw.Title,
	}, true
}
