package signal

import (
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/state"
)

// Event is a normalized interaction produced by the Normalizer from a raw
// environment signal. Events are consumed synchronously by the detector
// engine and the accumulator and are never persisted.
type Event struct {
	Kind      Kind
	TargetID  string
	Target    Element
	Timestamp time.Time

	// Position is set for pointer events.
	Position *Point

	// Key and Alt are set for key presses.
	Key string
	Alt bool

	// URL and Title are set for navigations.
	URL   string
	Title string

	context *SessionContext
}

// Point is a pointer position in CSS pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SessionContext gives detectors read-only access to engine-owned history.
type SessionContext struct {
	SessionID string
	TenantID  string

	// Trail is a copy of the focus trail after this event was recorded.
	Trail []state.FocusEntry
}

// Context returns the session context attached by the engine, never nil.
func (e *Event) Context() *SessionContext {
	if e.context == nil {
		return &SessionContext{}
	}
	return e.context
}

// WithContext attaches a session context and returns the event for chaining.
func (e *Event) WithContext(ctx *SessionContext) *Event {
	e.context = ctx
	return e
}

// Ref returns the reportable description of the event target.
func (e *Event) Ref() state.ElementRef {
	return e.Target.Ref()
}

// IsDeletion reports whether the key press removes text.
func (e *Event) IsDeletion() bool {
	return e.Kind == KindKeyDown && (e.Key == "Backspace" || e.Key == "Delete")
}

// IsSubmission reports whether the event submits a form, either directly or
// through a click on a submit control.
func (e *Event) IsSubmission() bool {
	if e.Kind == KindSubmit {
		return true
	}
	return e.Kind == KindClick && e.Target.IsSubmitControl()
}
