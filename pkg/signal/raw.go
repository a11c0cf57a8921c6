package signal

import (
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/state"
)

// RawSignal is an environment signal before normalization. Its JSON form is
// what browser hooks and the ingest API send.
type RawSignal struct {
	Type   string   `json:"type"`
	Target *Element `json:"target,omitempty"`

	// TS is the signal time in unix milliseconds; zero means "now".
	TS int64 `json:"ts,omitempty"`

	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`

	Key    string `json:"key,omitempty"`
	AltKey bool   `json:"altKey,omitempty"`

	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`
}

// Element is an environment-neutral description of a DOM node.
type Element struct {
	// NodeID is the opaque identity of the node; empty means unresolvable.
	NodeID string `json:"nodeId"`

	TagName   string `json:"tagName,omitempty"`
	ID        string `json:"id,omitempty"`
	ClassName string `json:"className,omitempty"`
	Role      string `json:"role,omitempty"`
	Type      string `json:"type,omitempty"`
	AriaLive  string `json:"ariaLive,omitempty"`

	HasClickHandler bool `json:"hasClickHandler,omitempty"`
	InSubmitButton  bool `json:"inSubmitButton,omitempty"`
	Detached        bool `json:"detached,omitempty"`

	// ValueLength is the length of an input's value, nil when unknown.
	ValueLength *int `json:"valueLength,omitempty"`
}

// Ref returns the reportable description of the element.
func (el Element) Ref() state.ElementRef {
	return state.ElementRef{
		TagName:   el.TagName,
		ID:        el.ID,
		ClassName: el.ClassName,
		Role:      el.Role,
	}
}

// Time resolves the signal timestamp, falling back to now.
func (r RawSignal) Time(now time.Time) time.Time {
	if r.TS <= 0 {
		return now
	}
	return time.UnixMilli(r.TS)
}

// Position returns the pointer position when both coordinates are present.
func (r RawSignal) Position() *Point {
	if r.X == nil || r.Y == nil {
		return nil
	}
	return &Point{X: *r.X, Y: *r.Y}
}

// ResolveTarget returns the target when it can still be identified.
func (r RawSignal) ResolveTarget() (Element, bool) {
	if r.Target == nil || r.Target.Detached || r.Target.NodeID == "" {
		return Element{}, false
	}
	return *r.Target, true
}
