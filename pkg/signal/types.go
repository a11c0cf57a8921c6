package signal

import "strings"

// Kind identifies a normalized interaction.
type Kind string

const (
	KindClick          Kind = "click"
	KindKeyDown        Kind = "keydown"
	KindFocus          Kind = "focus"
	KindBlur           Kind = "blur"
	KindErrorAnnounced Kind = "error_announced"
	KindSubmit         Kind = "submit"
	KindNavigate       Kind = "navigate"
)

// Raw signal types emitted by environments.
const (
	RawClick     = "click"
	RawKeyDown   = "keydown"
	RawFocusIn   = "focusin"
	RawFocusOut  = "focusout"
	RawSubmit    = "submit"
	RawDOMInsert = "dom_insert"
	RawNavigate  = "navigate"
)

var interactiveTags = map[string]bool{
	"BUTTON":   true,
	"A":        true,
	"INPUT":    true,
	"TEXTAREA": true,
	"SELECT":   true,
}

var textInputTypes = map[string]bool{
	"":         true,
	"text":     true,
	"email":    true,
	"password": true,
	"search":   true,
	"tel":      true,
	"url":      true,
	"number":   true,
}

// IsInteractive reports whether clicking the element is expected to do something.
func (el Element) IsInteractive() bool {
	return interactiveTags[strings.ToUpper(el.TagName)] ||
		el.HasClickHandler ||
		strings.EqualFold(el.Role, "button")
}

// IsSubmitControl reports whether the element is, or sits inside, a submit control.
func (el Element) IsSubmitControl() bool {
	return strings.EqualFold(el.Type, "submit") || el.InSubmitButton
}

// IsTextInput reports whether the element accepts typed text.
func (el Element) IsTextInput() bool {
	switch strings.ToUpper(el.TagName) {
	case "TEXTAREA":
		return true
	case "INPUT":
		return textInputTypes[strings.ToLower(el.Type)]
	}
	return false
}

// AnnouncesError reports whether an inserted element is an assertive
// live region or an alert.
func (el Element) AnnouncesError() bool {
	return strings.EqualFold(el.Role, "alert") || strings.EqualFold(el.AriaLive, "assertive")
}
