// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package report

import (
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/state"
)

// Trigger identifies what caused a report to be sent.
type Trigger string

const (
	TriggerManual Trigger = "manual"
	TriggerAuto   Trigger = "auto"
)

// Description returns the human-readable description sent with the report.
func (t Trigger) Description() string {
	if t == TriggerManual {
		return "Manual user report"
	}
	return "Auto-triggered alert"
}

// FocusHistoryLength is the number of trail entries included in a report.
const FocusHistoryLength = 5

// Report is the evidence payload sent to the collector. A report is built
// once and never mutated; retries resend the same value.
type Report struct {
	// ID is sent as the Idempotency-Key header, not in the body.
	ID      string  `json:"-"`
	Trigger Trigger `json:"-"`

	TenantID        string   `json:"tenantId"`
	Timestamp       string   `json:"timestamp"`
	URL             string   `json:"url"`
	StruggleScore   int      `json:"struggleScore"`
	Description     string   `json:"description"`
	BehavioralTrace []string `json:"behavioralTrace"`
	Context         Context  `json:"context"`
	Metadata        Metadata `json:"metadata"`
}

// Context describes where the user was when the report was built.
type Context struct {
	ActiveElement ActiveElement `json:"activeElement"`
	PageTitle     string        `json:"pageTitle"`
	FocusHistory  []FocusItem   `json:"focusHistory"`
}

// ActiveElement is the focused element. Missing attributes are null.
type ActiveElement struct {
	TagName   *string `json:"tagName"`
	ID        *string `json:"id"`
	ClassName *string `json:"className"`
	Role      *string `json:"role"`
}

// FocusItem is one focus trail entry.
type FocusItem struct {
	Time    int64            `json:"time"`
	Element state.ElementRef `json:"element"`
}

// Metadata describes the device.
type Metadata struct {
	UserAgent    string `json:"userAgent"`
	ScreenSize   Size   `json:"screenSize"`
	ViewportSize Size   `json:"viewportSize"`
	Language     string `json:"language"`
	Timestamp    int64  `json:"timestamp"`
}

// Size is a width and height in CSS pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Page is the environment snapshot a report is built from.
type Page struct {
	URL           string
	Title         string
	ActiveElement *state.ElementRef
	UserAgent     string
	Screen        Size
	Viewport      Size
	Language      string
}

func newActiveElement(ref *state.ElementRef) ActiveElement {
	if ref == nil {
		return ActiveElement{}
	}
	return ActiveElement{
		TagName:   optional(ref.TagName),
		ID:        optional(ref.ID),
		ClassName: optional(ref.ClassName),
		Role:      optional(ref.Role),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
