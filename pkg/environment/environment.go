// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package environment abstracts the page an engine observes.
package environment

import (
	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
	"github.com/AccelByte/extend-struggle-engine/pkg/state"
)

// Handler receives raw signals of one type.
type Handler func(raw signal.RawSignal)

// Environment is the capability an engine needs from its host page.
type Environment interface {
	// Subscribe registers a handler for a raw signal type and returns a
	// function that removes it.
	Subscribe(signalType string, handler Handler) (unsubscribe func())

	// OnReady runs fn once the page can be observed, immediately if it
	// already can.
	OnReady(fn func())

	// Snapshot describes the page at the time of the call.
	Snapshot() Snapshot
}

// Snapshot is the page and device state included in reports.
type Snapshot struct {
	URL           string            `json:"url"`
	Title         string            `json:"title"`
	ActiveElement *state.ElementRef `json:"activeElement,omitempty"`
	UserAgent     string            `json:"userAgent"`
	Screen        Size              `json:"screen"`
	Viewport      Size              `json:"viewport"`
	Language      string            `json:"language"`
}

// Size is a width and height in CSS pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}
