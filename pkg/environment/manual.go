// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package environment

import (
	"sync"

	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
)

// Manual is an environment fed programmatically, used by the hosted
// service (signals arrive over HTTP) and by tests.
type Manual struct {
	mu       sync.Mutex
	handlers map[string]map[int]Handler
	nextID   int
	ready    bool
	waiting  []func()
	snapshot Snapshot
}

// NewManual creates a manual environment that is not ready yet.
func NewManual() *Manual {
	return &Manual{
		handlers: make(map[string]map[int]Handler),
	}
}

func (m *Manual) Subscribe(signalType string, handler Handler) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	if m.handlers[signalType] == nil {
		m.handlers[signalType] = make(map[int]Handler)
	}
	m.handlers[signalType][id] = handler

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.handlers[signalType], id)
	}
}

func (m *Manual) OnReady(fn func()) {
	m.mu.Lock()
	if !m.ready {
		m.waiting = append(m.waiting, fn)
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()
	fn()
}

// Ready marks the page observable and runs pending OnReady callbacks.
// Calling it again has no effect.
func (m *Manual) Ready() {
	m.mu.Lock()
	if m.ready {
		m.mu.Unlock()
		return
	}
	m.ready = true
	waiting := m.waiting
	m.waiting = nil
	m.mu.Unlock()

	for _, fn := range waiting {
		fn()
	}
}

func (m *Manual) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.snapshot
	if snap.ActiveElement != nil {
		el := *snap.ActiveElement
		snap.ActiveElement = &el
	}
	return snap
}

// SetSnapshot replaces the page description.
func (m *Manual) SetSnapshot(snap Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = snap
}

// Emit delivers a raw signal to its subscribers. Navigations and focus
// changes also update the snapshot.
func (m *Manual) Emit(raw signal.RawSignal) {
	m.mu.Lock()
	switch raw.Type {
	case signal.RawNavigate:
		if raw.URL != "" {
			m.snapshot.URL = raw.URL
		}
		if raw.Title != "" {
			m.snapshot.Title = raw.Title
		}
	case signal.RawFocusIn:
		if raw.Target != nil {
			ref := raw.Target.Ref()
			m.snapshot.ActiveElement = &ref
		}
	case signal.RawFocusOut:
		m.snapshot.ActiveElement = nil
	}

	handlers := make([]Handler, 0, len(m.handlers[raw.Type]))
	for _, h := range m.handlers[raw.Type] {
		handlers = append(handlers, h)
	}
	m.mu.Unlock()

	for _, h := range handlers {
		h(raw)
	}
}

// UpdatePage replaces the page and device description, keeping the
// tracked active element.
func (m *Manual) UpdatePage(page Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := m.snapshot.ActiveElement
	m.snapshot = page
	m.snapshot.ActiveElement = active
}
