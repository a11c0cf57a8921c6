// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package session

import (
	"sync"

	"github.com/AccelByte/extend-struggle-engine/pkg/report"
	"github.com/AccelByte/extend-struggle-engine/pkg/state"
)

// EntryType names a presentation call queued for the client.
type EntryType string

const (
	EntryShowAlert     EntryType = "show_alert"
	EntryShowPrompt    EntryType = "show_prompt"
	EntryHidePrompt    EntryType = "hide_prompt"
	EntryReportOutcome EntryType = "report_outcome"
)

// maxOutboxEntries bounds the outbox of a client that never collects it.
const maxOutboxEntries = 100

// Entry is one presentation call the client should replay.
type Entry struct {
	Type    EntryType `json:"type"`
	Level   string    `json:"level,omitempty"`
	Score   int       `json:"score"`
	Trigger string    `json:"trigger,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// Outbox is the presenter of a hosted engine. Presentation calls are
// queued and handed to the client with the next ingest response.
type Outbox struct {
	mu      sync.Mutex
	entries []Entry
	score   int
}

// NewOutbox creates an empty outbox.
func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) ShowAlert(level state.AlertLevel) {
	o.push(Entry{Type: EntryShowAlert, Level: level.String()})
}

func (o *Outbox) ShowPrompt() {
	o.push(Entry{Type: EntryShowPrompt})
}

func (o *Outbox) HidePrompt() {
	o.push(Entry{Type: EntryHidePrompt})
}

func (o *Outbox) RenderScore(score int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.score = score
}

func (o *Outbox) ReportOutcome(trigger report.Trigger, err error) {
	entry := Entry{Type: EntryReportOutcome, Trigger: string(trigger)}
	if err != nil {
		entry.Error = err.Error()
	}
	o.push(entry)
}

func (o *Outbox) push(entry Entry) {
	o.mu.Lock()
	defer o.mu.Unlock()

	entry.Score = o.score
	if len(o.entries) == maxOutboxEntries {
		o.entries = o.entries[1:]
	}
	o.entries = append(o.entries, entry)
}

// Drain returns and clears the queued entries. The result is never nil.
func (o *Outbox) Drain() []Entry {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := o.entries
	if out == nil {
		out = []Entry{}
	}
	o.entries = nil
	return out
}

// Score returns the last rendered score.
func (o *Outbox) Score() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.score
}
