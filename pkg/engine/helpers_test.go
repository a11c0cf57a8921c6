// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/clock"
	"github.com/AccelByte/extend-struggle-engine/pkg/report"
	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
	"github.com/AccelByte/extend-struggle-engine/pkg/state"
)

var testEpoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type recordingPresenter struct {
	mu       sync.Mutex
	alerts   []state.AlertLevel
	prompts  []bool
	scores   []int
	outcomes []error
}

func (p *recordingPresenter) ShowAlert(level state.AlertLevel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, level)
}

func (p *recordingPresenter) ShowPrompt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, true)
}

func (p *recordingPresenter) HidePrompt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, false)
}

func (p *recordingPresenter) RenderScore(score int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scores = append(p.scores, score)
}

func (p *recordingPresenter) ReportOutcome(_ report.Trigger, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outcomes = append(p.outcomes, err)
}

func (p *recordingPresenter) alertCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.alerts)
}

type stubTransport struct {
	mu      sync.Mutex
	err     error
	reports []*report.Report
}

func (s *stubTransport) Send(_ context.Context, r *report.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r)
	return s.err
}

func (s *stubTransport) sent() []*report.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*report.Report(nil), s.reports...)
}

type testEngine struct {
	*Engine
	clock     *clock.Fake
	presenter *recordingPresenter
	transport *stubTransport
}

func newTestEngine(t *testing.T, mutate func(cfg *Config)) *testEngine {
	t.Helper()

	cfg := DefaultConfig()
	cfg.TenantID = "tenant-1"
	cfg.SessionID = "session-1"
	if mutate != nil {
		mutate(&cfg)
	}

	clk := clock.NewFake(testEpoch)
	presenter := &recordingPresenter{}
	transport := &stubTransport{}

	e, err := New(cfg, Options{
		Clock:     clk,
		Presenter: presenter,
		Transport: transport,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return &testEngine{Engine: e, clock: clk, presenter: presenter, transport: transport}
}

// bump applies a delta the way a detector trigger is applied.
func (te *testEngine) bump(delta float64) {
	te.accumulator.Apply(delta)
	te.afterMutation(context.Background(), nil)
}

func (te *testEngine) event(kind signal.Kind, target signal.Element) *signal.Event {
	return &signal.Event{
		Kind:      kind,
		TargetID:  target.NodeID,
		Target:    target,
		Timestamp: te.clock.Now(),
	}
}

func (te *testEngine) send(ev *signal.Event) {
	te.HandleEvent(context.Background(), ev)
}

func div(id string) signal.Element {
	return signal.Element{NodeID: "node-" + id, TagName: "DIV", ID: id}
}

func button(id string) signal.Element {
	return signal.Element{NodeID: "node-" + id, TagName: "BUTTON", ID: id}
}

func submitButton(id string) signal.Element {
	return signal.Element{NodeID: "node-" + id, TagName: "BUTTON", ID: id, Type: "submit"}
}

func field(i int) signal.Element {
	id := fmt.Sprintf("field-%d", i)
	return signal.Element{NodeID: "node-" + id, TagName: "INPUT", ID: id, Type: "checkbox"}
}
