// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/report"
	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
	"github.com/AccelByte/extend-struggle-engine/pkg/state"
)

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds = state.Thresholds{Level1: 200, Level2: 100}

	if _, err := New(cfg, Options{}); err == nil {
		t.Fatal("expected error for inverted thresholds")
	}
}

func TestEngine_TickDecayIsMonotoneAndNonNegative(t *testing.T) {
	te := newTestEngine(t, nil)
	te.bump(5)

	expected := []float64{3, 1, 0, 0}
	for i, want := range expected {
		te.Tick(context.Background())
		if got := te.State().Score; got != want {
			t.Fatalf("tick %d: score = %v, expected %v", i+1, got, want)
		}
	}
}

func TestEngine_TickUsesSuccessDrainDuringMomentum(t *testing.T) {
	te := newTestEngine(t, nil)
	te.bump(95)
	te.state.MomentumActive = true

	te.Tick(context.Background())

	if got := te.State().Score; got != 85 {
		t.Errorf("score = %v, expected 85", got)
	}
	if te.presenter.alertCount() != 0 {
		t.Errorf("expected no alert, got %v", te.presenter.alerts)
	}
}

func TestEngine_SensitivityScaling(t *testing.T) {
	te := newTestEngine(t, nil)
	te.state.SensitivityMultiplier = 2

	if applied := te.accumulator.Apply(60); applied != 120 {
		t.Errorf("applied = %v, expected 120", applied)
	}
	if applied := te.accumulator.Apply(-10); applied != -10 {
		t.Errorf("applied = %v, expected -10 unscaled", applied)
	}
	if got := te.State().Score; got != 110 {
		t.Errorf("score = %v, expected 110", got)
	}
}

func TestEngine_AlertsAreEdgeTriggered(t *testing.T) {
	te := newTestEngine(t, nil)

	te.bump(95)
	te.bump(10)
	for i := 0; i < 10; i++ {
		te.bump(2)
		te.Tick(context.Background())
	}

	if got := te.presenter.alerts; len(got) != 1 || got[0] != state.AlertLevel1 {
		t.Fatalf("alerts = %v, expected one level1", got)
	}

	te.bump(100)
	te.bump(5)

	if got := te.presenter.alerts; len(got) != 2 || got[1] != state.AlertLevel2 {
		t.Fatalf("alerts = %v, expected level1 then level2", got)
	}
	if !te.PromptVisible() {
		t.Error("expected show_prompt action to open the prompt")
	}
}

func TestEngine_RearmOnDecay(t *testing.T) {
	te := newTestEngine(t, func(cfg *Config) {
		cfg.RearmOnDecay = true
	})

	te.bump(101)
	for i := 0; i < 2; i++ {
		te.Tick(context.Background())
	}
	te.bump(10)

	if got := te.presenter.alertCount(); got != 2 {
		t.Errorf("alerts = %d, expected level1 to fire again after decay", got)
	}
}

func TestEngine_ManualReportResetsOnSuccess(t *testing.T) {
	te := newTestEngine(t, nil)
	te.bump(250)
	if te.State().AlertLevel != state.AlertLevel2 {
		t.Fatalf("level = %v, expected level2", te.State().AlertLevel)
	}

	var outcome error = errors.New("not called")
	if err := te.ConfirmReport(context.Background(), func(err error) { outcome = err }); err != nil {
		t.Fatalf("ConfirmReport() error = %v", err)
	}

	if outcome != nil {
		t.Fatalf("outcome = %v, expected success", outcome)
	}
	s := te.State()
	if s.Score != 0 || s.AlertLevel != state.AlertNone {
		t.Errorf("state = %+v, expected score 0 and level none", s)
	}
	if te.PromptVisible() {
		t.Error("expected prompt hidden after delivery")
	}

	sent := te.transport.sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d reports, expected 1", len(sent))
	}
	if sent[0].StruggleScore != 250 || sent[0].Description != "Manual user report" {
		t.Errorf("report = %+v", sent[0])
	}
}

func TestEngine_FailedReportKeepsScore(t *testing.T) {
	te := newTestEngine(t, nil)
	te.transport.err = &report.TransportError{StatusCode: 500}
	te.bump(150)

	var outcome error
	if err := te.ConfirmReport(context.Background(), func(err error) { outcome = err }); err != nil {
		t.Fatalf("ConfirmReport() error = %v", err)
	}

	var transportErr *report.TransportError
	if !errors.As(outcome, &transportErr) {
		t.Fatalf("outcome = %v, expected *TransportError", outcome)
	}
	if got := te.State(); got.Score != 150 || got.AlertLevel != state.AlertLevel1 {
		t.Errorf("state = %+v, expected unchanged", got)
	}
	if len(te.presenter.outcomes) != 1 || te.presenter.outcomes[0] == nil {
		t.Errorf("outcomes = %v, expected the failure to be presented", te.presenter.outcomes)
	}
}

func TestEngine_ReportPreconditions(t *testing.T) {
	te := newTestEngine(t, nil)

	var pending func()
	te.spawn = func(f func()) { pending = f }

	if err := te.ConfirmReport(context.Background(), nil); err != nil {
		t.Fatalf("first ConfirmReport() error = %v", err)
	}
	if err := te.ConfirmReport(context.Background(), nil); !errors.Is(err, report.ErrSendInProgress) {
		t.Errorf("second ConfirmReport() error = %v, expected ErrSendInProgress", err)
	}

	pending()
	if err := te.ConfirmReport(context.Background(), nil); err != nil {
		t.Errorf("ConfirmReport() after completion error = %v", err)
	}

	te.Engine.transport = nil
	te.sending = false
	if err := te.ConfirmReport(context.Background(), nil); !errors.Is(err, report.ErrNoTransport) {
		t.Errorf("ConfirmReport() error = %v, expected ErrNoTransport", err)
	}
}

func TestEngine_SubmitClickRestartsMomentumAndRaisesSensitivity(t *testing.T) {
	te := newTestEngine(t, nil)

	te.send(te.event(signal.KindClick, button("next")))
	if !te.State().MomentumActive {
		t.Fatal("expected momentum after a click")
	}
	te.clock.Advance(3 * time.Second)
	te.bump(50)

	te.send(te.event(signal.KindClick, submitButton("save")))

	s := te.State()
	if s.Score != 40 {
		t.Errorf("score = %v, expected the submit click to apply -10", s.Score)
	}
	if !s.MomentumActive {
		t.Error("expected the submit click to start momentum again")
	}
	if want := te.clock.Now().Add(5 * time.Second); !s.MomentumExpiresAt.Equal(want) {
		t.Errorf("momentum expires at %v, expected %v", s.MomentumExpiresAt, want)
	}
	if s.SensitivityMultiplier != 2 {
		t.Errorf("multiplier = %v, expected 2", s.SensitivityMultiplier)
	}
	if want := te.clock.Now().Add(30 * time.Second); !s.SensitivityExpiresAt.Equal(want) {
		t.Errorf("sensitivity expires at %v, expected %v", s.SensitivityExpiresAt, want)
	}

	te.clock.Advance(5 * time.Second)
	if te.State().MomentumActive {
		t.Error("expected momentum to end 5s after the submit click")
	}

	te.clock.Advance(5 * time.Second)
	if s := te.State(); s.MomentumActive || s.SensitivityMultiplier != 2 {
		t.Errorf("after 10s state = %+v, expected no momentum and multiplier 2", s)
	}

	te.clock.Advance(20*time.Second - time.Millisecond)
	if got := te.State().SensitivityMultiplier; got != 2 {
		t.Errorf("multiplier just before expiry = %v, expected 2", got)
	}

	te.clock.Advance(time.Millisecond)
	if got := te.State().SensitivityMultiplier; got != 1 {
		t.Errorf("multiplier after expiry = %v, expected 1", got)
	}
}

func TestEngine_ResubmitRestartsSensitivityWindow(t *testing.T) {
	te := newTestEngine(t, nil)

	te.send(te.event(signal.KindSubmit, signal.Element{NodeID: "form", TagName: "FORM"}))
	te.clock.Advance(20 * time.Second)
	te.send(te.event(signal.KindSubmit, signal.Element{NodeID: "form", TagName: "FORM"}))
	te.clock.Advance(20 * time.Second)

	if got := te.State().SensitivityMultiplier; got != 2 {
		t.Errorf("multiplier = %v, expected the second submit to extend the window", got)
	}

	te.clock.Advance(10 * time.Second)
	if got := te.State().SensitivityMultiplier; got != 1 {
		t.Errorf("multiplier = %v, expected 1", got)
	}
}

func TestEngine_ErrorSensitivityPolicies(t *testing.T) {
	alert := signal.Element{NodeID: "err", TagName: "DIV", Role: "alert"}
	form := signal.Element{NodeID: "form", TagName: "FORM"}

	tests := []struct {
		name     string
		policy   ErrorSensitivityPolicy
		expected float64
	}{
		{name: "sticky outlives submission window", policy: ErrorSensitivitySticky, expected: 2},
		{name: "timed expires", policy: ErrorSensitivityTimed, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := newTestEngine(t, func(cfg *Config) {
				cfg.ErrorSensitivity = tt.policy
				cfg.ErrorSensitivityTTL = 10 * time.Second
			})

			te.send(te.event(signal.KindErrorAnnounced, alert))
			te.send(te.event(signal.KindSubmit, form))
			if got := te.State().SensitivityMultiplier; got != 2 {
				t.Fatalf("multiplier = %v, expected 2", got)
			}

			te.clock.Advance(time.Minute)
			if got := te.State().SensitivityMultiplier; got != tt.expected {
				t.Errorf("multiplier = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestEngine_MomentumRearms(t *testing.T) {
	te := newTestEngine(t, nil)
	key := signal.Element{NodeID: "body", TagName: "BODY"}

	keydown := te.event(signal.KindKeyDown, key)
	keydown.Key = "a"
	te.send(keydown)

	te.clock.Advance(3 * time.Second)
	keydown = te.event(signal.KindKeyDown, key)
	keydown.Key = "b"
	te.send(keydown)

	te.clock.Advance(2 * time.Second)
	if !te.State().MomentumActive {
		t.Fatal("expected momentum to be re-armed by the second key")
	}

	te.clock.Advance(3 * time.Second)
	if te.State().MomentumActive {
		t.Error("expected momentum to expire 5s after the last key")
	}
}

func TestEngine_RageClickSuppressesMomentum(t *testing.T) {
	te := newTestEngine(t, nil)
	target := div("banner")

	for i := 0; i < 6; i++ {
		te.send(te.event(signal.KindClick, target))
		te.clock.Advance(100 * time.Millisecond)
	}

	if got := te.State().Score; got != 60 {
		t.Errorf("score = %v, expected 60 with no momentum credit for the rage click", got)
	}
}

func TestEngine_DeadEndTabbing(t *testing.T) {
	te := newTestEngine(t, nil)

	for i := 0; i < 15; i++ {
		te.send(te.event(signal.KindFocus, field(i)))
	}
	if got := te.State().Score; got != 0 {
		t.Fatalf("score after 15 focus changes = %v, expected 0", got)
	}

	te.send(te.event(signal.KindFocus, field(15)))
	if got := te.State().Score; got != 40 {
		t.Errorf("score after 16th focus = %v, expected 40", got)
	}
	if got := len(te.path.Steps()); got != 16 {
		t.Errorf("path length = %d, expected 16", got)
	}
}

func TestEngine_PromptShortcut(t *testing.T) {
	te := newTestEngine(t, nil)

	ev := te.event(signal.KindKeyDown, signal.Element{NodeID: "body", TagName: "BODY"})
	ev.Key = "T"
	ev.Alt = true
	te.send(ev)

	if !te.PromptVisible() {
		t.Error("expected Alt+T to open the prompt")
	}
	if !te.State().MomentumActive {
		t.Error("expected the shortcut to still count as momentum")
	}

	te.send(ev)
	if te.PromptVisible() {
		t.Error("expected a second Alt+T to close the prompt")
	}
	if got := te.presenter.prompts; len(got) != 2 || !got[0] || got[1] {
		t.Errorf("prompt calls = %v, expected [true false]", got)
	}
}

func TestEngine_ReportCarriesTrailAndPath(t *testing.T) {
	te := newTestEngine(t, nil)

	nav := te.event(signal.KindNavigate, signal.Element{NodeID: "https://shop.test/cart", TagName: "DOCUMENT"})
	nav.URL = "https://shop.test/cart"
	te.send(nav)
	for i := 0; i < 7; i++ {
		te.send(te.event(signal.KindFocus, field(i)))
	}

	if err := te.ConfirmReport(context.Background(), nil); err != nil {
		t.Fatalf("ConfirmReport() error = %v", err)
	}

	r := te.transport.sent()[0]
	if got := len(r.Context.FocusHistory); got != report.FocusHistoryLength {
		t.Errorf("focus history = %d entries, expected %d", got, report.FocusHistoryLength)
	}
	if got := r.BehavioralTrace; len(got) != 8 || got[0] != "https://shop.test/cart" || got[1] != "input#field-0" {
		t.Errorf("behavioral trace = %v", got)
	}
	if r.TenantID != "tenant-1" {
		t.Errorf("tenant = %q", r.TenantID)
	}
}

func TestEngine_SnapshotRestore(t *testing.T) {
	te := newTestEngine(t, nil)
	te.bump(120)
	te.send(te.event(signal.KindFocus, field(1)))
	te.send(te.event(signal.KindSubmit, signal.Element{NodeID: "form", TagName: "FORM"}))
	te.clock.Advance(10 * time.Second)

	snap := te.Snapshot()

	restored := newTestEngine(t, nil)
	restored.clock.Advance(10 * time.Second)
	restored.Restore(snap)

	s := restored.State()
	if s.AlertLevel != state.AlertLevel1 || s.SensitivityMultiplier != 2 || s.MomentumActive {
		t.Fatalf("restored state = %+v", s)
	}
	if restored.trail.Len() != 1 {
		t.Errorf("trail length = %d, expected 1", restored.trail.Len())
	}

	restored.clock.Advance(20 * time.Second)
	if got := restored.State().SensitivityMultiplier; got != 1 {
		t.Errorf("multiplier = %v, expected the remaining window to expire", got)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		el       signal.Element
		expected string
	}{
		{el: signal.Element{NodeID: "n1", TagName: "INPUT", ID: "email"}, expected: "input#email"},
		{el: signal.Element{NodeID: "n2", TagName: "DIV", ClassName: "card  big"}, expected: "div.card.big"},
		{el: signal.Element{NodeID: "n3", TagName: "SPAN"}, expected: "span"},
		{el: signal.Element{NodeID: "n4"}, expected: "n4"},
	}

	for _, tt := range tests {
		if got := describe(tt.el); got != tt.expected {
			t.Errorf("describe(%+v) = %q, expected %q", tt.el, got, tt.expected)
		}
	}
}
