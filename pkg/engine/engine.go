// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package engine turns normalized interaction events into a struggle score,
// raises alerts when the score crosses its bands and sends struggle reports.
package engine

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/action"
	actionbuiltin "github.com/AccelByte/extend-struggle-engine/pkg/action/builtin"
	"github.com/AccelByte/extend-struggle-engine/pkg/clock"
	"github.com/AccelByte/extend-struggle-engine/pkg/detector"
	detectorbuiltin "github.com/AccelByte/extend-struggle-engine/pkg/detector/builtin"
	"github.com/AccelByte/extend-struggle-engine/pkg/environment"
	"github.com/AccelByte/extend-struggle-engine/pkg/report"
	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
	signalbuiltin "github.com/AccelByte/extend-struggle-engine/pkg/signal/builtin"
	"github.com/AccelByte/extend-struggle-engine/pkg/state"
	"github.com/sirupsen/logrus"
)

// Options carries the collaborators of an engine. Nil fields get defaults:
// the real clock, no-op presentation, the built-in detectors and actions
// and an HTTP transport when a collector endpoint is configured.
type Options struct {
	Clock       clock.Clock
	Environment environment.Environment
	Presenter   Presenter
	Observer    Observer
	Transport   report.Transport
	Normalizer  *signal.Normalizer
	Detectors   *detector.Registry
	Actions     *action.Registry
}

// Engine is the synchronous core of one observed page. It is not safe for
// concurrent use; drive it from a single goroutine, usually through a Loop.
type Engine struct {
	cfg        Config
	clock      clock.Clock
	env        environment.Environment
	presenter  Presenter
	observer   Observer
	transport  report.Transport
	normalizer *signal.Normalizer
	detectors  *detector.Engine
	dispatcher *Dispatcher
	builder    *report.Builder

	state *state.ScoreState
	trail *state.FocusTrail
	path  *state.Path

	sched       *scheduler
	accumulator *Accumulator
	modulator   *Modulator

	// spawn runs a report send. Synchronous unless a Loop installs a goroutine.
	spawn func(func())
	// baseCtx scopes sends started by alert actions.
	baseCtx context.Context

	sending       bool
	promptVisible bool
}

// New creates an engine for one page.
func New(cfg Config, opts Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	if opts.Clock == nil {
		opts.Clock = clock.NewReal()
	}
	if opts.Presenter == nil {
		opts.Presenter = NopPresenter{}
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Normalizer == nil {
		opts.Normalizer = signal.NewNormalizer(opts.Clock)
		signalbuiltin.RegisterEventProcessors(opts.Normalizer.GetEventProcessorRegistry())
	}
	if opts.Detectors == nil {
		registry, err := defaultDetectors()
		if err != nil {
			return nil, err
		}
		opts.Detectors = registry
	}
	if opts.Actions == nil {
		registry, err := defaultActions()
		if err != nil {
			return nil, err
		}
		opts.Actions = registry
	}
	if opts.Transport == nil && cfg.CollectorEndpoint != "" {
		opts.Transport = report.NewHTTPTransport(report.HTTPTransportConfig{Endpoint: cfg.CollectorEndpoint})
	}
	if cfg.AlertActions == nil {
		cfg.AlertActions = DefaultAlertActions()
	}

	e := &Engine{
		cfg:        cfg,
		clock:      opts.Clock,
		env:        opts.Environment,
		presenter:  opts.Presenter,
		observer:   opts.Observer,
		transport:  opts.Transport,
		normalizer: opts.Normalizer,
		detectors:  detector.NewEngine(opts.Detectors),
		builder:    report.NewBuilder(cfg.TenantID, opts.Clock),
		state:      state.NewScoreState(),
		trail:      state.NewFocusTrail(cfg.TrailCapacity),
		path:       state.NewPath(cfg.PathCapacity),
		spawn:      func(f func()) { f() },
		baseCtx:    context.Background(),
	}
	e.dispatcher = NewDispatcher(action.NewExecutor(opts.Actions), cfg.AlertActions, e.presenter, e.observer)
	e.sched = &scheduler{clock: e.clock, post: func(f func()) { f() }}
	e.accumulator = NewAccumulator(e.state, cfg, e.sched)
	e.modulator = NewModulator(e.state, cfg, e.sched)

	return e, nil
}

func defaultDetectors() (*detector.Registry, error) {
	detectorbuiltin.RegisterBuiltinDetectors()
	registry := detector.NewRegistry()
	if err := detector.RegisterDetectors(registry, detectorbuiltin.DefaultConfigs()); err != nil {
		return nil, fmt.Errorf("failed to register built-in detectors: %w", err)
	}
	return registry, nil
}

func defaultActions() (*action.Registry, error) {
	actionbuiltin.RegisterActions()
	registry := action.NewRegistry()
	if err := action.RegisterActions(registry, actionbuiltin.DefaultConfigs()); err != nil {
		return nil, fmt.Errorf("failed to register built-in actions: %w", err)
	}
	return registry, nil
}

// Config returns the configuration the engine runs with.
func (e *Engine) Config() Config {
	return e.cfg
}

// RawTypes lists the raw signal types the engine's normalizer understands.
func (e *Engine) RawTypes() []string {
	return e.normalizer.GetEventProcessorRegistry().Types()
}

// HandleSignal normalizes a raw signal and processes the resulting event.
// Signals that cannot be normalized are dropped.
func (e *Engine) HandleSignal(ctx context.Context, raw signal.RawSignal) {
	ev, ok := e.normalizer.Normalize(raw)
	if !ok {
		return
	}
	e.HandleEvent(ctx, ev)
}

// HandleEvent runs one event to completion: the trail is recorded, the
// detectors evaluate it, sensitivity is modulated, deltas are applied and
// momentum is credited.
func (e *Engine) HandleEvent(ctx context.Context, ev *signal.Event) {
	switch ev.Kind {
	case signal.KindFocus:
		e.trail.Push(state.FocusEntry{
			Timestamp: ev.Timestamp,
			TargetID:  ev.TargetID,
			Element:   ev.Ref(),
		})
		e.path.Visit(describe(ev.Target))
	case signal.KindNavigate:
		e.path.Visit(ev.URL)
	}

	ev.WithContext(signal.BuildSessionContext(e.cfg.SessionID, e.cfg.TenantID, e.trail))

	triggers, err := e.detectors.Evaluate(ctx, ev)
	if err != nil {
		logrus.Errorf("detector evaluation failed for %s: %v", ev.Kind, err)
	}

	submission := ev.IsSubmission()
	if submission {
		e.accumulator.ClearMomentum()
		e.modulator.OnSubmission(e.clock.Now())
	}
	if ev.Kind == signal.KindErrorAnnounced {
		e.modulator.OnErrorAnnounced()
	}

	suppressMomentum := false
	var fired []string
	for _, trigger := range triggers {
		applied := e.accumulator.Apply(trigger.Delta)
		e.observer.DetectorFired(trigger.DetectorID, applied)
		fired = append(fired, trigger.DetectorID)
		if trigger.SuppressMomentum {
			suppressMomentum = true
		}
		e.afterMutation(ctx, fired)
	}

	if e.isPromptShortcut(ev) {
		e.togglePrompt()
	}

	// A submit click is still a productive click: momentum was cleared
	// above and starts again from here.
	progress := ev.Kind == signal.KindKeyDown || ev.Kind == signal.KindClick
	if progress && !suppressMomentum {
		e.accumulator.Momentum(e.clock.Now())
		e.afterMutation(ctx, nil)
	}
}

func (e *Engine) isPromptShortcut(ev *signal.Event) bool {
	return ev.Kind == signal.KindKeyDown && ev.Alt && strings.EqualFold(ev.Key, e.cfg.PromptShortcut)
}

// Tick drains one tick interval of score.
func (e *Engine) Tick(ctx context.Context) {
	if removed := e.accumulator.Tick(e.cfg.TickInterval); removed > 0 {
		e.afterMutation(ctx, nil)
	}
}

func (e *Engine) afterMutation(ctx context.Context, detectors []string) {
	e.observer.ScoreChanged(e.state.Score)
	e.presenter.RenderScore(displayScore(e.state.Score))

	level, raised := state.EvaluateAlert(e.state, e.cfg.Thresholds, e.cfg.RearmOnDecay)
	if !raised {
		return
	}

	e.dispatcher.Raise(ctx, &action.Alert{
		SessionID: e.cfg.SessionID,
		Level:     level,
		Score:     e.state.Score,
		Timestamp: e.clock.Now(),
		Detectors: append([]string(nil), detectors...),
	}, e)
}

// ShowPrompt opens the report prompt.
func (e *Engine) ShowPrompt() {
	e.promptVisible = true
	e.presenter.ShowPrompt()
}

// HidePrompt closes the report prompt.
func (e *Engine) HidePrompt() {
	e.promptVisible = false
	e.presenter.HidePrompt()
}

func (e *Engine) togglePrompt() {
	if e.promptVisible {
		e.HidePrompt()
		return
	}
	e.ShowPrompt()
}

// PromptVisible reports whether the prompt is open.
func (e *Engine) PromptVisible() bool {
	return e.promptVisible
}

// SendReport starts sending a report on behalf of an alert action. The send
// is scoped to the engine rather than to ctx, which usually belongs to the
// event that raised the alert.
func (e *Engine) SendReport(_ context.Context, trigger report.Trigger) error {
	return e.sendReport(e.baseCtx, trigger, nil)
}

// ConfirmReport sends a manual report. done, if set, receives the outcome
// once the send has finished and its effects are applied.
func (e *Engine) ConfirmReport(ctx context.Context, done func(error)) error {
	return e.sendReport(ctx, report.TriggerManual, done)
}

func (e *Engine) sendReport(ctx context.Context, trigger report.Trigger, done func(error)) error {
	if e.transport == nil {
		return report.ErrNoTransport
	}
	if e.sending {
		return report.ErrSendInProgress
	}

	r := e.builder.Build(report.Input{
		Trigger: trigger,
		Score:   e.state.Score,
		Trail:   e.trail.All(),
		Trace:   e.path.Steps(),
		Page:    e.page(),
	})

	e.sending = true
	transport := e.transport
	e.spawn(func() {
		err := transport.Send(ctx, r)
		e.sched.post(func() {
			e.finishReport(r, err, done)
		})
	})

	return nil
}

func (e *Engine) finishReport(r *report.Report, err error, done func(error)) {
	e.sending = false

	if err == nil {
		logrus.Infof("%s report %s delivered at score %d", r.Trigger, r.ID, r.StruggleScore)
		state.ResetScore(e.state)
		e.HidePrompt()
		e.observer.ScoreChanged(e.state.Score)
		e.presenter.RenderScore(displayScore(e.state.Score))
	} else {
		logrus.Warnf("%s report %s failed: %v", r.Trigger, r.ID, err)
	}

	e.presenter.ReportOutcome(r.Trigger, err)
	e.observer.ReportFinished(r.Trigger, err)
	if done != nil {
		done(err)
	}
}

func (e *Engine) page() report.Page {
	if e.env == nil {
		return report.Page{}
	}
	snap := e.env.Snapshot()
	return report.Page{
		URL:           snap.URL,
		Title:         snap.Title,
		ActiveElement: snap.ActiveElement,
		UserAgent:     snap.UserAgent,
		Screen:        report.Size{Width: snap.Screen.Width, Height: snap.Screen.Height},
		Viewport:      report.Size{Width: snap.Viewport.Width, Height: snap.Viewport.Height},
		Language:      snap.Language,
	}
}

// State returns a copy of the score state.
func (e *Engine) State() state.ScoreState {
	return *e.state
}

// Snapshot captures the persisted form of the engine.
func (e *Engine) Snapshot() state.Snapshot {
	return state.Snapshot{
		TenantID: e.cfg.TenantID,
		State:    *e.state,
		Trail:    e.trail.All(),
		Path:     e.path.Steps(),
		SavedAt:  e.clock.Now(),
	}
}

// Restore loads a persisted snapshot. Momentum is not restored; submission
// sensitivity is re-armed for whatever remains of its window.
func (e *Engine) Restore(snap state.Snapshot) {
	e.accumulator.ClearMomentum()
	e.modulator.stop()

	*e.state = snap.State
	e.state.MomentumActive = false
	e.state.MomentumExpiresAt = time.Time{}
	e.trail.Restore(snap.Trail)
	e.path.Restore(snap.Path)
	e.modulator.restore(e.clock.Now())

	e.presenter.RenderScore(displayScore(e.state.Score))
}

// Stop cancels every pending timer.
func (e *Engine) Stop() {
	e.accumulator.stop()
	e.modulator.stop()
}

func displayScore(score float64) int {
	return int(math.Floor(score))
}

// describe renders an element as a path step, e.g. "input#email".
func describe(el signal.Element) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(el.TagName))
	if el.ID != "" {
		b.WriteString("#")
		b.WriteString(el.ID)
	} else if el.ClassName != "" {
		b.WriteString(".")
		b.WriteString(strings.Join(strings.Fields(el.ClassName), "."))
	}
	if b.Len() == 0 {
		return el.NodeID
	}
	return b.String()
}
