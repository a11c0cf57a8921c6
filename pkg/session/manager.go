// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package session hosts one struggle engine per browser session for the
// ingest service.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/clock"
	"github.com/AccelByte/extend-struggle-engine/pkg/engine"
	"github.com/AccelByte/extend-struggle-engine/pkg/environment"
	"github.com/AccelByte/extend-struggle-engine/pkg/metrics"
	"github.com/AccelByte/extend-struggle-engine/pkg/report"
	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
	"github.com/AccelByte/extend-struggle-engine/pkg/state"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultIdleTimeout is how long a session may go without signals before
// its engine is stopped.
const DefaultIdleTimeout = 30 * time.Minute

// Config tunes the session manager.
type Config struct {
	IdleTimeout time.Duration
}

// Options carries the collaborators of the manager. Store, Collector and
// Transport are optional.
type Options struct {
	Pipelines PipelineSource
	Store     SnapshotStore
	Collector *metrics.Collector
	Transport report.Transport
	Clock     clock.Clock
}

// Session is a running engine and the page source feeding it.
type Session struct {
	ID       string
	TenantID string

	env      *environment.Manual
	loop     *engine.Loop
	outbox   *Outbox
	lastSeen time.Time
}

// Batch is one delivery of signals from a page.
type Batch struct {
	TenantID string
	Page     *environment.Snapshot
	Events   []signal.RawSignal
}

// Result is the view of a session returned to clients.
type Result struct {
	SessionID string           `json:"sessionId"`
	Score     int              `json:"score"`
	Level     string           `json:"level"`
	State     state.ScoreState `json:"state"`
	Outbox    []Entry          `json:"outbox"`
}

// Manager creates, restores and evicts hosted sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cfg  Config
	opts Options

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager creates a session manager.
func NewManager(cfg Config, opts Options) *Manager {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewReal()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// NewID returns a fresh session ID.
func NewID() string {
	return uuid.NewString()
}

// Ingest feeds raw signals into a session, creating or restoring it first,
// and returns the resulting state with the queued presentation calls.
func (m *Manager) Ingest(ctx context.Context, sessionID string, batch Batch) (*Result, error) {
	s, err := m.acquire(ctx, sessionID, batch.TenantID)
	if err != nil {
		return nil, err
	}

	if batch.Page != nil {
		s.env.UpdatePage(*batch.Page)
	}
	for _, raw := range batch.Events {
		if m.opts.Collector != nil {
			m.opts.Collector.IngestedEvents.WithLabelValues(raw.Type).Inc()
		}
		s.env.Emit(raw)
	}

	var snap state.Snapshot
	if err := s.loop.Do(ctx, func(e *engine.Engine) { snap = e.Snapshot() }); err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	m.save(ctx, sessionID, &snap)

	return newResult(sessionID, snap.State, s.outbox.Drain()), nil
}

// Report sends a manual report for a running session and waits for the outcome.
func (m *Manager) Report(ctx context.Context, sessionID, tenantID string) (*Result, error) {
	s, err := m.lookup(sessionID, tenantID)
	if err != nil {
		return nil, err
	}

	sendErr := s.loop.ConfirmReport(ctx)

	var snap state.Snapshot
	if err := s.loop.Do(ctx, func(e *engine.Engine) { snap = e.Snapshot() }); err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	m.save(ctx, sessionID, &snap)

	return newResult(sessionID, snap.State, s.outbox.Drain()), sendErr
}

// Get returns the state of a session. Sessions that are not running are
// read from the snapshot store.
func (m *Manager) Get(ctx context.Context, sessionID, tenantID string) (*Result, error) {
	s, err := m.lookup(sessionID, tenantID)
	if err == nil {
		st, err := s.loop.State(ctx)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", sessionID, err)
		}
		return newResult(sessionID, st, []Entry{}), nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}

	if m.opts.Store == nil {
		return nil, ErrSessionNotFound
	}
	snap, found, err := m.opts.Store.GetSnapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSessionNotFound
	}
	if !sameTenant(snap.TenantID, tenantID) {
		return nil, ErrTenantMismatch
	}
	return newResult(sessionID, snap.State, []Entry{}), nil
}

// Close stops a session's engine and saves its final snapshot.
func (m *Manager) Close(ctx context.Context, sessionID, tenantID string) error {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return ErrSessionNotFound
	}
	if !sameTenant(s.TenantID, tenantID) {
		m.mu.Unlock()
		return ErrTenantMismatch
	}
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	m.stop(ctx, s)
	return nil
}

// EvictIdle stops every session idle for longer than the idle timeout and
// returns how many were stopped.
func (m *Manager) EvictIdle(ctx context.Context) int {
	cutoff := m.opts.Clock.Now().Add(-m.cfg.IdleTimeout)

	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		logrus.Infof("evicting idle session %s", s.ID)
		m.stop(ctx, s)
	}
	return len(idle)
}

// Run evicts idle sessions periodically until ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.cfg.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := m.EvictIdle(ctx); n > 0 {
				logrus.Debugf("evicted %d idle sessions", n)
			}
		}
	}
}

// Shutdown stops every session, saving their snapshots.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		sessions = append(sessions, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		m.stop(ctx, s)
	}
	m.cancel()
	logrus.Infof("stopped %d sessions", len(sessions))
}

// Count returns the number of running sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) lookup(sessionID, tenantID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !sameTenant(s.TenantID, tenantID) {
		return nil, ErrTenantMismatch
	}
	s.lastSeen = m.opts.Clock.Now()
	return s, nil
}

// acquire returns the running session, starting it when needed. Starting
// reads the snapshot store, so it runs without holding m.mu; when two
// requests start the same session, the first one inserted wins.
func (m *Manager) acquire(ctx context.Context, sessionID, tenantID string) (*Session, error) {
	if sessionID == "" {
		return nil, ErrInvalidSessionID
	}

	s, err := m.lookup(sessionID, tenantID)
	if !errors.Is(err, ErrSessionNotFound) {
		return s, err
	}

	started, err := m.start(ctx, sessionID, tenantID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if running, ok := m.sessions[sessionID]; ok {
		m.mu.Unlock()
		started.loop.Stop()
		if !sameTenant(running.TenantID, tenantID) {
			return nil, ErrTenantMismatch
		}
		return running, nil
	}
	m.sessions[sessionID] = started
	m.mu.Unlock()

	if m.opts.Collector != nil {
		m.opts.Collector.ActiveSessions.Inc()
	}
	return started, nil
}

func (m *Manager) start(ctx context.Context, sessionID, tenantID string) (*Session, error) {
	p := m.opts.Pipelines.Current()

	cfg := p.EngineConfig()
	cfg.SessionID = sessionID
	if tenantID != "" {
		cfg.TenantID = tenantID
	}

	env := environment.NewManual()
	outbox := NewOutbox()

	opts := engine.Options{
		Clock:       m.opts.Clock,
		Environment: env,
		Presenter:   outbox,
		Transport:   m.opts.Transport,
	}
	if m.opts.Collector != nil {
		opts.Observer = m.opts.Collector.Observer()
	}
	opts, err := p.EngineOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build detectors: %w", err)
	}

	e, err := engine.New(cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	var restored *state.Snapshot
	if m.opts.Store != nil {
		snap, found, err := m.opts.Store.GetSnapshot(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshot: %w", err)
		}
		if found {
			if snap.TenantID != cfg.TenantID {
				return nil, ErrTenantMismatch
			}
			restored = snap
		}
	}

	loop := engine.NewLoop(e, env)
	loop.Start(m.ctx)
	env.Ready()

	// Runs after attach, so signals emitted from here on reach the engine.
	err = loop.Do(ctx, func(e *engine.Engine) {
		if restored != nil {
			e.Restore(*restored)
		}
	})
	if err != nil {
		loop.Stop()
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	if restored != nil {
		logrus.Infof("restored session %s at score %.0f", sessionID, restored.State.Score)
	}

	logrus.Infof("started session %s for tenant %s", sessionID, cfg.TenantID)

	return &Session{
		ID:       sessionID,
		TenantID: cfg.TenantID,
		env:      env,
		loop:     loop,
		outbox:   outbox,
		lastSeen: m.opts.Clock.Now(),
	}, nil
}

func (m *Manager) stop(ctx context.Context, s *Session) {
	var snap state.Snapshot
	err := s.loop.Do(ctx, func(e *engine.Engine) { snap = e.Snapshot() })
	s.loop.Stop()

	if m.opts.Collector != nil {
		m.opts.Collector.ActiveSessions.Dec()
	}
	if err != nil {
		logrus.Warnf("failed to snapshot session %s before stop: %v", s.ID, err)
		return
	}
	m.save(ctx, s.ID, &snap)
	logrus.Infof("stopped session %s", s.ID)
}

func (m *Manager) save(ctx context.Context, sessionID string, snap *state.Snapshot) {
	if m.opts.Store == nil {
		return
	}
	if err := m.opts.Store.SaveSnapshot(ctx, sessionID, snap); err != nil {
		logrus.Errorf("failed to save snapshot for session %s: %v", sessionID, err)
	}
}

// sameTenant reports whether a request for tenantID may address a session
// owned by owner. An empty tenantID addresses any session.
func sameTenant(owner, tenantID string) bool {
	return tenantID == "" || tenantID == owner
}

func newResult(sessionID string, st state.ScoreState, outbox []Entry) *Result {
	return &Result{
		SessionID: sessionID,
		Score:     int(math.Floor(st.Score)),
		Level:     st.AlertLevel.String(),
		State:     st,
		Outbox:    outbox,
	}
}
