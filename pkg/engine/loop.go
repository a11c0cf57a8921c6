// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/AccelByte/extend-struggle-engine/pkg/clock"
	"github.com/AccelByte/extend-struggle-engine/pkg/environment"
	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
	"github.com/AccelByte/extend-struggle-engine/pkg/state"
	"github.com/sirupsen/logrus"
)

const taskQueueSize = 256

// Loop owns the goroutine an engine runs on. Environment signals, decay
// ticks, timer expirations and report completions are queued and executed
// one at a time, each to completion.
type Loop struct {
	engine *Engine
	env    environment.Environment
	clock  clock.Clock

	tasks   chan func()
	quit    chan struct{}
	exited  chan struct{}
	running atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc

	startOnce sync.Once
	stopOnce  sync.Once
	sends     sync.WaitGroup

	// Owned by the loop goroutine.
	unsubscribe []func()
	tickTimer   clock.Timer
	stopped     bool
}

// NewLoop binds an engine to an environment. The engine must not be driven
// directly once the loop has started.
func NewLoop(e *Engine, env environment.Environment) *Loop {
	l := &Loop{
		engine: e,
		env:    env,
		clock:  e.clock,
		tasks:  make(chan func(), taskQueueSize),
		quit:   make(chan struct{}),
		exited: make(chan struct{}),
	}

	if e.env == nil {
		e.env = env
	}
	e.sched.post = l.post
	e.spawn = func(f func()) {
		l.sends.Add(1)
		go func() {
			defer l.sends.Done()
			f()
		}()
	}

	return l
}

// Start runs the loop. Observation begins once the environment is ready.
// Calling Start again has no effect.
func (l *Loop) Start(ctx context.Context) {
	l.startOnce.Do(func() {
		l.ctx, l.cancel = context.WithCancel(ctx)
		l.engine.baseCtx = l.ctx
		l.running.Store(true)

		go l.run()

		l.env.OnReady(func() {
			l.post(l.attach)
		})
	})
}

func (l *Loop) run() {
	defer close(l.exited)
	for {
		select {
		case task := <-l.tasks:
			task()
		case <-l.quit:
			return
		}
	}
}

func (l *Loop) post(task func()) {
	select {
	case l.tasks <- task:
	case <-l.quit:
	}
}

func (l *Loop) attach() {
	if l.stopped {
		return
	}

	types := l.engine.RawTypes()
	for _, signalType := range types {
		unsubscribe := l.env.Subscribe(signalType, func(raw signal.RawSignal) {
			l.post(func() {
				if !l.stopped {
					l.engine.HandleSignal(l.ctx, raw)
				}
			})
		})
		l.unsubscribe = append(l.unsubscribe, unsubscribe)
	}
	logrus.Debugf("engine attached to %d signal types", len(types))

	l.scheduleTick()
}

func (l *Loop) scheduleTick() {
	l.tickTimer = l.clock.AfterFunc(l.engine.cfg.TickInterval, func() {
		l.post(func() {
			if l.stopped {
				return
			}
			l.engine.Tick(l.ctx)
			l.scheduleTick()
		})
	})
}

// Do runs fn on the loop goroutine and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func(e *Engine)) error {
	if !l.running.Load() {
		return ErrLoopNotRunning
	}

	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn(l.engine)
	}

	select {
	case l.tasks <- task:
	case <-l.quit:
		return ErrLoopNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-l.exited:
		return ErrLoopNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OpenPrompt shows the report prompt.
func (l *Loop) OpenPrompt() {
	l.post(func() { l.engine.ShowPrompt() })
}

// DismissPrompt hides the report prompt without sending.
func (l *Loop) DismissPrompt() {
	l.post(func() { l.engine.HidePrompt() })
}

// ConfirmReport sends a manual report and waits for the outcome. The send
// is cancelled when ctx is done or the loop stops, whichever comes first.
func (l *Loop) ConfirmReport(ctx context.Context) error {
	if !l.running.Load() {
		return ErrLoopNotRunning
	}

	sendCtx, cancel := context.WithCancel(ctx)
	stopAfter := context.AfterFunc(l.ctx, cancel)
	release := func() {
		stopAfter()
		cancel()
	}

	result := make(chan error, 1)
	err := l.Do(ctx, func(e *Engine) {
		err := e.ConfirmReport(sendCtx, func(err error) {
			release()
			result <- err
		})
		if err != nil {
			release()
			result <- err
		}
	})
	if err != nil {
		release()
		return err
	}

	select {
	case err := <-result:
		return err
	case <-l.exited:
		return ErrLoopNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns a copy of the engine's score state.
func (l *Loop) State(ctx context.Context) (state.ScoreState, error) {
	var s state.ScoreState
	err := l.Do(ctx, func(e *Engine) {
		s = e.State()
	})
	return s, err
}

// Stop detaches from the environment, cancels timers and in-flight sends
// and waits for the loop goroutine and the sends to exit.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		if !l.running.Load() {
			return
		}

		_ = l.Do(context.Background(), func(e *Engine) {
			l.stopped = true
			for _, unsubscribe := range l.unsubscribe {
				unsubscribe()
			}
			l.unsubscribe = nil
			if l.tickTimer != nil {
				l.tickTimer.Stop()
			}
			e.Stop()
		})

		l.running.Store(false)
		l.cancel()
		close(l.quit)
		<-l.exited
		l.sends.Wait()
	})
}
