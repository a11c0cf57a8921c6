package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultReloadDebounce batches the bursts of writes editors produce on save.
const DefaultReloadDebounce = 250 * time.Millisecond

// Manager holds the current pipeline and reloads it when its file changes.
// Engines already running keep the pipeline they were built with.
type Manager struct {
	mu        sync.RWMutex
	path      string
	current   *Pipeline
	listeners []func(*Pipeline)
	debounce  time.Duration
}

// NewManager loads the pipeline at path, or the default pipeline when
// path is empty.
func NewManager(path string) (*Manager, error) {
	var (
		p   *Pipeline
		err error
	)
	if path == "" {
		p, err = Default()
	} else {
		p, err = Load(path)
	}
	if err != nil {
		return nil, err
	}

	return &Manager{
		path:     path,
		current:  p,
		debounce: DefaultReloadDebounce,
	}, nil
}

// Current returns the latest valid pipeline.
func (m *Manager) Current() *Pipeline {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// OnReload registers fn to be called with every successfully reloaded pipeline.
func (m *Manager) OnReload(fn func(*Pipeline)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Reload re-reads the pipeline file. An invalid file leaves the current
// pipeline in place.
func (m *Manager) Reload() error {
	if m.path == "" {
		return nil
	}

	p, err := Load(m.path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.current = p
	listeners := append([]func(*Pipeline){}, m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(p)
	}
	return nil
}

// Watch reloads the pipeline whenever its file is written, until ctx is done.
// The parent directory is watched so that editors replacing the file are
// noticed too.
func (m *Manager) Watch(ctx context.Context) error {
	if m.path == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(m.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", m.path, err)
	}
	logrus.Infof("watching pipeline config %s for changes", m.path)

	target := filepath.Clean(m.path)
	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(m.debounce)
			} else {
				debounce.Reset(m.debounce)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			if err := m.Reload(); err != nil {
				logrus.Errorf("pipeline reload failed, keeping previous config: %v", err)
				continue
			}
			logrus.Infof("pipeline config %s reloaded", m.path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logrus.Warnf("pipeline watcher error: %v", err)
		}
	}
}
