package pipeline

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestManager_Reload(t *testing.T) {
	path := writeConfig(t, testPipelineYAML)

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if got := m.Current().EngineConfig().Thresholds.Level1; got != 80 {
		t.Fatalf("expected level1 80, got %v", got)
	}

	var reloaded *Pipeline
	m.OnReload(func(p *Pipeline) { reloaded = p })

	updated := strings.Replace(testPipelineYAML, "level1: 80", "level1: 90", 1)
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}
	if err := m.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if reloaded == nil || reloaded != m.Current() {
		t.Fatal("expected listener to receive the new pipeline")
	}
	if got := m.Current().EngineConfig().Thresholds.Level1; got != 90 {
		t.Errorf("expected level1 90 after reload, got %v", got)
	}
}

func TestManager_InvalidReloadKeepsPrevious(t *testing.T) {
	path := writeConfig(t, testPipelineYAML)

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	previous := m.Current()

	if err := os.WriteFile(path, []byte("detectors: ["), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}
	if err := m.Reload(); err == nil {
		t.Fatal("expected reload error for malformed file")
	}
	if m.Current() != previous {
		t.Error("expected previous pipeline to stay current")
	}
}

func TestManager_WatchReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, testPipelineYAML)

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	m.debounce = 10 * time.Millisecond

	reloaded := make(chan *Pipeline, 1)
	m.OnReload(func(p *Pipeline) {
		select {
		case reloaded <- p:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Watch(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	updated := strings.Replace(testPipelineYAML, "level2: 160", "level2: 170", 1)
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	// Keep writing until the watcher is registered and picks a write up.
	for {
		if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
			t.Fatalf("failed to rewrite config: %v", err)
		}
		select {
		case p := <-reloaded:
			if got := p.EngineConfig().Thresholds.Level2; got != 170 {
				t.Errorf("expected level2 170, got %v", got)
			}
			return
		case <-ticker.C:
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}

func TestManager_DefaultWithoutPath(t *testing.T) {
	m, err := NewManager("")
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if m.Current() == nil {
		t.Fatal("expected default pipeline")
	}
	if err := m.Reload(); err != nil {
		t.Errorf("Reload() without path error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Watch(ctx); err != nil {
		t.Errorf("Watch() error = %v", err)
	}
}
