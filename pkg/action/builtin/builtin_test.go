package builtin

import (
	"context"
	"errors"
	"testing"

	"github.com/AccelByte/extend-struggle-engine/pkg/action"
	"github.com/AccelByte/extend-struggle-engine/pkg/report"
	"github.com/AccelByte/extend-struggle-engine/pkg/state"
)

type recordingHost struct {
	prompts int
	hides   int
	reports []report.Trigger
	sendErr error
}

func (h *recordingHost) ShowPrompt() { h.prompts++ }
func (h *recordingHost) HidePrompt() { h.hides++ }

func (h *recordingHost) SendReport(ctx context.Context, t report.Trigger) error {
	if h.sendErr != nil {
		return h.sendErr
	}
	h.reports = append(h.reports, t)
	return nil
}

func alert() *action.Alert {
	return &action.Alert{SessionID: "s1", Level: state.AlertLevel2, Score: 210, Detectors: []string{"rage_click"}}
}

func TestRegisterActions(t *testing.T) {
	RegisterActions()

	registry := action.NewRegistry()
	if err := action.RegisterActions(registry, DefaultConfigs()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if registry.Count() != 3 {
		t.Errorf("Expected 3 actions, got %d", registry.Count())
	}

	_, err := action.CreateAction(action.ActionConfig{
		ID: "bad", Type: LogAlertActionID, Enabled: true,
		Parameters: map[string]interface{}{"log_level": "loud"},
	})
	if err == nil {
		t.Error("Expected error for invalid log level")
	}
}

func TestShowPromptAction(t *testing.T) {
	a := NewShowPromptAction(action.ActionConfig{ID: "p"})
	host := &recordingHost{}

	if err := a.Execute(context.Background(), alert(), host); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := a.Rollback(context.Background(), alert(), host); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if host.prompts != 1 || host.hides != 1 {
		t.Errorf("prompts=%d hides=%d, expected 1 each", host.prompts, host.hides)
	}

	if err := a.Execute(context.Background(), alert(), nil); !errors.Is(err, action.ErrMissingHost) {
		t.Errorf("Expected ErrMissingHost, got %v", err)
	}
}

func TestAutoReportAction(t *testing.T) {
	a := NewAutoReportAction(action.ActionConfig{ID: "r"})
	host := &recordingHost{}

	if err := a.Execute(context.Background(), alert(), host); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(host.reports) != 1 || host.reports[0] != report.TriggerAuto {
		t.Errorf("reports = %v, expected one auto report", host.reports)
	}

	host.sendErr = report.ErrSendInProgress
	if err := a.Execute(context.Background(), alert(), host); !errors.Is(err, report.ErrSendInProgress) {
		t.Errorf("Expected wrapped ErrSendInProgress, got %v", err)
	}

	if err := a.Rollback(context.Background(), alert(), host); !errors.Is(err, action.ErrRollbackNotSupported) {
		t.Errorf("Expected ErrRollbackNotSupported, got %v", err)
	}
}

func TestLogAlertAction(t *testing.T) {
	a, err := NewLogAlertAction(action.ActionConfig{ID: "l", Parameters: map[string]interface{}{"log_level": "info"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := a.Execute(context.Background(), alert(), nil); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}
