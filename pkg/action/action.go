package action

import (
	"context"
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/report"
	"github.com/AccelByte/extend-struggle-engine/pkg/state"
)

// Action performs operations when the alert level rises.
// Actions are registered in a Registry and executed by the Executor.
type Action interface {
	// ID returns unique action identifier.
	ID() string

	// Name returns human-readable action name.
	Name() string

	// Execute performs the action for the alert.
	// Returns error if the action fails.
	Execute(ctx context.Context, alert *Alert, host Host) error

	// Rollback undoes the action (optional, can return ErrRollbackNotSupported).
	// This is called if a subsequent action in the same alert fails and rollback is enabled.
	Rollback(ctx context.Context, alert *Alert, host Host) error

	// Config returns the action's configuration.
	Config() ActionConfig
}

// Host is the part of the engine that actions drive. Calls happen on the
// engine goroutine and must not block.
type Host interface {
	ShowPrompt()
	HidePrompt()

	// SendReport starts sending a report in the background.
	SendReport(ctx context.Context, trigger report.Trigger) error
}

// Alert describes an alert level transition.
type Alert struct {
	SessionID string
	Level     state.AlertLevel
	Score     float64
	Timestamp time.Time

	// Detectors lists the detectors whose triggers raised the level.
	// Empty for alerts raised outside event processing.
	Detectors []string
}

// ActionResult represents the outcome of an action execution.
type ActionResult struct {
	ActionID string
	Success  bool
	Error    error
}

// NewActionResult creates a successful action result.
func NewActionResult(actionID string) *ActionResult {
	return &ActionResult{
		ActionID: actionID,
		Success:  true,
	}
}

// NewActionError creates a failed action result with an error.
func NewActionError(actionID string, err error) *ActionResult {
	return &ActionResult{
		ActionID: actionID,
		Success:  false,
		Error:    err,
	}
}
