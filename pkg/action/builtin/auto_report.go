package builtin

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-struggle-engine/pkg/action"
	"github.com/AccelByte/extend-struggle-engine/pkg/report"
	"github.com/sirupsen/logrus"
)

// AutoReportActionID is the type of the action that sends a report without
// waiting for the user.
const AutoReportActionID = "auto_report"

// AutoReportAction sends an "Auto-triggered alert" report.
type AutoReportAction struct {
	config action.ActionConfig
}

// NewAutoReportAction creates a new auto report action.
func NewAutoReportAction(config action.ActionConfig) *AutoReportAction {
	return &AutoReportAction{config: config}
}

func (a *AutoReportAction) ID() string                  { return a.config.ID }
func (a *AutoReportAction) Name() string                { return "Auto Report" }
func (a *AutoReportAction) Config() action.ActionConfig { return a.config }

// Execute starts the report send. Delivery completes asynchronously.
func (a *AutoReportAction) Execute(ctx context.Context, alert *action.Alert, host action.Host) error {
	if host == nil {
		return action.ErrMissingHost
	}

	logrus.Infof("auto-reporting %s alert for session %s at score %.0f", alert.Level, alert.SessionID, alert.Score)

	if err := host.SendReport(ctx, report.TriggerAuto); err != nil {
		return fmt.Errorf("failed to start auto report: %w", err)
	}
	return nil
}

// Rollback is not supported: a report cannot be unsent.
func (a *AutoReportAction) Rollback(ctx context.Context, alert *action.Alert, host action.Host) error {
	return action.ErrRollbackNotSupported
}
