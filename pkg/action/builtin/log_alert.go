package builtin

import (
	"context"
	"strings"

	"github.com/AccelByte/extend-struggle-engine/pkg/action"
	"github.com/sirupsen/logrus"
)

// LogAlertActionID is the type of the action that logs alert transitions.
const LogAlertActionID = "log_alert"

// LogAlertAction writes the alert to the structured log.
type LogAlertAction struct {
	config action.ActionConfig
	level  logrus.Level
}

// NewLogAlertAction creates a new log alert action. The "log_level"
// parameter selects the logrus level, warn by default.
func NewLogAlertAction(config action.ActionConfig) (*LogAlertAction, error) {
	level, err := logrus.ParseLevel(config.GetParameterString("log_level", "warn"))
	if err != nil {
		return nil, err
	}
	return &LogAlertAction{config: config, level: level}, nil
}

func (a *LogAlertAction) ID() string                  { return a.config.ID }
func (a *LogAlertAction) Name() string                { return "Log Alert" }
func (a *LogAlertAction) Config() action.ActionConfig { return a.config }

// Execute logs the alert.
func (a *LogAlertAction) Execute(ctx context.Context, alert *action.Alert, host action.Host) error {
	logrus.WithFields(logrus.Fields{
		"session":   alert.SessionID,
		"level":     alert.Level.String(),
		"score":     alert.Score,
		"detectors": strings.Join(alert.Detectors, ","),
	}).Log(a.level, "struggle alert raised")
	return nil
}

// Rollback is not supported for log entries.
func (a *LogAlertAction) Rollback(ctx context.Context, alert *action.Alert, host action.Host) error {
	return action.ErrRollbackNotSupported
}
