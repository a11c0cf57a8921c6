package builtin

import (
	"github.com/AccelByte/extend-struggle-engine/pkg/action"
)

// RegisterActions registers built-in action factories.
func RegisterActions() {
	action.RegisterActionType(ShowPromptActionID, func(config action.ActionConfig) (action.Action, error) {
		return NewShowPromptAction(config), nil
	})

	action.RegisterActionType(AutoReportActionID, func(config action.ActionConfig) (action.Action, error) {
		return NewAutoReportAction(config), nil
	})

	action.RegisterActionType(LogAlertActionID, func(config action.ActionConfig) (action.Action, error) {
		return NewLogAlertAction(config)
	})
}

// DefaultConfigs returns one enabled instance of every built-in action,
// keyed by its type.
func DefaultConfigs() []action.ActionConfig {
	return []action.ActionConfig{
		{ID: LogAlertActionID, Type: LogAlertActionID, Enabled: true},
		{ID: ShowPromptActionID, Type: ShowPromptActionID, Enabled: true},
		{ID: AutoReportActionID, Type: AutoReportActionID, Enabled: true},
	}
}
