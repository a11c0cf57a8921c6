package builtin

import (
	"context"

	"github.com/AccelByte/extend-struggle-engine/pkg/action"
)

// ShowPromptActionID is the type of the action that opens the help prompt.
const ShowPromptActionID = "show_prompt"

// ShowPromptAction opens the help prompt so the user can confirm a report.
type ShowPromptAction struct {
	config action.ActionConfig
}

// NewShowPromptAction creates a new show prompt action.
func NewShowPromptAction(config action.ActionConfig) *ShowPromptAction {
	return &ShowPromptAction{config: config}
}

func (a *ShowPromptAction) ID() string                  { return a.config.ID }
func (a *ShowPromptAction) Name() string                { return "Show Help Prompt" }
func (a *ShowPromptAction) Config() action.ActionConfig { return a.config }

// Execute opens the prompt.
func (a *ShowPromptAction) Execute(ctx context.Context, alert *action.Alert, host action.Host) error {
	if host == nil {
		return action.ErrMissingHost
	}
	host.ShowPrompt()
	return nil
}

// Rollback hides the prompt again.
func (a *ShowPromptAction) Rollback(ctx context.Context, alert *action.Alert, host action.Host) error {
	if host == nil {
		return action.ErrMissingHost
	}
	host.HidePrompt()
	return nil
}
