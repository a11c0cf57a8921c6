package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Executor executes actions in response to alert transitions.
type Executor struct {
	registry *Registry
}

// NewExecutor creates a new action executor.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{
		registry: registry,
	}
}

// Execute runs a single action for an alert.
func (e *Executor) Execute(ctx context.Context, actionID string, alert *Alert, host Host) (*ActionResult, error) {
	action := e.registry.GetEnabled(actionID)
	if action == nil {
		return nil, fmt.Errorf("%w: %s", ErrActionNotFound, actionID)
	}

	logrus.Debugf("executing action %s for %s alert (session: %s)", actionID, alert.Level, alert.SessionID)

	if err := action.Execute(ctx, alert, host); err != nil {
		logrus.Errorf("action %s failed: %v", actionID, err)
		return NewActionError(actionID, err), err
	}

	return NewActionResult(actionID), nil
}

// ExecuteMultiple executes actions in order.
// If rollbackOnError is true, previously executed actions are rolled back when a later action fails.
func (e *Executor) ExecuteMultiple(ctx context.Context, actionIDs []string, alert *Alert, host Host, rollbackOnError bool) ([]*ActionResult, error) {
	var results []*ActionResult
	var executed []Action

	for _, actionID := range actionIDs {
		action := e.registry.GetEnabled(actionID)
		if action == nil {
			err := fmt.Errorf("%w: %s", ErrActionNotFound, actionID)
			logrus.Errorf("%v", err)
			if rollbackOnError && len(executed) > 0 {
				e.rollbackActions(ctx, executed, alert, host)
			}
			return results, err
		}

		logrus.Debugf("executing action %s for %s alert (session: %s)", actionID, alert.Level, alert.SessionID)

		if err := action.Execute(ctx, alert, host); err != nil {
			logrus.Errorf("action %s failed: %v", actionID, err)
			results = append(results, NewActionError(actionID, err))
			if rollbackOnError && len(executed) > 0 {
				e.rollbackActions(ctx, executed, alert, host)
			}
			return results, err
		}

		executed = append(executed, action)
		results = append(results, NewActionResult(actionID))
	}

	return results, nil
}

// rollbackActions rolls back actions in reverse order.
func (e *Executor) rollbackActions(ctx context.Context, actions []Action, alert *Alert, host Host) {
	logrus.Warnf("rolling back %d actions", len(actions))

	for i := len(actions) - 1; i >= 0; i-- {
		action := actions[i]
		err := action.Rollback(ctx, alert, host)
		switch {
		case err == nil:
			logrus.Debugf("action %s rolled back", action.ID())
		case errors.Is(err, ErrRollbackNotSupported):
			logrus.Debugf("action %s does not support rollback", action.ID())
		default:
			logrus.Errorf("failed to rollback action %s: %v", action.ID(), err)
		}
	}
}

// GetRegistry returns the action registry used by this executor.
func (e *Executor) GetRegistry() *Registry {
	return e.registry
}
