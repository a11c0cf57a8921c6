// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package engine

import (
	"context"

	"github.com/AccelByte/extend-struggle-engine/pkg/action"
	"github.com/AccelByte/extend-struggle-engine/pkg/state"
	"github.com/sirupsen/logrus"
)

// Dispatcher announces alert level transitions and runs the actions
// configured for each level.
type Dispatcher struct {
	executor  *action.Executor
	actions   map[state.AlertLevel][]string
	presenter Presenter
	observer  Observer
}

// NewDispatcher creates a dispatcher. executor may be nil, in which case
// transitions are only presented.
func NewDispatcher(executor *action.Executor, actions map[state.AlertLevel][]string, presenter Presenter, observer Observer) *Dispatcher {
	return &Dispatcher{
		executor:  executor,
		actions:   actions,
		presenter: presenter,
		observer:  observer,
	}
}

// Raise announces a level the engine has just reached.
func (d *Dispatcher) Raise(ctx context.Context, alert *action.Alert, host action.Host) {
	logrus.Infof("struggle alert %s raised for session %s at score %.0f", alert.Level, alert.SessionID, alert.Score)

	d.presenter.ShowAlert(alert.Level)
	d.observer.AlertRaised(alert.Level)

	ids := d.actions[alert.Level]
	if d.executor == nil || len(ids) == 0 {
		return
	}

	if _, err := d.executor.ExecuteMultiple(ctx, ids, alert, host, false); err != nil {
		logrus.Errorf("alert actions for %s failed: %v", alert.Level, err)
	}
}
