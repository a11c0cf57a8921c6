package action

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ActionFactory is a function that creates an action from a configuration.
type ActionFactory func(config ActionConfig) (Action, error)

var (
	factories   = make(map[string]ActionFactory)
	factoriesMu sync.RWMutex
)

// RegisterActionType registers a factory function for an action type.
// This allows external packages to register their action types without creating import cycles.
func RegisterActionType(actionType string, factory ActionFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	factories[actionType] = factory
	logrus.Debugf("registered action type: %s", actionType)
}

// IsKnownType reports whether a factory is registered for the type.
func IsKnownType(actionType string) bool {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	_, ok := factories[actionType]
	return ok
}

// CreateAction creates an action instance based on the configuration.
// Returns an error if the action type is unknown.
func CreateAction(config ActionConfig) (Action, error) {
	if !config.Enabled {
		logrus.Debugf("skipping disabled action: %s", config.ID)
		return nil, nil
	}

	factoriesMu.RLock()
	factory, exists := factories[config.Type]
	factoriesMu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("unknown action type: %s", config.Type)
	}

	return factory(config)
}

// CreateActions creates multiple action instances from a list of configurations.
// Returns all successfully created actions and any errors encountered.
func CreateActions(configs []ActionConfig) ([]Action, []error) {
	var actions []Action
	var errs []error

	for _, config := range configs {
		action, err := CreateAction(config)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to create action %s: %w", config.ID, err))
			continue
		}

		if action != nil {
			actions = append(actions, action)
		}
	}

	return actions, errs
}

// RegisterActions registers multiple actions with the provided registry.
func RegisterActions(registry *Registry, configs []ActionConfig) error {
	actions, errs := CreateActions(configs)

	if len(errs) > 0 {
		logrus.Warnf("encountered %d errors while creating actions", len(errs))
		for _, err := range errs {
			logrus.Warnf("action creation error: %v", err)
		}
	}

	for _, action := range actions {
		if err := registry.Register(action); err != nil {
			return fmt.Errorf("failed to register action %s: %w", action.ID(), err)
		}
	}

	logrus.Debugf("registered %d actions", len(actions))
	return nil
}
