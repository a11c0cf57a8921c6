package pipeline

import (
	"fmt"
	"strings"

	"github.com/AccelByte/extend-struggle-engine/pkg/action"
	"github.com/AccelByte/extend-struggle-engine/pkg/detector"
)

// ValidateWiring validates that the pipeline is correctly wired.
// It checks that:
// - All enabled detectors in config have registered instances
// - All enabled actions in config have registered instances
// - No alert maps to an action that is disabled
//
// This catches common mistakes like:
// - Forgetting to register a detector type factory
// - Typos in detector/action IDs or types
func ValidateWiring(detectorRegistry *detector.Registry, actionRegistry *action.Registry, config *Config) error {
	var errors []string

	for _, dc := range config.Detectors {
		if !dc.Enabled {
			continue
		}

		if detectorRegistry.Get(dc.ID) == nil {
			errors = append(errors, fmt.Sprintf("detector '%s' (type=%s) is enabled in config but not registered", dc.ID, dc.Type))
		}
	}

	disabled := make(map[string]bool)
	for _, ac := range config.Actions {
		if !ac.Enabled {
			disabled[ac.ID] = true
			continue
		}

		if actionRegistry.Get(ac.ID) == nil {
			errors = append(errors, fmt.Sprintf("action '%s' (type=%s) is enabled in config but not registered", ac.ID, ac.Type))
		}
	}

	for _, alert := range config.Alerts {
		for _, actionID := range alert.Actions {
			if disabled[actionID] {
				errors = append(errors, fmt.Sprintf("alert '%s' maps to disabled action '%s'", alert.Level, actionID))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("pipeline wiring validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
