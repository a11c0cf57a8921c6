package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/AccelByte/extend-struggle-engine/pkg/action"
	"github.com/AccelByte/extend-struggle-engine/pkg/detector"
	"github.com/AccelByte/extend-struggle-engine/pkg/engine"
	"github.com/AccelByte/extend-struggle-engine/pkg/state"

	"gopkg.in/yaml.v3"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Engine    engine.Config             `yaml:"engine"`
	Detectors []detector.DetectorConfig `yaml:"detectors"`
	Actions   []action.ActionConfig     `yaml:"actions"`
	Alerts    []AlertConfig             `yaml:"alerts"`
}

// AlertConfig maps an alert level to the actions run when it is reached.
type AlertConfig struct {
	Level   string   `yaml:"level"`
	Actions []string `yaml:"actions"`
}

// LoadConfig loads pipeline configuration from a YAML file.
// Supports environment variable expansion in the form ${VAR_NAME} or ${VAR_NAME:default}.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// ParseConfig parses and validates pipeline YAML. Engine settings that are
// left out keep their defaults.
func ParseConfig(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	config := Config{Engine: engine.DefaultConfig()}
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration for common errors.
func (c *Config) Validate() error {
	detectorIDs := make(map[string]bool)
	for _, dc := range c.Detectors {
		if dc.ID == "" {
			return fmt.Errorf("detector with empty ID found")
		}
		if detectorIDs[dc.ID] {
			return fmt.Errorf("duplicate detector ID: %s", dc.ID)
		}
		detectorIDs[dc.ID] = true

		if dc.Type == "" {
			return fmt.Errorf("detector %s has empty type", dc.ID)
		}
	}

	actionIDs := make(map[string]bool)
	for _, ac := range c.Actions {
		if ac.ID == "" {
			return fmt.Errorf("action with empty ID found")
		}
		if actionIDs[ac.ID] {
			return fmt.Errorf("duplicate action ID: %s", ac.ID)
		}
		actionIDs[ac.ID] = true

		if ac.Type == "" {
			return fmt.Errorf("action %s has empty type", ac.ID)
		}
	}

	levels := make(map[state.AlertLevel]bool)
	for _, alert := range c.Alerts {
		level, err := state.ParseAlertLevel(alert.Level)
		if err != nil {
			return err
		}
		if level == state.AlertNone {
			return fmt.Errorf("alert level %q cannot have actions", alert.Level)
		}
		if levels[level] {
			return fmt.Errorf("duplicate alert level: %s", level)
		}
		levels[level] = true

		for _, actionID := range alert.Actions {
			if !actionIDs[actionID] {
				return fmt.Errorf("alert %s references unknown action: %s", level, actionID)
			}
		}
	}

	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	return nil
}

// EngineConfig returns the engine settings with the alert mapping applied.
// Without an alerts section the engine defaults stay in place.
func (c *Config) EngineConfig() engine.Config {
	cfg := c.Engine
	if len(c.Alerts) == 0 {
		return cfg
	}

	cfg.AlertActions = make(map[state.AlertLevel][]string, len(c.Alerts))
	for _, alert := range c.Alerts {
		level, err := state.ParseAlertLevel(alert.Level)
		if err != nil {
			continue
		}
		cfg.AlertActions[level] = append([]string(nil), alert.Actions...)
	}
	return cfg
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		// Support ${VAR:default} syntax
		parts := strings.SplitN(key, ":", 2)
		varName := parts[0]
		defaultValue := ""
		if len(parts) == 2 {
			defaultValue = parts[1]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}
