package detector

import "time"

// DetectorConfig is the base configuration for all detectors.
// This is typically loaded from the pipeline YAML file.
type DetectorConfig struct {
	ID         string                 `yaml:"id" json:"id"`
	Name       string                 `yaml:"name" json:"name"`
	Type       string                 `yaml:"type" json:"type"` // e.g., "rage_click"
	Enabled    bool                   `yaml:"enabled" json:"enabled"`
	Priority   int                    `yaml:"priority" json:"priority"`
	Cooldown   *CooldownConfig        `yaml:"cooldown,omitempty" json:"cooldown,omitempty"`
	Parameters map[string]interface{} `yaml:"parameters" json:"parameters"` // Detector-specific parameters
}

// CooldownConfig suppresses repeated fires of one detector.
type CooldownConfig struct {
	Duration time.Duration `yaml:"duration" json:"duration"`
}

// GetInt retrieves an integer value from parameters with a default.
func (c *DetectorConfig) GetInt(key string, defaultValue int) int {
	switch v := c.Parameters[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return defaultValue
}

// GetFloat retrieves a float value from parameters with a default.
func (c *DetectorConfig) GetFloat(key string, defaultValue float64) float64 {
	switch v := c.Parameters[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return defaultValue
}

// GetString retrieves a string value from parameters with a default.
func (c *DetectorConfig) GetString(key string, defaultValue string) string {
	if val, ok := c.Parameters[key]; ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return defaultValue
}

// GetBool retrieves a boolean value from parameters with a default.
func (c *DetectorConfig) GetBool(key string, defaultValue bool) bool {
	if val, ok := c.Parameters[key]; ok {
		if boolVal, ok := val.(bool); ok {
			return boolVal
		}
	}
	return defaultValue
}

// GetDuration retrieves a duration from parameters with a default.
// Strings are parsed with time.ParseDuration; bare numbers are milliseconds.
func (c *DetectorConfig) GetDuration(key string, defaultValue time.Duration) time.Duration {
	switch v := c.Parameters[key].(type) {
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	case int:
		return time.Duration(v) * time.Millisecond
	case float64:
		return time.Duration(v * float64(time.Millisecond))
	case time.Duration:
		return v
	}
	return defaultValue
}
