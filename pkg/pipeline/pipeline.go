package pipeline

import (
	"fmt"

	"github.com/AccelByte/extend-struggle-engine/pkg/action"
	actionbuiltin "github.com/AccelByte/extend-struggle-engine/pkg/action/builtin"
	"github.com/AccelByte/extend-struggle-engine/pkg/detector"
	detectorbuiltin "github.com/AccelByte/extend-struggle-engine/pkg/detector/builtin"
	"github.com/AccelByte/extend-struggle-engine/pkg/engine"

	"github.com/sirupsen/logrus"
)

// Pipeline is a validated configuration ready to build engines from.
// Detectors keep per-page history, so every engine gets its own detector
// registry; actions are shared.
type Pipeline struct {
	config  *Config
	actions *action.Registry
}

// Build registers the built-in detector and action types, creates the
// shared action registry and checks that the configuration is fully wired.
func Build(config *Config) (*Pipeline, error) {
	detectorbuiltin.RegisterBuiltinDetectors()
	actionbuiltin.RegisterActions()

	if len(config.Detectors) == 0 {
		config.Detectors = detectorbuiltin.DefaultConfigs()
	}
	if len(config.Actions) == 0 {
		config.Actions = actionbuiltin.DefaultConfigs()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	actions := action.NewRegistry()
	if err := action.RegisterActions(actions, config.Actions); err != nil {
		return nil, fmt.Errorf("failed to register actions: %w", err)
	}

	p := &Pipeline{config: config, actions: actions}

	detectors, err := p.NewDetectors()
	if err != nil {
		return nil, err
	}
	if err := ValidateWiring(detectors, actions, config); err != nil {
		return nil, err
	}

	logrus.Infof("pipeline built with %d detectors and %d actions", detectors.Count(), actions.Count())
	return p, nil
}

// Load reads, validates and builds a pipeline file.
func Load(path string) (*Pipeline, error) {
	config, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return Build(config)
}

// Default builds the pipeline used when no file is configured.
func Default() (*Pipeline, error) {
	return Build(&Config{Engine: engine.DefaultConfig()})
}

// Config returns the configuration the pipeline was built from.
func (p *Pipeline) Config() *Config {
	return p.config
}

// EngineConfig returns the engine settings with the alert mapping applied.
func (p *Pipeline) EngineConfig() engine.Config {
	return p.config.EngineConfig()
}

// NewDetectors creates a fresh registry of the configured detectors.
func (p *Pipeline) NewDetectors() (*detector.Registry, error) {
	registry := detector.NewRegistry()
	if err := detector.RegisterDetectors(registry, p.config.Detectors); err != nil {
		return nil, fmt.Errorf("failed to register detectors: %w", err)
	}
	return registry, nil
}

// Actions returns the shared action registry.
func (p *Pipeline) Actions() *action.Registry {
	return p.actions
}

// EngineOptions fills the detector and action registries of opts for a new engine.
func (p *Pipeline) EngineOptions(opts engine.Options) (engine.Options, error) {
	detectors, err := p.NewDetectors()
	if err != nil {
		return opts, err
	}
	opts.Detectors = detectors
	opts.Actions = p.actions
	return opts, nil
}
