package detector

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// DetectorFactory creates a detector from a configuration.
type DetectorFactory func(config DetectorConfig) (Detector, error)

var (
	factories   = make(map[string]DetectorFactory)
	factoriesMu sync.RWMutex
)

// RegisterDetectorType registers a factory function for a detector type.
// This allows external packages to register their detector types without creating import cycles.
func RegisterDetectorType(detectorType string, factory DetectorFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	factories[detectorType] = factory
	logrus.Debugf("registered detector type: %s", detectorType)
}

// IsKnownType reports whether a factory is registered for the type.
func IsKnownType(detectorType string) bool {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	_, ok := factories[detectorType]
	return ok
}

// KnownTypes returns the registered detector types, sorted.
func KnownTypes() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	types := make([]string, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// CreateDetector creates a detector instance based on the configuration.
// Disabled detectors yield nil without error.
func CreateDetector(config DetectorConfig) (Detector, error) {
	if !config.Enabled {
		logrus.Debugf("skipping disabled detector: %s", config.ID)
		return nil, nil
	}

	factoriesMu.RLock()
	factory, exists := factories[config.Type]
	factoriesMu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("unknown detector type: %s", config.Type)
	}

	return factory(config)
}

// CreateDetectors creates detector instances from a list of configurations.
// Returns all successfully created detectors and any errors encountered.
func CreateDetectors(configs []DetectorConfig) ([]Detector, []error) {
	var detectors []Detector
	var errs []error

	for _, config := range configs {
		d, err := CreateDetector(config)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to create detector %s: %w", config.ID, err))
			continue
		}

		if d != nil {
			detectors = append(detectors, d)
		}
	}

	return detectors, errs
}

// RegisterDetectors creates detectors from configs and registers them.
func RegisterDetectors(registry *Registry, configs []DetectorConfig) error {
	detectors, errs := CreateDetectors(configs)

	if len(errs) > 0 {
		logrus.Warnf("encountered %d errors while creating detectors", len(errs))
		for _, err := range errs {
			logrus.Warnf("detector creation error: %v", err)
		}
	}

	for _, d := range detectors {
		if err := registry.Register(d); err != nil {
			return fmt.Errorf("failed to register detector %s: %w", d.ID(), err)
		}
	}

	logrus.Debugf("registered %d detectors", len(detectors))
	return nil
}
