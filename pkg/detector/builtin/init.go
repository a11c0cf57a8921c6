package builtin

import (
	"github.com/AccelByte/extend-struggle-engine/pkg/detector"
)

// RegisterBuiltinDetectors registers all built-in detector types with the factory.
func RegisterBuiltinDetectors() {
	detector.RegisterDetectorType(RageClickDetectorID, func(config detector.DetectorConfig) (detector.Detector, error) {
		return NewRageClickDetector(config), nil
	})

	detector.RegisterDetectorType(DeadEndTabDetectorID, func(config detector.DetectorConfig) (detector.Detector, error) {
		return NewDeadEndTabDetector(config), nil
	})

	detector.RegisterDetectorType(ClusterLoopDetectorID, func(config detector.DetectorConfig) (detector.Detector, error) {
		return NewClusterLoopDetector(config), nil
	})

	detector.RegisterDetectorType(UTurnDetectorID, func(config detector.DetectorConfig) (detector.Detector, error) {
		return NewUTurnDetector(config), nil
	})

	detector.RegisterDetectorType(InputAbandonmentDetectorID, func(config detector.DetectorConfig) (detector.Detector, error) {
		return NewInputAbandonmentDetector(config), nil
	})
}

// DefaultConfigs returns the configuration of every built-in detector with
// default parameters, used when no pipeline file is given.
func DefaultConfigs() []detector.DetectorConfig {
	ids := []string{
		RageClickDetectorID,
		DeadEndTabDetectorID,
		ClusterLoopDetectorID,
		UTurnDetectorID,
		InputAbandonmentDetectorID,
	}

	configs := make([]detector.DetectorConfig, 0, len(ids))
	for _, id := range ids {
		configs = append(configs, detector.DetectorConfig{
			ID:      id,
			Type:    id,
			Enabled: true,
		})
	}
	return configs
}
