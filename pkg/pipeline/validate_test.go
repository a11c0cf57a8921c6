package pipeline

import (
	"strings"
	"testing"

	"github.com/AccelByte/extend-struggle-engine/pkg/action"
	"github.com/AccelByte/extend-struggle-engine/pkg/detector"
	detectorbuiltin "github.com/AccelByte/extend-struggle-engine/pkg/detector/builtin"
)

func TestValidateWiring_AllRegistered(t *testing.T) {
	detectorRegistry := detector.NewRegistry()
	actionRegistry := action.NewRegistry()

	rage := detectorbuiltin.NewRageClickDetector(detector.DetectorConfig{ID: "rage", Type: "rage_click", Enabled: true})
	if err := detectorRegistry.Register(rage); err != nil {
		t.Fatalf("failed to register detector: %v", err)
	}

	config := &Config{
		Detectors: []detector.DetectorConfig{rage.Config()},
	}

	if err := ValidateWiring(detectorRegistry, actionRegistry, config); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
}

func TestValidateWiring_MissingDetector(t *testing.T) {
	config := &Config{
		Detectors: []detector.DetectorConfig{
			{ID: "typo", Type: "rage_clik", Enabled: true},
			{ID: "off", Type: "rage_click", Enabled: false},
		},
	}

	err := ValidateWiring(detector.NewRegistry(), action.NewRegistry(), config)
	if err == nil {
		t.Fatal("expected error for unregistered detector")
	}
	if !strings.Contains(err.Error(), "detector 'typo'") {
		t.Errorf("expected error naming 'typo', got: %v", err)
	}
	if strings.Contains(err.Error(), "'off'") {
		t.Errorf("disabled detectors must not be reported, got: %v", err)
	}
}

func TestValidateWiring_AlertToDisabledAction(t *testing.T) {
	_, err := Build(&Config{
		Engine: testEngineConfig(),
		Actions: []action.ActionConfig{
			{ID: "show_prompt", Type: "show_prompt", Enabled: true},
			{ID: "auto_report", Type: "auto_report", Enabled: false},
		},
		Alerts: []AlertConfig{
			{Level: "level2", Actions: []string{"show_prompt", "auto_report"}},
		},
	})
	if err == nil {
		t.Fatal("expected error for alert mapped to a disabled action")
	}
	if !strings.Contains(err.Error(), "disabled action 'auto_report'") {
		t.Errorf("unexpected error: %v", err)
	}
}
