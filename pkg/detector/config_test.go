package detector

import (
	"testing"
	"time"
)

func TestDetectorConfig_Getters(t *testing.T) {
	config := DetectorConfig{
		Parameters: map[string]interface{}{
			"threshold": 5,
			"delta":     60,
			"radius":    300.5,
			"window":    "2s",
			"window_ms": 1500,
			"enabled":   true,
			"mode":      "sticky",
		},
	}

	if got := config.GetInt("threshold", 0); got != 5 {
		t.Errorf("GetInt = %d, expected 5", got)
	}
	if got := config.GetFloat("delta", 0); got != 60 {
		t.Errorf("GetFloat(int) = %v, expected 60", got)
	}
	if got := config.GetFloat("radius", 0); got != 300.5 {
		t.Errorf("GetFloat = %v, expected 300.5", got)
	}
	if got := config.GetDuration("window", 0); got != 2*time.Second {
		t.Errorf("GetDuration(string) = %v, expected 2s", got)
	}
	if got := config.GetDuration("window_ms", 0); got != 1500*time.Millisecond {
		t.Errorf("GetDuration(int) = %v, expected 1.5s", got)
	}
	if !config.GetBool("enabled", false) {
		t.Error("GetBool = false, expected true")
	}
	if got := config.GetString("mode", ""); got != "sticky" {
		t.Errorf("GetString = %q, expected sticky", got)
	}
	if got := config.GetInt("missing", 7); got != 7 {
		t.Errorf("GetInt(missing) = %d, expected default 7", got)
	}
	if got := config.GetDuration("mode", time.Minute); got != time.Minute {
		t.Errorf("GetDuration(bad string) = %v, expected default", got)
	}
}
