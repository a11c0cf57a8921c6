package builtin

import (
	"context"
	"testing"
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/detector"
	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
	"github.com/AccelByte/extend-struggle-engine/pkg/state"
)

var t0 = time.Unix(1700000000, 0)

func cfg(id string, params map[string]interface{}) detector.DetectorConfig {
	return detector.DetectorConfig{ID: id, Type: id, Enabled: true, Parameters: params}
}

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func click(target string, ms int) *signal.Event {
	return &signal.Event{
		Kind:      signal.KindClick,
		TargetID:  target,
		Target:    signal.Element{NodeID: target, TagName: "DIV"},
		Timestamp: at(ms),
	}
}

func clickXY(target string, ms int, x, y float64) *signal.Event {
	ev := click(target, ms)
	ev.Position = &signal.Point{X: x, Y: y}
	return ev
}

func focus(target string, ms int) *signal.Event {
	return &signal.Event{
		Kind:      signal.KindFocus,
		TargetID:  target,
		Target:    signal.Element{NodeID: target, TagName: "INPUT"},
		Timestamp: at(ms),
	}
}

func key(target, k string, ms int) *signal.Event {
	return &signal.Event{
		Kind:      signal.KindKeyDown,
		TargetID:  target,
		Target:    signal.Element{NodeID: target, TagName: "INPUT"},
		Timestamp: at(ms),
		Key:       k,
	}
}

func blur(target string, ms int) *signal.Event {
	return &signal.Event{
		Kind:      signal.KindBlur,
		TargetID:  target,
		Target:    signal.Element{NodeID: target, TagName: "INPUT"},
		Timestamp: at(ms),
	}
}

func evaluate(t *testing.T, d detector.Detector, ev *signal.Event) *detector.Trigger {
	t.Helper()
	matched, trigger, err := d.Evaluate(context.Background(), ev)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if matched != (trigger != nil) {
		t.Fatalf("matched=%v but trigger=%v", matched, trigger)
	}
	return trigger
}

func TestRegisterBuiltinDetectors(t *testing.T) {
	RegisterBuiltinDetectors()

	registry := detector.NewRegistry()
	if err := detector.RegisterDetectors(registry, DefaultConfigs()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if registry.Count() != 5 {
		t.Errorf("Expected 5 detectors, got %d", registry.Count())
	}

	d, err := detector.CreateDetector(cfg(RageClickDetectorID, nil))
	if err != nil || d == nil {
		t.Fatalf("CreateDetector() = %v, %v", d, err)
	}
	if d.Name() != "Rage Click Detection" {
		t.Errorf("Name() = %q", d.Name())
	}

	if _, err := detector.CreateDetector(cfg("nope", nil)); err == nil {
		t.Error("Expected error for unknown detector type")
	}
}

func TestRageClick_FiresOncePerBurst(t *testing.T) {
	d := NewRageClickDetector(cfg(RageClickDetectorID, nil))

	fired := 0
	for i := 0; i < 6; i++ {
		if tr := evaluate(t, d, click("n1", i*100)); tr != nil {
			fired++
			if i != 5 {
				t.Errorf("fired on click %d, expected the 6th", i+1)
			}
			if tr.Delta != 60 || !tr.SuppressMomentum {
				t.Errorf("trigger = %+v, expected +60 with momentum suppressed", tr)
			}
		}
	}
	if fired != 1 {
		t.Fatalf("fired %d times, expected 1", fired)
	}

	// Window entries for the target were cleared.
	for i := 6; i < 11; i++ {
		if tr := evaluate(t, d, click("n1", i*100)); tr != nil {
			t.Errorf("fired again on click %d within the same burst", i+1)
		}
	}
}

func TestRageClick_WindowExpiry(t *testing.T) {
	d := NewRageClickDetector(cfg(RageClickDetectorID, nil))

	// Six clicks spread 500ms apart never have more than five inside 2s.
	for i := 0; i < 10; i++ {
		if tr := evaluate(t, d, click("n1", i*500)); tr != nil {
			t.Fatalf("fired on click %d, expected no fire", i+1)
		}
	}
}

func TestRageClick_WindowIsHalfOpen(t *testing.T) {
	d := NewRageClickDetector(cfg(RageClickDetectorID, nil))

	// The first click is exactly 2s old when the sixth lands and no longer counts.
	for i := 0; i < 6; i++ {
		if tr := evaluate(t, d, click("n1", i*400)); tr != nil {
			t.Fatalf("fired on click %d, expected no fire", i+1)
		}
	}

	if tr := evaluate(t, d, click("n1", 2100)); tr == nil {
		t.Fatal("expected six clicks within 2s to fire")
	}
}

func TestRageClick_IgnoresInteractive(t *testing.T) {
	d := NewRageClickDetector(cfg(RageClickDetectorID, nil))

	for i := 0; i < 10; i++ {
		ev := click("btn", i*50)
		ev.Target.TagName = "BUTTON"
		if tr := evaluate(t, d, ev); tr != nil {
			t.Fatal("rage click should never fire on interactive targets")
		}
	}
}

func TestRageClick_CountsPerTarget(t *testing.T) {
	d := NewRageClickDetector(cfg(RageClickDetectorID, nil))

	for i := 0; i < 10; i++ {
		target := "a"
		if i%2 == 1 {
			target = "b"
		}
		if tr := evaluate(t, d, click(target, i*100)); tr != nil {
			t.Fatalf("fired on alternating targets at click %d", i+1)
		}
	}
}

func TestDeadEndTab_FiresOnSixteenthFocus(t *testing.T) {
	d := NewDeadEndTabDetector(cfg(DeadEndTabDetectorID, nil))

	for i := 1; i <= 32; i++ {
		tr := evaluate(t, d, focus("f", i))
		shouldFire := i == 16 || i == 32
		if (tr != nil) != shouldFire {
			t.Errorf("focus %d: fired=%v, expected %v", i, tr != nil, shouldFire)
		}
		if tr != nil && tr.Delta != 40 {
			t.Errorf("Delta = %v, expected 40", tr.Delta)
		}
	}
}

func TestDeadEndTab_ActivityDoesNotResetByDefault(t *testing.T) {
	d := NewDeadEndTabDetector(cfg(DeadEndTabDetectorID, nil))
	if len(d.Kinds()) != 1 {
		t.Fatalf("Kinds() = %v, expected focus only", d.Kinds())
	}

	for i := 1; i <= 15; i++ {
		evaluate(t, d, focus("f", i))
	}
	if tr := evaluate(t, d, focus("f", 16)); tr == nil {
		t.Error("expected fire on 16th focus")
	}
}

func TestDeadEndTab_ResetOnActivity(t *testing.T) {
	d := NewDeadEndTabDetector(cfg(DeadEndTabDetectorID, map[string]interface{}{"reset_on_activity": true}))

	for i := 1; i <= 10; i++ {
		evaluate(t, d, focus("f", i))
	}
	evaluate(t, d, click("n1", 11))
	for i := 12; i <= 26; i++ {
		if tr := evaluate(t, d, focus("f", i)); tr != nil {
			t.Fatalf("fired at focus event %d after activity reset", i)
		}
	}
}

func TestClusterLoop_FiresOnFifthNearbyClick(t *testing.T) {
	d := NewClusterLoopDetector(cfg(ClusterLoopDetectorID, nil))

	points := [][2]float64{{100, 100}, {150, 120}, {900, 900}, {200, 180}, {120, 300}}
	for i, p := range points {
		if tr := evaluate(t, d, clickXY("t", i*200, p[0], p[1])); tr != nil {
			t.Fatalf("fired early at click %d", i+1)
		}
	}

	tr := evaluate(t, d, clickXY("t", 1000, 130, 130))
	if tr == nil {
		t.Fatal("expected cluster loop to fire")
	}
	if tr.Delta != 15 || tr.Metadata["cluster_size"] != 5 {
		t.Errorf("trigger = %+v, expected +15 with 5 entries", tr)
	}

	// Cluster entries were dropped.
	if tr := evaluate(t, d, clickXY("t", 1100, 130, 130)); tr != nil {
		t.Error("fired again right after clearing the cluster")
	}
}

func TestClusterLoop_WindowAndPosition(t *testing.T) {
	d := NewClusterLoopDetector(cfg(ClusterLoopDetectorID, nil))

	for i := 0; i < 10; i++ {
		if tr := evaluate(t, d, clickXY("t", i*2000, 100, 100)); tr != nil {
			t.Fatalf("fired at click %d, entries older than the window should be pruned", i+1)
		}
	}
	if tr := evaluate(t, d, click("t", 30000)); tr != nil {
		t.Error("click without position should be ignored")
	}
}

func TestIsUTurn(t *testing.T) {
	tests := []struct {
		steps []string
		want  bool
	}{
		{[]string{"A", "B", "C", "B", "A"}, true},
		{[]string{"X", "A", "B", "C", "B", "A"}, true},
		{[]string{"A", "B", "A", "B", "A"}, false},
		{[]string{"A", "B", "C", "B", "D"}, false},
		{[]string{"A", "A", "C", "A", "A"}, false},
		{[]string{"B", "C", "B", "A"}, false},
	}

	for _, tt := range tests {
		if got := IsUTurn(tt.steps); got != tt.want {
			t.Errorf("IsUTurn(%v) = %v, expected %v", tt.steps, got, tt.want)
		}
	}
}

func TestUTurn_FocusTrail(t *testing.T) {
	d := NewUTurnDetector(cfg(UTurnDetectorID, nil))

	trail := state.NewFocusTrail(50)
	var fired []int
	for i, id := range []string{"A", "B", "C", "B", "A"} {
		trail.Push(state.FocusEntry{Timestamp: at(i), TargetID: id})
		ev := focus(id, i).WithContext(signal.BuildSessionContext("s", "t", trail))
		if tr := evaluate(t, d, ev); tr != nil {
			fired = append(fired, i)
			if tr.Delta != 30 {
				t.Errorf("Delta = %v, expected 30", tr.Delta)
			}
		}
	}

	if len(fired) != 1 || fired[0] != 4 {
		t.Errorf("fired at %v, expected only on the fifth focus", fired)
	}
}

func TestUTurn_Navigation(t *testing.T) {
	d := NewUTurnDetector(cfg(UTurnDetectorID, nil))

	urls := []string{"/a", "/b", "/c", "/b", "/a"}
	var tr *detector.Trigger
	for i, u := range urls {
		tr = evaluate(t, d, &signal.Event{Kind: signal.KindNavigate, TargetID: u, Timestamp: at(i)})
		if tr != nil && i != 4 {
			t.Fatalf("fired early at navigation %d", i+1)
		}
	}
	if tr == nil {
		t.Fatal("expected u-turn on navigation")
	}
}

func TestInputAbandonment(t *testing.T) {
	tests := []struct {
		name   string
		events []*signal.Event
		want   bool
	}{
		{
			name:   "typed then cleared then blurred",
			events: []*signal.Event{focus("in", 0), key("in", "a", 1), key("in", "b", 2), key("in", "Backspace", 3), key("in", "Backspace", 4), blur("in", 5)},
			want:   true,
		},
		{
			name:   "partially cleared",
			events: []*signal.Event{focus("in", 0), key("in", "a", 1), key("in", "b", 2), key("in", "Backspace", 3), blur("in", 5)},
			want:   false,
		},
		{
			name:   "typed without deleting",
			events: []*signal.Event{focus("in", 0), key("in", "a", 1), blur("in", 5)},
			want:   false,
		},
		{
			name:   "deleting without typing",
			events: []*signal.Event{focus("in", 0), key("in", "Delete", 1), blur("in", 5)},
			want:   false,
		},
		{
			name:   "submitted before blur",
			events: []*signal.Event{focus("in", 0), key("in", "a", 1), key("in", "Backspace", 2), {Kind: signal.KindSubmit, TargetID: "form", Timestamp: at(3)}, blur("in", 5)},
			want:   false,
		},
		{
			name:   "modifier keys are not typing",
			events: []*signal.Event{focus("in", 0), key("in", "Shift", 1), key("in", "Backspace", 2), blur("in", 5)},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewInputAbandonmentDetector(cfg(InputAbandonmentDetectorID, nil))

			var last *detector.Trigger
			for _, ev := range tt.events {
				last = evaluate(t, d, ev)
			}
			if (last != nil) != tt.want {
				t.Errorf("fired=%v, expected %v", last != nil, tt.want)
			}
			if last != nil && last.Delta != 20 {
				t.Errorf("Delta = %v, expected 20", last.Delta)
			}
		})
	}
}

func TestInputAbandonment_ValueLengthWins(t *testing.T) {
	d := NewInputAbandonmentDetector(cfg(InputAbandonmentDetectorID, nil))

	evaluate(t, d, focus("in", 0))
	evaluate(t, d, key("in", "a", 1))
	evaluate(t, d, key("in", "Backspace", 2))

	// Text pasted back in: the environment reports a non-empty value.
	ev := blur("in", 3)
	n := 4
	ev.Target.ValueLength = &n
	if tr := evaluate(t, d, ev); tr != nil {
		t.Error("should not fire when the field still has a value")
	}
}
