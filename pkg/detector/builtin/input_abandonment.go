package builtin

import (
	"context"
	"unicode/utf8"

	"github.com/AccelByte/extend-struggle-engine/pkg/detector"
	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
	"github.com/sirupsen/logrus"
)

const (
	// InputAbandonmentDetectorID is the identifier for the input abandonment detector
	InputAbandonmentDetectorID = "input_abandonment"

	DefaultInputAbandonmentDelta = 20.0
)

type inputProgress struct {
	typed   int
	length  int
	deleted bool
}

// InputAbandonmentDetector fires when a user types into a field, erases it
// again and leaves without submitting.
type InputAbandonmentDetector struct {
	config detector.DetectorConfig
	delta  float64

	inputs map[string]*inputProgress
}

// NewInputAbandonmentDetector creates a new input abandonment detector.
func NewInputAbandonmentDetector(config detector.DetectorConfig) *InputAbandonmentDetector {
	return &InputAbandonmentDetector{
		config: config,
		delta:  config.GetFloat("delta", DefaultInputAbandonmentDelta),
		inputs: make(map[string]*inputProgress),
	}
}

func (d *InputAbandonmentDetector) ID() string                      { return d.config.ID }
func (d *InputAbandonmentDetector) Name() string                    { return "Input Abandonment Detection" }
func (d *InputAbandonmentDetector) Config() detector.DetectorConfig { return d.config }

func (d *InputAbandonmentDetector) Kinds() []signal.Kind {
	return []signal.Kind{signal.KindFocus, signal.KindKeyDown, signal.KindBlur, signal.KindSubmit, signal.KindClick}
}

// Evaluate advances the per-input state machine.
func (d *InputAbandonmentDetector) Evaluate(ctx context.Context, ev *signal.Event) (bool, *detector.Trigger, error) {
	if ev.IsSubmission() {
		d.inputs = make(map[string]*inputProgress)
		return false, nil, nil
	}

	switch ev.Kind {
	case signal.KindFocus:
		if ev.Target.IsTextInput() {
			d.inputs[ev.TargetID] = &inputProgress{}
		}

	case signal.KindKeyDown:
		p, ok := d.inputs[ev.TargetID]
		if !ok {
			return false, nil, nil
		}
		if ev.IsDeletion() {
			if p.length > 0 {
				p.length--
				p.deleted = true
			}
		} else if utf8.RuneCountInString(ev.Key) == 1 {
			p.typed++
			p.length++
		}

	case signal.KindBlur:
		p, ok := d.inputs[ev.TargetID]
		if !ok {
			return false, nil, nil
		}
		delete(d.inputs, ev.TargetID)

		if !abandoned(p, ev.Target) {
			return false, nil, nil
		}

		logrus.Infof("input abandonment detected on %s", ev.TargetID)

		trigger := detector.NewTrigger(d.ID(), "Input abandoned", d.delta, d.config.Priority, ev.Timestamp).
			WithMetadata("target_id", ev.TargetID).
			WithMetadata("typed", p.typed)
		return true, trigger, nil
	}

	return false, nil, nil
}

// abandoned reports whether the input was typed into and cleared again.
// The value length reported by the environment wins over the keystroke count.
func abandoned(p *inputProgress, el signal.Element) bool {
	if p.typed == 0 || !p.deleted {
		return false
	}
	if el.ValueLength != nil {
		return *el.ValueLength == 0
	}
	return p.length == 0
}
