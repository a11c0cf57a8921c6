package detector

import (
	"context"
	"sort"
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
	"github.com/sirupsen/logrus"
)

// Engine feeds events to registered detectors and collects their triggers.
type Engine struct {
	registry  *Registry
	lastFired map[string]time.Time
}

// NewEngine creates a new detector engine.
func NewEngine(registry *Registry) *Engine {
	return &Engine{
		registry:  registry,
		lastFired: make(map[string]time.Time),
	}
}

// Evaluate feeds an event to every detector that handles its kind.
// Triggers are returned highest priority first.
func (e *Engine) Evaluate(ctx context.Context, ev *signal.Event) ([]*Trigger, error) {
	if ev == nil {
		return nil, nil
	}

	detectors := e.registry.GetByKind(ev.Kind)
	if len(detectors) == 0 {
		return nil, nil
	}

	var triggers []*Trigger

	for _, d := range detectors {
		matched, trigger, err := d.Evaluate(ctx, ev)
		if err != nil {
			logrus.Errorf("detector %s evaluation failed: %v", d.ID(), err)
			continue
		}

		if !matched || trigger == nil {
			continue
		}

		if e.coolingDown(d, ev.Timestamp) {
			logrus.Debugf("detector %s fired during cooldown, ignored", d.ID())
			continue
		}
		e.lastFired[d.ID()] = ev.Timestamp

		logrus.Infof("detector %s fired on %s: %s (+%.0f)", d.ID(), ev.TargetID, trigger.Reason, trigger.Delta)
		triggers = append(triggers, trigger)
	}

	if len(triggers) > 1 {
		sort.SliceStable(triggers, func(i, j int) bool {
			return triggers[i].Priority > triggers[j].Priority
		})
	}

	return triggers, nil
}

func (e *Engine) coolingDown(d Detector, now time.Time) bool {
	cd := d.Config().Cooldown
	if cd == nil || cd.Duration <= 0 {
		return false
	}
	last, ok := e.lastFired[d.ID()]
	return ok && now.Sub(last) < cd.Duration
}

// GetRegistry returns the detector registry used by this engine.
func (e *Engine) GetRegistry() *Registry {
	return e.registry
}
