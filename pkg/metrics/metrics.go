// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package metrics exposes engine activity as Prometheus metrics.
package metrics

import (
	"github.com/AccelByte/extend-struggle-engine/pkg/report"
	"github.com/AccelByte/extend-struggle-engine/pkg/state"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "struggle"

// Collector holds the metric vectors shared by every engine of a process.
type Collector struct {
	DetectorFires  *prometheus.CounterVec
	ScoreDelta     *prometheus.CounterVec
	Alerts         *prometheus.CounterVec
	Reports        *prometheus.CounterVec
	Scores         prometheus.Histogram
	ActiveSessions prometheus.Gauge
	IngestedEvents *prometheus.CounterVec
}

// NewCollector creates the metric vectors and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		DetectorFires: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "detector_fires_total",
				Help:      "Total number of detector triggers",
			},
			[]string{"detector_id"},
		),
		ScoreDelta: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "detector_score_added_total",
				Help:      "Total score added by detector triggers after sensitivity scaling",
			},
			[]string{"detector_id"},
		),
		Alerts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alerts_total",
				Help:      "Total number of alert level transitions",
			},
			[]string{"level"},
		),
		Reports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reports_total",
				Help:      "Total number of struggle reports by trigger and outcome",
			},
			[]string{"trigger", "outcome"},
		),
		Scores: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "score",
				Help:      "Struggle score after each mutation",
				Buckets:   []float64{0, 25, 50, 100, 150, 200, 300, 500},
			},
		),
		ActiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_sessions",
				Help:      "Number of hosted sessions with a running engine",
			},
		),
		IngestedEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingested_signals_total",
				Help:      "Total number of raw signals received by the ingest API",
			},
			[]string{"type"},
		),
	}

	reg.MustRegister(
		c.DetectorFires,
		c.ScoreDelta,
		c.Alerts,
		c.Reports,
		c.Scores,
		c.ActiveSessions,
		c.IngestedEvents,
	)

	return c
}

// Observer returns an engine observer that records into the collector.
func (c *Collector) Observer() *Observer {
	return &Observer{collector: c}
}

// Observer implements the engine's instrumentation hooks.
type Observer struct {
	collector *Collector
}

func (o *Observer) DetectorFired(detectorID string, delta float64) {
	o.collector.DetectorFires.WithLabelValues(detectorID).Inc()
	if delta > 0 {
		o.collector.ScoreDelta.WithLabelValues(detectorID).Add(delta)
	}
}

func (o *Observer) AlertRaised(level state.AlertLevel) {
	o.collector.Alerts.WithLabelValues(level.String()).Inc()
}

func (o *Observer) ReportFinished(trigger report.Trigger, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	o.collector.Reports.WithLabelValues(string(trigger), outcome).Inc()
}

func (o *Observer) ScoreChanged(score float64) {
	o.collector.Scores.Observe(score)
}
