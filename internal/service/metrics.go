package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// reloadsTotal counts snapshot reload attempts.
	// Labels: status (success, error)
	reloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "digitalthread",
		Subsystem: "snapshot",
		Name:      "reloads_total",
		Help:      "Total snapshot reload attempts",
	}, []string{"status"})

	// reloadDuration measures load plus store build time.
	reloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "digitalthread",
		Subsystem: "snapshot",
		Name:      "reload_duration_seconds",
		Help:      "Time to load a dataset and build the store",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	// artifactsGauge tracks the size of the current snapshot.
	// Labels: kind
	artifactsGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "digitalthread",
		Subsystem: "snapshot",
		Name:      "artifacts",
		Help:      "Artifacts in the current snapshot by kind",
	}, []string{"kind"})

	// danglingGauge tracks links whose target is absent from the snapshot.
	danglingGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "digitalthread",
		Subsystem: "snapshot",
		Name:      "dangling_links",
		Help:      "Links in the current snapshot whose target id is unknown",
	})

	// viewBuilds counts projections computed.
	// Labels: view (flow, network, timeline)
	viewBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "digitalthread",
		Subsystem: "view",
		Name:      "builds_total",
		Help:      "Total view projections computed",
	}, []string{"view"})

	// droppedEvents counts timeline events excluded for unparseable dates.
	// Labels: event_kind (creation, modification)
	droppedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "digitalthread",
		Subsystem: "view",
		Name:      "timeline_dropped_events_total",
		Help:      "Timeline events excluded because their date could not be parsed",
	}, []string{"event_kind"})

	// busDropped counts events a full subscriber did not receive.
	// Labels: type (snapshot_reloaded, snapshot_reload_failed)
	busDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "digitalthread",
		Subsystem: "events",
		Name:      "dropped_total",
		Help:      "Events not delivered because a subscriber channel was full",
	}, []string{"type"})
)
