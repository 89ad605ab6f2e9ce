package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ExtractionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ripple_extraction_seconds",
		Help:    "Time spent extracting facts from a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ripple_graph_nodes_total",
		Help: "Total number of nodes in the dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ripple_graph_edges_total",
		Help: "Total number of edges in the dependency graph.",
	})

	CyclesDetected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ripple_cycles_detected",
		Help: "Number of dependency cycles found in the last analysis.",
	})

	ImpactedNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ripple_impacted_nodes",
		Help: "Number of nodes reached by the last impact propagation.",
	})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ripple_stage_seconds",
		Help:    "Time spent in each analysis stage.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ripple_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	AnalysisRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ripple_analysis_runs_total",
		Help: "Total number of completed analysis runs.",
	})
)
