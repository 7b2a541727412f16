package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ScannedFilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ducku_scanned_files_total",
		Help: "Total number of files accepted into a scan snapshot.",
	}, []string{"language"})

	SkippedFilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ducku_skipped_files_total",
		Help: "Total number of files skipped during scanning.",
	}, []string{"reason"})

	ParseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ducku_parse_seconds",
		Help:    "Time spent extracting references from a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ducku_graph_nodes_total",
		Help: "Total number of module nodes in the dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ducku_graph_edges_total",
		Help: "Total number of reference edges in the dependency graph.",
	})

	RootsTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ducku_entry_points_total",
		Help: "Number of detected entry points by detection reason.",
	}, []string{"reason"})

	FindingsTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ducku_findings_total",
		Help: "Number of unused-module findings by classification.",
	}, []string{"classification"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ducku_analysis_seconds",
		Help:    "Time spent on high-level analysis phases.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ducku_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RescansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ducku_rescans_total",
		Help: "Total number of watch-mode rescans triggered.",
	})
)
