package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initClusterMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scan_runs_total",
			Help: "Total number of clustering runs",
		},
		[]string{"status"},
	)

	r.Clusters = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "scan_clusters",
			Help: "Number of clusters found by the last run",
		},
	)

	r.VerticesByRole = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scan_vertices",
			Help: "Vertices per role (core, border, hub, outlier) in the last run",
		},
		[]string{"role"},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scan_stage_duration_seconds",
			Help:    "Duration of each clustering stage in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1, 10, 60},
		},
		[]string{"stage"},
	)
}
