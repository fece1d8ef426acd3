package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initLoadMetrics() {
	r.GraphVertices = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "scan_graph_vertices",
			Help: "Number of vertices in the loaded graph",
		},
	)

	r.GraphArcs = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "scan_graph_arcs",
			Help: "Number of directed arcs in the loaded graph (twice the edge count)",
		},
	)

	r.LoadSelfLoopsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "scan_load_self_loops_total",
			Help: "Total number of self-loop lines dropped while loading",
		},
	)

	r.LoadDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scan_load_duration_seconds",
			Help:    "Edge list load and index build duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 1, 10, 60},
		},
	)
}
