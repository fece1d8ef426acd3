package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSimilarityMetrics() {
	r.SimilarityEvaluationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scan_similarity_evaluations_total",
			Help: "Total number of edges whose structural similarity was evaluated",
		},
		[]string{"outcome"},
	)

	r.SimilarityEarlyExitsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scan_similarity_early_exits_total",
			Help: "Total number of neighbourhood intersections cut short by the lower bound",
		},
		[]string{"outcome"},
	)

	r.SimilarityCacheHitsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "scan_similarity_cache_hits_total",
			Help: "Total number of similarity lookups answered from the per-arc cache",
		},
	)
}
