package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Similarity outcome label values.
const (
	OutcomeSimilar    = "similar"
	OutcomeDissimilar = "dissimilar"
)

// Run status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RecordLoad records the shape of a freshly loaded graph.
func (r *Registry) RecordLoad(vertices, arcs, selfLoops int, duration time.Duration) {
	r.GraphVertices.Set(float64(vertices))
	r.GraphArcs.Set(float64(arcs))
	r.LoadSelfLoopsTotal.Add(float64(selfLoops))
	r.LoadDuration.Observe(duration.Seconds())
}

// RecordSimilarity adds the similarity counters of one run.
func (r *Registry) RecordSimilarity(similar, dissimilar, earlySimilar, earlyDissimilar, cacheHits int) {
	r.SimilarityEvaluationsTotal.WithLabelValues(OutcomeSimilar).Add(float64(similar))
	r.SimilarityEvaluationsTotal.WithLabelValues(OutcomeDissimilar).Add(float64(dissimilar))
	r.SimilarityEarlyExitsTotal.WithLabelValues(OutcomeSimilar).Add(float64(earlySimilar))
	r.SimilarityEarlyExitsTotal.WithLabelValues(OutcomeDissimilar).Add(float64(earlyDissimilar))
	r.SimilarityCacheHitsTotal.Add(float64(cacheHits))
}

// ObserveStage records the duration of one clustering stage.
func (r *Registry) ObserveStage(stage string, duration time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordRun records the outcome of a run. roles maps role names to vertex
// counts; roles absent from the map are reset to zero.
func (r *Registry) RecordRun(status string, clusters int, roles map[string]int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.RunsTotal.WithLabelValues(status).Inc()
	if status != StatusSuccess {
		return
	}

	r.Clusters.Set(float64(clusters))
	r.VerticesByRole.Reset()
	for role, n := range roles {
		r.VerticesByRole.WithLabelValues(role).Set(float64(n))
	}
	r.updateMemory()
}

func (r *Registry) updateMemory() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}

// WriteTextfile writes every metric in the text exposition format, for
// pickup by a node-exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
