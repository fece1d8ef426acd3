package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the metrics of clustering runs.
type Registry struct {
	// Load Metrics
	GraphVertices      prometheus.Gauge
	GraphArcs          prometheus.Gauge
	LoadSelfLoopsTotal prometheus.Counter
	LoadDuration       prometheus.Histogram

	// Similarity Metrics
	SimilarityEvaluationsTotal *prometheus.CounterVec
	SimilarityEarlyExitsTotal  *prometheus.CounterVec
	SimilarityCacheHitsTotal   prometheus.Counter

	// Clustering Metrics
	RunsTotal      *prometheus.CounterVec
	Clusters       prometheus.Gauge
	VerticesByRole *prometheus.GaugeVec
	StageDuration  *prometheus.HistogramVec

	// System Metrics
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.Mutex
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide metrics registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with every metric registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initLoadMetrics()
	r.initSimilarityMetrics()
	r.initClusterMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
