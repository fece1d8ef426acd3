package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSystemMetrics() {
	r.MemoryAllocBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "scan_memory_alloc_bytes",
			Help: "Bytes of allocated heap objects after the last run",
		},
	)

	r.MemorySysBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "scan_memory_sys_bytes",
			Help: "Total bytes of memory obtained from the OS after the last run",
		},
	)
}
