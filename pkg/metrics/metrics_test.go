package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.GraphVertices == nil {
		t.Error("GraphVertices not initialized")
	}
	if r.SimilarityEvaluationsTotal == nil {
		t.Error("SimilarityEvaluationsTotal not initialized")
	}
	if r.StageDuration == nil {
		t.Error("StageDuration not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordLoad(t *testing.T) {
	r := NewRegistry()

	r.RecordLoad(10, 30, 2, 50*time.Millisecond)
	r.RecordLoad(4, 8, 1, 10*time.Millisecond)

	if v := gaugeValue(t, r.GraphVertices); v != 4 {
		t.Errorf("GraphVertices = %v, want 4", v)
	}
	if v := gaugeValue(t, r.GraphArcs); v != 8 {
		t.Errorf("GraphArcs = %v, want 8", v)
	}
	if v := counterValue(t, r.LoadSelfLoopsTotal); v != 3 {
		t.Errorf("LoadSelfLoopsTotal = %v, want 3", v)
	}
}

func TestRecordSimilarity(t *testing.T) {
	r := NewRegistry()

	r.RecordSimilarity(5, 7, 2, 3, 11)

	tests := []struct {
		name string
		vec  *prometheus.CounterVec
		lbl  string
		want float64
	}{
		{"similar evaluations", r.SimilarityEvaluationsTotal, OutcomeSimilar, 5},
		{"dissimilar evaluations", r.SimilarityEvaluationsTotal, OutcomeDissimilar, 7},
		{"similar early exits", r.SimilarityEarlyExitsTotal, OutcomeSimilar, 2},
		{"dissimilar early exits", r.SimilarityEarlyExitsTotal, OutcomeDissimilar, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.vec.GetMetricWithLabelValues(tt.lbl)
			if err != nil {
				t.Fatalf("Failed to get metric: %v", err)
			}
			if v := counterValue(t, c); v != tt.want {
				t.Errorf("value = %v, want %v", v, tt.want)
			}
		})
	}

	if v := counterValue(t, r.SimilarityCacheHitsTotal); v != 11 {
		t.Errorf("SimilarityCacheHitsTotal = %v, want 11", v)
	}
}

func TestRecordRun(t *testing.T) {
	r := NewRegistry()

	r.RecordRun(StatusSuccess, 3, map[string]int{"core": 6, "hub": 1, "outlier": 2})
	r.RecordRun(StatusSuccess, 2, map[string]int{"core": 4, "border": 1})
	r.RecordRun(StatusError, 0, nil)

	if v := gaugeValue(t, r.Clusters); v != 2 {
		t.Errorf("Clusters = %v, want 2 (error runs leave the gauge alone)", v)
	}

	core, _ := r.VerticesByRole.GetMetricWithLabelValues("core")
	if v := gaugeValue(t, core); v != 4 {
		t.Errorf("core vertices = %v, want 4", v)
	}

	families, err := r.registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "scan_vertices" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetValue() == "hub" {
					t.Error("stale hub series survived a new run")
				}
			}
		}
	}

	success, _ := r.RunsTotal.GetMetricWithLabelValues(StatusSuccess)
	failed, _ := r.RunsTotal.GetMetricWithLabelValues(StatusError)
	if counterValue(t, success) != 2 || counterValue(t, failed) != 1 {
		t.Error("RunsTotal does not match recorded runs")
	}
	if gaugeValue(t, r.MemorySysBytes) <= 0 {
		t.Error("MemorySysBytes not updated")
	}
}

func TestObserveStage(t *testing.T) {
	r := NewRegistry()

	r.ObserveStage("classify", 3*time.Millisecond)
	r.ObserveStage("classify", 5*time.Millisecond)

	observer, err := r.StageDuration.GetMetricWithLabelValues("classify")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := observer.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("sample count = %d, want 2", metric.Histogram.GetSampleCount())
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.RecordLoad(3, 6, 0, time.Millisecond)

	path := filepath.Join(t.TempDir(), "scan.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "scan_graph_vertices 3") {
		t.Errorf("textfile lacks vertex gauge:\n%s", data)
	}
}

func TestMetricNaming(t *testing.T) {
	r := NewRegistry()
	r.RecordSimilarity(1, 1, 0, 0, 0)
	r.RecordRun(StatusSuccess, 1, map[string]int{"core": 1})
	r.ObserveStage("union", time.Millisecond)

	families, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "scan_") {
			t.Errorf("metric %s lacks the scan_ prefix", mf.GetName())
		}
	}
}

func TestConcurrentRecordRun(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.RecordRun(StatusSuccess, 1, map[string]int{"core": 2})
		}()
	}
	wg.Wait()

	success, _ := r.RunsTotal.GetMetricWithLabelValues(StatusSuccess)
	if v := counterValue(t, success); v != 8 {
		t.Errorf("RunsTotal = %v, want 8", v)
	}
}
