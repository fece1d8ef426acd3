package scan

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-scan/pkg/graph"
	"github.com/dd0wney/cluso-scan/pkg/logging"
	"github.com/dd0wney/cluso-scan/pkg/metrics"
)

// Pipeline stage names, as used in logs, metrics and Stats.Stages.
const (
	StageClassify = "classify"
	StageUnion    = "union"
	StageFlatten  = "flatten"
	StageAttach   = "attach"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger logging.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics records run metrics into r.
func WithMetrics(r *metrics.Registry) Option {
	return func(e *Engine) {
		e.metrics = r
	}
}

// WithExhaustive evaluates every edge during classification instead of
// stopping once a vertex's core status is settled. The clustering is the
// same; only the amount of work differs.
func WithExhaustive() Option {
	return func(e *Engine) {
		e.exhaustive = true
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(e *Engine) {
		e.runID = id
	}
}

// Engine clusters one graph once. It owns every per-run buffer; an Engine
// must not be shared between goroutines.
type Engine struct {
	idx       *graph.Index
	params    Params
	threshold Threshold
	// coreDegree is mu-1: similarDegree counts neighbours only, the vertex
	// itself is the remaining member of its mu-neighbourhood.
	coreDegree int

	sim             []Similarity
	similarDegree   []int
	effectiveDegree []int
	core            []bool

	exhaustive bool
	ran        bool
	runID      string
	stats      Stats
	logger     logging.Logger
	metrics    *metrics.Registry
}

// New validates p and sizes the engine buffers for idx.
func New(idx *graph.Index, p Params, opts ...Option) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if idx == nil {
		return nil, ErrNilIndex
	}

	n, m := idx.NumVertices(), idx.NumArcs()
	e := &Engine{
		idx:             idx,
		params:          p,
		threshold:       NewThreshold(p.Epsilon),
		coreDegree:      p.Mu - 1,
		sim:             make([]Similarity, m),
		similarDegree:   make([]int, n),
		effectiveDegree: make([]int, n),
		core:            make([]bool, n),
		stats:           Stats{Stages: make(map[string]time.Duration, 4)},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.runID == "" {
		e.runID = uuid.NewString()
	}
	e.logger = logging.OrDefault(e.logger).With(logging.Component("scan"), logging.RunID(e.runID))

	for v := graph.VertexID(0); int(v) < n; v++ {
		e.effectiveDegree[v] = idx.Degree(v)
	}
	return e, nil
}

// Params returns the parameters the engine was built with.
func (e *Engine) Params() Params {
	return e.params
}

// Threshold returns the exact eps² ratio in use.
func (e *Engine) Threshold() Threshold {
	return e.threshold
}

// IsCore reports whether v was classified as core. Valid after Run.
func (e *Engine) IsCore(v graph.VertexID) bool {
	return e.core[v]
}

// Run classifies vertices, merges similar cores and attaches the rest.
// It may be called once.
func (e *Engine) Run() (*Result, error) {
	if e.ran {
		return nil, ErrAlreadyRun
	}
	e.ran = true

	e.logger.Info("clustering started",
		logging.Epsilon(e.params.Epsilon), logging.Mu(e.params.Mu),
		logging.Vertices(e.idx.NumVertices()), logging.Arcs(e.idx.NumArcs()))

	e.stage(StageClassify, e.classify)

	var ds *DisjointSet
	e.stage(StageUnion, func() { ds = e.union() })

	var clusterOf []int
	var numClusters int
	e.stage(StageFlatten, func() { clusterOf, numClusters = e.flatten(ds) })

	res := &Result{
		RunID:       e.runID,
		Params:      e.params,
		NumClusters: numClusters,
		index:       e.idx,
	}
	e.stage(StageAttach, func() { res.Assignments = e.attach(clusterOf) })
	res.Stats = e.stats

	counts := res.RoleCounts()
	e.logger.Info("clustering finished",
		logging.Int("clusters", numClusters),
		logging.Int("cores", counts[RoleCore.String()]),
		logging.Int("hubs", counts[RoleHub.String()]),
		logging.Int("outliers", counts[RoleOutlier.String()]),
		logging.Int("evaluations", e.stats.Similar+e.stats.Dissimilar))

	if e.metrics != nil {
		e.metrics.RecordSimilarity(e.stats.Similar, e.stats.Dissimilar,
			e.stats.EarlySimilar, e.stats.EarlyDissimilar, e.stats.CacheHits)
		e.metrics.RecordRun(metrics.StatusSuccess, numClusters, counts)
	}
	return res, nil
}

func (e *Engine) stage(name string, fn func()) {
	timer := logging.StartStage(e.logger, name)
	fn()
	d := timer.End()
	e.stats.Stages[name] = d
	if e.metrics != nil {
		e.metrics.ObserveStage(name, d)
	}
}

func (e *Engine) settled(v graph.VertexID) bool {
	return e.similarDegree[v] >= e.coreDegree || e.effectiveDegree[v] < e.coreDegree
}

// classify resolves arcs vertex by vertex until each vertex's core status
// is settled. similarDegree only grows and effectiveDegree only shrinks, so
// a settled vertex stays settled.
func (e *Engine) classify() {
	n := e.idx.NumVertices()
	for u := graph.VertexID(0); int(u) < n; u++ {
		begin, end := e.idx.Arcs(u)
		for a := begin; a < end; a++ {
			if !e.exhaustive && e.settled(u) {
				break
			}
			if e.sim[a] == Unresolved {
				e.resolve(u, a)
			}
		}
	}

	for v := range e.core {
		e.core[v] = e.similarDegree[v] >= e.coreDegree
	}
}

// union merges every pair of cores joined by a similar edge. Pairs already
// in one set are skipped without evaluating their similarity.
func (e *Engine) union() *DisjointSet {
	n := e.idx.NumVertices()
	ds := NewDisjointSet(n)
	for u := graph.VertexID(0); int(u) < n; u++ {
		if !e.core[u] {
			continue
		}
		begin, end := e.idx.Arcs(u)
		for a := begin; a < end; a++ {
			v := e.idx.Dest(a)
			if v < u || !e.core[v] || ds.Same(u, v) {
				continue
			}
			if e.resolve(u, a) == Similar {
				ds.Union(u, v)
				e.stats.Unions++
			}
		}
	}
	return ds
}

// flatten numbers the core sets densely in ascending order of their
// smallest vertex. Non-core vertices get NoCluster.
func (e *Engine) flatten(ds *DisjointSet) ([]int, int) {
	n := e.idx.NumVertices()
	clusterOf := make([]int, n)
	label := make([]int, n)
	for i := range label {
		label[i] = NoCluster
	}

	k := 0
	for v := graph.VertexID(0); int(v) < n; v++ {
		clusterOf[v] = NoCluster
		if !e.core[v] {
			continue
		}
		root := ds.Find(v)
		if label[root] == NoCluster {
			label[root] = k
			k++
		}
		clusterOf[v] = label[root]
	}
	return clusterOf, k
}

// attach assigns every non-core vertex to the clusters of the cores it is
// similar to, scanning neighbours in ascending id order.
func (e *Engine) attach(clusterOf []int) []Assignment {
	n := e.idx.NumVertices()
	out := make([]Assignment, n)
	for u := graph.VertexID(0); int(u) < n; u++ {
		a := Assignment{
			Vertex:     u,
			ExternalID: e.idx.ExternalID(u),
			Core:       e.core[u],
			Cluster:    clusterOf[u],
		}
		if a.Core {
			a.Role = RoleCore
			out[u] = a
			continue
		}

		var seen []int
		begin, end := e.idx.Arcs(u)
		for arc := begin; arc < end; arc++ {
			v := e.idx.Dest(arc)
			if !e.core[v] || e.resolve(u, arc) != Similar {
				continue
			}
			if c := clusterOf[v]; !containsCluster(seen, c) {
				seen = append(seen, c)
			}
		}

		switch len(seen) {
		case 0:
			a.Role = RoleOutlier
		case 1:
			a.Role = RoleBorder
			a.Cluster = seen[0]
		default:
			a.Role = RoleHub
			a.HubClusters = seen
		}
		out[u] = a
	}
	return out
}

func containsCluster(clusters []int, c int) bool {
	for _, x := range clusters {
		if x == c {
			return true
		}
	}
	return false
}

func (e *Engine) String() string {
	return fmt.Sprintf("scan.Engine{eps=%g mu=%d n=%d m=%d}",
		e.params.Epsilon, e.params.Mu, e.idx.NumVertices(), e.idx.NumArcs())
}
