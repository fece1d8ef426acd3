package scan

import (
	"io"

	"github.com/dd0wney/cluso-scan/pkg/graph"
	"github.com/dd0wney/cluso-scan/pkg/logging"
	"github.com/dd0wney/cluso-scan/pkg/metrics"
)

// Cluster loads an edge list from r and clusters it. Parameters are checked
// before any input is read.
func Cluster(r io.Reader, p Params, opts ...Option) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	logger, reg := peekOptions(opts)

	timer := logging.StartStage(logger, "load")
	idx, stats, err := graph.Load(r, graph.WithLogger(logger))
	if err != nil {
		timer.EndError(err)
		if reg != nil {
			reg.RecordRun(metrics.StatusError, 0, nil)
		}
		return nil, err
	}
	d := timer.End(logging.Vertices(stats.Vertices), logging.Arcs(stats.Arcs))
	if reg != nil {
		reg.RecordLoad(stats.Vertices, stats.Arcs, stats.SelfLoops, d)
	}

	e, err := New(idx, p, opts...)
	if err != nil {
		return nil, err
	}
	return e.Run()
}

// ClusterFile is Cluster over graph.Open(path).
func ClusterFile(path string, p Params, opts ...Option) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	src, err := graph.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return Cluster(src, p, opts...)
}

func peekOptions(opts []Option) (logging.Logger, *metrics.Registry) {
	var e Engine
	for _, opt := range opts {
		opt(&e)
	}
	return logging.OrDefault(e.logger), e.metrics
}
