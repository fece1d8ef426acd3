package scan

import (
	"context"
	"fmt"

	"github.com/dd0wney/cluso-scan/pkg/graph"
	"github.com/dd0wney/cluso-scan/pkg/logging"
	"github.com/dd0wney/cluso-scan/pkg/parallel"
)

// SweepResult is the outcome of one parameter set of a sweep.
type SweepResult struct {
	Params Params
	Result *Result
	Err    error
}

// Grid returns every combination of the given eps and mu values, eps
// varying slowest.
func Grid(eps []float64, mus []int) []Params {
	grid := make([]Params, 0, len(eps)*len(mus))
	for _, e := range eps {
		for _, m := range mus {
			grid = append(grid, Params{Epsilon: e, Mu: m})
		}
	}
	return grid
}

// Sweep clusters idx once per parameter set on up to workers goroutines.
// The index is shared read-only; each run gets its own engine. Results are
// in grid order. A cancelled ctx marks the runs not yet started with its
// error and a run that panics gets ErrRunAborted. WithRunID is ignored so
// every run keeps a distinct id.
func Sweep(ctx context.Context, idx *graph.Index, grid []Params, workers int, opts ...Option) ([]SweepResult, error) {
	if idx == nil {
		return nil, ErrNilIndex
	}
	for i, p := range grid {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("grid entry %d: %w", i, err)
		}
	}

	logger, _ := peekOptions(opts)
	pool, err := parallel.NewWorkerPool(min(parallel.Workers(workers), max(len(grid), 1)), logger)
	if err != nil {
		return nil, err
	}
	logger.Info("sweep started", logging.Int("runs", len(grid)), logging.Int("workers", pool.Size()))

	runOpts := append(append([]Option(nil), opts...), WithRunID(""))
	out := make([]SweepResult, len(grid))
	for i, p := range grid {
		out[i].Params = p
		pool.Submit(func() error {
			defer func() {
				if out[i].Result == nil && out[i].Err == nil {
					out[i].Err = ErrRunAborted
				}
			}()
			if err := ctx.Err(); err != nil {
				out[i].Err = err
				return nil
			}
			e, err := New(idx, p, runOpts...)
			if err != nil {
				out[i].Err = err
				return nil
			}
			out[i].Result, out[i].Err = e.Run()
			return nil
		})
	}

	if err := pool.Close(); err != nil {
		return out, fmt.Errorf("sweep failed: %w", err)
	}
	return out, nil
}
