package scan

import (
	"fmt"
	"math"
)

// Params are the clustering parameters.
type Params struct {
	// Epsilon is the structural similarity threshold in [0,1]. Only the first
	// four decimal digits are significant.
	Epsilon float64 `json:"eps" yaml:"eps"`
	// Mu is the minimum number of similar vertices, the vertex itself
	// included, that makes a vertex a core.
	Mu int `json:"mu" yaml:"mu"`
	// Alpha is reserved for probability-aware similarity and is not used by
	// the deterministic engine.
	Alpha float64 `json:"alpha" yaml:"alpha"`
}

// DefaultParams returns eps=0.5, mu=2.
func DefaultParams() Params {
	return Params{Epsilon: 0.5, Mu: 2}
}

// Validate reports the first out-of-range parameter.
func (p Params) Validate() error {
	if math.IsNaN(p.Epsilon) || p.Epsilon < 0 || p.Epsilon > 1 {
		return fmt.Errorf("%w, got %v", ErrInvalidEpsilon, p.Epsilon)
	}
	if p.Mu < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidMu, p.Mu)
	}
	if math.IsNaN(p.Alpha) || p.Alpha < 0 || p.Alpha > 1 {
		return fmt.Errorf("%w, got %v", ErrInvalidAlpha, p.Alpha)
	}
	return nil
}
