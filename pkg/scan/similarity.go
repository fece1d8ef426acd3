package scan

import (
	"github.com/dd0wney/cluso-scan/pkg/graph"
)

// Similarity is the cached classification of an arc.
type Similarity uint8

const (
	Unresolved Similarity = iota
	Similar
	Dissimilar
)

func (s Similarity) String() string {
	switch s {
	case Similar:
		return "similar"
	case Dissimilar:
		return "dissimilar"
	default:
		return "unresolved"
	}
}

// CommonNeighbours returns |N(u) ∩ N(v)| over open neighbourhoods by a
// linear merge of the two sorted ranges. Vertices with fewer than two
// neighbours have no meaningful overlap and yield 0.
func (e *Engine) CommonNeighbours(u, v graph.VertexID) int {
	nu, nv := e.idx.Neighbours(u), e.idx.Neighbours(v)
	if len(nu) < 2 || len(nv) < 2 {
		return 0
	}

	cn := 0
	i, j := 0, 0
	for i < len(nu) && j < len(nv) {
		switch {
		case nu[i] < nv[j]:
			i++
		case nu[i] > nv[j]:
			j++
		default:
			cn++
			i++
			j++
		}
	}
	return cn
}

// RequiredCommon returns the number of closed-neighbourhood common
// neighbours u and v must share to be similar.
func (e *Engine) RequiredCommon(u, v graph.VertexID) int {
	return e.threshold.LowerBound(e.idx.Degree(u)+1, e.idx.Degree(v)+1)
}

// evaluate decides whether the edge u–v is similar. Similarity is measured
// on closed neighbourhoods: both endpoints count as common neighbours, so
// the open intersection needs only RequiredCommon-2 matches. The merge stops
// as soon as the outcome is known.
func (e *Engine) evaluate(u, v graph.VertexID) Similarity {
	bound := e.RequiredCommon(u, v)
	nu, nv := e.idx.Neighbours(u), e.idx.Neighbours(v)

	if len(nu) < 2 || len(nv) < 2 {
		if bound <= 0 {
			return Similar
		}
		return Dissimilar
	}

	need := bound - 2
	if need <= 0 {
		e.stats.EarlySimilar++
		return Similar
	}

	cn := 0
	i, j := 0, 0
	for i < len(nu) && j < len(nv) {
		if cn+min(len(nu)-i, len(nv)-j) < need {
			e.stats.EarlyDissimilar++
			return Dissimilar
		}
		switch {
		case nu[i] < nv[j]:
			i++
		case nu[i] > nv[j]:
			j++
		default:
			cn++
			if cn >= need {
				e.stats.EarlySimilar++
				return Similar
			}
			i++
			j++
		}
	}
	return Dissimilar
}

// resolve returns the classification of arc a owned by u, evaluating it on
// first use. The outcome is stored on both a and its mirror and the degree
// counters of both endpoints are updated once.
func (e *Engine) resolve(u graph.VertexID, a graph.ArcIndex) Similarity {
	if s := e.sim[a]; s != Unresolved {
		e.stats.CacheHits++
		return s
	}

	v := e.idx.Dest(a)
	s := e.evaluate(u, v)
	e.sim[a] = s
	e.sim[e.idx.Mirror(a)] = s

	if s == Similar {
		e.similarDegree[u]++
		e.similarDegree[v]++
		e.stats.Similar++
	} else {
		e.effectiveDegree[u]--
		e.effectiveDegree[v]--
		e.stats.Dissimilar++
	}
	return s
}

// ArcSimilarity returns the cached classification of arc a.
func (e *Engine) ArcSimilarity(a graph.ArcIndex) Similarity {
	return e.sim[a]
}
