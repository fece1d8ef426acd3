package graph

import (
	"fmt"
	"sort"
)

// Index is the compressed adjacency of an undirected graph: an offsets array
// of length n+1 over flat per-arc arrays. Neighbour ranges are sorted by
// neighbour id and free of duplicates. Every arc knows the position of its
// mirror, so the reverse direction of an edge is found in O(1).
//
// An Index is immutable once built and may be shared by several engines.
type Index struct {
	offsets []ArcIndex
	dest    []VertexID
	prob    []float32
	mirror  []ArcIndex
	ids     []string
	lookup  map[string]VertexID
}

// NumVertices returns n.
func (x *Index) NumVertices() int {
	return len(x.offsets) - 1
}

// NumArcs returns the number of directed arcs, twice the edge count.
func (x *Index) NumArcs() int {
	return len(x.dest)
}

// NumEdges returns the number of undirected edges.
func (x *Index) NumEdges() int {
	return len(x.dest) / 2
}

// Degree returns the number of neighbours of v.
func (x *Index) Degree(v VertexID) int {
	return int(x.offsets[v+1] - x.offsets[v])
}

// Arcs returns the half-open arc range [begin, end) owned by v.
func (x *Index) Arcs(v VertexID) (begin, end ArcIndex) {
	return x.offsets[v], x.offsets[v+1]
}

// Neighbours returns the sorted neighbour ids of v. The slice aliases the
// index and must not be modified.
func (x *Index) Neighbours(v VertexID) []VertexID {
	return x.dest[x.offsets[v]:x.offsets[v+1]]
}

// Dest returns the vertex arc a points to.
func (x *Index) Dest(a ArcIndex) VertexID {
	return x.dest[a]
}

// Probability returns the probability recorded for arc a.
func (x *Index) Probability(a ArcIndex) float32 {
	return x.prob[a]
}

// Mirror returns the arc running in the opposite direction of a.
func (x *Index) Mirror(a ArcIndex) ArcIndex {
	return x.mirror[a]
}

// Source returns the vertex owning arc a.
func (x *Index) Source(a ArcIndex) VertexID {
	n := x.NumVertices()
	return VertexID(sort.Search(n, func(v int) bool { return x.offsets[v+1] > a }))
}

// ExternalID returns the id v had in the input.
func (x *Index) ExternalID(v VertexID) string {
	return x.ids[v]
}

// Lookup returns the internal id of an external id.
func (x *Index) Lookup(external string) (VertexID, bool) {
	v, ok := x.lookup[external]
	return v, ok
}

// LowerBound returns the first arc of v whose destination is not less than
// target, or the end of v's range when every neighbour is smaller.
func (x *Index) LowerBound(v VertexID, target VertexID) ArcIndex {
	begin, end := x.Arcs(v)
	k := sort.Search(int(end-begin), func(i int) bool {
		return x.dest[begin+ArcIndex(i)] >= target
	})
	return begin + ArcIndex(k)
}

// crossLink visits each undirected edge once, from its smaller endpoint, and
// records the two arc positions as mirrors of each other.
func (x *Index) crossLink() {
	for i := VertexID(0); int(i) < x.NumVertices(); i++ {
		begin, end := x.Arcs(i)
		for a := begin; a < end; a++ {
			j := x.dest[a]
			if j < i {
				continue
			}
			r := x.LowerBound(j, i)
			if _, jEnd := x.Arcs(j); r == jEnd || x.dest[r] != i {
				panic(fmt.Sprintf("graph: arc %d->%d has no reverse arc", i, j))
			}
			x.mirror[a] = r
			x.mirror[r] = a
		}
	}
}

// Validate checks the structural invariants of the index.
func (x *Index) Validate() error {
	n := x.NumVertices()
	m := len(x.dest)
	if n < 0 {
		return fmt.Errorf("%w: missing offsets array", ErrInvalidIndex)
	}
	if len(x.prob) != m || len(x.mirror) != m {
		return fmt.Errorf("%w: arc arrays differ in length (%d/%d/%d)", ErrInvalidIndex, m, len(x.prob), len(x.mirror))
	}
	if len(x.ids) != n || len(x.lookup) != n {
		return fmt.Errorf("%w: %d vertices but %d ids and %d lookups", ErrInvalidIndex, n, len(x.ids), len(x.lookup))
	}
	if x.offsets[0] != 0 {
		return fmt.Errorf("%w: offsets[0] = %d", ErrInvalidIndex, x.offsets[0])
	}
	if int(x.offsets[n]) != m {
		return fmt.Errorf("%w: offsets[n] = %d, arc count %d", ErrInvalidIndex, x.offsets[n], m)
	}

	for v := VertexID(0); int(v) < n; v++ {
		if x.offsets[v] > x.offsets[v+1] {
			return fmt.Errorf("%w: offsets decrease at vertex %d", ErrInvalidIndex, v)
		}
		if x.lookup[x.ids[v]] != v {
			return fmt.Errorf("%w: id %q does not map back to %d", ErrInvalidIndex, x.ids[v], v)
		}
		begin, end := x.Arcs(v)
		for a := begin; a < end; a++ {
			d := x.dest[a]
			if d < 0 || int(d) >= n || d == v {
				return fmt.Errorf("%w: arc %d of vertex %d points to %d", ErrInvalidIndex, a, v, d)
			}
			if a > begin && x.dest[a-1] >= d {
				return fmt.Errorf("%w: neighbours of vertex %d not strictly increasing", ErrInvalidIndex, v)
			}
			r := x.mirror[a]
			if r < 0 || int(r) >= m || x.mirror[r] != a {
				return fmt.Errorf("%w: arc %d is not its mirror's mirror", ErrInvalidIndex, a)
			}
			if x.dest[r] != v {
				return fmt.Errorf("%w: mirror of arc %d points to %d, want %d", ErrInvalidIndex, a, x.dest[r], v)
			}
		}
	}
	return nil
}
