package scan

import (
	"github.com/dd0wney/cluso-scan/pkg/graph"
)

// DisjointSet is a union-find forest over vertex ids with union by rank and
// full path compression.
type DisjointSet struct {
	parent []graph.VertexID
	rank   []uint8
}

// NewDisjointSet creates n singleton sets.
func NewDisjointSet(n int) *DisjointSet {
	ds := &DisjointSet{
		parent: make([]graph.VertexID, n),
		rank:   make([]uint8, n),
	}
	for i := range ds.parent {
		ds.parent[i] = graph.VertexID(i)
	}
	return ds
}

// Len returns the number of elements.
func (ds *DisjointSet) Len() int {
	return len(ds.parent)
}

// Find returns the root of v's set and points every vertex on the path
// directly at it.
func (ds *DisjointSet) Find(v graph.VertexID) graph.VertexID {
	root := v
	for ds.parent[root] != root {
		root = ds.parent[root]
	}
	for ds.parent[v] != root {
		next := ds.parent[v]
		ds.parent[v] = root
		v = next
	}
	return root
}

// Union merges the sets of u and v and reports whether they were distinct.
// On equal rank the root of v is attached under the root of u.
func (ds *DisjointSet) Union(u, v graph.VertexID) bool {
	ru, rv := ds.Find(u), ds.Find(v)
	if ru == rv {
		return false
	}

	switch {
	case ds.rank[ru] < ds.rank[rv]:
		ds.parent[ru] = rv
	case ds.rank[ru] > ds.rank[rv]:
		ds.parent[rv] = ru
	default:
		ds.parent[rv] = ru
		ds.rank[ru]++
	}
	return true
}

// Same reports whether u and v are in the same set.
func (ds *DisjointSet) Same(u, v graph.VertexID) bool {
	return ds.Find(u) == ds.Find(v)
}
