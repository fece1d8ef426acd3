package graph

import (
	"fmt"
	"sort"
)

type pendingArc struct {
	dst  VertexID
	prob float32
}

// Builder accumulates edges keyed by external id and flattens them into an
// Index. External ids are interned in first-seen order.
type Builder struct {
	ids       []string
	lookup    map[string]VertexID
	adj       [][]pendingArc
	selfLoops int
}

// maxSizeHint caps preallocation; larger graphs grow on demand.
const maxSizeHint = 1 << 16

// NewBuilder creates a builder. sizeHint is the expected vertex count and
// only affects preallocation, up to maxSizeHint.
func NewBuilder(sizeHint int) *Builder {
	sizeHint = max(0, min(sizeHint, maxSizeHint))
	return &Builder{
		ids:    make([]string, 0, sizeHint),
		lookup: make(map[string]VertexID, sizeHint),
		adj:    make([][]pendingArc, 0, sizeHint),
	}
}

// Intern returns the internal id of external, allocating the next dense id
// the first time it is seen.
func (b *Builder) Intern(external string) VertexID {
	if id, ok := b.lookup[external]; ok {
		return id
	}
	id := VertexID(len(b.ids))
	b.lookup[external] = id
	b.ids = append(b.ids, external)
	b.adj = append(b.adj, nil)
	return id
}

// AddEdge records the undirected edge src–dst in both directions. A repeated
// pair collapses to one arc per direction and the latest probability wins.
// Self-loops intern the id but add no arc; AddEdge reports false for them.
func (b *Builder) AddEdge(src, dst string, prob float32) bool {
	u := b.Intern(src)
	v := b.Intern(dst)
	if u == v {
		b.selfLoops++
		return false
	}
	b.adj[u] = append(b.adj[u], pendingArc{dst: v, prob: prob})
	b.adj[v] = append(b.adj[v], pendingArc{dst: u, prob: prob})
	return true
}

// NumVertices returns the number of distinct ids interned so far.
func (b *Builder) NumVertices() int {
	return len(b.ids)
}

// SelfLoops returns the number of dropped self-loop edges.
func (b *Builder) SelfLoops() int {
	return b.selfLoops
}

// Build flattens the accumulated neighbour sets into an Index and links
// every arc to its mirror. The builder must not be used afterwards.
func (b *Builder) Build() *Index {
	n := len(b.ids)
	if len(b.lookup) != n || len(b.adj) != n {
		panic(fmt.Sprintf("graph: id mapping out of sync: %d ids, %d lookups, %d lists",
			n, len(b.lookup), len(b.adj)))
	}

	offsets := make([]ArcIndex, n+1)
	for v, list := range b.adj {
		sort.SliceStable(list, func(i, j int) bool { return list[i].dst < list[j].dst })

		// keep the last occurrence of each neighbour
		kept := list[:0]
		for i, a := range list {
			if i+1 < len(list) && list[i+1].dst == a.dst {
				continue
			}
			kept = append(kept, a)
		}
		b.adj[v] = kept
		offsets[v+1] = offsets[v] + ArcIndex(len(kept))
	}

	m := int(offsets[n])
	idx := &Index{
		offsets: offsets,
		dest:    make([]VertexID, m),
		prob:    make([]float32, m),
		mirror:  make([]ArcIndex, m),
		ids:     b.ids,
		lookup:  b.lookup,
	}
	for v, list := range b.adj {
		base := offsets[v]
		for k, a := range list {
			idx.dest[base+ArcIndex(k)] = a.dst
			idx.prob[base+ArcIndex(k)] = a.prob
		}
	}
	b.adj, b.ids, b.lookup = nil, nil, nil

	idx.crossLink()
	if err := idx.Validate(); err != nil {
		panic(fmt.Sprintf("graph: freshly built index is inconsistent: %v", err))
	}
	return idx
}
