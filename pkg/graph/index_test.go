package graph

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuildTriangle(t *testing.T) {
	b := NewBuilder(3)
	b.AddEdge("a", "b", 1)
	b.AddEdge("b", "c", 1)
	b.AddEdge("c", "a", 1)
	idx := b.Build()

	if idx.NumVertices() != 3 {
		t.Fatalf("NumVertices() = %d, want 3", idx.NumVertices())
	}
	if idx.NumArcs() != 6 || idx.NumEdges() != 3 {
		t.Fatalf("NumArcs() = %d, NumEdges() = %d, want 6, 3", idx.NumArcs(), idx.NumEdges())
	}

	wantOffsets := []ArcIndex{0, 2, 4, 6}
	if !reflect.DeepEqual(idx.offsets, wantOffsets) {
		t.Errorf("offsets = %v, want %v", idx.offsets, wantOffsets)
	}

	for v := VertexID(0); v < 3; v++ {
		if idx.Degree(v) != 2 {
			t.Errorf("Degree(%d) = %d, want 2", v, idx.Degree(v))
		}
	}
	if got := neighbourNames(idx, "a"); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("neighbours of a = %v", got)
	}
	if err := idx.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestMirrorLinksOppositeArcs(t *testing.T) {
	idx := buildFromEndpoints([]int{0, 1, 0, 2, 0, 3, 2, 3, 3, 4})

	for a := ArcIndex(0); int(a) < idx.NumArcs(); a++ {
		r := idx.Mirror(a)
		if idx.Mirror(r) != a {
			t.Errorf("Mirror(Mirror(%d)) = %d", a, idx.Mirror(r))
		}
		if idx.Dest(r) != idx.Source(a) {
			t.Errorf("Dest(Mirror(%d)) = %d, want source %d", a, idx.Dest(r), idx.Source(a))
		}
		if idx.Source(r) != idx.Dest(a) {
			t.Errorf("Source(Mirror(%d)) = %d, want %d", a, idx.Source(r), idx.Dest(a))
		}
	}
}

func TestLowerBound(t *testing.T) {
	// v0 neighbours: v1 v2 v4 (ids 1, 2, 3 after interning order 0,1,2,4 -> 0,1,2,3)
	idx := buildFromEndpoints([]int{0, 1, 0, 2, 0, 4, 5, 6})
	v0, _ := idx.Lookup("v0")
	begin, end := idx.Arcs(v0)

	tests := []struct {
		name   string
		target VertexID
		want   ArcIndex
	}{
		{"below all", 0, begin},
		{"first", 1, begin},
		{"middle", 2, begin + 1},
		{"last", 3, begin + 2},
		{"above all", 4, end},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := idx.LowerBound(v0, tt.target); got != tt.want {
				t.Errorf("LowerBound(v0, %d) = %d, want %d", tt.target, got, tt.want)
			}
		})
	}
}

func TestLowerBoundEmptyRange(t *testing.T) {
	b := NewBuilder(0)
	b.AddEdge("x", "x", 1)
	b.AddEdge("y", "z", 1)
	idx := b.Build()

	x, _ := idx.Lookup("x")
	begin, end := idx.Arcs(x)
	if begin != end {
		t.Fatalf("self-loop vertex should have no arcs, got [%d,%d)", begin, end)
	}
	if got := idx.LowerBound(x, 1); got != end {
		t.Errorf("LowerBound on empty range = %d, want %d", got, end)
	}
}

func TestBuilderLatestProbabilityWins(t *testing.T) {
	b := NewBuilder(0)
	b.AddEdge("a", "b", 0.25)
	b.AddEdge("b", "a", 0.75)
	b.AddEdge("a", "c", 0.5)
	idx := b.Build()

	if idx.NumEdges() != 2 {
		t.Fatalf("NumEdges() = %d, want 2", idx.NumEdges())
	}
	a, _ := idx.Lookup("a")
	begin, _ := idx.Arcs(a)
	if p := idx.Probability(begin); p != 0.75 {
		t.Errorf("a->b probability = %v, want 0.75", p)
	}
	if p := idx.Probability(idx.Mirror(begin)); p != 0.75 {
		t.Errorf("b->a probability = %v, want 0.75", p)
	}
}

func TestBuilderSelfLoop(t *testing.T) {
	b := NewBuilder(0)
	if b.AddEdge("a", "a", 1) {
		t.Error("AddEdge(a, a) should report false")
	}
	if b.SelfLoops() != 1 || b.NumVertices() != 1 {
		t.Errorf("SelfLoops() = %d, NumVertices() = %d", b.SelfLoops(), b.NumVertices())
	}
	idx := b.Build()
	if idx.NumArcs() != 0 || idx.NumVertices() != 1 {
		t.Errorf("got %d vertices, %d arcs", idx.NumVertices(), idx.NumArcs())
	}
}

func TestBuildPanicsOnDesyncedIDs(t *testing.T) {
	b := NewBuilder(0)
	b.AddEdge("a", "b", 1)
	delete(b.lookup, "a")

	defer func() {
		if recover() == nil {
			t.Error("Build() should panic when the id mapping is out of sync")
		}
	}()
	b.Build()
}

func TestValidateDetectsCorruption(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(x *Index)
	}{
		{"decreasing offsets", func(x *Index) { x.offsets[1], x.offsets[2] = x.offsets[2], x.offsets[1] }},
		{"offset total", func(x *Index) { x.offsets[len(x.offsets)-1]-- }},
		{"unsorted neighbours", func(x *Index) { x.dest[0], x.dest[1] = x.dest[1], x.dest[0] }},
		{"broken mirror", func(x *Index) { x.mirror[0] = x.mirror[1] }},
		{"mirror source", func(x *Index) { x.mirror[0], x.mirror[x.mirror[0]] = 1, 0 }},
		{"id mapping", func(x *Index) { x.lookup["v0"] = 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := buildFromEndpoints([]int{0, 1, 0, 2, 1, 2, 2, 3})
			tt.mutate(idx)
			err := idx.Validate()
			if !errors.Is(err, ErrInvalidIndex) {
				t.Errorf("Validate() = %v, want ErrInvalidIndex", err)
			}
		})
	}
}
