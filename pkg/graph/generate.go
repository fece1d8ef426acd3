package graph

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strconv"
)

// PlantedPartition describes a random graph of Communities groups of Size
// vertices. Each pair inside a group is joined with probability PIn and
// each pair across groups with probability POut.
type PlantedPartition struct {
	Communities int
	Size        int
	PIn         float64
	POut        float64
}

// Generate draws a graph from rng. Vertex "c<i>v<j>" is member j of group
// i; every vertex is interned even when it ends up isolated.
func (pp PlantedPartition) Generate(rng *rand.Rand) *Index {
	n := pp.Communities * pp.Size
	b := NewBuilder(n)
	names := make([]string, n)
	for v := range names {
		names[v] = "c" + strconv.Itoa(v/pp.Size) + "v" + strconv.Itoa(v%pp.Size)
		b.Intern(names[v])
	}

	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			p := pp.POut
			if u/pp.Size == v/pp.Size {
				p = pp.PIn
			}
			if rng.Float64() < p {
				b.AddEdge(names[u], names[v], DefaultProbability)
			}
		}
	}
	return b.Build()
}

// WriteEdgeList writes idx in the loader's input format: a header with the
// vertex and edge counts, then each edge once from its smaller endpoint.
// Probabilities other than DefaultProbability are written out. Isolated
// vertices are written as self-loops so the loader still interns them.
func WriteEdgeList(w io.Writer, idx *Index) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# Nodes: %d Links: %d\n", idx.NumVertices(), idx.NumEdges())
	for u := VertexID(0); int(u) < idx.NumVertices(); u++ {
		if idx.Degree(u) == 0 {
			fmt.Fprintf(bw, "%s %s\n", idx.ExternalID(u), idx.ExternalID(u))
			continue
		}
		begin, end := idx.Arcs(u)
		for a := begin; a < end; a++ {
			v := idx.Dest(a)
			if v < u {
				continue
			}
			bw.WriteString(idx.ExternalID(u))
			bw.WriteByte(' ')
			bw.WriteString(idx.ExternalID(v))
			if p := idx.Probability(a); p != DefaultProbability {
				bw.WriteByte(' ')
				bw.WriteString(strconv.FormatFloat(float64(p), 'g', -1, 32))
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}
