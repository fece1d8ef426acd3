package scan

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-scan/pkg/graph"
	"github.com/dd0wney/cluso-scan/pkg/logging"
)

func quiet() Option {
	return WithLogger(logging.NewNopLogger())
}

func loadIndex(t testing.TB, edges string) *graph.Index {
	t.Helper()
	idx, _, err := graph.Load(strings.NewReader(edges), graph.WithLogger(logging.NewNopLogger()))
	if err != nil {
		t.Fatalf("graph.Load() error = %v", err)
	}
	return idx
}

func newEngine(t testing.TB, edges string, p Params, opts ...Option) *Engine {
	t.Helper()
	e, err := New(loadIndex(t, edges), p, append([]Option{quiet()}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func runEdges(t testing.TB, edges string, p Params, opts ...Option) *Result {
	t.Helper()
	res, err := newEngine(t, edges, p, opts...).Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return res
}

// partition renders clusters independently of cluster numbering.
func partition(res *Result) []string {
	var out []string
	for _, members := range res.Clusters() {
		sorted := append([]string(nil), members...)
		sort.Strings(sorted)
		out = append(out, strings.Join(sorted, ","))
	}
	sort.Strings(out)
	return out
}

func endpointsToEdges(xs []int) string {
	var b strings.Builder
	for i := 0; i+1 < len(xs); i += 2 {
		fmt.Fprintf(&b, "v%d v%d\n", xs[i], xs[i+1])
	}
	return b.String()
}

func vertex(t testing.TB, idx *graph.Index, external string) graph.VertexID {
	t.Helper()
	v, ok := idx.Lookup(external)
	if !ok {
		t.Fatalf("vertex %q not found", external)
	}
	return v
}

const (
	triangle = "A B 1.0\nB C 1.0\nA C 1.0\n"

	star = "h l1\nh l2\nh l3\nh l4\n"

	twoTriangles = "a b\nb c\nc a\nx y\ny z\nz x\n"

	// two 4-cliques bridged through x
	bridgedCliques = "a b\na c\na d\nb c\nb d\nc d\n" +
		"e f\ne g\ne h\nf g\nf h\ng h\n" +
		"x a\nx e\n"

	// a 4-clique with y hanging off two of its vertices
	cliqueWithTail = "a b\na c\na d\nb c\nb d\nc d\ny a\ny b\n"
)
