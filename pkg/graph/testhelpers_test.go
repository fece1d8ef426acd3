package graph

import (
	"strconv"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-scan/pkg/logging"
)

func mustLoad(t *testing.T, input string) (*Index, *LoadStats) {
	t.Helper()
	idx, stats, err := Load(strings.NewReader(input), WithLogger(logging.NewNopLogger()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return idx, stats
}

// buildFromEndpoints pairs up consecutive values into edges named "v<k>".
func buildFromEndpoints(endpoints []int) *Index {
	b := NewBuilder(0)
	for i := 0; i+1 < len(endpoints); i += 2 {
		b.AddEdge("v"+strconv.Itoa(endpoints[i]), "v"+strconv.Itoa(endpoints[i+1]), 1)
	}
	return b.Build()
}

func neighbourNames(idx *Index, external string) []string {
	v, ok := idx.Lookup(external)
	if !ok {
		return nil
	}
	var names []string
	for _, u := range idx.Neighbours(v) {
		names = append(names, idx.ExternalID(u))
	}
	return names
}
