package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-scan/pkg/graph"
	"github.com/dd0wney/cluso-scan/pkg/logging"
	"github.com/dd0wney/cluso-scan/pkg/report"
	"github.com/dd0wney/cluso-scan/pkg/scan"
)

func main() {
	communities := flag.Int("communities", 50, "Number of planted communities")
	size := flag.Int("size", 40, "Vertices per community")
	pIn := flag.Float64("p-in", 0.3, "Edge probability inside a community")
	pOut := flag.Float64("p-out", 0.002, "Edge probability across communities")
	eps := flag.Float64("eps", 0.5, "Similarity threshold")
	mu := flag.Int("mu", 3, "Core threshold")
	seed := flag.Int64("seed", 1, "Random seed")
	write := flag.String("write", "", "Also write the generated edge list here (.sz for snappy)")
	flag.Parse()

	fmt.Printf("SCAN clustering benchmark\n")
	fmt.Printf("=========================\n\n")
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Communities: %d x %d vertices\n", *communities, *size)
	fmt.Printf("  p(in)=%g p(out)=%g\n", *pIn, *pOut)
	fmt.Printf("  eps=%g mu=%d seed=%d\n\n", *eps, *mu, *seed)

	params := scan.Params{Epsilon: *eps, Mu: *mu}
	if err := params.Validate(); err != nil {
		log.Fatalf("Invalid parameters: %v", err)
	}

	start := time.Now()
	pp := graph.PlantedPartition{Communities: *communities, Size: *size, PIn: *pIn, POut: *pOut}
	idx := pp.Generate(rand.New(rand.NewSource(*seed)))
	fmt.Printf("Generated %d vertices, %d edges in %v\n", idx.NumVertices(), idx.NumEdges(), time.Since(start))

	if *write != "" {
		if err := writeGraph(*write, idx); err != nil {
			log.Fatalf("Failed to write graph: %v", err)
		}
		fmt.Printf("Wrote edge list to %s\n", *write)
	}

	quiet := scan.WithLogger(logging.NewNopLogger())

	fmt.Printf("\nRun 1: pruned classification\n")
	pruned, d1 := timedRun(idx, params, quiet)
	printRun(pruned, d1)

	fmt.Printf("\nRun 2: exhaustive classification\n")
	full, d2 := timedRun(idx, params, quiet, scan.WithExhaustive())
	printRun(full, d2)

	if pruned.NumClusters != full.NumClusters {
		log.Fatalf("Pruned and exhaustive runs disagree: %d vs %d clusters", pruned.NumClusters, full.NumClusters)
	}

	fmt.Printf("\nPlanted recovery\n")
	fmt.Printf("  Pure clusters: %d of %d\n", pureClusters(pruned), pruned.NumClusters)
	if q, err := report.Modularity(pruned); err == nil {
		fmt.Printf("  Modularity: %.4f\n", q)
	}
	saved := full.Stats.Similar + full.Stats.Dissimilar - pruned.Stats.Similar - pruned.Stats.Dissimilar
	fmt.Printf("  Evaluations saved by pruning: %d\n", saved)

	fmt.Printf("\nBenchmark complete!\n")
}

func timedRun(idx *graph.Index, params scan.Params, opts ...scan.Option) (*scan.Result, time.Duration) {
	e, err := scan.New(idx, params, opts...)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	start := time.Now()
	res, err := e.Run()
	if err != nil {
		log.Fatalf("Clustering failed: %v", err)
	}
	return res, time.Since(start)
}

func printRun(res *scan.Result, d time.Duration) {
	counts := res.RoleCounts()
	fmt.Printf("  Completed in %v\n", d)
	fmt.Printf("  Clusters: %d\n", res.NumClusters)
	fmt.Printf("  Cores: %d  Borders: %d  Hubs: %d  Outliers: %d\n",
		counts["core"], counts["border"], counts["hub"], counts["outlier"])
	fmt.Printf("  Similarity evaluations: %d (%d early exits, %d cache hits)\n",
		res.Stats.Similar+res.Stats.Dissimilar,
		res.Stats.EarlySimilar+res.Stats.EarlyDissimilar, res.Stats.CacheHits)
	for _, stage := range []string{scan.StageClassify, scan.StageUnion, scan.StageFlatten, scan.StageAttach} {
		fmt.Printf("    %-9s %v\n", stage, res.Stats.Stages[stage])
	}
}

// pureClusters counts clusters whose members all come from one planted
// community.
func pureClusters(res *scan.Result) int {
	pure := 0
	for _, members := range res.Clusters() {
		group := community(members[0])
		ok := true
		for _, m := range members[1:] {
			if community(m) != group {
				ok = false
				break
			}
		}
		if ok {
			pure++
		}
	}
	return pure
}

func community(external string) string {
	group, _, _ := strings.Cut(external, "v")
	return group
}

func writeGraph(path string, idx *graph.Index) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if strings.HasSuffix(path, graph.SnappySuffix) {
		sw := snappy.NewBufferedWriter(f)
		if err := graph.WriteEdgeList(sw, idx); err != nil {
			return err
		}
		return sw.Close()
	}
	return graph.WriteEdgeList(f, idx)
}
