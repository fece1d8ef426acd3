package report

import (
	gograph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/dd0wney/cluso-scan/pkg/graph"
	"github.com/dd0wney/cluso-scan/pkg/scan"
)

// Modularity returns the Newman modularity of the clustering at resolution
// 1. Hubs and outliers count as singleton communities. A graph without
// edges scores 0.
func Modularity(res *scan.Result) (float64, error) {
	return modularity(res, false)
}

// WeightedModularity is Modularity with edge probabilities as weights. A
// graph whose probabilities are all 0 scores 0.
func WeightedModularity(res *scan.Result) (float64, error) {
	return modularity(res, true)
}

func modularity(res *scan.Result, weighted bool) (float64, error) {
	if res == nil {
		return 0, ErrNilResult
	}
	idx := res.Index()
	if idx == nil {
		return 0, ErrNoIndex
	}
	if idx.NumEdges() == 0 {
		return 0, nil
	}

	var g gograph.Undirected
	if weighted {
		if totalWeight(idx) == 0 {
			return 0, nil
		}
		g = weightedGraph(idx)
	} else {
		g = plainGraph(idx)
	}
	return community.Q(g, communities(res), 1), nil
}

func plainGraph(idx *graph.Index) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for v := 0; v < idx.NumVertices(); v++ {
		g.AddNode(simple.Node(v))
	}
	eachEdge(idx, func(u, v graph.VertexID, _ float32) {
		g.SetEdge(simple.Edge{F: simple.Node(u), T: simple.Node(v)})
	})
	return g
}

func weightedGraph(idx *graph.Index) *simple.WeightedUndirectedGraph {
	g := simple.NewWeightedUndirectedGraph(0, 0)
	for v := 0; v < idx.NumVertices(); v++ {
		g.AddNode(simple.Node(v))
	}
	eachEdge(idx, func(u, v graph.VertexID, p float32) {
		g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(u), T: simple.Node(v), W: float64(p)})
	})
	return g
}

func totalWeight(idx *graph.Index) float64 {
	var w float64
	eachEdge(idx, func(_, _ graph.VertexID, p float32) {
		w += float64(p)
	})
	return w
}

// eachEdge visits every undirected edge once, from its smaller endpoint.
func eachEdge(idx *graph.Index, fn func(u, v graph.VertexID, p float32)) {
	for u := graph.VertexID(0); int(u) < idx.NumVertices(); u++ {
		begin, end := idx.Arcs(u)
		for a := begin; a < end; a++ {
			if v := idx.Dest(a); u < v {
				fn(u, v, idx.Probability(a))
			}
		}
	}
}

func communities(res *scan.Result) [][]gograph.Node {
	comms := make([][]gograph.Node, res.NumClusters)
	for _, a := range res.Assignments {
		n := simple.Node(a.Vertex)
		if a.Cluster == scan.NoCluster {
			comms = append(comms, []gograph.Node{n})
			continue
		}
		comms[a.Cluster] = append(comms[a.Cluster], n)
	}
	return comms
}
