package graph

// VertexID is a dense internal vertex id in [0, NumVertices).
type VertexID int

// ArcIndex addresses one directed arc in the compressed arrays. Every
// undirected edge is stored as two arcs that are mirrors of each other.
type ArcIndex int

// DefaultProbability is used for body lines that omit the probability column.
const DefaultProbability float32 = 1.0

// LoadStats describes what the loader saw in its input.
type LoadStats struct {
	Lines         int // body lines that produced an edge
	SelfLoops     int // body lines with identical endpoints, dropped
	DeclaredNodes int // from the optional header, advisory
	DeclaredLinks int // from the optional header, advisory
	Weighted      bool
	Vertices      int
	Arcs          int
}
