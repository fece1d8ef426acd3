package scan

import (
	"fmt"
	"time"

	"github.com/dd0wney/cluso-scan/pkg/graph"
)

// NoCluster is the cluster id of hubs and outliers.
const NoCluster = -1

// Role is the final classification of a vertex.
type Role uint8

const (
	// RoleCore vertices have at least mu-1 similar neighbours.
	RoleCore Role = iota
	// RoleBorder vertices are non-core members of exactly one cluster.
	RoleBorder
	// RoleHub vertices are similar to cores of two or more clusters.
	RoleHub
	// RoleOutlier vertices are similar to no core.
	RoleOutlier
)

var roleNames = [...]string{"core", "border", "hub", "outlier"}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("role(%d)", r)
}

// MarshalText encodes the role by name.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a role name.
func (r *Role) UnmarshalText(text []byte) error {
	for i, name := range roleNames {
		if name == string(text) {
			*r = Role(i)
			return nil
		}
	}
	return fmt.Errorf("unknown role %q", text)
}

// Assignment is the clustering outcome for one vertex.
type Assignment struct {
	Vertex      graph.VertexID `json:"-"`
	ExternalID  string         `json:"id"`
	Core        bool           `json:"core"`
	Role        Role           `json:"role"`
	Cluster     int            `json:"cluster"`
	HubClusters []int          `json:"hub_clusters,omitempty"`
}

// Stats counts the work done by one run.
type Stats struct {
	Similar         int                      `json:"similar"`
	Dissimilar      int                      `json:"dissimilar"`
	EarlySimilar    int                      `json:"early_similar"`
	EarlyDissimilar int                      `json:"early_dissimilar"`
	CacheHits       int                      `json:"cache_hits"`
	Unions          int                      `json:"unions"`
	Stages          map[string]time.Duration `json:"stages"`
}

// Result is the vertex-to-cluster table of one run, indexed by internal
// vertex id.
type Result struct {
	RunID       string       `json:"run_id"`
	Params      Params       `json:"params"`
	NumClusters int          `json:"clusters"`
	Assignments []Assignment `json:"assignments"`
	Stats       Stats        `json:"stats"`

	index *graph.Index
}

// Index returns the adjacency index the result was computed on.
func (r *Result) Index() *graph.Index {
	return r.index
}

// Lookup returns the assignment of an external vertex id.
func (r *Result) Lookup(external string) (Assignment, bool) {
	if r.index == nil {
		return Assignment{}, false
	}
	v, ok := r.index.Lookup(external)
	if !ok {
		return Assignment{}, false
	}
	return r.Assignments[v], true
}

// Clusters returns the external ids of the members of each cluster, cores
// and borders alike, in ascending internal id order.
func (r *Result) Clusters() [][]string {
	clusters := make([][]string, r.NumClusters)
	for _, a := range r.Assignments {
		if a.Cluster != NoCluster {
			clusters[a.Cluster] = append(clusters[a.Cluster], a.ExternalID)
		}
	}
	return clusters
}

// WithRole returns the external ids of every vertex with the given role.
func (r *Result) WithRole(role Role) []string {
	var ids []string
	for _, a := range r.Assignments {
		if a.Role == role {
			ids = append(ids, a.ExternalID)
		}
	}
	return ids
}

// RoleCounts returns the number of vertices per role name.
func (r *Result) RoleCounts() map[string]int {
	counts := make(map[string]int, len(roleNames))
	for _, a := range r.Assignments {
		counts[a.Role.String()]++
	}
	return counts
}
