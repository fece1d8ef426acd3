package report

import (
	"encoding/json"
	"io"

	"github.com/dd0wney/cluso-scan/pkg/scan"
)

// Document is the JSON report layout.
type Document struct {
	RunID       string            `json:"run_id"`
	Params      scan.Params       `json:"params"`
	Clusters    int               `json:"clusters"`
	Roles       map[string]int    `json:"roles"`
	Modularity  *float64          `json:"modularity,omitempty"`
	Stats       scan.Stats        `json:"stats"`
	Assignments []scan.Assignment `json:"assignments"`
}

// NewDocument builds the JSON document of res. Modularity is included when
// res still carries its index and the graph has edges.
func NewDocument(res *scan.Result) Document {
	doc := Document{
		RunID:       res.RunID,
		Params:      res.Params,
		Clusters:    res.NumClusters,
		Roles:       res.RoleCounts(),
		Stats:       res.Stats,
		Assignments: res.Assignments,
	}
	if idx := res.Index(); idx != nil && idx.NumEdges() > 0 {
		if q, err := Modularity(res); err == nil {
			doc.Modularity = &q
		}
	}
	return doc
}

// WriteJSON writes res as an indented JSON document.
func WriteJSON(w io.Writer, res *scan.Result) error {
	if res == nil {
		return ErrNilResult
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(res))
}
