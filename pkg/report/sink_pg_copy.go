package report

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dd0wney/cluso-scan/pkg/logging"
	"github.com/dd0wney/cluso-scan/pkg/scan"
)

var assignmentColumns = []string{"run_id", "vertex", "cluster", "role", "core", "hub_clusters"}

// Save stores the run header and bulk-copies one row per vertex in a single
// transaction. It returns the number of assignment rows written.
func (s *PGSink) Save(ctx context.Context, res *scan.Result) (int64, error) {
	if res == nil {
		return 0, ErrNilResult
	}

	var modularity *float64
	if q, err := Modularity(res); err == nil {
		modularity = &q
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO scan_runs (run_id, eps, mu, alpha, clusters, vertices, modularity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.Exec(ctx, query,
		res.RunID,
		res.Params.Epsilon,
		res.Params.Mu,
		res.Params.Alpha,
		res.NumClusters,
		len(res.Assignments),
		modularity,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	rows := assignmentRows(res)
	n, err := tx.CopyFrom(ctx, pgx.Identifier{"scan_assignments"}, assignmentColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("failed to copy assignments: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	s.logger.Info("run stored", logging.RunID(res.RunID), logging.Int64("rows", n))
	return n, nil
}

// Clusters returns the stored cluster sizes of a run keyed by cluster id.
func (s *PGSink) Clusters(ctx context.Context, runID string) (map[int]int, error) {
	query := `
		SELECT cluster, COUNT(*)
		FROM scan_assignments
		WHERE run_id = $1 AND cluster >= 0
		GROUP BY cluster
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query clusters: %w", err)
	}
	defer rows.Close()

	sizes := make(map[int]int)
	for rows.Next() {
		var cluster, size int
		if err := rows.Scan(&cluster, &size); err != nil {
			return nil, fmt.Errorf("failed to scan cluster: %w", err)
		}
		sizes[cluster] = size
	}
	return sizes, rows.Err()
}

// DeleteRun removes a run and its assignments.
func (s *PGSink) DeleteRun(ctx context.Context, runID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM scan_runs WHERE run_id = $1`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

func assignmentRows(res *scan.Result) [][]any {
	rows := make([][]any, len(res.Assignments))
	for i, a := range res.Assignments {
		var hubs []int32
		for _, c := range a.HubClusters {
			hubs = append(hubs, int32(c))
		}
		rows[i] = []any{res.RunID, a.ExternalID, int32(a.Cluster), a.Role.String(), a.Core, hubs}
	}
	return rows
}
