package report

import "context"

func (s *PGSink) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS scan_runs (
		run_id TEXT PRIMARY KEY,
		eps DOUBLE PRECISION NOT NULL,
		mu INTEGER NOT NULL,
		alpha DOUBLE PRECISION NOT NULL,
		clusters INTEGER NOT NULL,
		vertices INTEGER NOT NULL,
		modularity DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS scan_assignments (
		run_id TEXT NOT NULL REFERENCES scan_runs(run_id) ON DELETE CASCADE,
		vertex TEXT NOT NULL,
		cluster INTEGER NOT NULL,
		role TEXT NOT NULL,
		core BOOLEAN NOT NULL,
		hub_clusters INTEGER[],
		PRIMARY KEY (run_id, vertex)
	);

	CREATE INDEX IF NOT EXISTS idx_scan_assignments_cluster ON scan_assignments(run_id, cluster);
	`

	_, err := s.pool.Exec(ctx, schema)
	return err
}
