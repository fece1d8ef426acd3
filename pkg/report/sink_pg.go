package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dd0wney/cluso-scan/pkg/logging"
)

// PGSink persists clustering runs into PostgreSQL.
type PGSink struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewPGSink connects to databaseURL and creates the run tables if they
// don't exist.
func NewPGSink(ctx context.Context, databaseURL string, logger logging.Logger) (*PGSink, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// A sink writes one run at a time.
	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &PGSink{
		pool:   pool,
		logger: logging.OrDefault(logger).With(logging.Component("pg-sink")),
	}

	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return s, nil
}

// Ping checks database connectivity
func (s *PGSink) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool
func (s *PGSink) Close() error {
	s.pool.Close()
	return nil
}
