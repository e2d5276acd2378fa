package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/meli-pricer/pkg/types"
)

// PostgresStore implements Store backed by a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to Postgres, verifies connectivity and
// returns a ready store. The caller owns Close.
func NewPostgresStore(ctx context.Context, connString string, poolSize int, log *slog.Logger) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	if poolSize > 0 {
		cfg.MaxConns = int32(poolSize)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{pool: pool, log: log}, nil
}

func (s *PostgresStore) InsertJobRun(ctx context.Context, jobName string) (string, error) {
	var id string
	if err := s.pool.QueryRow(ctx, queryInsertJobRun, jobName).Scan(&id); err != nil {
		return "", fmt.Errorf("insert job run: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) CompleteJobRun(ctx context.Context, id string, status string, errText string, rowsAffected int) error {
	tag, err := s.pool.Exec(ctx, queryCompleteJobRun, id, status, errText, rowsAffected)
	if err != nil {
		return fmt.Errorf("complete job run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("complete job run: no run with id %s", id)
	}
	return nil
}

func (s *PostgresStore) ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, queryListJobRuns, jobName, limit)
	if err != nil {
		return nil, fmt.Errorf("list job runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.JobRun
	for rows.Next() {
		var r domain.JobRun
		if err := rows.Scan(&r.ID, &r.JobName, &r.StartedAt, &r.CompletedAt, &r.Status, &r.ErrorText, &r.RowsAffected); err != nil {
			return nil, fmt.Errorf("scan job run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job runs: %w", err)
	}
	return runs, nil
}

func (s *PostgresStore) PruneJobRuns(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := time.Now().Add(-retention)
	tag, err := s.pool.Exec(ctx, queryPruneJobRuns, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune job runs: %w", err)
	}
	n := int(tag.RowsAffected())
	if n > 0 {
		s.log.Info("pruned job runs", "removed", n, "cutoff", cutoff)
	}
	return n, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
