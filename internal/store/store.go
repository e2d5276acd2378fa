// Package store defines the job-run audit datastore for meli-pricer.
// Pricing itself is stateless; only run bookkeeping is persisted. All
// callers depend on the Store interface, never on concrete
// implementations, which keeps handler and engine tests database-free.
package store

import (
	"context"
	"time"

	domain "github.com/donaldgifford/meli-pricer/pkg/types"
)

// Job run status values.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Store defines all data access operations for meli-pricer.
type Store interface {
	// InsertJobRun records the start of a run and returns its UUID.
	InsertJobRun(ctx context.Context, jobName string) (id string, err error)
	// CompleteJobRun marks a run as finished with status and metadata.
	CompleteJobRun(ctx context.Context, id string, status string, errText string, rowsAffected int) error
	// ListJobRuns returns the most recent runs, newest first. An empty
	// jobName matches every job.
	ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error)
	// PruneJobRuns deletes runs that started before the retention window.
	// Returns the number of rows removed.
	PruneJobRuns(ctx context.Context, retention time.Duration) (int, error)

	Ping(ctx context.Context) error
	Close()
}
