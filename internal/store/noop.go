package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/donaldgifford/meli-pricer/pkg/types"
)

// Noop is an in-memory Store used when no database is configured. Runs
// are kept only for the lifetime of the process so the jobs endpoint
// stays useful in database-less deployments.
type Noop struct {
	log *slog.Logger

	mu   sync.Mutex
	runs []domain.JobRun
}

var _ Store = (*Noop)(nil)

// NewNoop creates a store that keeps job runs in memory only.
func NewNoop(log *slog.Logger) *Noop {
	return &Noop{log: log}
}

func (n *Noop) InsertJobRun(_ context.Context, jobName string) (string, error) {
	id := uuid.NewString()
	n.mu.Lock()
	n.runs = append(n.runs, domain.JobRun{
		ID:        id,
		JobName:   jobName,
		StartedAt: time.Now(),
		Status:    StatusRunning,
	})
	n.mu.Unlock()
	n.log.Debug("noop store: job run started", "job", jobName, "id", id)
	return id, nil
}

func (n *Noop) CompleteJobRun(_ context.Context, id string, status string, errText string, rowsAffected int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := range n.runs {
		if n.runs[i].ID == id {
			now := time.Now()
			n.runs[i].CompletedAt = &now
			n.runs[i].Status = status
			n.runs[i].ErrorText = errText
			n.runs[i].RowsAffected = rowsAffected
			return nil
		}
	}
	n.log.Debug("noop store: completing unknown job run", "id", id)
	return nil
}

func (n *Noop) ListJobRuns(_ context.Context, jobName string, limit int) ([]domain.JobRun, error) {
	if limit <= 0 {
		limit = 50
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	// Newest first.
	var out []domain.JobRun
	for i := len(n.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if jobName != "" && n.runs[i].JobName != jobName {
			continue
		}
		out = append(out, n.runs[i])
	}
	return out, nil
}

func (n *Noop) PruneJobRuns(_ context.Context, retention time.Duration) (int, error) {
	cutoff := time.Now().Add(-retention)
	n.mu.Lock()
	defer n.mu.Unlock()

	kept := n.runs[:0]
	removed := 0
	for _, r := range n.runs {
		if r.StartedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	n.runs = kept
	return removed, nil
}

func (n *Noop) Ping(context.Context) error { return nil }

func (n *Noop) Close() {}
