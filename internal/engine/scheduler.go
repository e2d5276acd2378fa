package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/meli-pricer/internal/store"
)

// JobPruneRuns is the job name recorded for scheduled audit pruning.
const JobPruneRuns = "prune_job_runs"

// Scheduler runs periodic maintenance tasks, currently pruning old
// job-run audit records.
type Scheduler struct {
	cron      *cron.Cron
	store     store.Store
	retention time.Duration
	log       *slog.Logger
}

// NewScheduler creates a Scheduler that prunes job runs older than
// retention on every interval tick.
func NewScheduler(
	s store.Store,
	pruneInterval time.Duration,
	retention time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New()

	sched := &Scheduler{
		cron:      c,
		store:     s,
		retention: retention,
		log:       log,
	}

	if _, err := c.AddFunc(
		"@every "+pruneInterval.String(),
		sched.runPrune,
	); err != nil {
		return nil, err
	}

	return sched, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started", "retention", s.retention)
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runPrune() {
	ctx := context.Background()

	id, err := s.store.InsertJobRun(ctx, JobPruneRuns)
	if err != nil {
		s.log.Error("recording prune run failed", "error", err)
		id = ""
	}

	removed, err := s.store.PruneJobRuns(ctx, s.retention)
	if err != nil {
		s.log.Error("pruning job runs failed", "error", err)
		if id != "" {
			if cerr := s.store.CompleteJobRun(ctx, id, store.StatusFailed, err.Error(), 0); cerr != nil {
				s.log.Error("completing prune run failed", "error", cerr)
			}
		}
		return
	}

	if id != "" {
		if err := s.store.CompleteJobRun(ctx, id, store.StatusCompleted, "", removed); err != nil {
			s.log.Error("completing prune run failed", "error", err)
		}
	}
}
