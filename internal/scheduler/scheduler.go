package scheduler

import (
	"context"
	"time"

	"homecore/internal/db"
	"homecore/internal/engine"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the periodic maintenance jobs: fact-table retention and
// cooldown-map pruning.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates a scheduler with no jobs
func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Start starts the cron loop
func (s *Scheduler) Start() {
	s.cron.Start()
	zap.S().Infof("SCHEDULER: cron scheduler started")
}

// Stop stops the cron loop and waits for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Infof("SCHEDULER: cron scheduler stopped")
}

// AddJob adds a cron job
func (s *Scheduler) AddJob(spec string, fn func()) (cron.EntryID, error) {
	return s.cron.AddFunc(spec, fn)
}

// RegisterMaintenanceJobs wires the daily retention sweep and the hourly
// cooldown prune.
func (s *Scheduler) RegisterMaintenanceJobs(dbConn *db.DB, guard *engine.CooldownGuard, retentionDays int) error {
	if retentionDays > 0 {
		retention := time.Duration(retentionDays) * 24 * time.Hour
		if _, err := s.AddJob("0 3 * * *", func() {
			cutoff := time.Now().Add(-retention)
			removed, err := dbConn.PruneFacts(context.Background(), cutoff)
			if err != nil {
				zap.S().Errorf("SCHEDULER: retention sweep failed: %v", err)
				return
			}
			zap.S().Infof("SCHEDULER: retention sweep removed %d rows older than %s", removed, cutoff.Format(time.RFC3339))
		}); err != nil {
			return err
		}
	}

	if _, err := s.AddJob("@every 1h", func() {
		if removed := guard.Prune(time.Now()); removed > 0 {
			zap.S().Debugf("SCHEDULER: pruned %d expired cooldown entries", removed)
		}
	}); err != nil {
		return err
	}
	return nil
}
