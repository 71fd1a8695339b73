// Package scheduler runs the recurring back-office jobs, currently just
// the daily scheduled-charge posting batch.
package scheduler

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"rentdesk-backend/internal/application/service"
)

// Scheduler manages cron job scheduling.
type Scheduler struct {
	cron    *cron.Cron
	charges *service.ChargeService
	logger  *slog.Logger
}

// NewScheduler creates a scheduler that posts due charges on the given
// cron schedule (standard 5-field expression, UTC).
func NewScheduler(schedule string, charges *service.ChargeService, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		charges: charges,
		logger:  logger,
	}

	if _, err := s.cron.AddFunc(schedule, s.runPostDue); err != nil {
		return nil, err
	}
	return s, nil
}

// runPostDue posts every due charge across all leases. Per-charge errors
// are already isolated inside PostDue; only a run-level failure logs here.
func (s *Scheduler) runPostDue() {
	result, err := s.charges.PostDue(nil, time.Now().UTC())
	if err != nil {
		s.logger.Error("scheduled charge batch failed", "error", err)
		return
	}
	s.logger.Info("scheduled charge batch done",
		"posted", result.Posted, "skipped", result.Skipped, "errors", result.Errors)
}

// Start begins the cron scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting charge scheduler")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("charge scheduler stopped")
}
