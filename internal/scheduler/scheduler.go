package scheduler

import (
	"carshare-backend/internal/config"
	"carshare-backend/internal/jobs"
	"carshare-backend/internal/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler wires the background jobs into cron. Schedules are six-field
// cron expressions (seconds first) from the configuration.
type Scheduler struct {
	cron      *cron.Cron
	jobRunner *jobs.JobRunner
	config    *config.Config
}

func New(jobRunner *jobs.JobRunner, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		jobRunner: jobRunner,
		config:    cfg,
	}
}

// Start registers all jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	entries := []struct {
		name     string
		schedule string
		run      func()
	}{
		{"RenderPendingInspectionReports", s.config.Scheduler.RenderPendingDocuments, s.jobRunner.RenderPendingInspectionReports},
		{"RenderPendingContracts", s.config.Scheduler.RenderPendingDocuments, s.jobRunner.RenderPendingContracts},
		{"SendPickupReminders", s.config.Scheduler.SendPickupReminders, s.jobRunner.SendPickupReminders},
		{"SendReturnReminders", s.config.Scheduler.SendReturnReminders, s.jobRunner.SendReturnReminders},
	}

	for _, entry := range entries {
		if _, err := s.cron.AddFunc(entry.schedule, entry.run); err != nil {
			return err
		}
		logger.Info("Scheduled job", "job", entry.name, "schedule", entry.schedule)
	}

	s.cron.Start()
	logger.Info("Scheduler started", "jobs", len(entries))
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Scheduler stopped")
}
