package jobs

import (
	"database/sql"
	"time"

	"carshare-backend/internal/config"
	"carshare-backend/internal/document"
	"carshare-backend/internal/logger"
	"carshare-backend/internal/repository/postgres"
	"carshare-backend/internal/service"
	"carshare-backend/internal/storage"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	db       *sql.DB
	store    *postgres.Store
	emailSvc service.EmailService
	renderer document.Renderer
	blobs    storage.StorageInterface
	config   *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(
	db *sql.DB,
	store *postgres.Store,
	emailSvc service.EmailService,
	renderer document.Renderer,
	blobs storage.StorageInterface,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		db:       db,
		store:    store,
		emailSvc: emailSvc,
		renderer: renderer,
		blobs:    blobs,
		config:   cfg,
	}
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

func (jr *JobRunner) renderTimeout() time.Duration {
	return time.Duration(jr.config.Documents.RenderTimeout) * time.Second
}

// RunDocumentSweep runs both document-render sweeps (for manual execution)
func (jr *JobRunner) RunDocumentSweep() {
	jr.RenderPendingInspectionReports()
	jr.RenderPendingContracts()
}

// RunDailyReminders runs both reminder jobs (for manual execution)
func (jr *JobRunner) RunDailyReminders() {
	jr.SendPickupReminders()
	jr.SendReturnReminders()
}
