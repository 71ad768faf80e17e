package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"carshare-backend/internal/config"
	"carshare-backend/internal/document"
	"carshare-backend/internal/jobs"
	"carshare-backend/internal/logger"
	"carshare-backend/internal/repository/postgres"
	"carshare-backend/internal/scheduler"
	"carshare-backend/internal/service"
	"carshare-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'render-documents', 'reminders')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Carshare Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Storage + Renderer + Email
	blobs, err := storage.NewFromConfig(context.Background(), cfg.Storage.Type, cfg.Storage.BaseURL, cfg.Storage.UploadDir, cfg.Storage.Bucket, cfg.Storage.CredentialsFile)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	renderer := document.NewRenderer(cfg.Documents.CompanyName)
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.From, cfg.SendGrid.FromName)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, store, emailSvc, renderer, blobs, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.New(jobRunner, cfg)
	if err := cronScheduler.Start(); err != nil {
		logger.Error("Failed to start scheduler", "error", err)
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "render-inspection-reports":
		jobRunner.RenderPendingInspectionReports()
	case "render-contracts":
		jobRunner.RenderPendingContracts()
	case "render-documents":
		jobRunner.RunDocumentSweep()
	case "send-pickup-reminders":
		jobRunner.SendPickupReminders()
	case "send-return-reminders":
		jobRunner.SendReturnReminders()
	case "reminders":
		jobRunner.RunDailyReminders()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - render-inspection-reports\n")
		fmt.Printf("  - render-contracts\n")
		fmt.Printf("  - render-documents\n")
		fmt.Printf("  - send-pickup-reminders\n")
		fmt.Printf("  - send-return-reminders\n")
		fmt.Printf("  - reminders\n")
		os.Exit(1)
	}
}
