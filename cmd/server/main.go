package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	httpapi "carshare-backend/internal/api/http"
	"carshare-backend/internal/config"
	"carshare-backend/internal/document"
	"carshare-backend/internal/jobs"
	"carshare-backend/internal/logger"
	"carshare-backend/internal/repository/postgres"
	"carshare-backend/internal/scheduler"
	"carshare-backend/internal/security"
	"carshare-backend/internal/service"
	"carshare-backend/internal/storage"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Carshare Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
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

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Storage Service
	ctx := context.Background()
	blobs, err := storage.NewFromConfig(ctx, cfg.Storage.Type, cfg.Storage.BaseURL, cfg.Storage.UploadDir, cfg.Storage.Bucket, cfg.Storage.CredentialsFile)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err, "type", cfg.Storage.Type)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	// Initialize Document Renderer
	renderer := document.NewRenderer(cfg.Documents.CompanyName)
	renderTimeout := time.Duration(cfg.Documents.RenderTimeout) * time.Second
	urlExpiry := time.Duration(cfg.Storage.URLExpiryMins) * time.Minute

	// Initialize Email Service
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.From, cfg.SendGrid.FromName)

	// Initialize Services
	svcs := &httpapi.Services{
		Auth:         service.NewAuthService(store.Users, tokenManager),
		Vehicle:      service.NewVehicleService(store.Vehicles, store.Users),
		Availability: service.NewAvailabilityService(store.Vehicles, store.Reservations, store.BlockedDates),
		Booking:      service.NewBookingService(store.Reservations, store.Vehicles, store.Users, emailSvc, store.Notifications),
		Reservation:  service.NewReservationService(store.Reservations, store.Vehicles, store.Users, emailSvc, store.Notifications),
		Inspection: service.NewInspectionService(store.Inspections, store.Reservations, store.Vehicles, store.Users,
			emailSvc, store.Notifications, renderer, blobs, renderTimeout),
		Contract: service.NewContractService(store.Reservations, store.Vehicles, store.Users, emailSvc, renderer, blobs, urlExpiry),
		Upload:   service.NewUploadService(blobs, urlExpiry),
		Notification: service.NewNotificationService(store.Notifications),
	}

	// The local backend needs the upload/download endpoints its presigned
	// URLs point at.
	var localStore storage.StorageInterface
	if cfg.Storage.Type == "local" {
		localStore = blobs
	}
	router := httpapi.NewRouter(svcs, tokenManager, localStore)

	// Start the cron scheduler alongside the API server.
	jobRunner := jobs.NewJobRunner(db, store, emailSvc, renderer, blobs, cfg)
	cronScheduler := scheduler.New(jobRunner, cfg)
	if err := cronScheduler.Start(); err != nil {
		logger.Error("Failed to start scheduler", "error", err)
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer cronScheduler.Stop()

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
