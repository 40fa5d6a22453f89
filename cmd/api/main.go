package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nordcup-as/production-api/docs"
	"github.com/nordcup-as/production-api/internal/auth"
	"github.com/nordcup-as/production-api/internal/config"
	"github.com/nordcup-as/production-api/internal/database"
	"github.com/nordcup-as/production-api/internal/erp"
	"github.com/nordcup-as/production-api/internal/http/handler"
	"github.com/nordcup-as/production-api/internal/http/middleware"
	"github.com/nordcup-as/production-api/internal/http/router"
	"github.com/nordcup-as/production-api/internal/jobs"
	"github.com/nordcup-as/production-api/internal/logger"
	"github.com/nordcup-as/production-api/internal/repository"
	"github.com/nordcup-as/production-api/internal/service"
	"github.com/nordcup-as/production-api/internal/storage"
	"go.uber.org/zap"
)

// @title NordCup Production API
// @version 1.0
// @description Work order tracking API for custom printed cup manufacturing
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@nordcup.no

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "nordcup-production-staging.norwayeast.azurecontainerapps.io"
	case "production":
		docs.SwaggerInfo.Host = "api.nordcup.no"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate in development; staging/production run goose migrations
	if cfg.App.Environment == "development" || cfg.App.Environment == "local" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to auto-migrate database: %w", err)
		}
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize ERP connection (optional - read-only account number lookups)
	// The app continues without it if not configured
	var erpClient *erp.Client
	if cfg.ERP.Enabled {
		erpClient, err = erp.NewClient(&cfg.ERP, log)
		if err != nil {
			log.Warn("ERP connection failed, continuing without it", zap.Error(err))
		} else if erpClient != nil {
			log.Info("ERP connected successfully",
				zap.Int("max_open_conns", cfg.ERP.MaxOpenConns),
				zap.Int("query_timeout_seconds", cfg.ERP.QueryTimeout),
			)
		}
	} else {
		log.Info("ERP not configured, skipping")
	}

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewWorkOrderRepository(db)
	updateRepo := repository.NewWorkOrderUpdateRepository(db)
	numberRepo := repository.NewOrderNumberRepository(db)
	scheduleRepo := repository.NewProductionScheduleRepository(db)
	fileRepo := repository.NewWorkOrderFileRepository(db)

	// Initialize services
	customerService := service.NewCustomerService(customerRepo, log)
	workOrderService := service.NewWorkOrderService(orderRepo, updateRepo, customerRepo, numberRepo, log, db)
	scheduleService := service.NewProductionScheduleService(scheduleRepo, orderRepo, log)
	fileService := service.NewFileService(fileRepo, orderRepo, fileStorage, log)

	var erpSyncService *service.ERPSyncService
	if erpClient != nil {
		erpSyncService = service.NewERPSyncService(customerRepo, erpClient, log)
	}

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	customerHandler := handler.NewCustomerHandler(customerService, log)
	workOrderHandler := handler.NewWorkOrderHandler(workOrderService, log)
	scheduleHandler := handler.NewProductionScheduleHandler(scheduleService, log)
	fileHandler := handler.NewFileHandler(fileService, cfg.Storage.MaxUploadSizeMB, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		customerHandler,
		workOrderHandler,
		scheduleHandler,
		fileHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.ScheduleSweepEnabled || (cfg.Jobs.ERPSyncEnabled && erpSyncService != nil) {
		scheduler = jobs.NewScheduler(log)

		if cfg.Jobs.ScheduleSweepEnabled {
			if err := jobs.RegisterScheduleSweepJob(
				scheduler,
				scheduleService,
				log,
				cfg.Jobs.ScheduleSweepCron,
				cfg.Jobs.TimeoutDuration(),
			); err != nil {
				log.Error("Failed to register schedule sweep job", zap.Error(err))
			}
		}

		if cfg.Jobs.ERPSyncEnabled && erpSyncService != nil {
			if err := jobs.RegisterERPSyncJob(
				scheduler,
				erpSyncService,
				log,
				cfg.Jobs.ERPSyncCron,
				cfg.Jobs.TimeoutDuration(),
			); err != nil {
				log.Error("Failed to register ERP sync job", zap.Error(err))
			}
		}

		if len(scheduler.GetJobNames()) > 0 {
			scheduler.Start()
			log.Info("Scheduler started", zap.Strings("jobs", scheduler.GetJobNames()))
		} else {
			scheduler = nil
		}
	} else {
		log.Info("Background jobs disabled",
			zap.Bool("schedule_sweep_enabled", cfg.Jobs.ScheduleSweepEnabled),
			zap.Bool("erp_sync_enabled", cfg.Jobs.ERPSyncEnabled),
		)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Close ERP connection if initialized
		if erpClient != nil {
			if err := erpClient.Close(); err != nil {
				log.Warn("Error closing ERP connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
