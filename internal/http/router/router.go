package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nordcup-as/production-api/internal/auth"
	"github.com/nordcup-as/production-api/internal/config"
	"github.com/nordcup-as/production-api/internal/database"
	"github.com/nordcup-as/production-api/internal/http/handler"
	"github.com/nordcup-as/production-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/nordcup-as/production-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	db              *gorm.DB
	authMiddleware  *auth.Middleware
	rateLimiter     *middleware.RateLimiter
	customerHandler *handler.CustomerHandler
	workOrderHandler *handler.WorkOrderHandler
	scheduleHandler *handler.ProductionScheduleHandler
	fileHandler     *handler.FileHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	customerHandler *handler.CustomerHandler,
	workOrderHandler *handler.WorkOrderHandler,
	scheduleHandler *handler.ProductionScheduleHandler,
	fileHandler *handler.FileHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
		customerHandler:  customerHandler,
		workOrderHandler: workOrderHandler,
		scheduleHandler:  scheduleHandler,
		fileHandler:      fileHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		// Check database
		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Customers
			r.Route("/customers", func(r chi.Router) {
				r.Get("/", rt.customerHandler.List)
				r.Post("/", rt.customerHandler.Create)
				r.Get("/{id}", rt.customerHandler.GetByID)
				r.Put("/{id}", rt.customerHandler.Update)
				r.Delete("/{id}", rt.customerHandler.Archive)
			})

			// Work orders
			r.Route("/work-orders", func(r chi.Router) {
				r.Get("/", rt.workOrderHandler.List)
				r.Post("/", rt.workOrderHandler.Create)
				r.Get("/stats", rt.workOrderHandler.GetStatistics)
				r.Get("/production-queue", rt.workOrderHandler.GetProductionQueue)
				r.Get("/number/{orderNumber}", rt.workOrderHandler.GetByOrderNumber)
				r.Get("/{id}", rt.workOrderHandler.GetByID)
				r.Put("/{id}", rt.workOrderHandler.Update)
				r.Delete("/{id}", rt.workOrderHandler.Delete)

				// Status transitions
				r.Patch("/{id}/status", rt.workOrderHandler.UpdateStatus)
				r.Post("/{id}/approve", rt.workOrderHandler.Approve)
				r.Post("/{id}/start-production", rt.workOrderHandler.StartProduction)
				r.Post("/{id}/complete-production", rt.workOrderHandler.CompleteProduction)
				r.Post("/{id}/pass-quality-check", rt.workOrderHandler.PassQualityCheck)

				// Sub-resources
				r.Get("/{id}/updates", rt.workOrderHandler.GetUpdates)
				r.Get("/{id}/schedules", rt.scheduleHandler.ListByWorkOrder)
				r.Get("/{id}/files", rt.fileHandler.ListByWorkOrder)
				r.Post("/{id}/files", rt.fileHandler.Upload)
			})

			// Production schedules
			r.Route("/production-schedules", func(r chi.Router) {
				r.Post("/", rt.scheduleHandler.Create)
				r.Put("/{id}", rt.scheduleHandler.Update)
			})

			// Files
			r.Route("/files", func(r chi.Router) {
				r.Get("/{id}/download", rt.fileHandler.Download)
				r.Delete("/{id}", rt.fileHandler.Delete)
			})
		})
	})

	return r
}
