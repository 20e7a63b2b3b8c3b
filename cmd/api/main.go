package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	httpAdapter "github.com/lorrc/desk-metrics/internal/adapters/primary/http"
	mw "github.com/lorrc/desk-metrics/internal/adapters/primary/http/middleware"
	"github.com/lorrc/desk-metrics/internal/adapters/primary/websocket"
	"github.com/lorrc/desk-metrics/internal/adapters/secondary/csvstore"
	"github.com/lorrc/desk-metrics/internal/adapters/secondary/postgres"
	"github.com/lorrc/desk-metrics/internal/auth"
	"github.com/lorrc/desk-metrics/internal/config"
	"github.com/lorrc/desk-metrics/internal/core/domain"
	"github.com/lorrc/desk-metrics/internal/core/ports"
	"github.com/lorrc/desk-metrics/internal/core/services"
	"github.com/lorrc/desk-metrics/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"dataset_source", cfg.Dataset.Source,
	)

	// 3. Load Reporting Rules
	rules, err := config.LoadReporting(cfg.Dataset.ReportingPath)
	if err != nil {
		logger.Error("failed to load reporting rules", "path", cfg.Dataset.ReportingPath, "error", err)
		os.Exit(1)
	}

	policy := domain.SLAPolicy{
		ThresholdMinutes: rules.SLA.ThresholdMinutes,
		GoalMinutes:      rules.SLA.GoalMinutes,
		GroupThresholds:  rules.SLA.GroupThresholds,
	}

	// 4. Initialize Dataset Source
	ctx := context.Background()
	var source ports.DatasetSource

	switch cfg.Dataset.Source {
	case config.SourcePostgres:
		poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			logger.Error("failed to parse database URL", "error", err)
			os.Exit(1)
		}

		poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
		poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
		poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
		poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Error("database ping failed", "error", err)
			os.Exit(1)
		}
		logger.Info("database connection established")

		source = postgres.NewSource(pool, rules)
	default:
		source = csvstore.NewSource(cfg.Dataset.IncidentsCSV, cfg.Dataset.ConsultationsCSV, rules, logger)
	}

	// 5. Initialize Security & Real-time Components
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	hub := websocket.NewHub(logger)
	go hub.Run()

	// 6. Services (Core)
	datasetService := services.NewDatasetService(source, hub, logger)
	metricsService := services.NewMetricsService(datasetService, policy)
	consultationService := services.NewConsultationService(datasetService, rules.TopIssues)
	authService := services.NewAuthService(cfg.Auth.AdminPasswordHash, tokenManager, logger)

	// Initial load. A failure here is not fatal: the server starts anyway
	// and reports 503 until an admin reload supplies a dataset.
	loadCtx, cancelLoad := context.WithTimeout(ctx, 2*time.Minute)
	if snap, err := datasetService.Reload(loadCtx); err != nil {
		logger.Warn("initial dataset load failed, serving without data", "error", err)
	} else {
		logger.Info("dataset loaded",
			"incidents", len(snap.Incidents),
			"consultations", len(snap.Consultations),
		)
	}
	cancelLoad()

	// 7. Initialize Rate Limiters
	var generalRateLimiter, authRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})

		authRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.AuthRPS,
			BurstSize:         cfg.RateLimit.AuthBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})
	}

	// 8. Handlers (Primary Adapters)
	errorHandler := httpAdapter.NewErrorHandler(logger)

	authHandler := httpAdapter.NewAuthHandler(authService, cfg.Auth.AccessTokenTTL, errorHandler, logger)
	incidentHandler := httpAdapter.NewIncidentHandler(metricsService, errorHandler, logger)
	consultationHandler := httpAdapter.NewConsultationHandler(consultationService, errorHandler, logger)
	catalogHandler := httpAdapter.NewCatalogHandler(metricsService, consultationService, errorHandler, logger)
	adminHandler := httpAdapter.NewAdminHandler(datasetService, errorHandler, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(hub, cfg, logger)
	healthHandler := httpAdapter.NewHealthHandler(datasetService, cfg.App.Version)

	// 9. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", mw.RequestIDHeader},
		ExposedHeaders:   []string{mw.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Apply general rate limiting if enabled
	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/health/live", healthHandler.HandleLiveness)
	r.Get("/health/ready", healthHandler.HandleReadiness)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes with stricter rate limiting
		r.Group(func(r chi.Router) {
			if authRateLimiter != nil {
				r.Use(authRateLimiter.Middleware)
			}
			r.Route("/auth", authHandler.RegisterRoutes)
		})

		// Realtime dataset events
		r.Get("/ws", wsHandler.ServeHTTP)

		// Read-only reporting routes
		r.Route("/incidents", incidentHandler.RegisterRoutes)
		r.Route("/consultations", consultationHandler.RegisterRoutes)
		r.Route("/catalog", catalogHandler.RegisterRoutes)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(mw.JWTMiddleware(tokenManager))
			r.Route("/admin", adminHandler.RegisterRoutes)
		})
	})

	// 10. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
