package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticsapp "github.com/Akhilesh2006s/gst-backend/internal/application/analytics"
	ledgerapp "github.com/Akhilesh2006s/gst-backend/internal/application/ledger"
	partnerapp "github.com/Akhilesh2006s/gst-backend/internal/application/partner"
	"github.com/Akhilesh2006s/gst-backend/internal/infrastructure/auth"
	"github.com/Akhilesh2006s/gst-backend/internal/infrastructure/cache"
	"github.com/Akhilesh2006s/gst-backend/internal/infrastructure/config"
	"github.com/Akhilesh2006s/gst-backend/internal/infrastructure/logger"
	"github.com/Akhilesh2006s/gst-backend/internal/infrastructure/persistence"
	"github.com/Akhilesh2006s/gst-backend/internal/infrastructure/scheduler"
	"github.com/Akhilesh2006s/gst-backend/internal/infrastructure/telemetry"
	"github.com/Akhilesh2006s/gst-backend/internal/interfaces/http/handler"
	"github.com/Akhilesh2006s/gst-backend/internal/interfaces/http/middleware"
	"github.com/Akhilesh2006s/gst-backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is injected at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting GST Ledger API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Continuous profiling (no-op when disabled)
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.ProfilingEndpoint,
		ApplicationName:   cfg.Telemetry.ServiceName,
		ProfileCPU:        true,
		ProfileInuseSpace: true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled && cfg.Telemetry.ProfilingEnabled {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel))

	// Initialize database connection
	db, err := persistence.NewDatabaseWithGormLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Database query tracing
	if cfg.Telemetry.DBTraceEnabled {
		dbTracingConfig := telemetry.DefaultDBTracingConfig()
		dbTracingConfig.Enabled = true
		dbTracing := telemetry.NewDBTracingPlugin(dbTracingConfig, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	creditNoteRepo := persistence.NewGormCreditNoteRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	numberGenerator := persistence.NewGormNumberGenerator(db.DB)

	// Analytics read sources over the invoice, purchase, expense and
	// payment tables
	salesSource := persistence.NewGormSalesSource(db.DB)
	purchaseSource := persistence.NewGormPurchaseSource(db.DB)
	expenseSource := persistence.NewGormExpenseSource(db.DB)
	paymentSource := persistence.NewGormPaymentSource(db.DB)
	tenantSource := persistence.NewGormTenantSource(db.DB)

	// Snapshot store: Redis when configured, in-memory otherwise
	storeFactory := cache.NewSnapshotStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithSnapshotTTL(cfg.Analytics.SnapshotTTL),
	)
	snapshotStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create snapshot store", zap.Error(err))
	}

	// Initialize application services
	creditNoteService := ledgerapp.NewCreditNoteService(creditNoteRepo, customerRepo, numberGenerator)
	paymentService := ledgerapp.NewPaymentService(paymentRepo, customerRepo, numberGenerator)
	statementService := ledgerapp.NewStatementService(paymentRepo, customerRepo)
	customerService := partnerapp.NewCustomerService(customerRepo)
	analyticsService := analyticsapp.NewAnalyticsService(
		salesSource, purchaseSource, expenseSource, paymentSource, snapshotStore, log)

	// Snapshot refresh worker pool
	refreshCtx, refreshCancel := context.WithCancel(context.Background())
	defer refreshCancel()
	refresher := analyticsapp.NewRefresher(
		analyticsService, cfg.Analytics.RefreshWorkers, cfg.Analytics.QueueDepth, log)
	refresher.Start(refreshCtx)
	defer refresher.Stop()
	log.Info("Snapshot refresher started",
		zap.Int("workers", cfg.Analytics.RefreshWorkers),
		zap.Int("queue_depth", cfg.Analytics.QueueDepth),
	)

	// Periodic refresh scheduler (if enabled)
	var refreshScheduler *scheduler.RefreshScheduler
	if cfg.Analytics.SchedulerEnabled {
		refreshScheduler, err = scheduler.NewRefreshScheduler(scheduler.RefreshSchedulerConfig{
			Enabled:  true,
			Interval: cfg.Analytics.RefreshInterval,
		}, refresher, tenantSource, log)
		if err != nil {
			log.Fatal("Failed to create refresh scheduler", zap.Error(err))
		}
		if err := refreshScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start refresh scheduler", zap.Error(err))
		}
		defer func() {
			if err := refreshScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping refresh scheduler", zap.Error(err))
			}
		}()
		log.Info("Refresh scheduler started",
			zap.Duration("interval", cfg.Analytics.RefreshInterval),
		)
	}

	// JWT validation for the upstream identity service's tokens
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	creditNoteHandler := handler.NewCreditNoteHandler(creditNoteService)
	paymentHandler := handler.NewPaymentHandler(paymentService, statementService)
	customerHandler := handler.NewCustomerHandler(customerService)
	var schedulerStatus handler.RefreshStatusReporter
	if refreshScheduler != nil {
		schedulerStatus = refreshScheduler
	}
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, refresher, schedulerStatus)
	systemHandler := handler.NewSystemHandler(db, version)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Create request spans
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfigFromHTTP(cfg.HTTP)
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning and authentication)
	systemHandler.RegisterHealthRoute(engine)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// JWT authentication on the API surface; ping and system info stay public
	r.Use(middleware.JWTAuthWithConfig(middleware.JWTConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}))

	// Rate limiting is keyed per tenant, so it runs after JWT
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		r.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	r.Register(creditNoteHandler).
		Register(paymentHandler).
		Register(customerHandler).
		Register(analyticsHandler).
		Register(systemHandler)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
