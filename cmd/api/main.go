package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/BradenHooton/decoyra/internal/auth"
	"github.com/BradenHooton/decoyra/internal/background"
	"github.com/BradenHooton/decoyra/internal/config"
	"github.com/BradenHooton/decoyra/internal/handlers"
	"github.com/BradenHooton/decoyra/internal/metrics"
	middlewareCustom "github.com/BradenHooton/decoyra/internal/middleware"
	"github.com/BradenHooton/decoyra/internal/repositories"
	"github.com/BradenHooton/decoyra/internal/routes"
	"github.com/BradenHooton/decoyra/internal/services"
	pkghttp "github.com/BradenHooton/decoyra/pkg/http"
	pkglogger "github.com/BradenHooton/decoyra/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Server.LogLevel)); err != nil {
		logger.Warn("invalid LOG_LEVEL, using info", slog.String("log_level", cfg.Server.LogLevel))
		level = slog.LevelInfo
	}
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("env", cfg.Server.Env),
		slog.String("event_log", cfg.EventLog.Path))

	ipConfig, invalidProxies := pkghttp.NewIPConfig(cfg.Server.TrustedProxies)
	for _, entry := range invalidProxies {
		logger.Warn("ignoring invalid TRUSTED_PROXIES entry", slog.String("entry", entry))
	}

	// Initialize event log
	store := repositories.NewFileEventStore(cfg.EventLog.Path)
	if err := store.HealthCheck(context.Background()); err != nil {
		logger.Error("event log is not writable", slog.String("path", store.Path()), slog.Any("error", err))
		os.Exit(1)
	}

	metrics.Initialize()

	// Alert notifications
	var notifier services.AlertNotifier = services.NoopAlertNotifier{}
	if cfg.Alerts.Enabled() {
		sesNotifier, err := services.NewSESAlertNotifier(
			cfg.Alerts.AWSRegion,
			cfg.Alerts.EmailFrom,
			cfg.Alerts.EmailTo,
			services.BreakerConfig{
				MaxFailures: uint32(cfg.Alerts.BreakerMaxFailures),
				Timeout:     cfg.Alerts.BreakerTimeout,
			},
			logger,
		)
		if err != nil {
			logger.Error("failed to initialize alert notifier", slog.Any("error", err))
			os.Exit(1)
		}
		notifier = sesNotifier
		logger.Info("brute force alerts will be e-mailed", slog.Int("recipients", len(cfg.Alerts.EmailTo)))
	}

	// Initialize services
	auditLogger := pkglogger.NewAuditLogger(logger, cfg.Server.Env)
	bruteForceService := services.NewBruteForceService(store, logger)
	statsService := services.NewStatsService(store, logger)
	decoyService := services.NewDecoyService(
		store,
		bruteForceService,
		services.NewScamResponder(),
		notifier,
		auditLogger,
		logger,
		cfg.Alerts.Timeout,
	)

	// Tar-pit applied to every decoy login
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   cfg.Decoy.TarpitBaseDelayMs,
		RandomDelayMs: cfg.Decoy.TarpitRandomDelayMs,
	})

	// Initialize handlers
	decoyHandler := handlers.NewDecoyHandler(decoyService, timingDelay, ipConfig, logger)
	statsHandler := handlers.NewStatsHandler(statsService)
	healthHandler := handlers.NewHealthHandler(store, logger)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.DecoyHeaders(middlewareCustom.DecoyHeadersConfig{ServerHeader: cfg.Server.ServerHeader}))
	router.Use(middlewareCustom.SecureLogger(logger, ipConfig))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// Register routes
	routes.RegisterRoutes(router, routes.Dependencies{
		DecoyHandler:   decoyHandler,
		StatsHandler:   statsHandler,
		HealthHandler:  healthHandler,
		HoneypotKeys:   auth.NewAPIKeySet(cfg.Decoy.HoneypotAPIKeys),
		StatsKeys:      auth.NewAPIKeySet(cfg.Decoy.StatsAPIKeys),
		StatsRateLimit: middlewareCustom.RateLimitConfig{RequestsPerMinute: cfg.Decoy.StatsRequestsPerMinute},
		IPConfig:       ipConfig,
		Logger:         logger,
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start stats reporter
	reporterCtx, reporterCancel := context.WithCancel(context.Background())
	defer reporterCancel()

	var statsReporter *background.StatsReporter
	if cfg.Reporter.Interval > 0 {
		statsReporter = background.NewStatsReporter(statsService, logger, cfg.Reporter.Interval)
		go statsReporter.Start(reporterCtx)
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	reporterCancel()
	if statsReporter != nil {
		statsReporter.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	// let in-flight alert e-mails finish
	decoyService.Wait()

	logger.Info("server stopped gracefully")
}
