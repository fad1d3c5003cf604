package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/care-sync/internal/config"
	"github.com/jwalitptl/care-sync/internal/handler/health"
	"github.com/jwalitptl/care-sync/internal/handler/prometheus"
	"github.com/jwalitptl/care-sync/internal/middleware"
	"github.com/jwalitptl/care-sync/internal/repository/postgres"
	"github.com/jwalitptl/care-sync/pkg/logger"
	"github.com/jwalitptl/care-sync/pkg/messaging/redis"
	"github.com/jwalitptl/care-sync/pkg/metrics"
	"github.com/jwalitptl/care-sync/pkg/worker"
)

// healthServer exposes liveness, readiness and worker metrics.
func healthServer(port int, checks map[string]health.Check, metricsH *prometheus.Handler) *http.Server {
	engine := gin.New()
	engine.Use(middleware.Recovery())

	group := engine.Group("")
	health.NewHandler(checks).RegisterRoutes(group)
	group.GET("/metrics", metricsH.Handler())

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: engine,
	}
}

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Initialize logger
	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.LogLevel),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		JSON:       cfg.Env != "development",
	}).WithFields(map[string]interface{}{"component": "worker"})
	log.Logger = *appLogger.Zerolog()
	gin.SetMode(gin.ReleaseMode)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Env}); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize sentry")
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Initialize Redis broker
	redisClient, err := redis.NewClient(cfg.Redis.ToBrokerConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis client")
	}
	broker := redis.NewRedisBrokerFromClient(redisClient, appLogger)
	defer broker.Close()

	metricsH := prometheus.New()
	workerMetrics := metrics.NewMetrics("care_sync", "worker", metricsH.Registry())

	outboxRepo := postgres.NewOutboxRepository(db)

	processor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:     cfg.Outbox.BatchSize,
			RetryAttempts: cfg.Outbox.RetryAttempts,
			RetryDelay:    cfg.Outbox.RetryDelay,
			MaxAttempts:   cfg.Outbox.MaxAttempts,
		},
		appLogger,
		workerMetrics,
	)

	var cleanup *worker.OutboxCleanup
	if cfg.Outbox.RetentionDays > 0 {
		cleanup = worker.NewOutboxCleanup(outboxRepo, cfg.Outbox.RetentionDays, appLogger, workerMetrics)
	}

	scheduler, err := worker.NewScheduler(
		worker.SchedulerConfig{PollInterval: cfg.Outbox.PollInterval, CleanupAt: cfg.Outbox.CleanupAt},
		processor,
		cleanup,
		appLogger,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}

	// Setup health check endpoints
	srv := healthServer(cfg.Server.HealthPort, map[string]health.Check{
		"database": db.PingContext,
		"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	}, metricsH)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Health check server failed")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	scheduler.Start(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Health server forced to shutdown")
	}
}
