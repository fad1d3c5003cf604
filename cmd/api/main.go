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
	"golang.org/x/time/rate"

	"github.com/jwalitptl/care-sync/internal/config"
	"github.com/jwalitptl/care-sync/internal/email"
	appointmentHandler "github.com/jwalitptl/care-sync/internal/handler/appointment"
	authHandler "github.com/jwalitptl/care-sync/internal/handler/auth"
	dietPlanHandler "github.com/jwalitptl/care-sync/internal/handler/dietplan"
	fitnessHandler "github.com/jwalitptl/care-sync/internal/handler/fitness"
	"github.com/jwalitptl/care-sync/internal/handler/health"
	journalHandler "github.com/jwalitptl/care-sync/internal/handler/journal"
	labHandler "github.com/jwalitptl/care-sync/internal/handler/lab"
	medicalHandler "github.com/jwalitptl/care-sync/internal/handler/medical"
	profileHandler "github.com/jwalitptl/care-sync/internal/handler/profile"
	"github.com/jwalitptl/care-sync/internal/handler/prometheus"
	workoutHandler "github.com/jwalitptl/care-sync/internal/handler/workout"
	"github.com/jwalitptl/care-sync/internal/middleware"
	"github.com/jwalitptl/care-sync/internal/repository/postgres"
	"github.com/jwalitptl/care-sync/internal/router"
	appointmentService "github.com/jwalitptl/care-sync/internal/service/appointment"
	authService "github.com/jwalitptl/care-sync/internal/service/auth"
	dietPlanService "github.com/jwalitptl/care-sync/internal/service/dietplan"
	eventService "github.com/jwalitptl/care-sync/internal/service/event"
	fitnessService "github.com/jwalitptl/care-sync/internal/service/fitness"
	journalService "github.com/jwalitptl/care-sync/internal/service/journal"
	labService "github.com/jwalitptl/care-sync/internal/service/lab"
	medicalService "github.com/jwalitptl/care-sync/internal/service/medical"
	profileService "github.com/jwalitptl/care-sync/internal/service/profile"
	workoutService "github.com/jwalitptl/care-sync/internal/service/workout"
	"github.com/jwalitptl/care-sync/pkg/auth"
	"github.com/jwalitptl/care-sync/pkg/logger"
	"github.com/jwalitptl/care-sync/pkg/security"
	"github.com/jwalitptl/care-sync/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.LogLevel),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		JSON:       cfg.Env != "development",
	})
	log.Logger = *appLogger.Zerolog()

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Env}); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize sentry")
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := postgres.Migrate(context.Background(), db); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	journalKey, err := security.NewAESEncryptorFromHex(cfg.Security.JournalKey)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid journal key")
	}

	// Initialize repositories
	appointmentRepo := postgres.NewAppointmentRepository(db)
	dietPlanRepo := postgres.NewDietPlanRepository(db)
	fitnessRepo := postgres.NewFitnessRepository(db)
	labRepo := postgres.NewLabRepository(db)
	journalRepo := postgres.NewJournalRepository(db, journalKey)
	medicalRepo := postgres.NewMedicalRecordRepository(db)
	workoutRepo := postgres.NewWorkoutRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	userRepo := postgres.NewUserRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Initialize services
	events := eventService.NewEventService(outboxRepo, appLogger)
	jwt := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry())

	authSvc := authService.NewService(userRepo, jwt, security.NewBcryptHasher(cfg.Auth.BcryptCost), appLogger)
	appointmentSvc := appointmentService.NewService(appointmentRepo, profileRepo, events, email.NewService(cfg.SMTP), appLogger)
	dietPlanSvc := dietPlanService.NewService(dietPlanRepo, events, validator.New(), appLogger)
	fitnessSvc := fitnessService.NewService(fitnessRepo, profileRepo, events, appLogger)
	labSvc := labService.NewService(labRepo, profileRepo, events, cfg.Lab.CatalogTTL, appLogger)
	journalSvc := journalService.NewService(journalRepo, events, appLogger)
	medicalSvc := medicalService.NewService(medicalRepo, events, appLogger)
	workoutSvc := workoutService.NewService(workoutRepo, events, appLogger)
	profileSvc := profileService.NewService(profileRepo, events, appLogger)

	// Setup router
	routerConfig := router.RouterConfig{
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxBodySize:    middleware.DefaultMaxBodySize,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Security:       middleware.DefaultSecurityConfig(),
	}
	if cfg.RateLimit.Enabled {
		routerConfig.RateLimit = &middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
			Burst: cfg.RateLimit.Burst,
		}
	}

	r := router.NewRouter(
		routerConfig,
		middleware.NewAuthMiddleware(jwt, cfg.Auth.AllowPatientHeader),
		prometheus.New(),
		health.NewHandler(map[string]health.Check{"database": db.PingContext}),
		authHandler.NewHandler(authSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		dietPlanHandler.NewHandler(dietPlanSvc),
		fitnessHandler.NewHandler(fitnessSvc),
		labHandler.NewHandler(labSvc),
		journalHandler.NewHandler(journalSvc),
		medicalHandler.NewHandler(medicalSvc),
		workoutHandler.NewHandler(workoutSvc),
		profileHandler.NewHandler(profileSvc),
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
