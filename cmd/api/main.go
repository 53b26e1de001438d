package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/clinicflow/appointments/internal/adapters/cache"
	"github.com/clinicflow/appointments/internal/adapters/database"
	"github.com/clinicflow/appointments/internal/api/handlers"
	"github.com/clinicflow/appointments/internal/api/routes"
	"github.com/clinicflow/appointments/internal/application/services"
	"github.com/clinicflow/appointments/internal/domain/providers"
	"github.com/clinicflow/appointments/internal/domain/repositories"
	"github.com/clinicflow/appointments/internal/infrastructure/clients/postgres"
	"github.com/clinicflow/appointments/internal/infrastructure/clients/redis"
	"github.com/clinicflow/appointments/internal/infrastructure/notifications"
	"github.com/clinicflow/appointments/internal/infrastructure/observability"
	"github.com/clinicflow/appointments/pkg/config"
)

func main() {
	// Load .env in development; ignored when the file is absent
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("appointment-lifecycle", os.Getenv("APP_ENV"))
	logger := observability.GetLogger()

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	logger.Info().Msg("PostgreSQL client initialized")

	// Initialize Redis client. The service works without it; reads just
	// skip the token cache.
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		logger.Info().Msg("Redis client initialized")
	}

	// Initialize adapters
	var appointmentRepo repositories.AppointmentRepository = database.NewAppointmentAdapter(pgClient)
	if cacheProvider != nil {
		appointmentRepo = database.NewCachedAppointmentAdapter(appointmentRepo, cacheProvider)
	}
	notificationRepo := database.NewNotificationAdapter(pgClient)
	auditRepo := database.NewAuditAdapter(pgClient)
	doctorRepo := database.NewDoctorAdapter(pgClient)
	userRepo := database.NewUserAdapter(pgClient)

	// Initialize email delivery if enabled
	var emailSender providers.EmailSender
	if cfg.Email.Enabled {
		sender, err := notifications.NewSESEmailSender(ctx, cfg.Email.Region, cfg.Email.From)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize SES sender, notifications stay in-app only")
		} else {
			emailSender = sender
			logger.Info().Str("region", cfg.Email.Region).Msg("SES email sender initialized")
		}
	}

	// Initialize services
	notificationService := services.NewNotificationService(notificationRepo, emailSender)
	auditService := services.NewAuditService(auditRepo)
	validator := services.NewSchedulingValidator(doctorRepo, userRepo)
	appointmentService := services.NewAppointmentService(
		appointmentRepo,
		doctorRepo,
		userRepo,
		validator,
		notificationService,
		auditService,
		cfg.CheckIn.BaseURL,
	)
	reminderService := services.NewReminderService(
		appointmentRepo,
		doctorRepo,
		userRepo,
		notificationService,
		cfg.Reminder.Interval,
		cfg.Reminder.Lookahead,
	)

	// Start the reminder sweep loop
	go reminderService.Run(ctx)

	// Set up router
	router := routes.NewRouter(
		handlers.NewAppointmentHandler(appointmentService),
		handlers.NewNotificationHandler(notificationService),
		handlers.NewAuditHandler(auditService),
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
