package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hallbook/api/routes"
	"hallbook/internal/bookings"
	"hallbook/internal/notifications"
	"hallbook/internal/shared/config"
	"hallbook/internal/shared/database"
	"hallbook/pkg/logger"
	"hallbook/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// @title Hallbook API
// @version 1.0
// @description Venue booking backend: halls, pricing, availability, bookings and notifications.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// rebuilt after gin mode and level are known
	logger.SetDefault(logger.NewWithWriter(os.Stdout, cfg.LogLevel))
	appLogger := logger.GetDefault()

	if envErr != nil {
		if cfg.IsProduction() || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}
	appLogger.Info("Starting hallbook",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("commit", GitCommit),
	)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled && db.Redis != nil {
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedisClient(), &ratelimit.Config{
			Enabled:                 cfg.RateLimit.Enabled,
			WindowDuration:          cfg.RateLimit.WindowDuration,
			DefaultRequests:         cfg.RateLimit.DefaultRequests,
			PublicRequests:          cfg.RateLimit.PublicRequests,
			AuthRequests:            cfg.RateLimit.AuthRequests,
			BookingRequests:         cfg.RateLimit.BookingRequests,
			BookingCriticalRequests: cfg.RateLimit.BookingCriticalRequests,
			OwnerRequests:           cfg.RateLimit.OwnerRequests,
			UserRequests:            cfg.RateLimit.UserRequests,
			StreamRequests:          cfg.RateLimit.StreamRequests,
			HealthRequests:          cfg.RateLimit.HealthRequests,
			WhitelistedIPs:          cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	// E-mail delivery
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	emails, stopEmails, err := setupEmailDelivery(workerCtx, cfg)
	if err != nil {
		appLogger.Error("Failed to initialize e-mail delivery", slog.Any("error", err))
		os.Exit(1)
	}
	defer stopEmails()

	appRouter := routes.NewRouter(cfg, db, emails)
	router := setupRouter(cfg, appRouter, rateLimiter)

	if cfg.Booking.ReminderEnabled {
		job, err := bookings.NewReminderJob(appRouter.BookingService(), cfg.Booking.ReminderCron, time.Minute)
		if err != nil {
			appLogger.Error("Invalid reminder schedule", slog.String("cron", cfg.Booking.ReminderCron), slog.Any("error", err))
		} else {
			job.Start()
			defer job.Stop()
			appLogger.Info("Booking reminder job scheduled", slog.String("cron", cfg.Booking.ReminderCron))
		}
	}

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("api_status", fmt.Sprintf("http://localhost:%s%s/status", cfg.Port, cfg.GetAPIBasePath())),
			slog.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Port)),
			slog.String("version", cfg.APIVersion),
			slog.Bool("redis", db.Redis != nil),
			slog.Bool("rate_limiting", rateLimiter != nil),
			slog.Bool("kafka", cfg.Kafka.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

// setupEmailDelivery returns the Dispatcher the booking service hands e-mails
// to. With Kafka enabled, e-mails are queued and sent by consumer workers;
// otherwise they are sent inline with the SMTP timeout.
func setupEmailDelivery(ctx context.Context, cfg *config.Config) (notifications.Dispatcher, func(), error) {
	appLogger := logger.GetDefault()

	renderer, err := notifications.NewRenderer()
	if err != nil {
		return nil, nil, err
	}
	sender, err := notifications.NewEmailSender(cfg.Email, renderer)
	if err != nil {
		return nil, nil, err
	}
	direct := notifications.NewDirectDispatcher(sender, cfg.Email.SendTimeout)

	if !cfg.Kafka.Enabled {
		appLogger.Info("E-mail queue disabled, sending directly", slog.Bool("smtp", cfg.Email.Configured()))
		return direct, func() {}, nil
	}

	producer, err := notifications.NewKafkaEmailProducer(notifications.NewKafkaProducerConfig(cfg.Kafka))
	if err != nil {
		appLogger.Error("Kafka producer unavailable, sending e-mails directly", slog.Any("error", err))
		return direct, func() {}, nil
	}

	consumer := notifications.NewKafkaEmailConsumer(notifications.NewConsumerConfig(cfg.Kafka), sender)
	if err := consumer.Start(ctx, cfg.Kafka.Workers); err != nil {
		_ = producer.Close()
		appLogger.Error("Kafka consumer unavailable, sending e-mails directly", slog.Any("error", err))
		return direct, func() {}, nil
	}

	stop := func() {
		appLogger.Info("Stopping e-mail workers...")
		if err := consumer.Stop(); err != nil {
			appLogger.Error("Error stopping e-mail consumer", slog.Any("error", err))
		}
		if err := producer.Close(); err != nil {
			appLogger.Error("Error closing e-mail producer", slog.Any("error", err))
		}
	}
	return producer, stop, nil
}

func setupRouter(cfg *config.Config, appRouter *routes.Router, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-RateLimit-*"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
		appLogger.Info("Rate limiting middleware applied to all routes")
	}

	appRouter.SetupRoutes(engine)
	return engine
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}
