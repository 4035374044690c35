package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/exam-sarathi/learning-service/internal/config"
	"github.com/exam-sarathi/learning-service/internal/content"
	"github.com/exam-sarathi/learning-service/internal/events"
	"github.com/exam-sarathi/learning-service/internal/handlers"
	"github.com/exam-sarathi/learning-service/internal/middleware"
	"github.com/exam-sarathi/learning-service/internal/repositories/postgres"
	"github.com/exam-sarathi/learning-service/internal/services"
	"github.com/exam-sarathi/learning-service/internal/utils"
	"github.com/exam-sarathi/learning-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogLogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	// Content caching degrades to direct fetches when Redis is down.
	var contentCache content.Cache = content.NoopCache{}
	if redisClient, err := pkg.NewRedisClient(cfg); err != nil {
		logger.Warn("redis unavailable, content caching disabled", "error", err)
	} else {
		contentCache = content.NewRedisCache(redisClient, slogLogger)
		defer redisClient.Close()
	}

	cacheTTL, err := time.ParseDuration(cfg.ContentCacheTTL)
	if err != nil {
		logger.Warn("invalid content cache TTL, using 10m", "value", cfg.ContentCacheTTL)
		cacheTTL = 10 * time.Minute
	}
	contentClient := content.NewClient(cfg.ContentBaseURL, contentCache, cacheTTL, slogLogger)

	// Progress events degrade to log-only when Kafka is unreachable.
	var publisher events.EventPublisher
	kafkaPublisher, err := events.NewKafkaEventPublisher(events.PublisherConfig{
		KafkaBrokers: cfg.KafkaBrokers,
		TopicName:    cfg.ProgressEventsTopic,
		Logger:       slogLogger,
	})
	if err != nil {
		logger.Warn("kafka unavailable, progress events disabled", "error", err)
		publisher = events.NewNoopEventPublisher(slogLogger)
	} else {
		publisher = kafkaPublisher
		defer kafkaPublisher.Close()
	}

	validator := utils.NewValidator()
	repo := postgres.NewProgressRepository(db)
	serviceManager := services.NewServiceManager(repo, contentClient, publisher, slogLogger, validator)
	authenticator := middleware.NewCasdoorAuthenticator(cfg)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(serviceManager, authenticator, validator, logger)
	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
