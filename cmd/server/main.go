package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tunerate/feedback-service/internal/cache"
	"github.com/tunerate/feedback-service/internal/config"
	"github.com/tunerate/feedback-service/internal/events"
	"github.com/tunerate/feedback-service/internal/handlers"
	"github.com/tunerate/feedback-service/internal/repositories/postgres"
	"github.com/tunerate/feedback-service/internal/services"
	"github.com/tunerate/feedback-service/internal/spotify"
	"github.com/tunerate/feedback-service/internal/utils"
	"github.com/tunerate/feedback-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.AutoMigrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	repo := postgres.NewRepository(db)

	var cacheService cache.CacheService = cache.NoopCache{}
	if redisClient, err := pkg.NewRedisClient(cfg); err != nil {
		logger.Warn("Redis unavailable, statistics caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, utils.ToSlogLogger(logger))
	}

	var publisher events.EventPublisher
	kafkaPublisher, err := events.NewKafkaEventPublisher(events.PublisherConfig{
		KafkaBrokers: cfg.KafkaBrokers,
		TopicName:    cfg.SubmissionTopic,
		Logger:       utils.ToSlogLogger(logger),
	})
	if err != nil {
		logger.Warn("Kafka unavailable, submission events disabled", "error", err)
		publisher = events.NewMockEventPublisher(utils.ToSlogLogger(logger))
	} else {
		publisher = kafkaPublisher
	}
	defer publisher.Close()

	var catalog spotify.Client = spotify.Disabled{}
	if cfg.SpotifyClientID != "" && cfg.SpotifyClientSecret != "" {
		catalog = spotify.NewHTTPClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret)
	}

	validator := utils.NewValidator()

	serviceManager := services.NewServiceManager(services.ManagerConfig{
		Repo:      repo,
		Logger:    logger,
		Validator: validator,
		Publisher: publisher,
		Cache:     cacheService,
		Catalog:   catalog,
		JWTSecret: cfg.JWTSecret,
	})

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(serviceManager, validator, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
