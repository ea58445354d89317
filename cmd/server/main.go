package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aura-archive-api/internal/api"
	"github.com/aura-archive-api/internal/cache"
	"github.com/aura-archive-api/internal/config"
	"github.com/aura-archive-api/internal/database"
	"github.com/aura-archive-api/internal/generation"
	"github.com/aura-archive-api/internal/image"
	"github.com/aura-archive-api/internal/repository"
	"github.com/aura-archive-api/internal/service"
	"github.com/aura-archive-api/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting AuraArchive API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	if err := db.RunMigrations(migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	repos := repository.New(db)

	// Optional feed cache
	var feedCache *cache.Cache
	if cfg.Cache.RedisAddr != "" {
		feedCache, err = cache.New(cfg.Cache.RedisAddr, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer feedCache.Close()
	} else {
		log.Warn().Msg("REDIS_ADDR not set, feed caching disabled")
	}

	// Cover image service; without a bucket every draft gets the
	// placeholder cover
	var covers generation.CoverService
	if cfg.Image.S3Bucket != "" {
		store, err := image.NewS3Store(&cfg.Image)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 image store")
		}
		gen := image.NewOpenAIGenerator(cfg.Generation.APIKey, cfg.Generation.BaseURL, &cfg.Image)
		covers = image.NewService(gen, store, log)
	} else {
		log.Warn().Msg("IMAGE_S3_BUCKET not set, cover images disabled")
	}

	// Generation pipeline
	genClient := generation.NewOpenAIClient(&cfg.Generation)
	orchestrator := generation.NewOrchestrator(genClient, covers, &cfg.Generation, cfg.Image.PlaceholderURL, log)

	// Initialize services
	services := service.NewServices(repos, orchestrator, feedCache, cfg, log)

	// Initialize router
	router := api.NewRouter(services, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Drain in-flight pipeline runs
	services.Pipeline.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
