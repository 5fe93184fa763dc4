package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lazhrach20/auto-assistent-llm/config"
	"github.com/lazhrach20/auto-assistent-llm/internal/scraper"
	"github.com/lazhrach20/auto-assistent-llm/internal/store"
	"github.com/lazhrach20/auto-assistent-llm/internal/worker"
	"github.com/lazhrach20/auto-assistent-llm/logger"
	"github.com/lazhrach20/auto-assistent-llm/services/cache"
	"github.com/lazhrach20/auto-assistent-llm/services/notify"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("search_url", cfg.SearchURL).
		Dur("scrape_interval", cfg.ScrapeInterval).
		Dur("retry_interval", cfg.RetryInterval).
		Msg("Starting scraper")

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	carStore := store.New(db)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Optional rate-limit block cache
	var cacheSvc cache.CacheService
	if cfg.MemcacheAddr != "" {
		cacheSvc = cache.NewMemcacheService(cfg.MemcacheAddr)
		log.Info().Str("addr", cfg.MemcacheAddr).Msg("Connected to Memcache")
	}

	// Optional listing stream for the bot pipeline
	var publisher notify.Publisher
	if cfg.RedisAddr != "" {
		redisPublisher := notify.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
		defer redisPublisher.Close()
		publisher = redisPublisher
		log.Info().
			Str("addr", cfg.RedisAddr).
			Str("stream", cfg.RedisStream).
			Msg("Connected to Redis")
	}

	fetcher := scraper.NewFetcher(cfg.SearchURL, cfg.HTTPTimeout, cacheSvc, cfg.BlockTime)
	extractor := scraper.NewExtractor(cfg.BaseURL)

	w := worker.NewWorker(
		fetcher,
		extractor,
		carStore,
		publisher,
		cfg.ScrapeInterval,
		cfg.RetryInterval,
	)

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting scrape worker")
		workerDone <- w.Run(ctx)
	}()

	// Wait for shutdown signal or worker exit
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-workerDone:
		if err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Worker exited with error")
		}
	}

	log.Info().Msg("Shutting down gracefully...")
}
