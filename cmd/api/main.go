package main

import (
	"github.com/lazhrach20/auto-assistent-llm/config"
	"github.com/lazhrach20/auto-assistent-llm/internal/api"
	"github.com/lazhrach20/auto-assistent-llm/internal/store"
	"github.com/lazhrach20/auto-assistent-llm/logger"

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

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	server := api.NewServer(store.New(db))
	if err := server.Start(cfg.APIAddr); err != nil {
		log.Fatal().Err(err).Msg("API server stopped")
	}
}
