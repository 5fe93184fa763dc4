package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// Scrape target
	SearchURL string
	BaseURL   string

	// Scheduler configuration
	ScrapeInterval time.Duration
	RetryInterval  time.Duration
	HTTPTimeout    time.Duration

	// Memcache configuration (optional, rate-limit blocks)
	MemcacheAddr string
	BlockTime    time.Duration

	// Redis configuration (optional, new-listing stream for the bot)
	RedisAddr   string
	RedisDB     int
	RedisStream string

	// API server
	APIAddr string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SearchURL:      getEnv("SEARCH_URL", "https://www.carsensor.net/usedcar/search.php"),
		BaseURL:        getEnv("BASE_URL", "https://www.carsensor.net"),
		ScrapeInterval: getEnvSeconds("SCRAPE_INTERVAL_SECONDS", 3600),
		RetryInterval:  getEnvSeconds("RETRY_INTERVAL_SECONDS", 60),
		HTTPTimeout:    getEnvSeconds("HTTP_TIMEOUT_SECONDS", 30),
		MemcacheAddr:   getEnv("MEMCACHE_ADDR", ""),
		BlockTime:      getEnvSeconds("FETCH_BLOCK_SECONDS", 300),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisDB:        redisDB,
		RedisStream:    getEnv("REDIS_STREAM", "cars"),
		APIAddr:        getEnv("API_ADDR", ":8080"),
		Environment:    getEnv("APP_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	if c.SearchURL == "" {
		return fmt.Errorf("SEARCH_URL is not set")
	}
	if c.ScrapeInterval <= 0 {
		return fmt.Errorf("scrape interval must be positive, got %s", c.ScrapeInterval)
	}
	if c.RetryInterval <= 0 {
		return fmt.Errorf("retry interval must be positive, got %s", c.RetryInterval)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvSeconds parses an integer environment variable as a duration in seconds
func getEnvSeconds(key string, defaultValue int) time.Duration {
	seconds, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		seconds = defaultValue
	}
	return time.Duration(seconds) * time.Second
}
