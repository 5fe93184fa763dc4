package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "https://www.carsensor.net/usedcar/search.php", config.SearchURL)
	assert.Equal(t, "https://www.carsensor.net", config.BaseURL)
	assert.Equal(t, 3600*time.Second, config.ScrapeInterval)
	assert.Equal(t, 60*time.Second, config.RetryInterval)
	assert.Equal(t, 30*time.Second, config.HTTPTimeout)
	assert.Equal(t, ":8080", config.APIAddr)
	assert.Equal(t, "cars", config.RedisStream)

	// Test with environment variables
	os.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/cars")
	os.Setenv("SEARCH_URL", "https://example.com/search")
	os.Setenv("SCRAPE_INTERVAL_SECONDS", "120")
	os.Setenv("RETRY_INTERVAL_SECONDS", "5")
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")
	os.Setenv("REDIS_DB", "2")

	config = LoadConfig()
	assert.Equal(t, "postgres://user:pass@db:5432/cars", config.DatabaseURL)
	assert.Equal(t, "https://example.com/search", config.SearchURL)
	assert.Equal(t, 120*time.Second, config.ScrapeInterval)
	assert.Equal(t, 5*time.Second, config.RetryInterval)
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)
	assert.Equal(t, 2, config.RedisDB)

	// Clean up
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("SEARCH_URL")
	os.Unsetenv("SCRAPE_INTERVAL_SECONDS")
	os.Unsetenv("RETRY_INTERVAL_SECONDS")
	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("REDIS_DB")
}

func TestValidate(t *testing.T) {
	config := LoadConfig()
	assert.Error(t, config.Validate(), "missing DATABASE_URL should be rejected")

	config.DatabaseURL = "postgres://user:pass@db:5432/cars"
	assert.NoError(t, config.Validate())

	config.ScrapeInterval = 0
	assert.Error(t, config.Validate(), "zero scrape interval should be rejected")
}
