package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env     string // "development", "production", etc.
	Version string

	// Server
	ServerAddr   string
	CORSOrigins  string // Comma-separated allowed origins, "*" allows all
	RateLimitMax int    // Inbound requests per minute per IP, 0 disables the limiter

	// Naver shop search
	ShopClientID     string
	ShopClientSecret string
	ShopURL          string
	ShopTimeout      time.Duration
	ShopRetryBackoff time.Duration // Wait before the single retry after a 429
	ShopRatePerSec   float64       // Outbound request pacing, 0 disables pacing

	// Resolution cache
	CacheBackend    string // "memory" or "redis"
	CacheMaxEntries int    // Memory backend bound, 0 = unbounded
	RedisURL        string

	// Lookup statistics (optional)
	DatabaseURL string

	// Catalog and warm-up
	CatalogFile    string
	WarmupInterval time.Duration // 0 disables the cache warmer
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:     getEnv("ENV", "development"),
		Version: getEnv("APP_VERSION", "0.1.0"),

		ServerAddr:   getEnv("SERVER_ADDR", ":8000"),
		CORSOrigins:  getEnv("CORS_ORIGINS", "*"),
		RateLimitMax: getInt("RATE_LIMIT_MAX", 600),

		ShopClientID:     getEnv("NAVER_SHOP_CLIENT_ID", ""),
		ShopClientSecret: getEnv("NAVER_SHOP_CLIENT_SECRET", ""),
		ShopURL:          getEnv("NAVER_SHOP_URL", "https://openapi.naver.com/v1/search/shop.json"),
		ShopTimeout:      getDuration("SHOP_TIMEOUT", 5*time.Second),
		ShopRetryBackoff: getDuration("SHOP_RETRY_BACKOFF", 1*time.Second),
		ShopRatePerSec:   getFloat("SHOP_RATE_PER_SEC", 10),

		CacheBackend:    getEnv("CACHE_BACKEND", "memory"),
		CacheMaxEntries: getInt("CACHE_MAX_ENTRIES", 10000),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		CatalogFile:    getEnv("CATALOG_FILE", "catalog.yaml"),
		WarmupInterval: getDuration("WARMUP_INTERVAL", 0),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// ShopEnabled returns true if both Naver credentials are present.
// Without them every shop search short-circuits to "no result".
func (c *Config) ShopEnabled() bool {
	return c.ShopClientID != "" && c.ShopClientSecret != ""
}

// StatsEnabled returns true if a database is configured for lookup statistics.
func (c *Config) StatsEnabled() bool {
	return c.DatabaseURL != ""
}
