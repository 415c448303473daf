package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"vinyl-collection/internal/infrastructure/docstore"

	"github.com/rs/zerolog/log"
)

// Config holds the application configuration, populated from environment variables
type Config struct {
	App      AppConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Discogs  DiscogsConfig
	Metrics  MetricsConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

// StoreConfig selects where the collection document lives
type StoreConfig struct {
	Driver     string // file, postgres, sqlite
	DataFile   string
	SQLitePath string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string // empty disables the lookup cache
	Password string
	DB       int
}

type DiscogsConfig struct {
	Token     string
	BaseURL   string
	UserAgent string
	Timeout   time.Duration // 0 = no client-side timeout
	CacheTTL  time.Duration
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Vinyl Collection API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "3001"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(getEnv("STORE_DRIVER", docstore.DriverFile)),
			DataFile:   getEnv("DATA_FILE", "data/data.json"),
			SQLitePath: getEnv("SQLITE_PATH", "data/collection.db"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "vinyl_collection"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
			MinConns: getEnvInt("DB_MIN_CONNS", 1),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Discogs: DiscogsConfig{
			Token:     getEnv("DISCOGS_TOKEN", ""),
			BaseURL:   getEnv("DISCOGS_BASE_URL", "https://api.discogs.com"),
			UserAgent: getEnv("DISCOGS_USER_AGENT", "VinylCollectionApp/1.0 +https://example.com"),
			Timeout:   getEnvDuration("DISCOGS_TIMEOUT", 0),
			CacheTTL:  getEnvDuration("CATALOG_CACHE_TTL", 10*time.Minute),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that the config is usable
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case docstore.DriverFile:
		if c.Store.DataFile == "" {
			return fmt.Errorf("DATA_FILE must be set for the file store")
		}
	case docstore.DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH must be set for the sqlite store")
		}
	case docstore.DriverPostgres:
		if c.App.Environment == "production" && c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want file, postgres or sqlite)", c.Store.Driver)
	}

	if c.Discogs.Timeout < 0 {
		return fmt.Errorf("DISCOGS_TIMEOUT must not be negative")
	}
	if c.Discogs.Token == "" {
		log.Warn().Msg("⚠️  DISCOGS_TOKEN not set - catalog lookup will not work")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
