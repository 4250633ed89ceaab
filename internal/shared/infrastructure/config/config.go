package config

import (
	"os"
	"time"

	"github.com/echoplay/echoplay-backend/internal/shared/infrastructure/database"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   database.PostgresConfig
	Redis      database.RedisConfig
	JWT        JWTConfig
	Catalog    CatalogConfig
	Migrations MigrationsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// CatalogConfig holds upstream music catalog configuration
type CatalogConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	RatePerSecond  float64
	RateBurst      int
	CacheTTL       time.Duration
}

// MigrationsConfig holds database migration configuration
type MigrationsConfig struct {
	Path      string
	RunOnBoot bool
}

// Load reads configuration from environment variables
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		},
		Database: database.PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "echoplay"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: database.RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "default-dev-secret"),
			Expiry: parseDuration(getEnv("JWT_EXPIRATION", "24h"), 24*time.Hour),
		},
		Catalog: CatalogConfig{
			BaseURL:        getEnv("CATALOG_BASE_URL", "https://saavn.dev"),
			RequestTimeout: parseDuration(getEnv("CATALOG_TIMEOUT", "10s"), 10*time.Second),
			RatePerSecond:  5,
			RateBurst:      10,
			CacheTTL:       parseDuration(getEnv("CATALOG_CACHE_TTL", "10m"), 10*time.Minute),
		},
		Migrations: MigrationsConfig{
			Path:      getEnv("MIGRATIONS_PATH", "./migrations"),
			RunOnBoot: getEnv("RUN_MIGRATIONS", "true") == "true",
		},
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration parses a duration string or returns a default value
func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
