// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel string

	// Database backend: "postgres" or "sqlite"
	DBDriver string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// SQLite file, used when DBDriver is "sqlite"
	SQLitePath string

	// Valkey (Redis-compatible cache). An empty host disables the graph cache.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int
	GraphCacheTTL  time.Duration

	// S3-compatible export archive. An empty endpoint disables archiving.
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// EditorTokenHash is the bcrypt hash of the API bearer token. Empty
	// leaves mutating routes open, which is only allowed outside production.
	EditorTokenHash string

	// LanguagesFile is an optional YAML language set.
	LanguagesFile string

	// Layout and editing
	SiblingSpacing   float64
	LevelHeight      float64
	ChildOffset      float64
	ChunkThreshold   int
	BuildSlice       time.Duration
	CycleCheckLimit  int
	OutlineDebounce  time.Duration
	PlaceholderLabel string

	// TransferRateLimit is the number of import and archive requests one
	// client may make per minute.
	TransferRateLimit int
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode or a numeric value does not parse.
func Load() (*Config, error) {
	cfg := &Config{
		Host:     envOrDefault("APP_HOST", "0.0.0.0"),
		Port:     envOrDefault("APP_PORT", "8080"),
		Env:      envOrDefault("APP_ENV", "development"),
		LogLevel: envOrDefault("LOG_LEVEL", "debug"),

		DBDriver: envOrDefault("DB_DRIVER", "postgres"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "catplanner"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "catplanner"),

		SQLitePath: envOrDefault("SQLITE_PATH", "catplanner.db"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "catplanner-exports"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		EditorTokenHash: os.Getenv("EDITOR_TOKEN_HASH"),
		LanguagesFile:   os.Getenv("LANGUAGES_FILE"),

		PlaceholderLabel: envOrDefault("PLACEHOLDER_LABEL", "New Category"),
	}

	var errs []string
	parseFloat := func(key string, fallback float64) float64 {
		v, err := strconv.ParseFloat(envOrDefault(key, strconv.FormatFloat(fallback, 'f', -1, 64)), 64)
		if err != nil || v <= 0 {
			errs = append(errs, key)
			return fallback
		}
		return v
	}
	parseInt := func(key string, fallback int) int {
		v, err := strconv.Atoi(envOrDefault(key, strconv.Itoa(fallback)))
		if err != nil || v < 0 {
			errs = append(errs, key)
			return fallback
		}
		return v
	}
	parseDuration := func(key string, fallback time.Duration) time.Duration {
		v, err := time.ParseDuration(envOrDefault(key, fallback.String()))
		if err != nil || v <= 0 {
			errs = append(errs, key)
			return fallback
		}
		return v
	}

	cfg.SiblingSpacing = parseFloat("SIBLING_SPACING", 150)
	cfg.LevelHeight = parseFloat("LEVEL_HEIGHT", 120)
	cfg.ChildOffset = parseFloat("CHILD_OFFSET", 100)
	cfg.ChunkThreshold = parseInt("CHUNKED_BUILD_THRESHOLD", 500)
	cfg.BuildSlice = parseDuration("BUILD_SLICE", 16*time.Millisecond)
	cfg.CycleCheckLimit = parseInt("IMPORT_CYCLE_CHECK_LIMIT", 0)
	cfg.ValkeyDB = parseInt("VALKEY_DB", 0)
	cfg.TransferRateLimit = parseInt("TRANSFER_RATE_LIMIT", 20)
	cfg.OutlineDebounce = parseDuration("OUTLINE_DEBOUNCE", 500*time.Millisecond)
	cfg.GraphCacheTTL = parseDuration("GRAPH_CACHE_TTL", 10*time.Minute)

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid value for %s", strings.Join(errs, ", "))
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DBDriver)
	}

	if cfg.Env == "production" {
		if cfg.DBDriver == "postgres" && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.EditorTokenHash == "" {
			return nil, fmt.Errorf("EDITOR_TOKEN_HASH must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return "file:" + c.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// CacheEnabled reports whether a Valkey host is configured.
func (c *Config) CacheEnabled() bool {
	return c.ValkeyHost != ""
}

// ArchiveEnabled reports whether an S3 endpoint is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Endpoint != ""
}

// SlogLevel maps LogLevel to a slog level, defaulting to debug.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
