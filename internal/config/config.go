package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Store and session backend names
const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	// Image providers (all optional; a missing key skips that provider)
	GoogleAPIKey         string
	GoogleSearchEngineID string
	TMDBAPIKey           string
	ImageLookupTimeout   time.Duration

	// Background poster refresh, cron syntax; empty disables it
	PosterRefreshSchedule string

	// Server
	ServerPort string

	// Storage
	StoreBackend string // "memory" or "bolt"
	DatabaseFile string // $CONFIG_DIR/showtrack.db

	// Sessions
	SessionBackend      string // "memory" or "redis"
	SessionTTL          time.Duration
	SessionCookieSecure bool
	RedisAddr           string
	RedisPassword       string
	RedisDB             int

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = v.ReadInConfig()

	v.SetDefault("IMAGE_LOOKUP_TIMEOUT", "5s")
	v.SetDefault("POSTER_REFRESH_SCHEDULE", "0 */6 * * *")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("STORE_BACKEND", BackendMemory)
	v.SetDefault("SESSION_BACKEND", BackendMemory)
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	cfg := &Config{
		GoogleAPIKey:         firstOf(v, "GOOGLE_API_KEY", "VITE_GOOGLE_API_KEY"),
		GoogleSearchEngineID: firstOf(v, "GOOGLE_SEARCH_ENGINE_ID", "VITE_GOOGLE_SEARCH_ENGINE_ID"),
		TMDBAPIKey:           firstOf(v, "TMDB_API_KEY", "VITE_TMDB_API_KEY"),
		ImageLookupTimeout:   v.GetDuration("IMAGE_LOOKUP_TIMEOUT"),

		PosterRefreshSchedule: v.GetString("POSTER_REFRESH_SCHEDULE"),

		ServerPort: v.GetString("SERVER_PORT"),

		StoreBackend: v.GetString("STORE_BACKEND"),

		SessionBackend:      v.GetString("SESSION_BACKEND"),
		SessionTTL:          v.GetDuration("SESSION_TTL"),
		SessionCookieSecure: v.GetBool("SESSION_COOKIE_SECURE"),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             v.GetInt("REDIS_DB"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
	}

	if cfg.StoreBackend == BackendBolt {
		configDir, err := resolveConfigDir(v.GetString("CONFIG_DIR"))
		if err != nil {
			return nil, err
		}
		cfg.DatabaseFile = filepath.Join(configDir, "showtrack.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted safely
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendBolt:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendMemory, BackendBolt, c.StoreBackend)
	}
	switch c.SessionBackend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q", BackendMemory, BackendRedis, c.SessionBackend)
	}
	// memory user ids restart at 1, so a session that outlives the process
	// would resolve to whoever registers first
	if c.SessionBackend == BackendRedis && c.StoreBackend != BackendBolt {
		return fmt.Errorf("SESSION_BACKEND=%s requires STORE_BACKEND=%s", BackendRedis, BackendBolt)
	}
	if c.ImageLookupTimeout <= 0 {
		return fmt.Errorf("IMAGE_LOOKUP_TIMEOUT must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	return nil
}

func firstOf(v *viper.Viper, keys ...string) string {
	for _, key := range keys {
		if value := v.GetString(key); value != "" {
			return value
		}
	}
	return ""
}

func resolveConfigDir(configDir string) (string, error) {
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "showtrack")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return configDir, nil
}
