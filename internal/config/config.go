package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Mediastore connection
	MediastoreURL    string
	MediastoreAPIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Request limits
	MaxBodyBytes int64

	// Job state
	JobTTL time.Duration

	// Export defaults
	DefaultLanguage string
	DefaultNarrator string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("LIAEXPORT_API_KEY"),

		MediastoreURL:    envOr("MEDIASTORE_URL", "http://localhost:8080"),
		MediastoreAPIKey: os.Getenv("MEDIASTORE_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxBodyBytes: envInt64("MAX_BODY_BYTES", 16777216), // 16MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		DefaultLanguage: envOr("EXPORT_LANGUAGE", "de"),
		DefaultNarrator: envOr("EXPORT_NARRATOR", "female"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 16777216
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("LIAEXPORT_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
