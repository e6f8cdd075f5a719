package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DBPath           string
	LogLevel         string
	JWTSecret        string
	CORSOrigins      []string
	StudyRateTimeout time.Duration
	StatsWorkerCount int
	StatsQueueSize   int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("ADDR", ":8080"),
		DBPath:           envOr("DB_PATH", "file:studydeck.db"),
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		JWTSecret:        envOr("JWT_SECRET", ""),
		CORSOrigins:      envListOr("CORS_ORIGINS", []string{"http://localhost:3000"}),
		StudyRateTimeout: envDurationOr("STUDY_RATE_TIMEOUT", 10*time.Second),
		StatsWorkerCount: envIntOr("STATS_WORKER_COUNT", 2),
		StatsQueueSize:   envIntOr("STATS_QUEUE_SIZE", 64),
	}
}

// Validate checks that required values are present and numeric values are in range.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if c.StudyRateTimeout <= 0 {
		return fmt.Errorf("STUDY_RATE_TIMEOUT must be positive, got %v", c.StudyRateTimeout)
	}
	if c.StatsWorkerCount < 1 {
		return fmt.Errorf("STATS_WORKER_COUNT must be at least 1, got %d", c.StatsWorkerCount)
	}
	if c.StatsQueueSize < 1 {
		return fmt.Errorf("STATS_QUEUE_SIZE must be at least 1, got %d", c.StatsQueueSize)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
