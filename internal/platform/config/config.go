package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr        string
	AdminToken  string
	DatabaseURL string
	Redis       RedisConfig

	// Engine overrides; zero values fall back to the built-in defaults.
	DayLimit           int
	WindowSize         int
	AmberThresholdDays int
	Territories        []string

	SweepWorkers int
	CacheTTL     time.Duration
}

// RedisConfig captures Redis connection settings. An empty URL disables the
// status cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("DAYWISE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	adminToken := os.Getenv("DAYWISE_ADMIN_TOKEN")
	if adminToken == "" {
		// Use a default for development - should be overridden in production
		adminToken = "dev-admin-token-change-in-production"
	}

	var territories []string
	if raw := os.Getenv("DAYWISE_TERRITORIES"); raw != "" {
		territories = strings.Split(raw, ",")
	}

	return Server{
		Addr:        addr,
		AdminToken:  adminToken,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		DayLimit:           envInt("DAYWISE_DAY_LIMIT", 0),
		WindowSize:         envInt("DAYWISE_WINDOW_SIZE", 0),
		AmberThresholdDays: envInt("DAYWISE_AMBER_THRESHOLD", 0),
		Territories:        territories,
		SweepWorkers:       envInt("DAYWISE_SWEEP_WORKERS", 0),
		CacheTTL:           envDuration("DAYWISE_CACHE_TTL", 24*time.Hour),
	}
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
	}
	return fallback
}
