package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SnapshotBackendMemory = "memory"
	SnapshotBackendRedis  = "redis"
	SnapshotBackendMySQL  = "mysql"
)

// AppConfig is the typed process configuration read from the environment.
type AppConfig struct {
	Port               string
	Env                string
	SnapshotBackend    string
	RedisAddress       string
	PubSubTopic        string
	GCSBucket          string
	CorsAllowedOrigins []string
	RateLimitEnabled   bool
	RateLimitRequests  int
	RateLimitWindow    time.Duration
	ShutdownTimeout    time.Duration
}

func init() {
	// Load env from .env
	godotenv.Load()
}

func LoadAppConfig() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}
	backend := strings.ToLower(strings.TrimSpace(os.Getenv("SNAPSHOT_BACKEND")))
	switch backend {
	case SnapshotBackendRedis, SnapshotBackendMySQL:
	default:
		backend = SnapshotBackendMemory
	}
	redisAddr := strings.TrimSpace(os.Getenv("REDIS_ADDRESS"))
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	var origins []string
	for _, part := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if p := strings.TrimSpace(part); p != "" {
			origins = append(origins, p)
		}
	}

	return AppConfig{
		Port:               port,
		Env:                strings.TrimSpace(os.Getenv("GO_ENV")),
		SnapshotBackend:    backend,
		RedisAddress:       redisAddr,
		PubSubTopic:        strings.TrimSpace(os.Getenv("PUBSUB_TOPIC")),
		GCSBucket:          strings.TrimSpace(os.Getenv("GCS_BUCKET")),
		CorsAllowedOrigins: origins,
		RateLimitEnabled:   boolFromEnv("RATE_LIMIT_ENABLED", false),
		RateLimitRequests:  intFromEnv("RATE_LIMIT_REQUESTS", 300),
		RateLimitWindow:    time.Duration(intFromEnv("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		ShutdownTimeout:    time.Duration(intFromEnv("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func boolFromEnv(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "y":
		return true
	case "0", "false", "no", "n":
		return false
	}
	return def
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// retryDelay is the capped exponential backoff shared by the connect loops.
func retryDelay(attempt int) time.Duration {
	sleep := time.Second * time.Duration(1<<min(attempt, 5))
	if sleep > 30*time.Second {
		sleep = 30 * time.Second
	}
	return sleep
}
