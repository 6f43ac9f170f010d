package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	BackendBaseURL  string
	BackendTimeout  time.Duration
	JWTSecret       string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CartStore       string // "memory" or "redis"
	CartTTL         time.Duration
	CatalogCacheTTL time.Duration
	AllowedOrigins  []string
}

func Load() *Config {
	// Missing .env is fine; env vars or defaults take over.
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "8082"),
		BackendBaseURL:  getEnv("BACKEND_BASE_URL", "http://localhost:8081/api/v1"),
		BackendTimeout:  getDuration("BACKEND_TIMEOUT", 15*time.Second),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getInt("REDIS_DB", 0),
		CartStore:       getEnv("CART_STORE", "memory"),
		CartTTL:         getDuration("CART_TTL", 12*time.Hour),
		CatalogCacheTTL: getDuration("CATALOG_CACHE_TTL", 30*time.Second),
		AllowedOrigins:  strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
