package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Session SessionConfig
	Cache   CacheConfig
	Payment PaymentConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Secret     string
	CookieName string
}

type CacheConfig struct {
	TTL       time.Duration
	RedisAddr string // empty means the in-memory cache
	RedisDB   int
}

type PaymentConfig struct {
	PollInterval    time.Duration
	MaxPollInterval time.Duration
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "localhost"),
			Env:  getEnv("ENV", "development"),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:9000/api"),
			Timeout: getEnvAsDuration("BACKEND_TIMEOUT", 30*time.Second),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", "your-secret-key-change-in-production"),
			CookieName: getEnv("SESSION_COOKIE_NAME", "session"),
		},
		Cache: CacheConfig{
			TTL:       getEnvAsDuration("CART_CACHE_TTL", 10*time.Second),
			RedisAddr: getEnv("REDIS_ADDR", ""),
			RedisDB:   getEnvAsInt("REDIS_DB", 0),
		},
		Payment: PaymentConfig{
			PollInterval:    getEnvAsDuration("PAYMENT_POLL_INTERVAL", 3*time.Second),
			MaxPollInterval: getEnvAsDuration("PAYMENT_MAX_POLL_INTERVAL", 30*time.Second),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
