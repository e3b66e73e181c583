// config/config.go - Environment-backed configuration with defaults
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	AppEnv      string
	CORSOrigins string

	JWTSecret   string
	TokenTTL    time.Duration
	TransferTTL time.Duration

	RateLimit RateLimitConfig

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// RateLimitConfig holds the externally tunable limiter surface: one window
// length, one max per dimension.
type RateLimitConfig struct {
	Enabled      bool
	Window       time.Duration
	MaxPerIP     int
	MaxPerDevice int
	MaxPerEmail  int
	MaxPerTeam   int
}

// Load reads configuration from the environment. Defaults suit local
// development; production deployments override via env vars.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3000"),
		AppEnv:      getEnv("APP_ENV", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenTTL:    time.Duration(getEnvInt("TOKEN_TTL_HOURS", 720)) * time.Hour,
		TransferTTL: time.Duration(getEnvInt("TRANSFER_TTL_HOURS", 72)) * time.Hour,

		RateLimit: RateLimitConfig{
			Enabled:      getEnvBool("RATE_LIMIT_ENABLED", true),
			Window:       time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MINUTES", 15)) * time.Minute,
			MaxPerIP:     getEnvInt("RATE_LIMIT_MAX_PER_IP", 100),
			MaxPerDevice: getEnvInt("RATE_LIMIT_MAX_PER_DEVICE", 100),
			MaxPerEmail:  getEnvInt("RATE_LIMIT_MAX_PER_EMAIL", 10),
			MaxPerTeam:   getEnvInt("RATE_LIMIT_MAX_PER_TEAM", 500),
		},

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
	}
}

// Validate fails fast on configuration the server cannot run without.
func (c *Config) Validate() {
	if c.JWTSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(c.JWTSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}
	if c.AppEnv == "production" && c.CORSOrigins == "http://localhost:3000" {
		log.Println("WARNING: CORS_ORIGINS not properly configured for production")
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}
