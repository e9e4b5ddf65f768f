package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Config is loaded from environment variables at startup.
type Config struct {
	// Port the HTTP/WebSocket server listens on.
	Port string
	// RedisAddr enables the activity event mirror when non-empty.
	RedisAddr string
	// CORSOrigins allowed for browser clients.
	CORSOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		CORSOrigins: splitOrigins(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return errors.New("invalid PORT: " + cfg.Port)
	}
	if len(cfg.CORSOrigins) == 0 {
		return errors.New("CORS_ALLOWED_ORIGINS must not be empty")
	}
	return nil
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
