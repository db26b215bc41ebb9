// Package config loads the console configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Server      ServerConfig
	Upstream    UpstreamConfig
	Session     SessionConfig
	CSRF        CSRFConfig
	I18n        I18nConfig
	Logging     LoggingConfig
	Environment string `validate:"oneof=development test production"`
}

type ServerConfig struct {
	Host string `validate:"required"`
	Port int    `validate:"min=1,max=65535"`
}

type UpstreamConfig struct {
	BaseURL   string        `validate:"required,url"`
	Timeout   time.Duration `validate:"min=1s"`
	RateLimit float64       `validate:"gt=0"`
}

type SessionConfig struct {
	Secret       string        `validate:"required,min=32"`
	Expiry       time.Duration `validate:"min=1m"`
	CookieSecure bool
}

type CSRFConfig struct {
	Key string `validate:"required,len=32"`
}

type I18nConfig struct {
	Language string `validate:"required"`
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Upstream: UpstreamConfig{
			BaseURL:   getEnv("UPSTREAM_BASE_URL", ""),
			Timeout:   time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 30)) * time.Second,
			RateLimit: float64(getEnvInt("UPSTREAM_RATE_LIMIT", 20)),
		},
		Session: SessionConfig{
			Secret:       getEnv("SESSION_SECRET", ""),
			Expiry:       time.Duration(getEnvInt("SESSION_EXPIRY_HOURS", 12)) * time.Hour,
			CookieSecure: getEnv("SESSION_COOKIE_SECURE", "true") == "true",
		},
		CSRF: CSRFConfig{
			Key: getEnv("CSRF_KEY", ""),
		},
		I18n: I18nConfig{
			Language: getEnv("CONSOLE_LANGUAGE", "ja"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
