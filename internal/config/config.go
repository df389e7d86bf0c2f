package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	// Gemini
	GeminiAPIKey string
	ModelName    string

	// Shared secret required on every chat request.
	AccessKey string

	RedisURL  string
	WorldFile string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "info")),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		ModelName:    getEnv("MODEL_NAME", "gemini-2.0-flash"),
		AccessKey:    os.Getenv("ACCESS_KEY"),
		RedisURL:     getEnv("REDIS_URL", "localhost:6379"),
		WorldFile:    getEnv("WORLD_FILE", "data/world.yaml"),
	}

	if cfg.AccessKey == "" {
		return nil, fmt.Errorf("ACCESS_KEY is required")
	}
	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
