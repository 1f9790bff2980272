package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the sync client configuration, read from environment
// variables and an optional .env file.
type Config struct {
	ServerURL     string
	BusinessID    int64
	QueuePath     string
	ProbeInterval time.Duration
	RequestTimeout time.Duration
	LogLevel      string
}

// LoadConfig loads configuration from the environment and .env.
func LoadConfig() (*Config, error) {
	// .env опционален: в проде переменные приходят из окружения
	_ = godotenv.Load()

	businessID, err := strconv.ParseInt(os.Getenv("BUSINESS_ID"), 10, 64)
	if err != nil || businessID <= 0 {
		return nil, fmt.Errorf("BUSINESS_ID must be a positive integer")
	}

	cfg := &Config{
		ServerURL:      getEnvOrDefault("SERVER_URL", "http://localhost:8080"),
		BusinessID:     businessID,
		QueuePath:      getEnvOrDefault("QUEUE_PATH", "apptsync.db"),
		ProbeInterval:  time.Duration(getEnvIntOrDefault("PROBE_INTERVAL", 15)) * time.Second,
		RequestTimeout: time.Duration(getEnvIntOrDefault("REQUEST_TIMEOUT", 10)) * time.Second,
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
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
