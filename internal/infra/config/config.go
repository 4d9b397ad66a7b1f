package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultPort = 5000

// AppConfig holds all configuration for the application.
type AppConfig struct {
	LineChannelAccessToken string
	LineChannelSecret      string
	DatabaseURL            string
	Port                   int
	AdminAPIToken          string // empty disables the broadcast endpoint
	LogLevel               string
	Environment            string
}

// Load reads configuration from environment variables and a .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.LineChannelAccessToken = os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")
	if cfg.LineChannelAccessToken == "" {
		return nil, fmt.Errorf("LINE_CHANNEL_ACCESS_TOKEN is not set")
	}

	cfg.LineChannelSecret = os.Getenv("LINE_CHANNEL_SECRET")
	if cfg.LineChannelSecret == "" {
		return nil, fmt.Errorf("LINE_CHANNEL_SECRET is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	portStr := os.Getenv("PORT")
	if portStr == "" {
		cfg.Port = defaultPort
	} else {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid PORT: %q", portStr)
		}
		cfg.Port = port
	}

	// Optional: when unset the broadcast endpoint is not registered.
	cfg.AdminAPIToken = os.Getenv("ADMIN_API_TOKEN")

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}
