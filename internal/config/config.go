package config

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
)

// Config holds runtime configuration values for the notebook storage layer.
type Config struct {
	DBPath      string
	LogLevel    string
	SentryDSN   string
	Environment string
	BusyTimeout time.Duration
}

const (
	defaultDBPath      = "./data/notebook.db"
	defaultLogLevel    = "info"
	defaultEnvironment = "development"
	defaultBusyTimeout = 5 * time.Second
)

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:      getEnv("DB_PATH", defaultDBPath),
		LogLevel:    getEnv("LOG_LEVEL", defaultLogLevel),
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		Environment: getEnv("ENV", defaultEnvironment),
		BusyTimeout: defaultBusyTimeout,
	}

	if raw := os.Getenv("DB_BUSY_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid DB_BUSY_TIMEOUT value: %s", raw)
		}
		if timeout <= 0 {
			return nil, eris.Errorf("DB_BUSY_TIMEOUT must be positive, got %s", raw)
		}
		cfg.BusyTimeout = timeout
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
