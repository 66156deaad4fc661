package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/agbarbie/Rural-Connect-sub000/config"
)

// LoadConfig reads an optional .env file, parses the environment into
// AppConfig and applies every Sanitize guardrail. Variables already present in
// the environment take precedence over .env entries.
func LoadConfig() (config.AppConfig, error) {
	var cfg config.AppConfig
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("read .env: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}

// InitLogger builds the process logger from cfg and makes it the slog default.
func InitLogger(cfg config.LogConfig) *slog.Logger {
	logger := newLogger(os.Stdout, cfg)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	cfg.Sanitize()
	level := new(slog.LevelVar)
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.Set(slog.LevelInfo)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// ValidateServiceConfig rejects a SERVICES value that selects nothing or
// names an unknown mode.
func ValidateServiceConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		return errors.New("service config is required")
	}
	if _, err := cfg.GetEnabledServices(); err != nil {
		return fmt.Errorf("invalid SERVICES: %w", err)
	}
	return nil
}

// GetEnabledServices returns the selected mode names sorted, or an empty list
// when SERVICES is invalid.
func GetEnabledServices(cfg *config.AppConfig) []string {
	if cfg == nil {
		return []string{}
	}
	enabled, err := cfg.GetEnabledServices()
	if err != nil {
		return []string{}
	}
	names := make([]string, 0, len(enabled))
	for _, mode := range slices.Sorted(maps.Keys(enabled)) {
		names = append(names, string(mode))
	}
	return names
}
