package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Bearer token verification
//   - database.go: Database and Redis configuration
//   - http.go: HTTP server configuration
//   - applications.go: Application gate and notification fan-out
//   - services.go: Service mode and reaper configuration
//   - metrics.go, alerts.go: StatsD emission and operator alerts
type AppConfig struct {
	// IsDev controls development mode behavior (text logs, verbose errors).
	// Set DEV=true or APP_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	Log LogConfig

	Auth AuthConfig

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	HTTP HTTPConfig

	Applications  ApplicationConfig
	Notifications NotificationConfig

	// Services is a comma-delimited list of enabled services (http, reaper).
	Services string `env:"SERVICES" envDefault:"http"`

	Reaper ReaperConfig

	Metrics MetricsConfig `envPrefix:"METRICS_"`
	Alerts  AlertsConfig  `envPrefix:"ALERTS_"`
}

// LogConfig controls the process-wide slog handler.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Sanitize normalises the level and format names.
func (l *LogConfig) Sanitize() {
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		l.Level = "info"
	}
	l.Format = strings.ToLower(strings.TrimSpace(l.Format))
	if l.Format != "text" {
		l.Format = "json"
	}
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Log.Sanitize()
	c.HTTP.Sanitize()
	c.Postgres.Sanitize()
	c.Applications.Sanitize()
	c.Notifications.Sanitize()
	c.Reaper.Sanitize()
	c.Metrics.Sanitize()
	c.Alerts.Sanitize()

	c.detectDevMode()
}

// detectDevMode falls back to APP_ENV when DEV is unset.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		appEnv := strings.ToLower(os.Getenv("APP_ENV"))
		c.IsDev = appEnv == "development" || appEnv == "dev"
	}
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsHTTPServerEnabled returns true if the HTTP server service is enabled.
func (c *AppConfig) IsHTTPServerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeHTTP]
}

// IsReaperEnabled returns true if the reaper service is enabled.
func (c *AppConfig) IsReaperEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeReaper]
}
