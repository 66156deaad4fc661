package config

import "strings"

// MetricsConfig controls StatsD emission. Metrics stay off unless both the
// flag and an address are set.
type MetricsConfig struct {
	Enabled       bool   `env:"ENABLED"        envDefault:"false"`
	StatsdAddress string `env:"STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix        string `env:"PREFIX"         envDefault:"ruralconnect"`
}

// Sanitize trims the address and strips stray dots from the prefix.
func (m *MetricsConfig) Sanitize() {
	m.StatsdAddress = strings.TrimSpace(m.StatsdAddress)
	m.Prefix = strings.Trim(strings.TrimSpace(m.Prefix), ".")
}

// IsEnabled reports whether a StatsD client should be built.
func (m MetricsConfig) IsEnabled() bool {
	return m.Enabled && m.StatsdAddress != ""
}
