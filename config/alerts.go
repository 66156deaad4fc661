package config

import (
	"strings"
	"time"
)

const defaultAlertSource = "ruralconnect"

// AlertsConfig controls operator alerts raised when a broadcast aborts or a
// retention pass fails. A sink is active when alerts are enabled and its
// credential is present.
type AlertsConfig struct {
	Enabled  bool          `env:"ENABLED"  envDefault:"false"`
	Timeout  time.Duration `env:"TIMEOUT"  envDefault:"5s"`
	Retries  int           `env:"RETRIES"  envDefault:"3"`
	Cooldown time.Duration `env:"COOLDOWN" envDefault:"10m"`

	SlackWebhookURL string `env:"SLACK_WEBHOOK_URL"`
	SlackChannel    string `env:"SLACK_CHANNEL"`
	SlackUsername   string `env:"SLACK_USERNAME"    envDefault:"ruralconnect"`

	PagerDutyRoutingKey string `env:"PAGERDUTY_ROUTING_KEY"`
	PagerDutySource     string `env:"PAGERDUTY_SOURCE"      envDefault:"ruralconnect"`
}

// Sanitize trims credentials and clamps the delivery knobs.
func (a *AlertsConfig) Sanitize() {
	if a.Timeout <= 0 {
		a.Timeout = 5 * time.Second
	}
	a.Retries = max(a.Retries, 0)
	a.Cooldown = max(a.Cooldown, 0)

	a.SlackWebhookURL = strings.TrimSpace(a.SlackWebhookURL)
	a.SlackChannel = strings.TrimSpace(a.SlackChannel)
	a.SlackUsername = orDefault(a.SlackUsername, defaultAlertSource)
	a.PagerDutyRoutingKey = strings.TrimSpace(a.PagerDutyRoutingKey)
	a.PagerDutySource = orDefault(a.PagerDutySource, defaultAlertSource)
}

// SlackEnabled reports whether alerts go to the Slack webhook.
func (a AlertsConfig) SlackEnabled() bool {
	return a.Enabled && a.SlackWebhookURL != ""
}

// PagerDutyEnabled reports whether alerts go to PagerDuty.
func (a AlertsConfig) PagerDutyEnabled() bool {
	return a.Enabled && a.PagerDutyRoutingKey != ""
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
