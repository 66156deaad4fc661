// Package slack posts operator alerts to a Slack incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/notify"
)

const defaultUsername = "ruralconnect"

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Config configures the webhook client. Zero values fall back to defaults.
type Config struct {
	WebhookURL string
	Channel    string
	Username   string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
}

// Client is a notify.Sink backed by an incoming webhook.
type Client struct {
	cfg  Config
	http *http.Client
}

var _ notify.Sink = (*Client)(nil)

// message is the webhook body.
type message struct {
	Text     string `json:"text"`
	Username string `json:"username"`
	Channel  string `json:"channel,omitempty"`
}

// NewClient validates cfg and returns a ready client.
func NewClient(cfg Config) (*Client, error) {
	cfg.WebhookURL = strings.TrimSpace(cfg.WebhookURL)
	if cfg.WebhookURL == "" {
		return nil, errors.New("slack webhook url is required")
	}
	cfg.Channel = strings.TrimSpace(cfg.Channel)
	if cfg.Username = strings.TrimSpace(cfg.Username); cfg.Username == "" {
		cfg.Username = defaultUsername
	}
	cfg.RetryLimit = max(cfg.RetryLimit, 0)

	hc := cfg.Client
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{cfg: cfg, http: hc}, nil
}

// SendAlert renders alert and posts it, retrying failed deliveries.
func (c *Client) SendAlert(ctx context.Context, alert notify.Alert) error {
	body, err := json.Marshal(c.formatMessage(alert))
	if err != nil {
		return fmt.Errorf("encode slack payload: %w", err)
	}
	return notify.Retry(ctx, c.cfg.RetryLimit, func(ctx context.Context) error {
		return c.post(ctx, body)
	})
}

func (c *Client) formatMessage(alert notify.Alert) message {
	at := alert.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}

	var b bulletWriter
	b.WriteString("*" + escaper.Replace(headline(alert)) + "*\n")
	b.field(0, "Severity", alert.Severity)
	b.field(0, "Component", alert.Component)
	b.field(0, "Operation", alert.Operation)
	b.field(0, "Subject", alert.Subject)
	b.field(0, "Error class", alert.ErrorClass)
	b.field(0, "Error", alert.Error)
	if len(alert.Metadata) > 0 {
		b.WriteString("• Metadata:\n")
		for _, k := range slices.Sorted(maps.Keys(alert.Metadata)) {
			b.field(1, k, alert.Metadata[k])
		}
	}
	b.WriteString("• Timestamp: " + at.UTC().Format(time.RFC3339))

	return message{Text: b.String(), Username: c.cfg.Username, Channel: c.cfg.Channel}
}

func headline(alert notify.Alert) string {
	switch {
	case strings.TrimSpace(alert.Summary) != "":
		return strings.TrimSpace(alert.Summary)
	case alert.Component != "":
		return alert.Component + " failure"
	default:
		return "Background failure"
	}
}

// bulletWriter renders the indented bullet list Slack displays.
type bulletWriter struct {
	strings.Builder
}

func (w *bulletWriter) field(depth int, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	w.WriteString(strings.Repeat("    ", depth))
	w.WriteString("• " + label + ": " + escaper.Replace(value) + "\n")
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("slack request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("slack webhook %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
