// Package pagerduty triggers PagerDuty incidents for operator alerts through
// the Events API v2.
package pagerduty

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/notify"
)

// APIEndpoint is the Events API v2 enqueue URL.
const APIEndpoint = "https://events.pagerduty.com/v2/enqueue"

const defaultSource = "ruralconnect"

// Config configures a Client. Only RoutingKey is required.
type Config struct {
	RoutingKey string
	Source     string
	Endpoint   string // overrides APIEndpoint
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
}

// Client is a notify.Sink that opens one incident per alert dedup key.
type Client struct {
	cfg  Config
	http *http.Client
}

var _ notify.Sink = (*Client)(nil)

// NewClient validates cfg and fills its defaults.
func NewClient(cfg Config) (*Client, error) {
	cfg.RoutingKey = strings.TrimSpace(cfg.RoutingKey)
	if cfg.RoutingKey == "" {
		return nil, errors.New("pagerduty routing key is required")
	}
	cfg.Source = orDefault(cfg.Source, defaultSource)
	cfg.Endpoint = orDefault(cfg.Endpoint, APIEndpoint)
	cfg.RetryLimit = max(cfg.RetryLimit, 0)
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, http: hc}, nil
}

type event struct {
	RoutingKey  string  `json:"routing_key"`
	EventAction string  `json:"event_action"`
	DedupKey    string  `json:"dedup_key,omitempty"`
	Payload     payload `json:"payload"`
}

type payload struct {
	Summary       string         `json:"summary"`
	Severity      string         `json:"severity"`
	Source        string         `json:"source"`
	Component     string         `json:"component"`
	Timestamp     string         `json:"timestamp"`
	CustomDetails map[string]any `json:"custom_details,omitempty"`
}

// SendAlert triggers an incident, retrying transport and API failures.
func (c *Client) SendAlert(ctx context.Context, alert notify.Alert) error {
	body, err := json.Marshal(c.buildEvent(alert))
	if err != nil {
		return fmt.Errorf("encode pagerduty event: %w", err)
	}
	return notify.Retry(ctx, c.cfg.RetryLimit, func(ctx context.Context) error {
		return c.post(ctx, body)
	})
}

// buildEvent maps an alert onto a trigger event. Alert metadata is merged into
// custom_details but never replaces the operation, subject or error keys.
func (c *Client) buildEvent(alert notify.Alert) event {
	at := alert.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}

	details := map[string]any{
		"operation":   alert.Operation,
		"subject":     alert.Subject,
		"error":       alert.Error,
		"error_class": alert.ErrorClass,
	}
	for k, v := range alert.Metadata {
		if _, reserved := details[k]; !reserved {
			details[k] = v
		}
	}

	summary := strings.TrimSpace(alert.Summary)
	if summary == "" {
		summary = strings.TrimSpace(orDefault(alert.Component, "background task") + " " + alert.Operation + " failed")
	}

	return event{
		RoutingKey:  c.cfg.RoutingKey,
		EventAction: "trigger",
		DedupKey:    alert.DedupKey(),
		Payload: payload{
			Summary:       summary,
			Severity:      strings.ToLower(orDefault(alert.Severity, notify.SeverityCritical)),
			Source:        c.cfg.Source,
			Component:     orDefault(alert.Component, defaultSource),
			Timestamp:     at.UTC().Format(time.RFC3339),
			CustomDetails: details,
		},
	}
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build pagerduty request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("pagerduty request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("pagerduty api %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
