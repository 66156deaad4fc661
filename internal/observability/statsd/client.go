// Package statsd emits counters, gauges and timings in the DogStatsD line
// format over UDP.
package statsd

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Sink is what services emit metrics through.
type Sink interface {
	Count(name string, value int64, tags map[string]string)
	Gauge(name string, value float64, tags map[string]string)
	Timing(name string, value time.Duration, tags map[string]string)
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Count(string, int64, map[string]string)          {}
func (discard) Gauge(string, float64, map[string]string)        {}
func (discard) Timing(string, time.Duration, map[string]string) {}

// OrDiscard returns s, or Discard when s is nil.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}

// Config describes the agent to emit to.
type Config struct {
	Enabled     bool
	Address     string
	Prefix      string
	GlobalTags  map[string]string
	DialTimeout time.Duration
	Logger      *slog.Logger
}

// Client writes one datagram per metric. It is safe for concurrent use and
// all methods are no-ops on a nil or closed client.
type Client struct {
	format lineFormat
	logger *slog.Logger

	mu   sync.Mutex
	conn net.Conn
}

var _ Sink = (*Client)(nil)

// NewClient dials the agent. A disabled config or a blank address yields a
// client that drops everything.
func NewClient(cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		format: lineFormat{prefix: sanitizePrefix(cfg.Prefix), tags: cleanTags(cfg.GlobalTags)},
		logger: logger.With("component", "statsd"),
	}

	addr := strings.TrimSpace(cfg.Address)
	if !cfg.Enabled || addr == "" {
		return c, nil
	}
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	conn, err := (&net.Dialer{}).DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, fmt.Errorf("statsd dial %s: %w", addr, err)
	}
	c.conn = conn
	return c, nil
}

// Enabled reports whether metrics are being sent.
func (c *Client) Enabled() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Count adds value to a counter.
func (c *Client) Count(name string, value int64, tags map[string]string) {
	c.send(name, strconv.FormatInt(value, 10), "c", tags)
}

// Gauge sets a gauge.
func (c *Client) Gauge(name string, value float64, tags map[string]string) {
	c.send(name, formatFloat(value), "g", tags)
}

// Timing records a duration in milliseconds.
func (c *Client) Timing(name string, value time.Duration, tags map[string]string) {
	c.send(name, formatFloat(float64(value)/float64(time.Millisecond)), "ms", tags)
}

// Close releases the socket. Later calls return nil.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) send(name, value, kind string, tags map[string]string) {
	if c == nil {
		return
	}
	line, ok := c.format.line(name, value, kind, tags)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	if _, err := c.conn.Write([]byte(line)); err != nil {
		c.logger.Debug("statsd write failed", "metric", name, "error", err)
	}
}

// lineFormat renders "prefix.name:value|kind|#k:v,..." with tags sorted by key.
type lineFormat struct {
	prefix string
	tags   map[string]string
}

func (f lineFormat) line(name, value, kind string, tags map[string]string) (string, bool) {
	metric := normalizeMetricName(name)
	if metric == "" {
		return "", false
	}
	if f.prefix != "" {
		metric = f.prefix + "." + metric
	}
	return metric + ":" + value + "|" + kind + formatTags(f.tags, tags), true
}

func sanitizePrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), ".")
}

var reservedChars = strings.NewReplacer(" ", "_", "/", "_", ":", "_", "|", "_", "@", "_")

func normalizeMetricName(name string) string {
	parts := strings.Split(reservedChars.Replace(strings.TrimSpace(name)), ".")
	parts = slices.DeleteFunc(parts, func(p string) bool { return p == "" })
	return strings.Join(parts, ".")
}

// formatTags merges local over global; an empty result renders nothing.
func formatTags(global, local map[string]string) string {
	merged := maps.Clone(global)
	if merged == nil {
		merged = map[string]string{}
	}
	maps.Copy(merged, cleanTags(local))
	if len(merged) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(merged))
	for _, k := range slices.Sorted(maps.Keys(merged)) {
		pairs = append(pairs, k+":"+merged[k])
	}
	return "|#" + strings.Join(pairs, ",")
}

// cleanTags trims keys and values and drops blank keys.
func cleanTags(tags map[string]string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		if k = strings.TrimSpace(k); k != "" {
			out[k] = strings.TrimSpace(v)
		}
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
