// Package notify defines the operator alert payload and the retry policy
// shared by the outbound alert sinks.
package notify

import (
	"context"
	"strings"
	"time"
)

// Severity constants recognised by downstream sinks.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
)

// Alert describes a background failure an operator should look at.
type Alert struct {
	// Component is the subsystem that failed, for example "broadcast" or "reaper".
	Component string
	// Operation narrows the component, for example "new_job".
	Operation string
	// Subject identifies the affected record, such as a job id.
	Subject    string
	Summary    string
	Error      string
	ErrorClass string
	Severity   string
	OccurredAt time.Time
	Metadata   map[string]string
}

// DedupKey groups repeated alerts for the same failure.
func (a Alert) DedupKey() string {
	return strings.Trim(a.Component+":"+a.Operation+":"+a.Subject, ":")
}

// Sink describes a destination capable of consuming operator alerts.
type Sink interface {
	SendAlert(ctx context.Context, alert Alert) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, alert Alert) error

// SendAlert implements the Sink interface.
func (f SinkFunc) SendAlert(ctx context.Context, alert Alert) error {
	if f == nil {
		return nil
	}
	return f(ctx, alert)
}

// Retry calls fn up to retries+1 times with a linear backoff between attempts.
func Retry(ctx context.Context, retries int, fn func(context.Context) error) error {
	attempts := max(retries, 0) + 1
	var lastErr error
	for attempt := range attempts {
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * 200 * time.Millisecond)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
