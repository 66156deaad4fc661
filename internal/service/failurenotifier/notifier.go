// Package failurenotifier fans operator alerts out to the configured sinks.
package failurenotifier

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/notify"
)

// SinkRegistration names a sink for log output.
type SinkRegistration struct {
	Name string
	Sink notify.Sink
}

// Options configures NewService.
type Options struct {
	Logger *slog.Logger
	Sinks  []SinkRegistration
	// Cooldown suppresses repeats of an alert with the same dedup key. Zero disables it.
	Cooldown time.Duration
	Now      func() time.Time
}

// Service delivers operator alerts to every registered sink concurrently.
// A nil *Service is a valid no-op notifier.
type Service struct {
	logger   *slog.Logger
	sinks    []SinkRegistration
	cooldown time.Duration
	now      func() time.Time

	mu       sync.Mutex
	lastSent map[string]time.Time
}

// NewService builds a notifier. Registrations without a sink are dropped.
func NewService(opts Options) *Service {
	sinks := slices.DeleteFunc(slices.Clone(opts.Sinks), func(r SinkRegistration) bool {
		return r.Sink == nil
	})
	for i := range sinks {
		sinks[i].Name = cmp.Or(sinks[i].Name, "sink")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		logger:   logger.With("component", "failure_notifier"),
		sinks:    sinks,
		cooldown: opts.Cooldown,
		now:      now,
		lastSent: make(map[string]time.Time),
	}
}

// Enabled reports whether any sink is registered.
func (s *Service) Enabled() bool {
	return s != nil && len(s.sinks) > 0
}

// NotifyFailure stamps defaults onto alert and blocks until every sink has
// answered. Delivery errors are logged, never returned.
func (s *Service) NotifyFailure(ctx context.Context, alert notify.Alert) {
	if !s.Enabled() {
		return
	}
	alert.Severity = cmp.Or(alert.Severity, notify.SeverityCritical)
	if alert.OccurredAt.IsZero() {
		alert.OccurredAt = s.now()
	}
	if !s.admit(alert) {
		s.logger.DebugContext(ctx, "alert suppressed by cooldown", "dedup_key", alert.DedupKey())
		return
	}

	var g errgroup.Group
	for _, reg := range s.sinks {
		g.Go(func() error {
			if err := reg.Sink.SendAlert(ctx, alert); err != nil {
				s.logger.ErrorContext(ctx, "alert delivery failed",
					"sink", reg.Name,
					"alert_component", alert.Component,
					"operation", alert.Operation,
					"subject", alert.Subject,
					"error", err,
				)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// admit records alert against its dedup key unless the key fired within the cooldown.
func (s *Service) admit(alert notify.Alert) bool {
	if s.cooldown <= 0 {
		return true
	}
	key := alert.DedupKey()
	s.mu.Lock()
	defer s.mu.Unlock()
	if last, seen := s.lastSent[key]; seen && alert.OccurredAt.Sub(last) < s.cooldown {
		return false
	}
	s.lastSent[key] = alert.OccurredAt
	return true
}
