package failurenotifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/notify"
)

type captureSink struct {
	mu     sync.Mutex
	alerts []notify.Alert
}

func (c *captureSink) SendAlert(_ context.Context, alert notify.Alert) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alerts = append(c.alerts, alert)
	return nil
}

func (c *captureSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.alerts)
}

func TestServiceNotifyFailureFansOut(t *testing.T) {
	first, second := &captureSink{}, &captureSink{}
	fixed := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	svc := NewService(Options{
		Sinks: []SinkRegistration{
			{Name: "first", Sink: first},
			{Name: "second", Sink: second},
			{Name: "nil"},
		},
		Now: func() time.Time { return fixed },
	})
	require.True(t, svc.Enabled())

	svc.NotifyFailure(context.Background(), notify.Alert{Component: "broadcast", Operation: "new_job", Subject: "job-1"})

	require.Equal(t, 1, first.count())
	require.Equal(t, 1, second.count())
	got := first.alerts[0]
	assert.Equal(t, notify.SeverityCritical, got.Severity)
	assert.Equal(t, fixed, got.OccurredAt)
	assert.Equal(t, "broadcast:new_job:job-1", got.DedupKey())
}

func TestServiceDisabled(t *testing.T) {
	svc := NewService(Options{})
	assert.False(t, svc.Enabled())
	svc.NotifyFailure(context.Background(), notify.Alert{Component: "reaper"})

	var nilSvc *Service
	assert.False(t, nilSvc.Enabled())
	nilSvc.NotifyFailure(context.Background(), notify.Alert{})
}

func TestServiceSinkErrorDoesNotBlockOthers(t *testing.T) {
	capture := &captureSink{}
	svc := NewService(Options{
		Sinks: []SinkRegistration{
			{Name: "fail", Sink: notify.SinkFunc(func(context.Context, notify.Alert) error {
				return errors.New("boom")
			})},
			{Name: "capture", Sink: capture},
		},
	})

	svc.NotifyFailure(context.Background(), notify.Alert{Component: "reaper", Operation: "cleanup"})
	assert.Equal(t, 1, capture.count())
}

func TestServiceCooldownSuppressesRepeats(t *testing.T) {
	capture := &captureSink{}
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	svc := NewService(Options{
		Sinks:    []SinkRegistration{{Name: "capture", Sink: capture}},
		Cooldown: 10 * time.Minute,
		Now:      func() time.Time { return now },
	})
	alert := notify.Alert{Component: "reaper", Operation: "cleanup"}

	svc.NotifyFailure(context.Background(), alert)
	now = now.Add(time.Minute)
	svc.NotifyFailure(context.Background(), alert)
	assert.Equal(t, 1, capture.count())

	// A different subject is a different incident.
	svc.NotifyFailure(context.Background(), notify.Alert{Component: "broadcast", Operation: "new_job", Subject: "job-9"})
	assert.Equal(t, 2, capture.count())

	now = now.Add(10 * time.Minute)
	svc.NotifyFailure(context.Background(), alert)
	assert.Equal(t, 3, capture.count())
}
