package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbarbie/Rural-Connect-sub000/config"
	"github.com/agbarbie/Rural-Connect-sub000/internal/core"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/statsd"
)

// fakeRetentionRepo returns its count on the first call of each kind and 0 afterwards.
type fakeRetentionRepo struct {
	mu sync.Mutex

	notificationCalls  int
	notificationCount  int64
	notificationErr    error
	notificationParams core.RetentionParams

	applicationCalls  int
	applicationCount  int64
	applicationErr    error
	applicationParams core.RetentionParams
}

func (f *fakeRetentionRepo) DeleteReadNotifications(_ context.Context, p core.RetentionParams) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notificationCalls++
	f.notificationParams = p
	if f.notificationErr != nil {
		return 0, f.notificationErr
	}
	if f.notificationCalls == 1 {
		return f.notificationCount, nil
	}
	return 0, nil
}

func (f *fakeRetentionRepo) DeleteInactiveApplications(_ context.Context, p core.RetentionParams) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applicationCalls++
	f.applicationParams = p
	if f.applicationErr != nil {
		return 0, f.applicationErr
	}
	if f.applicationCalls == 1 {
		return f.applicationCount, nil
	}
	return 0, nil
}

func (f *fakeRetentionRepo) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notificationCalls, f.applicationCalls
}

func testReaperConfig() config.ReaperConfig {
	return config.ReaperConfig{
		Interval:           5 * time.Minute,
		NotificationMaxAge: 90 * 24 * time.Hour,
		WithdrawnMaxAge:    30 * 24 * time.Hour,
		BatchSize:          500,
	}
}

func TestNewReaperService(t *testing.T) {
	t.Run("creates service with valid options", func(t *testing.T) {
		svc, err := NewReaperService(ReaperServiceOptions{
			Repo:   &fakeRetentionRepo{},
			Config: testReaperConfig(),
			Logger: slog.Default(),
		})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("returns error when repo is nil", func(t *testing.T) {
		_, err := NewReaperService(ReaperServiceOptions{Config: testReaperConfig()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RetentionRepository is required")
	})
}

func TestReaperService_RunOnce(t *testing.T) {
	t.Run("drains both retention steps", func(t *testing.T) {
		repo := &fakeRetentionRepo{notificationCount: 7, applicationCount: 3}
		rec := statsd.NewRecorder()
		svc := MustNewReaperService(ReaperServiceOptions{Repo: repo, Config: testReaperConfig(), Metrics: rec})

		report, err := svc.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(7), report.Notifications)
		assert.Equal(t, int64(3), report.Applications)

		n, a := repo.calls()
		assert.Equal(t, 2, n)
		assert.Equal(t, 2, a)
		assert.Equal(t, 90*24*time.Hour, repo.notificationParams.MaxAge)
		assert.Equal(t, 30*24*time.Hour, repo.applicationParams.MaxAge)
		assert.Equal(t, 500, repo.applicationParams.BatchSize)

		require.Len(t, rec.Counts("reaper.cleanup"), 1)
		assert.Equal(t, "success", rec.Counts("reaper.cleanup")[0].Tags["result"])
		assert.Equal(t, int64(10), rec.Total("reaper.rows_deleted"))
		assert.Len(t, rec.Gauges("reaper.last_success_epoch"), 1)
	})

	t.Run("continues on partial errors", func(t *testing.T) {
		repo := &fakeRetentionRepo{notificationErr: errors.New("boom"), applicationCount: 2}
		rec := statsd.NewRecorder()
		svc := MustNewReaperService(ReaperServiceOptions{Repo: repo, Config: testReaperConfig(), Metrics: rec})

		report, err := svc.RunOnce(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "delete read notifications")
		assert.Equal(t, int64(2), report.Applications)

		n, a := repo.calls()
		assert.Equal(t, 1, n)
		assert.Equal(t, 2, a)
		assert.Equal(t, "error", rec.Counts("reaper.cleanup")[0].Tags["result"])
		assert.Empty(t, rec.Gauges("reaper.last_success_epoch"))
	})

	t.Run("noop when nothing is old enough", func(t *testing.T) {
		rec := statsd.NewRecorder()
		svc := MustNewReaperService(ReaperServiceOptions{Repo: &fakeRetentionRepo{}, Config: testReaperConfig(), Metrics: rec})

		_, err := svc.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "noop", rec.Counts("reaper.cleanup")[0].Tags["result"])
	})

	t.Run("reports cancellation when every step was cancelled", func(t *testing.T) {
		repo := &fakeRetentionRepo{notificationErr: context.Canceled, applicationErr: context.Canceled}
		svc := MustNewReaperService(ReaperServiceOptions{Repo: repo, Config: testReaperConfig()})

		_, err := svc.RunOnce(context.Background())
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestReaperService_Run(t *testing.T) {
	t.Run("stops on context cancellation", func(t *testing.T) {
		repo := &fakeRetentionRepo{}
		cfg := testReaperConfig()
		cfg.Interval = 100 * time.Millisecond
		svc := MustNewReaperService(ReaperServiceOptions{Repo: repo, Config: cfg})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- svc.Run(ctx) }()

		time.Sleep(150 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("Run did not stop after context cancellation")
		}
		n, _ := repo.calls()
		assert.GreaterOrEqual(t, n, 1)
	})

	t.Run("continues running despite cleanup errors", func(t *testing.T) {
		repo := &fakeRetentionRepo{notificationErr: errors.New("test error")}
		cfg := testReaperConfig()
		cfg.Interval = 50 * time.Millisecond
		svc := MustNewReaperService(ReaperServiceOptions{Repo: repo, Config: cfg})

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		err := svc.Run(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		n, _ := repo.calls()
		assert.GreaterOrEqual(t, n, 2)
	})
}
