package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/notify"
)

type recordingAlerter struct {
	mu     sync.Mutex
	alerts []notify.Alert
}

func (r *recordingAlerter) NotifyFailure(_ context.Context, alert notify.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alert)
}

func (r *recordingAlerter) all() []notify.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Alert(nil), r.alerts...)
}

func TestRaiseAlert(t *testing.T) {
	t.Run("skips cancellation", func(t *testing.T) {
		rec := &recordingAlerter{}
		raiseAlert(context.Background(), rec, notify.Alert{Component: "reaper"}, fmt.Errorf("wrap: %w", context.Canceled))
		raiseAlert(context.Background(), rec, notify.Alert{Component: "reaper"}, context.DeadlineExceeded)
		raiseAlert(context.Background(), rec, notify.Alert{Component: "reaper"}, nil)
		assert.Empty(t, rec.all())
	})

	t.Run("nil alerter is a no-op", func(t *testing.T) {
		raiseAlert(context.Background(), nil, notify.Alert{}, errors.New("boom"))
	})

	t.Run("fills the error fields", func(t *testing.T) {
		rec := &recordingAlerter{}
		raiseAlert(context.Background(), rec, notify.Alert{Component: "reaper"}, errors.New("boom"))
		got := rec.all()
		require.Len(t, got, 1)
		assert.Equal(t, "boom", got[0].Error)
	})

	t.Run("delivers even when the caller context is done", func(t *testing.T) {
		rec := &recordingAlerter{}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var seenErr error
		alerter := alerterFunc(func(ctx context.Context, alert notify.Alert) {
			seenErr = ctx.Err()
			rec.NotifyFailure(ctx, alert)
		})
		raiseAlert(ctx, alerter, notify.Alert{}, errors.New("boom"))
		require.NoError(t, seenErr)
		assert.Len(t, rec.all(), 1)
	})
}

type alerterFunc func(ctx context.Context, alert notify.Alert)

func (f alerterFunc) NotifyFailure(ctx context.Context, alert notify.Alert) { f(ctx, alert) }

func TestAudienceService_AbortedBroadcastRaisesAlert(t *testing.T) {
	h := newAudienceHarness(t, 1)
	rec := &recordingAlerter{}
	h.svc.alerts = rec
	h.cache.EXPECT().SetIfNotExists(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	gomock.InOrder(
		h.repo.EXPECT().NewJobCandidates(gomock.Any(), gomock.Any(), gomock.Any()).Return(recipients("u1"), nil),
		h.repo.EXPECT().NewJobCandidates(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout")),
	)
	h.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(true, nil)

	_, err := h.svc.NotifyJobseekersAboutNewJob(context.Background(), broadcastJob(model.JobStatusActive))
	require.Error(t, err)

	got := rec.all()
	require.Len(t, got, 1)
	assert.Equal(t, "broadcast", got[0].Component)
	assert.Equal(t, BroadcastNewJob, got[0].Operation)
	assert.Equal(t, testJobID, got[0].Subject)
	assert.Equal(t, "1", got[0].Metadata["delivered"])
	assert.Contains(t, got[0].Error, "timeout")
}

func TestReaperService_FailedPassRaisesAlert(t *testing.T) {
	rec := &recordingAlerter{}
	repo := &fakeRetentionRepo{applicationErr: errors.New("disk full")}
	svc := MustNewReaperService(ReaperServiceOptions{Repo: repo, Config: testReaperConfig(), Alerts: rec})

	_, err := svc.RunOnce(context.Background())
	require.Error(t, err)
	svc.reportPassError(context.Background(), err)

	got := rec.all()
	require.Len(t, got, 1)
	assert.Equal(t, "reaper:cleanup", got[0].DedupKey())
	assert.Contains(t, got[0].Error, "disk full")

	svc.reportPassError(context.Background(), context.Canceled)
	assert.Len(t, rec.all(), 1)
}
