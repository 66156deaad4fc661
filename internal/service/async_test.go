package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/statsd"
)

func TestAsyncRunner_DetachesFromCancellation(t *testing.T) {
	rec := statsd.NewRecorder()
	runner := NewAsyncRunner(AsyncRunnerOptions{Metrics: rec})

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	var sawCancel atomic.Bool
	runner.Go(ctx, "detached", func(taskCtx context.Context) error {
		close(started)
		time.Sleep(20 * time.Millisecond)
		sawCancel.Store(taskCtx.Err() != nil)
		return nil
	})
	<-started
	cancel()

	require.NoError(t, runner.Wait(context.Background()))
	assert.False(t, sawCancel.Load())
	require.Len(t, rec.Counts("async.task"), 1)
	assert.Equal(t, "success", rec.Counts("async.task")[0].Tags["result"])
}

func TestAsyncRunner_RecoversPanicsAndCountsErrors(t *testing.T) {
	rec := statsd.NewRecorder()
	runner := NewAsyncRunner(AsyncRunnerOptions{Metrics: rec})

	runner.Go(context.Background(), "boom", func(context.Context) error { panic("kaboom") })
	runner.Go(context.Background(), "fail", func(context.Context) error { return errors.New("nope") })
	require.NoError(t, runner.Wait(context.Background()))

	counts := rec.Counts("async.task")
	require.Len(t, counts, 2)
	for _, c := range counts {
		assert.Equal(t, "error", c.Tags["result"])
	}
}

func TestAsyncRunner_WaitHonoursContext(t *testing.T) {
	runner := NewAsyncRunner(AsyncRunnerOptions{})
	release := make(chan struct{})
	runner.Go(context.Background(), "slow", func(context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, runner.Wait(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, runner.Wait(context.Background()))
}

func TestAsyncRunner_TaskTimeout(t *testing.T) {
	runner := NewAsyncRunner(AsyncRunnerOptions{TaskTimeout: 5 * time.Millisecond})
	var deadline atomic.Bool
	runner.Go(context.Background(), "bounded", func(ctx context.Context) error {
		<-ctx.Done()
		deadline.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
		return ctx.Err()
	})
	require.NoError(t, runner.Wait(context.Background()))
	assert.True(t, deadline.Load())
}
