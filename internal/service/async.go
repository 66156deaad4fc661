package service

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/metrics"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/statsd"
)

// AsyncRunnerOptions groups dependencies for AsyncRunner.
type AsyncRunnerOptions struct {
	Logger  *slog.Logger // Optional: structured logger
	Metrics statsd.Sink  // Optional: metrics sink
	// TaskTimeout bounds each task; zero leaves tasks unbounded.
	TaskTimeout time.Duration
}

// AsyncRunner runs post-commit side effects detached from the request that
// triggered them. Failures and panics are logged and counted, never returned.
type AsyncRunner struct {
	wg      sync.WaitGroup
	logger  *slog.Logger
	metrics statsd.Sink
	timeout time.Duration
}

// NewAsyncRunner constructs a new AsyncRunner.
func NewAsyncRunner(opts AsyncRunnerOptions) *AsyncRunner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncRunner{
		logger:  logger.With("component", "async_runner"),
		metrics: statsd.OrDiscard(opts.Metrics),
		timeout: opts.TaskTimeout,
	}
}

// Go starts fn in its own goroutine. The task keeps the values of ctx but not
// its cancellation, so it outlives the HTTP request.
func (r *AsyncRunner) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	taskCtx := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		start := time.Now()
		err := r.run(taskCtx, fn)
		if err != nil {
			r.logger.ErrorContext(taskCtx, "async task failed", "task", name, "error", err)
		}
		metrics.Emit(r.metrics, metrics.Operation{
			Name:     "async.task",
			Duration: time.Since(start),
			Err:      err,
			Tags:     map[string]string{"task": name},
		})
	}()
}

func (r *AsyncRunner) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
			r.logger.ErrorContext(ctx, "async task panicked", "panic", rec, "stack", string(debug.Stack()))
		}
	}()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return fn(ctx)
}

// Wait blocks until every started task finishes or ctx is done.
func (r *AsyncRunner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for async tasks: %w", ctx.Err())
	}
}
