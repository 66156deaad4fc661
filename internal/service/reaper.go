package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/agbarbie/Rural-Connect-sub000/config"
	"github.com/agbarbie/Rural-Connect-sub000/internal/core"
	obserrors "github.com/agbarbie/Rural-Connect-sub000/internal/observability/errors"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/metrics"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/notify"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/statsd"
)

// ReaperServiceOptions groups dependencies for ReaperService.
type ReaperServiceOptions struct {
	Repo    core.RetentionRepository // Required
	Config  config.ReaperConfig      // Required
	Logger  *slog.Logger             // Optional
	Metrics statsd.Sink              // Optional
	Alerts  FailureAlerter           // Optional: raised when a pass fails
}

// ReaperService deletes rows nobody reads again: read notifications past
// NotificationMaxAge and withdrawn or cancelled applications past
// WithdrawnMaxAge. Each kind is drained in BatchSize chunks.
type ReaperService struct {
	repo    core.RetentionRepository
	config  config.ReaperConfig
	logger  *slog.Logger
	metrics statsd.Sink
	alerts  FailureAlerter
}

// NewReaperService constructs a new ReaperService.
func NewReaperService(opts ReaperServiceOptions) (*ReaperService, error) {
	if opts.Repo == nil {
		return nil, errors.New("RetentionRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ReaperService{
		repo:    opts.Repo,
		config:  opts.Config,
		logger:  logger.With("component", "reaper_service"),
		metrics: statsd.OrDiscard(opts.Metrics),
		alerts:  opts.Alerts,
	}, nil
}

// MustNewReaperService constructs a new ReaperService and panics on error.
func MustNewReaperService(opts ReaperServiceOptions) *ReaperService {
	svc, err := NewReaperService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create ReaperService: %v", err))
	}
	return svc
}

// CleanupReport is the outcome of one cleanup pass.
type CleanupReport struct {
	Notifications int64
	Applications  int64
	Elapsed       time.Duration
}

// Run sweeps once after a short random delay and then on every Interval
// tick. Cancellation returns nil; an expired deadline is returned as is.
// Failed passes are logged and alerted but never stop the loop.
func (s *ReaperService) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "reaper loop starting", "interval", s.config.Interval)

	if !sleepCtx(ctx, s.startDelay()) {
		return loopExit(ctx)
	}
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx); err != nil {
			s.reportPassError(ctx, err)
		}
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "reaper loop stopping", "reason", ctx.Err())
			return loopExit(ctx)
		case <-ticker.C:
		}
	}
}

// startDelay spreads replicas started together over a tenth of the interval.
func (s *ReaperService) startDelay() time.Duration {
	window := int64(s.config.Interval / 10)
	if window <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(window)) // #nosec G404 -- scheduling jitter, not a secret
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func loopExit(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

// sweepStep is one retention rule applied by a pass.
type sweepStep struct {
	label     string // error and log prefix
	operation string // metrics tag
	maxAge    time.Duration
	delete    func(context.Context, core.RetentionParams) (int64, error)
}

type sweepResult struct {
	step    sweepStep
	deleted int64
	err     error
}

func (s *ReaperService) steps() []sweepStep {
	return []sweepStep{
		{
			label:     "delete read notifications",
			operation: "delete_read_notifications",
			maxAge:    s.config.NotificationMaxAge,
			delete:    s.repo.DeleteReadNotifications,
		},
		{
			label:     "delete inactive applications",
			operation: "delete_inactive_applications",
			maxAge:    s.config.WithdrawnMaxAge,
			delete:    s.repo.DeleteInactiveApplications,
		},
	}
}

// RunOnce performs a single pass. A failing step does not stop the others;
// their errors are joined. When every failure is a cancellation the pass
// reports context.Canceled.
func (s *ReaperService) RunOnce(ctx context.Context) (CleanupReport, error) {
	start := time.Now()
	steps := s.steps()
	results := make([]sweepResult, 0, len(steps))
	for _, step := range steps {
		deleted, err := s.drain(ctx, step)
		results = append(results, sweepResult{step: step, deleted: deleted, err: err})
	}
	elapsed := time.Since(start)
	s.recordPass(results, elapsed)

	report := CleanupReport{
		Notifications: results[0].deleted,
		Applications:  results[1].deleted,
		Elapsed:       elapsed,
	}

	var errs []error
	onlyCancelled := true
	for _, r := range results {
		if r.err == nil {
			continue
		}
		errs = append(errs, fmt.Errorf("%s: %w", r.step.label, r.err))
		onlyCancelled = onlyCancelled && isContextCancellation(r.err)
	}
	switch {
	case len(errs) == 0:
		return report, nil
	case onlyCancelled:
		return report, context.Canceled
	default:
		return report, fmt.Errorf("cleanup failed: %w", errors.Join(errs...))
	}
}

// drain repeats the step's batched delete until a batch removes nothing.
func (s *ReaperService) drain(ctx context.Context, step sweepStep) (int64, error) {
	params := core.RetentionParams{MaxAge: step.maxAge, BatchSize: s.config.BatchSize}
	var total int64
	for {
		n, err := step.delete(ctx, params)
		if err != nil {
			return total, err
		}
		total += n
		if n == 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}
	}
	if total > 0 {
		s.logger.InfoContext(ctx, step.label, "count", total, "max_age", step.maxAge)
	}
	return total, nil
}

// recordPass emits one reaper.cleanup count for the pass plus a
// reaper.cleanup_operation count per step. Cancellations count as neither
// success nor error for a step.
func (s *ReaperService) recordPass(results []sweepResult, elapsed time.Duration) {
	var (
		total    int64
		firstErr error
	)
	for _, r := range results {
		err := r.err
		if isContextCancellation(err) {
			err = nil
		}
		stepTags := resultTags(r.deleted, err)
		stepTags["operation"] = r.step.operation
		s.metrics.Count("reaper.cleanup_operation", 1, stepTags)
		if err == nil && r.deleted > 0 {
			s.metrics.Count("reaper.rows_deleted", r.deleted, metrics.CloneTags(stepTags))
		}
		total += r.deleted
		if firstErr == nil {
			firstErr = err
		}
	}

	passTags := resultTags(total, firstErr)
	s.metrics.Count("reaper.cleanup", 1, passTags)
	if elapsed > 0 {
		s.metrics.Timing("reaper.cleanup_duration", elapsed, metrics.CloneTags(passTags))
	}
	if firstErr == nil {
		s.metrics.Gauge("reaper.last_success_epoch", float64(time.Now().Unix()), nil)
	}
}

func resultTags(deleted int64, err error) map[string]string {
	switch {
	case err != nil:
		tags := map[string]string{"result": metrics.ResultError}
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
		return tags
	case deleted == 0:
		return map[string]string{"result": metrics.ResultNoop}
	default:
		return map[string]string{"result": metrics.ResultSuccess}
	}
}

// reportPassError logs a failed pass and raises an operator alert.
// Cancellations are logged at debug level only.
func (s *ReaperService) reportPassError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	if isContextCancellation(err) {
		s.logger.DebugContext(ctx, "cleanup pass cancelled", "error", err)
		return
	}
	s.logger.ErrorContext(ctx, "cleanup pass failed", "error", err)
	raiseAlert(ctx, s.alerts, notify.Alert{
		Component: "reaper",
		Operation: "cleanup",
		Summary:   "Retention cleanup failed",
		Severity:  notify.SeverityWarning,
	}, err)
}

func isContextCancellation(err error) bool {
	return err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}
