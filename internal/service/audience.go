package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbarbie/Rural-Connect-sub000/config"
	"github.com/agbarbie/Rural-Connect-sub000/internal/core"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/metrics"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/statsd"
)

// Broadcast event names used for dedupe claims and metrics.
const (
	BroadcastNewJob   = "new_job"
	BroadcastSavedJob = "saved_job"
)

// releaseTimeout bounds the claim release after an aborted broadcast.
const releaseTimeout = 2 * time.Second

// BroadcastNotifier is the per-recipient dispatch used by broadcasts.
type BroadcastNotifier interface {
	NotifyJobseekerAboutNewJob(ctx context.Context, userID string, job *model.JobWithCompany, matchReasons []string) error
	NotifyJobseekerSavedJob(ctx context.Context, userID string, job *model.JobWithCompany, change model.SavedJobChange) error
}

// BroadcastResult summarises one broadcast.
type BroadcastResult struct {
	Recipients int `json:"recipients"`
	Delivered  int `json:"delivered"`
	Failed     int `json:"failed"`
	// Skipped is set when the broadcast was suppressed by a dedupe claim.
	Skipped bool `json:"skipped"`
}

// AudienceServiceOptions groups dependencies for AudienceService.
type AudienceServiceOptions struct {
	Repo     core.AudienceRepository   // Required: audience queries
	Notifier BroadcastNotifier         // Required: per-recipient dispatch
	Cache    *core.NotificationCache   // Optional: broadcast dedupe claims
	Config   config.NotificationConfig // Batch size, concurrency, dedupe TTLs
	Logger   *slog.Logger              // Optional: structured logger
	Metrics  statsd.Sink               // Optional: metrics sink
	Alerts   FailureAlerter            // Optional: operator alerts for aborted broadcasts
}

// AudienceService resolves broadcast audiences in keyset batches and fans
// notifications out to them with bounded concurrency.
type AudienceService struct {
	repo     core.AudienceRepository
	notifier BroadcastNotifier
	cache    *core.NotificationCache
	cfg      config.NotificationConfig
	logger   *slog.Logger
	metrics  statsd.Sink
	alerts   FailureAlerter
}

// NewAudienceService constructs a new AudienceService.
func NewAudienceService(opts AudienceServiceOptions) (*AudienceService, error) {
	if opts.Repo == nil {
		return nil, errors.New("AudienceRepository is required")
	}
	if opts.Notifier == nil {
		return nil, errors.New("BroadcastNotifier is required")
	}
	cfg := opts.Config
	cfg.Sanitize()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AudienceService{
		repo:     opts.Repo,
		notifier: opts.Notifier,
		cache:    opts.Cache,
		cfg:      cfg,
		logger:   logger.With("component", "audience_service"),
		metrics:  statsd.OrDiscard(opts.Metrics),
		alerts:   opts.Alerts,
	}, nil
}

// NotifyJobseekersAboutNewJob notifies every active jobseeker whose profile
// matches job. Only active postings are broadcast, once per dedupe window.
func (s *AudienceService) NotifyJobseekersAboutNewJob(ctx context.Context, job *model.JobWithCompany) (BroadcastResult, error) {
	if job == nil {
		return BroadcastResult{}, errors.New("job is required")
	}
	if job.Status != model.JobStatusActive {
		return BroadcastResult{Skipped: true}, nil
	}
	if !s.claim(ctx, BroadcastNewJob, job.ID, s.cfg.NewJobDedupeTTL) {
		return BroadcastResult{Skipped: true}, nil
	}

	criteria := core.NewJobCriteria{
		Skills:         job.SkillsRequired,
		Location:       job.Location,
		EmploymentType: job.EmploymentType,
	}
	res, err := s.broadcast(ctx, BroadcastNewJob, job.ID,
		func(ctx context.Context, q core.AudienceQuery) ([]model.Recipient, error) {
			return s.repo.NewJobCandidates(ctx, criteria, q)
		},
		func(ctx context.Context, r model.Recipient) error {
			return s.notifier.NotifyJobseekerAboutNewJob(ctx, r.UserID, job, r.MatchReasons)
		})
	if err != nil {
		s.release(ctx, BroadcastNewJob, job.ID)
	}
	return res, err
}

// NotifyJobseekersSavedJob notifies everyone who bookmarked job about change.
// Repeated "updated" broadcasts for one job are throttled.
func (s *AudienceService) NotifyJobseekersSavedJob(
	ctx context.Context,
	job *model.JobWithCompany,
	change model.SavedJobChange,
) (BroadcastResult, error) {
	if job == nil {
		return BroadcastResult{}, errors.New("job is required")
	}
	throttled := change == model.SavedJobUpdated
	claimEvent := BroadcastSavedJob + "_" + string(change)
	if throttled && !s.claim(ctx, claimEvent, job.ID, s.cfg.SavedJobUpdateThrottle) {
		return BroadcastResult{Skipped: true}, nil
	}
	res, err := s.broadcast(ctx, BroadcastSavedJob, job.ID,
		func(ctx context.Context, q core.AudienceQuery) ([]model.Recipient, error) {
			return s.repo.BookmarkHolders(ctx, job.ID, q)
		},
		func(ctx context.Context, r model.Recipient) error {
			return s.notifier.NotifyJobseekerSavedJob(ctx, r.UserID, job, change)
		})
	if err != nil && throttled {
		s.release(ctx, claimEvent, job.ID)
	}
	return res, err
}

// CollectBookmarkHolders loads the whole saved-job audience up front. Job
// deletion uses it because bookmarks cascade with the job.
func (s *AudienceService) CollectBookmarkHolders(ctx context.Context, jobID string) ([]model.Recipient, error) {
	var out []model.Recipient
	err := s.pages(ctx, func(ctx context.Context, q core.AudienceQuery) ([]model.Recipient, error) {
		return s.repo.BookmarkHolders(ctx, jobID, q)
	}, func(batch []model.Recipient) {
		out = append(out, batch...)
	})
	if err != nil {
		return nil, fmt.Errorf("collect bookmark holders: %w", err)
	}
	return out, nil
}

// NotifySavedJobDeleted dispatches the deletion notice to a previously
// collected audience.
func (s *AudienceService) NotifySavedJobDeleted(
	ctx context.Context,
	job *model.JobWithCompany,
	recipients []model.Recipient,
) BroadcastResult {
	start := time.Now()
	var res BroadcastResult
	for i := 0; i < len(recipients); i += s.cfg.BroadcastBatchSize {
		end := min(i+s.cfg.BroadcastBatchSize, len(recipients))
		s.dispatchBatch(ctx, recipients[i:end], &res, func(ctx context.Context, r model.Recipient) error {
			return s.notifier.NotifyJobseekerSavedJob(ctx, r.UserID, job, model.SavedJobDeleted)
		})
	}
	s.finish(ctx, BroadcastSavedJob, job.ID, res, nil, time.Since(start))
	return res
}

type audiencePage func(ctx context.Context, q core.AudienceQuery) ([]model.Recipient, error)

type recipientDispatch func(ctx context.Context, r model.Recipient) error

func (s *AudienceService) broadcast(
	ctx context.Context,
	event, jobID string,
	page audiencePage,
	dispatch recipientDispatch,
) (BroadcastResult, error) {
	start := time.Now()
	var res BroadcastResult
	err := s.pages(ctx, page, func(batch []model.Recipient) {
		s.dispatchBatch(ctx, batch, &res, dispatch)
	})
	if err != nil {
		err = fmt.Errorf("%s broadcast for job %s: %w", event, jobID, err)
	}
	s.finish(ctx, event, jobID, res, err, time.Since(start))
	return res, err
}

// pages walks the audience in user id order until a short batch.
func (s *AudienceService) pages(ctx context.Context, page audiencePage, handle func([]model.Recipient)) error {
	after := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch, err := page(ctx, core.AudienceQuery{After: after, Limit: s.cfg.BroadcastBatchSize})
		if err != nil {
			return err
		}
		if len(batch) > 0 {
			handle(batch)
			after = batch[len(batch)-1].UserID
		}
		if len(batch) < s.cfg.BroadcastBatchSize {
			return nil
		}
	}
}

// dispatchBatch notifies every recipient concurrently. Each goroutine records
// its own failure and returns nil so siblings are never cancelled.
func (s *AudienceService) dispatchBatch(
	ctx context.Context,
	batch []model.Recipient,
	res *BroadcastResult,
	dispatch recipientDispatch,
) {
	var delivered, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.cfg.BroadcastConcurrency)
	for _, r := range batch {
		g.Go(func() error {
			if err := dispatch(ctx, r); err != nil {
				failed.Add(1)
				s.logger.WarnContext(ctx, "broadcast dispatch failed", "user_id", r.UserID, "error", err)
				return nil
			}
			delivered.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	res.Recipients += len(batch)
	res.Delivered += int(delivered.Load())
	res.Failed += int(failed.Load())
}

func (s *AudienceService) claim(ctx context.Context, event, jobID string, ttl time.Duration) bool {
	ok, err := s.cache.ClaimBroadcast(ctx, event, jobID, ttl)
	if err != nil {
		// Without the cache the broadcast proceeds undeduplicated.
		s.logger.WarnContext(ctx, "broadcast claim failed", "event", event, "job_id", jobID, "error", err)
		return true
	}
	if !ok {
		s.logger.DebugContext(ctx, "broadcast suppressed by dedupe claim", "event", event, "job_id", jobID)
		metrics.Emit(s.metrics, metrics.Operation{
			Name:   "broadcast.run",
			Result: metrics.ResultNoop,
			Tags:   map[string]string{"event": event},
		})
	}
	return ok
}

func (s *AudienceService) finish(
	ctx context.Context,
	event, jobID string,
	res BroadcastResult,
	err error,
	elapsed time.Duration,
) {
	result := metrics.ResultFor(err)
	switch {
	case err != nil:
	case res.Recipients == 0:
		result = metrics.ResultNoop
	case res.Failed > 0:
		result = metrics.ResultPartial
	}
	tags := map[string]string{"event": event}
	metrics.Emit(s.metrics, metrics.Operation{
		Name: "broadcast.run", Result: result, Duration: elapsed, Err: err, Tags: tags,
	})
	s.metrics.Count("broadcast.delivered", int64(res.Delivered), metrics.CloneTags(tags))
	s.metrics.Count("broadcast.failed", int64(res.Failed), metrics.CloneTags(tags))

	attrs := []any{
		"event", event, "job_id", jobID,
		"recipients", res.Recipients, "delivered", res.Delivered, "failed", res.Failed,
		"elapsed", elapsed,
	}
	switch {
	case err != nil:
		s.logger.ErrorContext(ctx, "broadcast aborted", append(attrs, "error", err)...)
		raiseAlert(ctx, s.alerts, broadcastAlert(event, jobID, res), err)
	case res.Failed > 0:
		s.logger.WarnContext(ctx, "broadcast completed with failures", attrs...)
	default:
		s.logger.InfoContext(ctx, "broadcast completed", attrs...)
	}
}

// release drops the claim of an aborted broadcast so the next trigger retries
// it. It runs even when ctx is already cancelled.
func (s *AudienceService) release(ctx context.Context, event, jobID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := s.cache.ReleaseBroadcast(ctx, event, jobID); err != nil {
		s.logger.WarnContext(ctx, "broadcast claim release failed", "event", event, "job_id", jobID, "error", err)
	}
}
