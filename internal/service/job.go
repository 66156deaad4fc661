package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agbarbie/Rural-Connect-sub000/internal/core"
	"github.com/agbarbie/Rural-Connect-sub000/internal/data"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
	apperrors "github.com/agbarbie/Rural-Connect-sub000/internal/errors"
)

// JobBroadcaster fans job events out to jobseekers.
type JobBroadcaster interface {
	NotifyJobseekersAboutNewJob(ctx context.Context, job *model.JobWithCompany) (BroadcastResult, error)
	NotifyJobseekersSavedJob(ctx context.Context, job *model.JobWithCompany, change model.SavedJobChange) (BroadcastResult, error)
	CollectBookmarkHolders(ctx context.Context, jobID string) ([]model.Recipient, error)
	NotifySavedJobDeleted(ctx context.Context, job *model.JobWithCompany, recipients []model.Recipient) BroadcastResult
}

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Repo        core.JobRepository // Required: job store
	Broadcaster JobBroadcaster     // Required: audience fan-out
	Async       *AsyncRunner       // Optional: defaults to a private runner
	Logger      *slog.Logger       // Optional: structured logger
}

// JobService manages an employer's postings and triggers the broadcasts
// that follow posting changes.
type JobService struct {
	repo        core.JobRepository
	broadcaster JobBroadcaster
	async       *AsyncRunner
	logger      *slog.Logger
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) (*JobService, error) {
	if opts.Repo == nil {
		return nil, errors.New("JobRepository is required")
	}
	if opts.Broadcaster == nil {
		return nil, errors.New("JobBroadcaster is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	async := opts.Async
	if async == nil {
		async = NewAsyncRunner(AsyncRunnerOptions{Logger: logger})
	}
	return &JobService{
		repo:        opts.Repo,
		broadcaster: opts.Broadcaster,
		async:       async,
		logger:      logger.With("component", "job_service"),
	}, nil
}

// Get returns a posting with its company.
func (s *JobService) Get(ctx context.Context, jobID string) (*model.JobWithCompany, error) {
	job, err := s.repo.GetWithCompany(ctx, jobID)
	if err != nil {
		return nil, mapJobErr(err)
	}
	return job, nil
}

// Create publishes a posting for the employer account employerUserID.
// Active postings are broadcast to matching jobseekers.
func (s *JobService) Create(
	ctx context.Context,
	employerUserID string,
	req *model.CreateJobRequest,
) (*model.JobWithCompany, error) {
	if req == nil {
		return nil, apperrors.Validation("job is required")
	}
	req.Normalize()
	if err := validateCreateJob(req); err != nil {
		return nil, err
	}
	employerID, err := s.repo.EmployerIDForUser(ctx, employerUserID)
	if err != nil {
		if errors.Is(err, data.ErrEmployerNotFound) {
			return nil, apperrors.Forbidden("employer profile not found")
		}
		return nil, fmt.Errorf("resolve employer: %w", err)
	}
	created, err := s.repo.Create(ctx, employerID, req)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	job, err := s.repo.GetWithCompany(ctx, created.ID)
	if err != nil {
		return nil, mapJobErr(err)
	}
	s.logger.InfoContext(ctx, "job created", "job_id", job.ID, "status", job.Status)
	s.broadcastStatus(ctx, job)
	return job, nil
}

// Update edits a posting the caller owns and tells bookmark holders.
func (s *JobService) Update(
	ctx context.Context,
	employerUserID, jobID string,
	req *model.UpdateJobRequest,
) (*model.JobWithCompany, error) {
	if req == nil || req.IsEmpty() {
		return nil, apperrors.Validation("no fields to update")
	}
	if err := validateUpdateJob(req); err != nil {
		return nil, err
	}
	current, err := s.owned(ctx, employerUserID, jobID)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, jobID, req)
	if err != nil {
		return nil, mapJobErr(err)
	}
	job := &model.JobWithCompany{Job: *updated, CompanyName: current.CompanyName, EmployerUserID: current.EmployerUserID}
	s.async.Go(ctx, "broadcast_saved_job_updated", func(ctx context.Context) error {
		_, err := s.broadcaster.NotifyJobseekersSavedJob(ctx, job, model.SavedJobUpdated)
		return err
	})
	return job, nil
}

// SetStatus moves a posting the caller owns. Activating a posting broadcasts
// it to matching jobseekers; closing or filling it tells bookmark holders.
func (s *JobService) SetStatus(
	ctx context.Context,
	employerUserID, jobID string,
	status model.JobStatus,
) (*model.JobWithCompany, error) {
	if !status.Valid() {
		return nil, apperrors.ValidationField("status", fmt.Sprintf("unknown job status %q", status))
	}
	current, err := s.owned(ctx, employerUserID, jobID)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}
	updated, err := s.repo.SetStatus(ctx, jobID, status)
	if err != nil {
		return nil, mapJobErr(err)
	}
	job := &model.JobWithCompany{Job: *updated, CompanyName: current.CompanyName, EmployerUserID: current.EmployerUserID}
	s.broadcastStatus(ctx, job)
	return job, nil
}

// Delete removes a posting the caller owns. Bookmark holders are collected
// first because their bookmarks go with the job.
func (s *JobService) Delete(ctx context.Context, employerUserID, jobID string) error {
	job, err := s.owned(ctx, employerUserID, jobID)
	if err != nil {
		return err
	}
	holders, err := s.broadcaster.CollectBookmarkHolders(ctx, jobID)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if err = s.repo.Delete(ctx, jobID); err != nil {
		return mapJobErr(err)
	}
	s.logger.InfoContext(ctx, "job deleted", "job_id", jobID, "bookmark_holders", len(holders))
	if len(holders) > 0 {
		s.async.Go(ctx, "broadcast_saved_job_deleted", func(ctx context.Context) error {
			s.broadcaster.NotifySavedJobDeleted(ctx, job, holders)
			return nil
		})
	}
	return nil
}

// Wait drains broadcasts started by this service.
func (s *JobService) Wait(ctx context.Context) error {
	return s.async.Wait(ctx)
}

func (s *JobService) broadcastStatus(ctx context.Context, job *model.JobWithCompany) {
	switch job.Status {
	case model.JobStatusActive:
		s.async.Go(ctx, "broadcast_new_job", func(ctx context.Context) error {
			_, err := s.broadcaster.NotifyJobseekersAboutNewJob(ctx, job)
			return err
		})
	case model.JobStatusClosed, model.JobStatusFilled:
		change := model.SavedJobClosed
		if job.Status == model.JobStatusFilled {
			change = model.SavedJobFilled
		}
		s.async.Go(ctx, "broadcast_saved_job_"+string(change), func(ctx context.Context) error {
			_, err := s.broadcaster.NotifyJobseekersSavedJob(ctx, job, change)
			return err
		})
	case model.JobStatusDraft, model.JobStatusPaused:
	}
}

func (s *JobService) owned(ctx context.Context, employerUserID, jobID string) (*model.JobWithCompany, error) {
	job, err := s.repo.GetWithCompany(ctx, jobID)
	if err != nil {
		return nil, mapJobErr(err)
	}
	if job.EmployerUserID != employerUserID {
		return nil, apperrors.Forbidden("job posting belongs to another employer")
	}
	return job, nil
}

func validateCreateJob(req *model.CreateJobRequest) error {
	switch {
	case req.Title == "":
		return apperrors.ValidationField("title", "title is required")
	case req.Description == "":
		return apperrors.ValidationField("description", "description is required")
	case !req.Status.Valid():
		return apperrors.ValidationField("status", fmt.Sprintf("unknown job status %q", req.Status))
	}
	return validateSalary(req.SalaryMin, req.SalaryMax)
}

func validateUpdateJob(req *model.UpdateJobRequest) error {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return apperrors.ValidationField("title", "title cannot be empty")
	}
	return validateSalary(req.SalaryMin, req.SalaryMax)
}

func validateSalary(lo, hi *float64) error {
	if (lo != nil && *lo < 0) || (hi != nil && *hi < 0) {
		return apperrors.ValidationField("salaryMin", "salary cannot be negative")
	}
	if lo != nil && hi != nil && *lo > *hi {
		return apperrors.ValidationField("salaryMax", "salaryMax must not be below salaryMin")
	}
	return nil
}

func mapJobErr(err error) error {
	if errors.Is(err, data.ErrJobNotFound) {
		return apperrors.NotFound("job not found")
	}
	return err
}
