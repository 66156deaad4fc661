package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agbarbie/Rural-Connect-sub000/config"
	"github.com/agbarbie/Rural-Connect-sub000/internal/core"
	"github.com/agbarbie/Rural-Connect-sub000/internal/data"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/application"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/profile"
	apperrors "github.com/agbarbie/Rural-Connect-sub000/internal/errors"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/metrics"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/statsd"
)

// Messages returned for eligibility failures.
const (
	msgJobNotAccepting      = "job not found or not accepting applications"
	msgProfileNotFound      = "profile not found"
	msgAlreadyApplied       = "already applied"
	msgAlreadyWithdrawn     = "already withdrawn"
	msgInvalidResume        = "invalid resume"
	msgApplicationNotFound  = "application not found"
	msgNothingToUpdate      = "no fields to update"
	msgNotYourJobPosting    = "application does not belong to one of your job postings"
	msgEmployerStatusNeeded = "status is required"
)

// ApplicationNotifier is the dispatch used after application changes commit.
type ApplicationNotifier interface {
	NotifyEmployerAboutApplication(ctx context.Context, ac *model.ApplicationContext) error
	NotifyEmployerAboutWithdrawal(ctx context.Context, ac *model.ApplicationContext) error
	NotifyJobseekerAboutApplicationStatus(ctx context.Context, ac *model.ApplicationContext, status model.ApplicationStatus) error
}

// ApplicationServiceOptions groups dependencies for ApplicationService.
type ApplicationServiceOptions struct {
	Repo     core.ApplicationRepository // Required: application store
	Notifier ApplicationNotifier        // Required: post-commit dispatch
	Async    *AsyncRunner               // Optional: defaults to a private runner
	Config   config.ApplicationConfig   // Completion threshold
	Now      func() time.Time           // Optional: clock, defaults to time.Now
	Logger   *slog.Logger               // Optional: structured logger
	Metrics  statsd.Sink                // Optional: metrics sink
}

// ApplicationService orchestrates the application lifecycle. Every state
// change and its counter move commit together; notifications follow the
// commit on a detached task.
type ApplicationService struct {
	repo     core.ApplicationRepository
	notifier ApplicationNotifier
	async    *AsyncRunner
	gate     profile.Gate
	now      func() time.Time
	logger   *slog.Logger
	metrics  statsd.Sink
}

// NewApplicationService constructs a new ApplicationService.
func NewApplicationService(opts ApplicationServiceOptions) (*ApplicationService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ApplicationRepository is required")
	}
	if opts.Notifier == nil {
		return nil, errors.New("ApplicationNotifier is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	async := opts.Async
	if async == nil {
		async = NewAsyncRunner(AsyncRunnerOptions{Logger: logger, Metrics: opts.Metrics})
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cfg := opts.Config
	cfg.Sanitize()
	return &ApplicationService{
		repo:     opts.Repo,
		notifier: opts.Notifier,
		async:    async,
		gate:     profile.Gate{Threshold: cfg.CompletionThreshold},
		now:      now,
		logger:   logger.With("component", "application_service"),
		metrics:  statsd.OrDiscard(opts.Metrics),
	}, nil
}

// MustNewApplicationService constructs an ApplicationService and panics on error.
func MustNewApplicationService(opts ApplicationServiceOptions) *ApplicationService {
	svc, err := NewApplicationService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create ApplicationService: %v", err))
	}
	return svc
}

// ApplyParams groups parameters for Apply.
type ApplyParams struct {
	UserID string
	JobID  string
	Input  model.ApplicationInput
}

// Apply submits an application. The job row stays locked until commit so the
// eligibility checks, the insert and the counter move are atomic.
func (s *ApplicationService) Apply(ctx context.Context, params ApplyParams) (*model.JobApplication, error) {
	start := time.Now()
	var app *model.JobApplication
	err := s.repo.WithTx(ctx, func(tx core.ApplicationTx) error {
		job, err := tx.GetJobForApply(ctx, params.JobID)
		if err != nil {
			if errors.Is(err, data.ErrJobNotFound) {
				return apperrors.NotFound(msgJobNotAccepting)
			}
			return fmt.Errorf("load job: %w", err)
		}
		if !job.AcceptingApplications(s.now()) {
			return apperrors.Ineligible(msgJobNotAccepting, nil)
		}

		prof, err := tx.GetProfile(ctx, params.UserID)
		if err != nil {
			if errors.Is(err, data.ErrProfileNotFound) {
				return apperrors.Ineligible(msgProfileNotFound, err)
			}
			return fmt.Errorf("load profile: %w", err)
		}
		if gateErr := s.gate.Check(profile.Score(prof)); gateErr != nil {
			return apperrors.Ineligible(gateErr.Error(), gateErr)
		}

		active, err := tx.FindActiveApplication(ctx, params.UserID, params.JobID)
		if err != nil {
			return fmt.Errorf("find active application: %w", err)
		}
		if active != nil {
			return apperrors.Conflict(msgAlreadyApplied)
		}
		if _, err = tx.DeleteInactiveApplications(ctx, params.UserID, params.JobID); err != nil {
			return fmt.Errorf("delete stale applications: %w", err)
		}

		if params.Input.ResumeID != nil {
			if err = s.checkResume(ctx, tx, *params.Input.ResumeID, params.UserID); err != nil {
				return err
			}
		}

		app, err = tx.InsertApplication(ctx, core.InsertApplicationParams{
			UserID: params.UserID,
			JobID:  params.JobID,
			Input:  params.Input,
		})
		if err != nil {
			if errors.Is(err, data.ErrDuplicateActiveApplication) {
				return apperrors.Conflict(msgAlreadyApplied)
			}
			return fmt.Errorf("insert application: %w", err)
		}
		if err = tx.AdjustApplicationsCount(ctx, params.JobID, 1); err != nil {
			return fmt.Errorf("increment applications count: %w", err)
		}
		return nil
	})
	s.emit("application.apply", start, err)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "application submitted",
		"application_id", app.ID, "job_id", app.JobID, "user_id", app.UserID)
	s.afterCommit(ctx, "notify_employer_application", app.ID, s.notifier.NotifyEmployerAboutApplication)
	return app, nil
}

// Withdraw withdraws one of the caller's applications by id.
func (s *ApplicationService) Withdraw(ctx context.Context, userID, applicationID string) (*model.JobApplication, error) {
	return s.withdraw(ctx, userID, func(tx core.ApplicationTx) (*model.JobApplication, error) {
		return tx.LockApplication(ctx, applicationID)
	})
}

// WithdrawByJob withdraws the caller's application to a job.
func (s *ApplicationService) WithdrawByJob(ctx context.Context, userID, jobID string) (*model.JobApplication, error) {
	return s.withdraw(ctx, userID, func(tx core.ApplicationTx) (*model.JobApplication, error) {
		return tx.LockApplicationForJob(ctx, userID, jobID)
	})
}

func (s *ApplicationService) withdraw(
	ctx context.Context,
	userID string,
	lock func(tx core.ApplicationTx) (*model.JobApplication, error),
) (*model.JobApplication, error) {
	start := time.Now()
	var app *model.JobApplication
	err := s.repo.WithTx(ctx, func(tx core.ApplicationTx) error {
		current, err := s.lockOwned(tx, userID, lock)
		if err != nil {
			return err
		}
		if err = application.CheckWithdraw(current.Status); err != nil {
			return lifecycleError(err)
		}
		app, err = tx.SetStatus(ctx, current.ID, model.ApplicationStatusWithdrawn)
		if err != nil {
			return fmt.Errorf("set status: %w", err)
		}
		if err = tx.AdjustApplicationsCount(ctx, current.JobID, -1); err != nil {
			return fmt.Errorf("decrement applications count: %w", err)
		}
		return nil
	})
	s.emit("application.withdraw", start, err)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "application withdrawn", "application_id", app.ID, "job_id", app.JobID)
	s.afterCommit(ctx, "notify_employer_withdrawal", app.ID, s.notifier.NotifyEmployerAboutWithdrawal)
	return app, nil
}

// UpdateApplicationParams groups parameters for UpdateApplication.
type UpdateApplicationParams struct {
	UserID        string
	ApplicationID string
	Patch         model.ApplicationPatch
}

// UpdateApplication edits a pending application.
func (s *ApplicationService) UpdateApplication(
	ctx context.Context,
	params UpdateApplicationParams,
) (*model.JobApplication, error) {
	if params.Patch.IsEmpty() {
		return nil, apperrors.Validation(msgNothingToUpdate)
	}
	start := time.Now()
	var app *model.JobApplication
	err := s.repo.WithTx(ctx, func(tx core.ApplicationTx) error {
		current, err := s.lockOwned(tx, params.UserID, func(tx core.ApplicationTx) (*model.JobApplication, error) {
			return tx.LockApplication(ctx, params.ApplicationID)
		})
		if err != nil {
			return err
		}
		if err = application.CheckUpdate(current.Status); err != nil {
			return lifecycleError(err)
		}
		if params.Patch.ResumeID != nil {
			if err = s.checkResume(ctx, tx, *params.Patch.ResumeID, params.UserID); err != nil {
				return err
			}
		}
		app, err = tx.UpdateFields(ctx, current.ID, params.Patch)
		if err != nil {
			if errors.Is(err, data.ErrApplicationNotEditable) {
				return lifecycleError(application.ErrNotEditable)
			}
			return fmt.Errorf("update application: %w", err)
		}
		return nil
	})
	s.emit("application.update", start, err)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// EmployerStatusParams groups parameters for UpdateStatusByEmployer.
type EmployerStatusParams struct {
	EmployerUserID string
	ApplicationID  string
	Status         model.ApplicationStatus
}

// UpdateStatusByEmployer moves an application along the employer side of the
// lifecycle and tells the applicant.
func (s *ApplicationService) UpdateStatusByEmployer(
	ctx context.Context,
	params EmployerStatusParams,
) (*model.JobApplication, error) {
	if params.Status == "" {
		return nil, apperrors.ValidationField("status", msgEmployerStatusNeeded)
	}
	if !params.Status.Valid() {
		return nil, apperrors.ValidationField("status", fmt.Sprintf("unknown status %q", params.Status))
	}
	start := time.Now()
	var app *model.JobApplication
	err := s.repo.WithTx(ctx, func(tx core.ApplicationTx) error {
		current, err := tx.LockApplication(ctx, params.ApplicationID)
		if err != nil {
			return notFoundApplication(err)
		}
		owner, err := tx.EmployerUserID(ctx, current.JobID)
		if err != nil {
			return fmt.Errorf("resolve employer: %w", err)
		}
		if owner != params.EmployerUserID {
			return apperrors.Forbidden(msgNotYourJobPosting)
		}
		if err = application.CheckEmployerTransition(current.Status, params.Status); err != nil {
			return lifecycleError(err)
		}
		app, err = tx.SetStatus(ctx, current.ID, params.Status)
		if err != nil {
			return fmt.Errorf("set status: %w", err)
		}
		return nil
	})
	s.emit("application.status_change", start, err)
	if err != nil {
		return nil, err
	}

	status := app.Status
	s.afterCommit(ctx, "notify_jobseeker_status", app.ID,
		func(ctx context.Context, ac *model.ApplicationContext) error {
			return s.notifier.NotifyJobseekerAboutApplicationStatus(ctx, ac, status)
		})
	return app, nil
}

// GetApplicationStatus reports whether the caller holds an active application to jobID.
func (s *ApplicationService) GetApplicationStatus(
	ctx context.Context,
	userID, jobID string,
) (*model.ApplicationStatusView, error) {
	view, err := s.repo.StatusForJob(ctx, userID, jobID)
	if err != nil {
		return nil, fmt.Errorf("application status: %w", err)
	}
	return view, nil
}

// GetAppliedJobs lists the caller's applications, newest first.
func (s *ApplicationService) GetAppliedJobs(
	ctx context.Context,
	opts model.AppliedJobsListOptions,
) (*model.AppliedJobsPage, error) {
	if opts.Status != nil && !opts.Status.Valid() {
		return nil, apperrors.ValidationField("status", fmt.Sprintf("unknown status %q", *opts.Status))
	}
	opts.Page, opts.Limit = model.NormalizePage(opts.Page, opts.Limit)
	page, err := s.repo.ListByUser(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("applied jobs: %w", err)
	}
	return page, nil
}

// GetStats counts the caller's applications by status.
func (s *ApplicationService) GetStats(ctx context.Context, userID string) (*model.ApplicationStats, error) {
	counts, err := s.repo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("application stats: %w", err)
	}
	stats := &model.ApplicationStats{}
	for _, st := range model.AllApplicationStatuses() {
		stats.Add(st, counts[st])
	}
	return stats, nil
}

// Wait drains post-commit tasks started by this service.
func (s *ApplicationService) Wait(ctx context.Context) error {
	return s.async.Wait(ctx)
}

func (s *ApplicationService) lockOwned(
	tx core.ApplicationTx,
	userID string,
	lock func(tx core.ApplicationTx) (*model.JobApplication, error),
) (*model.JobApplication, error) {
	app, err := lock(tx)
	if err != nil {
		return nil, notFoundApplication(err)
	}
	// Foreign applications are reported as missing.
	if app.UserID != userID {
		return nil, apperrors.NotFound(msgApplicationNotFound)
	}
	return app, nil
}

func (s *ApplicationService) checkResume(ctx context.Context, tx core.ApplicationTx, resumeID, userID string) error {
	owned, err := tx.ResumeOwnedBy(ctx, resumeID, userID)
	if err != nil {
		return fmt.Errorf("check resume: %w", err)
	}
	if !owned {
		return apperrors.ValidationField("resumeId", msgInvalidResume)
	}
	return nil
}

// afterCommit loads the application's parties and hands them to notify on a
// detached task. Failures are logged by the runner and never reach the caller.
func (s *ApplicationService) afterCommit(
	ctx context.Context,
	task, applicationID string,
	notify func(ctx context.Context, ac *model.ApplicationContext) error,
) {
	s.async.Go(ctx, task, func(ctx context.Context) error {
		ac, err := s.repo.GetContext(ctx, applicationID)
		if err != nil {
			return fmt.Errorf("load application context %s: %w", applicationID, err)
		}
		return notify(ctx, ac)
	})
}

func (s *ApplicationService) emit(name string, start time.Time, err error) {
	result := metrics.ResultFor(err)
	if apperrors.IsConflict(err) || apperrors.IsIneligible(err) {
		result = metrics.ResultNoop
	}
	metrics.Emit(s.metrics, metrics.Operation{Name: name, Result: result, Duration: time.Since(start), Err: err})
}

func notFoundApplication(err error) error {
	if errors.Is(err, data.ErrApplicationNotFound) {
		return apperrors.NotFound(msgApplicationNotFound)
	}
	return fmt.Errorf("lock application: %w", err)
}

// lifecycleError maps state machine failures onto the caller-facing codes.
func lifecycleError(err error) error {
	if errors.Is(err, application.ErrAlreadyWithdrawn) {
		return apperrors.Conflict(msgAlreadyWithdrawn)
	}
	return apperrors.Ineligible(err.Error(), err)
}
