package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/agbarbie/Rural-Connect-sub000/config"
	"github.com/agbarbie/Rural-Connect-sub000/internal/core"
	"github.com/agbarbie/Rural-Connect-sub000/internal/data"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
	apperrors "github.com/agbarbie/Rural-Connect-sub000/internal/errors"
	"github.com/agbarbie/Rural-Connect-sub000/internal/mocks"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/statsd"
)

const (
	testUserID     = "8b7a3c1e-0000-4000-8000-000000000001"
	testJobID      = "8b7a3c1e-0000-4000-8000-000000000002"
	testAppID      = "8b7a3c1e-0000-4000-8000-000000000003"
	testEmployerID = "8b7a3c1e-0000-4000-8000-000000000004"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type appHarness struct {
	repo     *mocks.MockApplicationRepository
	tx       *mocks.MockApplicationTx
	notifier *recordingNotifier
	metrics  *statsd.Recorder
	svc      *ApplicationService
}

func newAppHarness(t *testing.T) *appHarness {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := &appHarness{
		repo:     mocks.NewMockApplicationRepository(ctrl),
		tx:       mocks.NewMockApplicationTx(ctrl),
		notifier: &recordingNotifier{},
		metrics:  statsd.NewRecorder(),
	}
	h.repo.EXPECT().WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(core.ApplicationTx) error) error {
			return fn(h.tx)
		}).AnyTimes()
	h.svc = MustNewApplicationService(ApplicationServiceOptions{
		Repo:     h.repo,
		Notifier: h.notifier,
		Config:   config.ApplicationConfig{CompletionThreshold: 70},
		Now:      func() time.Time { return testNow },
		Metrics:  h.metrics,
	})
	return h
}

func (h *appHarness) drain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.svc.Wait(ctx))
}

func activeJob() *model.Job {
	return &model.Job{ID: testJobID, EmployerID: testEmployerID, Title: "Farm Manager", Status: model.JobStatusActive}
}

func completeProfile() *model.JobseekerProfile {
	return &model.JobseekerProfile{
		UserID:            testUserID,
		FullName:          "Amina Wanjiru",
		Phone:             ptrTo("+254700000000"),
		Location:          ptrTo("Nakuru"),
		Bio:               ptrTo("Agronomist with field experience in smallholder maize and dairy value chains."),
		Skills:            []string{"agronomy", "irrigation", "bookkeeping"},
		LinkedInURL:       ptrTo("https://linkedin.com/in/amina"),
		YearsOfExperience: 4,
		CurrentPosition:   ptrTo("Field Officer"),
	}
}

func pendingApp() *model.JobApplication {
	return &model.JobApplication{
		ID: testAppID, UserID: testUserID, JobID: testJobID,
		Status: model.ApplicationStatusPending, AppliedAt: testNow, UpdatedAt: testNow,
	}
}

func testAppContext() *model.ApplicationContext {
	return &model.ApplicationContext{
		ApplicationID: testAppID, ApplicantID: testUserID, ApplicantName: "Amina Wanjiru",
		JobID: testJobID, JobTitle: "Farm Manager", CompanyName: "Green Acres", EmployerUserID: "employer-user",
	}
}

func requireAppError(t *testing.T, err error, code apperrors.ErrorCode, msg string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	if msg != "" {
		assert.Contains(t, appErr.Message, msg)
	}
}

func TestApplicationService_Apply(t *testing.T) {
	t.Run("creates pending application, bumps counter and notifies employer", func(t *testing.T) {
		h := newAppHarness(t)
		ctx := context.Background()
		resumeID := "resume-1"
		input := model.ApplicationInput{CoverLetter: "I grow things", ResumeID: &resumeID}

		gomock.InOrder(
			h.tx.EXPECT().GetJobForApply(ctx, testJobID).Return(activeJob(), nil),
			h.tx.EXPECT().GetProfile(ctx, testUserID).Return(completeProfile(), nil),
			h.tx.EXPECT().FindActiveApplication(ctx, testUserID, testJobID).Return(nil, nil),
			h.tx.EXPECT().DeleteInactiveApplications(ctx, testUserID, testJobID).Return(int64(0), nil),
			h.tx.EXPECT().ResumeOwnedBy(ctx, resumeID, testUserID).Return(true, nil),
			h.tx.EXPECT().InsertApplication(ctx, core.InsertApplicationParams{
				UserID: testUserID, JobID: testJobID, Input: input,
			}).Return(pendingApp(), nil),
			h.tx.EXPECT().AdjustApplicationsCount(ctx, testJobID, 1).Return(nil),
		)
		h.repo.EXPECT().GetContext(gomock.Any(), testAppID).Return(testAppContext(), nil)

		app, err := h.svc.Apply(ctx, ApplyParams{UserID: testUserID, JobID: testJobID, Input: input})
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationStatusPending, app.Status)

		h.drain(t)
		got := h.notifier.snapshot()
		require.Len(t, got.received, 1)
		assert.Equal(t, "employer-user", got.received[0].EmployerUserID)
		assert.Equal(t, "success", h.metrics.Counts("application.apply")[0].Tags["result"])
	})

	t.Run("re-application deletes the stale row before inserting a fresh one", func(t *testing.T) {
		h := newAppHarness(t)
		ctx := context.Background()
		fresh := pendingApp()
		fresh.ID = "fresh-id"

		h.tx.EXPECT().GetJobForApply(ctx, testJobID).Return(activeJob(), nil)
		h.tx.EXPECT().GetProfile(ctx, testUserID).Return(completeProfile(), nil)
		h.tx.EXPECT().FindActiveApplication(ctx, testUserID, testJobID).Return(nil, nil)
		gomock.InOrder(
			h.tx.EXPECT().DeleteInactiveApplications(ctx, testUserID, testJobID).Return(int64(1), nil),
			h.tx.EXPECT().InsertApplication(ctx, gomock.Any()).Return(fresh, nil),
			h.tx.EXPECT().AdjustApplicationsCount(ctx, testJobID, 1).Return(nil),
		)
		h.repo.EXPECT().GetContext(gomock.Any(), "fresh-id").Return(testAppContext(), nil)

		app, err := h.svc.Apply(ctx, ApplyParams{UserID: testUserID, JobID: testJobID})
		require.NoError(t, err)
		assert.Equal(t, "fresh-id", app.ID)
		assert.Equal(t, model.ApplicationStatusPending, app.Status)
		h.drain(t)
	})

	t.Run("rejects a closed job", func(t *testing.T) {
		h := newAppHarness(t)
		job := activeJob()
		job.Status = model.JobStatusClosed
		h.tx.EXPECT().GetJobForApply(gomock.Any(), testJobID).Return(job, nil)

		_, err := h.svc.Apply(context.Background(), ApplyParams{UserID: testUserID, JobID: testJobID})
		requireAppError(t, err, apperrors.ErrCodeIneligible, "job not found or not accepting applications")
	})

	t.Run("rejects a job past its deadline", func(t *testing.T) {
		h := newAppHarness(t)
		job := activeJob()
		job.ApplicationDeadline = ptrTo(testNow.Add(-time.Hour))
		h.tx.EXPECT().GetJobForApply(gomock.Any(), testJobID).Return(job, nil)

		_, err := h.svc.Apply(context.Background(), ApplyParams{UserID: testUserID, JobID: testJobID})
		requireAppError(t, err, apperrors.ErrCodeIneligible, "not accepting applications")
	})

	t.Run("missing job is not found", func(t *testing.T) {
		h := newAppHarness(t)
		h.tx.EXPECT().GetJobForApply(gomock.Any(), testJobID).Return(nil, data.ErrJobNotFound)

		_, err := h.svc.Apply(context.Background(), ApplyParams{UserID: testUserID, JobID: testJobID})
		requireAppError(t, err, apperrors.ErrCodeNotFound, "job not found or not accepting applications")
	})

	t.Run("missing profile", func(t *testing.T) {
		h := newAppHarness(t)
		h.tx.EXPECT().GetJobForApply(gomock.Any(), testJobID).Return(activeJob(), nil)
		h.tx.EXPECT().GetProfile(gomock.Any(), testUserID).Return(nil, data.ErrProfileNotFound)

		_, err := h.svc.Apply(context.Background(), ApplyParams{UserID: testUserID, JobID: testJobID})
		requireAppError(t, err, apperrors.ErrCodeIneligible, "profile not found")
	})

	t.Run("incomplete profile states the percentage", func(t *testing.T) {
		h := newAppHarness(t)
		prof := completeProfile()
		prof.Bio = ptrTo("too short")
		prof.Skills = []string{"agronomy"}
		h.tx.EXPECT().GetJobForApply(gomock.Any(), testJobID).Return(activeJob(), nil)
		h.tx.EXPECT().GetProfile(gomock.Any(), testUserID).Return(prof, nil)

		_, err := h.svc.Apply(context.Background(), ApplyParams{UserID: testUserID, JobID: testJobID})
		requireAppError(t, err, apperrors.ErrCodeIneligible, "60%")
		assert.Contains(t, err.Error(), "70%")
	})

	t.Run("already applied", func(t *testing.T) {
		h := newAppHarness(t)
		h.tx.EXPECT().GetJobForApply(gomock.Any(), testJobID).Return(activeJob(), nil)
		h.tx.EXPECT().GetProfile(gomock.Any(), testUserID).Return(completeProfile(), nil)
		h.tx.EXPECT().FindActiveApplication(gomock.Any(), testUserID, testJobID).Return(pendingApp(), nil)

		_, err := h.svc.Apply(context.Background(), ApplyParams{UserID: testUserID, JobID: testJobID})
		requireAppError(t, err, apperrors.ErrCodeConflict, "already applied")
		assert.Equal(t, "noop", h.metrics.Counts("application.apply")[0].Tags["result"])
	})

	t.Run("concurrent duplicate caught by the unique index", func(t *testing.T) {
		h := newAppHarness(t)
		h.tx.EXPECT().GetJobForApply(gomock.Any(), testJobID).Return(activeJob(), nil)
		h.tx.EXPECT().GetProfile(gomock.Any(), testUserID).Return(completeProfile(), nil)
		h.tx.EXPECT().FindActiveApplication(gomock.Any(), testUserID, testJobID).Return(nil, nil)
		h.tx.EXPECT().DeleteInactiveApplications(gomock.Any(), testUserID, testJobID).Return(int64(0), nil)
		h.tx.EXPECT().InsertApplication(gomock.Any(), gomock.Any()).Return(nil, data.ErrDuplicateActiveApplication)

		_, err := h.svc.Apply(context.Background(), ApplyParams{UserID: testUserID, JobID: testJobID})
		requireAppError(t, err, apperrors.ErrCodeConflict, "already applied")
	})

	t.Run("foreign resume is rejected", func(t *testing.T) {
		h := newAppHarness(t)
		h.tx.EXPECT().GetJobForApply(gomock.Any(), testJobID).Return(activeJob(), nil)
		h.tx.EXPECT().GetProfile(gomock.Any(), testUserID).Return(completeProfile(), nil)
		h.tx.EXPECT().FindActiveApplication(gomock.Any(), testUserID, testJobID).Return(nil, nil)
		h.tx.EXPECT().DeleteInactiveApplications(gomock.Any(), testUserID, testJobID).Return(int64(0), nil)
		h.tx.EXPECT().ResumeOwnedBy(gomock.Any(), "someone-elses", testUserID).Return(false, nil)

		_, err := h.svc.Apply(context.Background(), ApplyParams{
			UserID: testUserID, JobID: testJobID,
			Input: model.ApplicationInput{ResumeID: ptrTo("someone-elses")},
		})
		requireAppError(t, err, apperrors.ErrCodeValidation, "invalid resume")
		assert.Equal(t, "resumeId", apperrors.GetField(err))
	})

	t.Run("counter failure fails the whole apply without notifying", func(t *testing.T) {
		h := newAppHarness(t)
		h.tx.EXPECT().GetJobForApply(gomock.Any(), testJobID).Return(activeJob(), nil)
		h.tx.EXPECT().GetProfile(gomock.Any(), testUserID).Return(completeProfile(), nil)
		h.tx.EXPECT().FindActiveApplication(gomock.Any(), testUserID, testJobID).Return(nil, nil)
		h.tx.EXPECT().DeleteInactiveApplications(gomock.Any(), testUserID, testJobID).Return(int64(0), nil)
		h.tx.EXPECT().InsertApplication(gomock.Any(), gomock.Any()).Return(pendingApp(), nil)
		h.tx.EXPECT().AdjustApplicationsCount(gomock.Any(), testJobID, 1).Return(errors.New("connection reset"))

		app, err := h.svc.Apply(context.Background(), ApplyParams{UserID: testUserID, JobID: testJobID})
		require.Error(t, err)
		assert.Nil(t, app)
		assert.Contains(t, err.Error(), "increment applications count")
		h.drain(t)
		assert.Empty(t, h.notifier.snapshot().received)
	})

	t.Run("notification failure never fails the apply", func(t *testing.T) {
		h := newAppHarness(t)
		h.notifier.err = errors.New("store down")
		h.tx.EXPECT().GetJobForApply(gomock.Any(), testJobID).Return(activeJob(), nil)
		h.tx.EXPECT().GetProfile(gomock.Any(), testUserID).Return(completeProfile(), nil)
		h.tx.EXPECT().FindActiveApplication(gomock.Any(), testUserID, testJobID).Return(nil, nil)
		h.tx.EXPECT().DeleteInactiveApplications(gomock.Any(), testUserID, testJobID).Return(int64(0), nil)
		h.tx.EXPECT().InsertApplication(gomock.Any(), gomock.Any()).Return(pendingApp(), nil)
		h.tx.EXPECT().AdjustApplicationsCount(gomock.Any(), testJobID, 1).Return(nil)
		h.repo.EXPECT().GetContext(gomock.Any(), testAppID).Return(testAppContext(), nil)

		app, err := h.svc.Apply(context.Background(), ApplyParams{UserID: testUserID, JobID: testJobID})
		require.NoError(t, err)
		require.NotNil(t, app)
		h.drain(t)
		assert.Equal(t, "error", h.metrics.Counts("async.task")[0].Tags["result"])
	})
}

func TestApplicationService_Withdraw(t *testing.T) {
	t.Run("withdraws once then reports already withdrawn", func(t *testing.T) {
		h := newAppHarness(t)
		ctx := context.Background()
		withdrawn := pendingApp()
		withdrawn.Status = model.ApplicationStatusWithdrawn

		gomock.InOrder(
			h.tx.EXPECT().LockApplication(ctx, testAppID).Return(pendingApp(), nil),
			h.tx.EXPECT().SetStatus(ctx, testAppID, model.ApplicationStatusWithdrawn).Return(withdrawn, nil),
			h.tx.EXPECT().AdjustApplicationsCount(ctx, testJobID, -1).Return(nil),
			h.tx.EXPECT().LockApplication(ctx, testAppID).Return(withdrawn, nil),
		)
		h.repo.EXPECT().GetContext(gomock.Any(), testAppID).Return(testAppContext(), nil)

		app, err := h.svc.Withdraw(ctx, testUserID, testAppID)
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationStatusWithdrawn, app.Status)

		_, err = h.svc.Withdraw(ctx, testUserID, testAppID)
		requireAppError(t, err, apperrors.ErrCodeConflict, "already withdrawn")

		h.drain(t)
		assert.Len(t, h.notifier.snapshot().withdrawn, 1)
	})

	t.Run("terminal applications are immutable", func(t *testing.T) {
		for _, st := range []model.ApplicationStatus{model.ApplicationStatusAccepted, model.ApplicationStatusRejected} {
			h := newAppHarness(t)
			app := pendingApp()
			app.Status = st
			h.tx.EXPECT().LockApplication(gomock.Any(), testAppID).Return(app, nil)

			_, err := h.svc.Withdraw(context.Background(), testUserID, testAppID)
			requireAppError(t, err, apperrors.ErrCodeIneligible, string(st))
		}
	})

	t.Run("foreign application is not found", func(t *testing.T) {
		h := newAppHarness(t)
		app := pendingApp()
		app.UserID = "someone-else"
		h.tx.EXPECT().LockApplication(gomock.Any(), testAppID).Return(app, nil)

		_, err := h.svc.Withdraw(context.Background(), testUserID, testAppID)
		requireAppError(t, err, apperrors.ErrCodeNotFound, "application not found")
	})

	t.Run("by job locks the caller's application to that job", func(t *testing.T) {
		h := newAppHarness(t)
		withdrawn := pendingApp()
		withdrawn.Status = model.ApplicationStatusWithdrawn
		h.tx.EXPECT().LockApplicationForJob(gomock.Any(), testUserID, testJobID).Return(pendingApp(), nil)
		h.tx.EXPECT().SetStatus(gomock.Any(), testAppID, model.ApplicationStatusWithdrawn).Return(withdrawn, nil)
		h.tx.EXPECT().AdjustApplicationsCount(gomock.Any(), testJobID, -1).Return(nil)
		h.repo.EXPECT().GetContext(gomock.Any(), testAppID).Return(testAppContext(), nil)

		_, err := h.svc.WithdrawByJob(context.Background(), testUserID, testJobID)
		require.NoError(t, err)
		h.drain(t)
	})

	t.Run("by job without an application", func(t *testing.T) {
		h := newAppHarness(t)
		h.tx.EXPECT().LockApplicationForJob(gomock.Any(), testUserID, testJobID).Return(nil, data.ErrApplicationNotFound)

		_, err := h.svc.WithdrawByJob(context.Background(), testUserID, testJobID)
		requireAppError(t, err, apperrors.ErrCodeNotFound, "application not found")
	})
}

func TestApplicationService_UpdateApplication(t *testing.T) {
	t.Run("empty patch", func(t *testing.T) {
		h := newAppHarness(t)
		_, err := h.svc.UpdateApplication(context.Background(), UpdateApplicationParams{UserID: testUserID, ApplicationID: testAppID})
		requireAppError(t, err, apperrors.ErrCodeValidation, "no fields")
	})

	t.Run("pending application is updated", func(t *testing.T) {
		h := newAppHarness(t)
		patch := model.ApplicationPatch{CoverLetter: ptrTo("new letter")}
		updated := pendingApp()
		updated.CoverLetter = "new letter"
		h.tx.EXPECT().LockApplication(gomock.Any(), testAppID).Return(pendingApp(), nil)
		h.tx.EXPECT().UpdateFields(gomock.Any(), testAppID, patch).Return(updated, nil)

		app, err := h.svc.UpdateApplication(context.Background(), UpdateApplicationParams{
			UserID: testUserID, ApplicationID: testAppID, Patch: patch,
		})
		require.NoError(t, err)
		assert.Equal(t, "new letter", app.CoverLetter)
	})

	t.Run("reviewed application can no longer be edited", func(t *testing.T) {
		h := newAppHarness(t)
		app := pendingApp()
		app.Status = model.ApplicationStatusReviewed
		h.tx.EXPECT().LockApplication(gomock.Any(), testAppID).Return(app, nil)

		_, err := h.svc.UpdateApplication(context.Background(), UpdateApplicationParams{
			UserID: testUserID, ApplicationID: testAppID, Patch: model.ApplicationPatch{CoverLetter: ptrTo("x")},
		})
		requireAppError(t, err, apperrors.ErrCodeIneligible, "only pending applications can be updated")
	})
}

func TestApplicationService_UpdateStatusByEmployer(t *testing.T) {
	t.Run("moves the application and tells the applicant", func(t *testing.T) {
		h := newAppHarness(t)
		shortlisted := pendingApp()
		shortlisted.Status = model.ApplicationStatusShortlisted
		h.tx.EXPECT().LockApplication(gomock.Any(), testAppID).Return(pendingApp(), nil)
		h.tx.EXPECT().EmployerUserID(gomock.Any(), testJobID).Return("employer-user", nil)
		h.tx.EXPECT().SetStatus(gomock.Any(), testAppID, model.ApplicationStatusShortlisted).Return(shortlisted, nil)
		h.repo.EXPECT().GetContext(gomock.Any(), testAppID).Return(testAppContext(), nil)

		app, err := h.svc.UpdateStatusByEmployer(context.Background(), EmployerStatusParams{
			EmployerUserID: "employer-user", ApplicationID: testAppID, Status: model.ApplicationStatusShortlisted,
		})
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationStatusShortlisted, app.Status)
		h.drain(t)
		assert.Equal(t, []model.ApplicationStatus{model.ApplicationStatusShortlisted}, h.notifier.snapshot().statuses)
	})

	t.Run("other employers are forbidden", func(t *testing.T) {
		h := newAppHarness(t)
		h.tx.EXPECT().LockApplication(gomock.Any(), testAppID).Return(pendingApp(), nil)
		h.tx.EXPECT().EmployerUserID(gomock.Any(), testJobID).Return("employer-user", nil)

		_, err := h.svc.UpdateStatusByEmployer(context.Background(), EmployerStatusParams{
			EmployerUserID: "intruder", ApplicationID: testAppID, Status: model.ApplicationStatusReviewed,
		})
		requireAppError(t, err, apperrors.ErrCodeForbidden, "")
	})

	t.Run("accepted is final", func(t *testing.T) {
		h := newAppHarness(t)
		app := pendingApp()
		app.Status = model.ApplicationStatusAccepted
		h.tx.EXPECT().LockApplication(gomock.Any(), testAppID).Return(app, nil)
		h.tx.EXPECT().EmployerUserID(gomock.Any(), testJobID).Return("employer-user", nil)

		_, err := h.svc.UpdateStatusByEmployer(context.Background(), EmployerStatusParams{
			EmployerUserID: "employer-user", ApplicationID: testAppID, Status: model.ApplicationStatusRejected,
		})
		requireAppError(t, err, apperrors.ErrCodeIneligible, "")
	})

	t.Run("unknown status", func(t *testing.T) {
		h := newAppHarness(t)
		_, err := h.svc.UpdateStatusByEmployer(context.Background(), EmployerStatusParams{
			EmployerUserID: "employer-user", ApplicationID: testAppID, Status: "hired",
		})
		requireAppError(t, err, apperrors.ErrCodeValidation, "unknown status")
	})
}

func TestApplicationService_Reads(t *testing.T) {
	h := newAppHarness(t)
	ctx := context.Background()

	h.repo.EXPECT().CountByStatus(ctx, testUserID).Return(map[model.ApplicationStatus]int{
		model.ApplicationStatusPending:   2,
		model.ApplicationStatusAccepted:  1,
		model.ApplicationStatusWithdrawn: 3,
	}, nil)
	stats, err := h.svc.GetStats(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 3, stats.Active)
	assert.Equal(t, 3, stats.Withdrawn)

	h.repo.EXPECT().ListByUser(ctx, model.AppliedJobsListOptions{UserID: testUserID, Page: 1, Limit: 100}).
		Return(&model.AppliedJobsPage{}, nil)
	_, err = h.svc.GetAppliedJobs(ctx, model.AppliedJobsListOptions{UserID: testUserID, Limit: 500})
	require.NoError(t, err)

	bad := model.ApplicationStatus("bogus")
	_, err = h.svc.GetAppliedJobs(ctx, model.AppliedJobsListOptions{UserID: testUserID, Status: &bad})
	requireAppError(t, err, apperrors.ErrCodeValidation, "unknown status")

	h.repo.EXPECT().StatusForJob(ctx, testUserID, testJobID).Return(&model.ApplicationStatusView{HasApplied: false}, nil)
	view, err := h.svc.GetApplicationStatus(ctx, testUserID, testJobID)
	require.NoError(t, err)
	assert.False(t, view.HasApplied)
}
