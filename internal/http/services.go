package httpx

import (
	"context"

	domainauth "github.com/agbarbie/Rural-Connect-sub000/internal/domain/auth"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
	"github.com/agbarbie/Rural-Connect-sub000/internal/service"
)

// ApplicationsService is the slice of service.ApplicationService the API uses.
type ApplicationsService interface {
	Apply(ctx context.Context, params service.ApplyParams) (*model.JobApplication, error)
	Withdraw(ctx context.Context, userID, applicationID string) (*model.JobApplication, error)
	WithdrawByJob(ctx context.Context, userID, jobID string) (*model.JobApplication, error)
	UpdateApplication(ctx context.Context, params service.UpdateApplicationParams) (*model.JobApplication, error)
	UpdateStatusByEmployer(ctx context.Context, params service.EmployerStatusParams) (*model.JobApplication, error)
	GetApplicationStatus(ctx context.Context, userID, jobID string) (*model.ApplicationStatusView, error)
	GetAppliedJobs(ctx context.Context, opts model.AppliedJobsListOptions) (*model.AppliedJobsPage, error)
	GetStats(ctx context.Context, userID string) (*model.ApplicationStats, error)
}

// NotificationsService is the slice of service.NotificationService the API uses.
type NotificationsService interface {
	GetNotifications(ctx context.Context, params service.ListNotificationsParams) (*model.NotificationPage, error)
	UnreadCount(ctx context.Context, userID string, role domainauth.Role) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) error
}

// JobsService is the slice of service.JobService the API uses.
type JobsService interface {
	Get(ctx context.Context, jobID string) (*model.JobWithCompany, error)
	Create(ctx context.Context, employerUserID string, req *model.CreateJobRequest) (*model.JobWithCompany, error)
	Update(ctx context.Context, employerUserID, jobID string, req *model.UpdateJobRequest) (*model.JobWithCompany, error)
	SetStatus(ctx context.Context, employerUserID, jobID string, status model.JobStatus) (*model.JobWithCompany, error)
	Delete(ctx context.Context, employerUserID, jobID string) error
}

// BookmarksService is the slice of service.BookmarkService the API uses.
type BookmarksService interface {
	Save(ctx context.Context, userID, jobID string) (*model.Bookmark, error)
	Remove(ctx context.Context, userID, jobID string) error
	List(ctx context.Context, opts model.BookmarkListOptions) (*model.SavedJobsPage, error)
}

// Compile-time conformance of the concrete services.
var (
	_ ApplicationsService  = (*service.ApplicationService)(nil)
	_ NotificationsService = (*service.NotificationService)(nil)
	_ JobsService          = (*service.JobService)(nil)
	_ BookmarksService     = (*service.BookmarkService)(nil)
)
