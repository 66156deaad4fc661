package core

import (
	"context"
	"time"

	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// ApplicationTx is the set of statements the application orchestrator issues
// inside one transaction. Implementations must not be used after the
// enclosing WithTx callback returns.
type ApplicationTx interface {
	// GetJobForApply loads the job and locks its row until commit, so its
	// status cannot change and counter updates on it serialize.
	GetJobForApply(ctx context.Context, jobID string) (*model.Job, error)
	GetProfile(ctx context.Context, userID string) (*model.JobseekerProfile, error)
	// FindActiveApplication returns nil, nil when the pair has no active application.
	FindActiveApplication(ctx context.Context, userID, jobID string) (*model.JobApplication, error)
	DeleteInactiveApplications(ctx context.Context, userID, jobID string) (int64, error)
	ResumeOwnedBy(ctx context.Context, resumeID, userID string) (bool, error)
	InsertApplication(ctx context.Context, params InsertApplicationParams) (*model.JobApplication, error)
	// AdjustApplicationsCount moves the job counter by delta at the store, floored at zero.
	AdjustApplicationsCount(ctx context.Context, jobID string, delta int) error
	LockApplication(ctx context.Context, id string) (*model.JobApplication, error)
	// LockApplicationForJob locks the caller's most relevant application to a
	// job: the active one if any, otherwise the latest.
	LockApplicationForJob(ctx context.Context, userID, jobID string) (*model.JobApplication, error)
	SetStatus(ctx context.Context, id string, status model.ApplicationStatus) (*model.JobApplication, error)
	UpdateFields(ctx context.Context, id string, patch model.ApplicationPatch) (*model.JobApplication, error)
	EmployerUserID(ctx context.Context, jobID string) (string, error)
}

// InsertApplicationParams groups parameters for ApplicationTx.InsertApplication.
type InsertApplicationParams struct {
	UserID string
	JobID  string
	Input  model.ApplicationInput
}

// ApplicationRepository defines the interface for job application data operations.
type ApplicationRepository interface {
	WithTx(ctx context.Context, fn func(tx ApplicationTx) error) error
	GetByID(ctx context.Context, id string) (*model.JobApplication, error)
	StatusForJob(ctx context.Context, userID, jobID string) (*model.ApplicationStatusView, error)
	ListByUser(ctx context.Context, opts model.AppliedJobsListOptions) (*model.AppliedJobsPage, error)
	CountByStatus(ctx context.Context, userID string) (map[model.ApplicationStatus]int, error)
	// GetContext joins an application with its applicant, job and employer user.
	GetContext(ctx context.Context, applicationID string) (*model.ApplicationContext, error)
}

// CounterDrift is one job whose applications_count disagrees with its active applications.
type CounterDrift struct {
	JobID    string `db:"job_id"`
	Title    string `db:"title"`
	Stored   int    `db:"stored"`
	Computed int    `db:"computed"`
}

// CounterAuditRepository supports operator checks of the denormalized counter.
type CounterAuditRepository interface {
	FindCounterDrift(ctx context.Context, limit int) ([]CounterDrift, error)
	RepairCounters(ctx context.Context, jobIDs []string) (int64, error)
}

// JobRepository defines the interface for job posting data operations.
type JobRepository interface {
	Create(ctx context.Context, employerID string, req *model.CreateJobRequest) (*model.Job, error)
	GetWithCompany(ctx context.Context, id string) (*model.JobWithCompany, error)
	Update(ctx context.Context, id string, req *model.UpdateJobRequest) (*model.Job, error)
	SetStatus(ctx context.Context, id string, status model.JobStatus) (*model.Job, error)
	Delete(ctx context.Context, id string) error
	EmployerIDForUser(ctx context.Context, userID string) (string, error)
}

// UserRepository resolves user accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// NotificationRepository is the notification store.
type NotificationRepository interface {
	Create(ctx context.Context, req *model.CreateNotificationRequest) (*model.Notification, error)
	List(ctx context.Context, opts model.NotificationListOptions) (*model.NotificationPage, error)
	CountUnread(ctx context.Context, userID string, types []model.NotificationType) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) error
}

// AudienceQuery selects one keyset page of a broadcast audience.
type AudienceQuery struct {
	After string // exclusive user id cursor; "" starts from the beginning
	Limit int
}

// NewJobCriteria describes a job for new-job audience matching.
type NewJobCriteria struct {
	Skills         []string
	Location       string
	EmploymentType string
}

// AudienceRepository computes broadcast recipients in user id order.
type AudienceRepository interface {
	NewJobCandidates(ctx context.Context, criteria NewJobCriteria, q AudienceQuery) ([]model.Recipient, error)
	BookmarkHolders(ctx context.Context, jobID string, q AudienceQuery) ([]model.Recipient, error)
}

// BookmarkRepository defines the interface for saved job data operations.
type BookmarkRepository interface {
	Create(ctx context.Context, userID, jobID string) (*model.Bookmark, error)
	Delete(ctx context.Context, userID, jobID string) error
	List(ctx context.Context, opts model.BookmarkListOptions) (*model.SavedJobsPage, error)
}

// RetentionRepository deletes aged rows in bounded batches.
type RetentionRepository interface {
	DeleteReadNotifications(ctx context.Context, params RetentionParams) (int64, error)
	DeleteInactiveApplications(ctx context.Context, params RetentionParams) (int64, error)
}

// RetentionParams groups parameters for retention deletes.
type RetentionParams struct {
	MaxAge    time.Duration
	BatchSize int
}
