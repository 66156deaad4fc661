package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agbarbie/Rural-Connect-sub000/internal/core"
	"github.com/agbarbie/Rural-Connect-sub000/internal/data"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/auth"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
	apperrors "github.com/agbarbie/Rural-Connect-sub000/internal/errors"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/metrics"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/statsd"
)

// ErrRoleMismatch is wrapped into the error returned when a notification type
// is sent to a user whose role may not receive it. It always indicates a
// caller bug.
var ErrRoleMismatch = errors.New("notification type not allowed for recipient role")

const titleFallbackRunes = 50

var notificationTitles = map[model.NotificationType]string{
	model.NotificationApplicationReceived:    "New Application Received",
	model.NotificationApplicationWithdrawn:   "Application Withdrawn",
	model.NotificationApplicationReviewed:    "Application Reviewed",
	model.NotificationApplicationShortlisted: "You've Been Shortlisted!",
	model.NotificationApplicationAccepted:    "Application Accepted!",
	model.NotificationApplicationRejected:    "Application Update",
	model.NotificationNewJobMatch:            "New Job Match",
	model.NotificationSavedJobUpdated:        "Saved Job Updated",
	model.NotificationSavedJobClosed:         "Saved Job Closed",
	model.NotificationSavedJobFilled:         "Saved Job Filled",
	model.NotificationSavedJobDeleted:        "Saved Job Removed",
}

// TitleFor returns the fixed title of t, or the first 50 runes of message
// followed by "..." when t has no table entry. CreateNotification rejects
// unknown types first; the fallback serves callers outside the dispatcher.
func TitleFor(t model.NotificationType, message string) string {
	if title, ok := notificationTitles[t]; ok {
		return title
	}
	message = strings.TrimSpace(message)
	if utf8.RuneCountInString(message) <= titleFallbackRunes {
		return message
	}
	return string([]rune(message)[:titleFallbackRunes]) + "..."
}

// ComposeMessage renders the human-readable body of a notification.
func ComposeMessage(p model.NotificationPayload) string {
	switch v := p.(type) {
	case model.ApplicationReceivedPayload:
		return fmt.Sprintf("%s applied for %s.", orDefault(v.ApplicantName, "A jobseeker"), v.JobTitle)
	case model.ApplicationWithdrawnPayload:
		return fmt.Sprintf("%s withdrew their application for %s.", orDefault(v.ApplicantName, "A jobseeker"), v.JobTitle)
	case model.ApplicationStatusPayload:
		at := jobAt(v.JobTitle, v.CompanyName)
		switch v.Status {
		case model.ApplicationStatusReviewed:
			return fmt.Sprintf("Your application for %s has been reviewed.", at)
		case model.ApplicationStatusShortlisted:
			return fmt.Sprintf("Good news! You have been shortlisted for %s.", at)
		case model.ApplicationStatusAccepted:
			return fmt.Sprintf("Congratulations! Your application for %s has been accepted.", at)
		case model.ApplicationStatusRejected:
			return fmt.Sprintf("Your application for %s was not successful this time.", at)
		default:
			return fmt.Sprintf("Your application for %s is now %s.", at, v.Status)
		}
	case model.NewJobMatchPayload:
		msg := fmt.Sprintf("%s posted %s", orDefault(v.CompanyName, "An employer"), v.JobTitle)
		if v.Location != "" {
			msg += " in " + v.Location
		}
		if len(v.MatchReasons) > 0 {
			msg += ", matching your " + strings.ReplaceAll(strings.Join(v.MatchReasons, ", "), "_", " ")
		}
		return msg + "."
	case model.SavedJobPayload:
		at := jobAt(v.JobTitle, v.CompanyName)
		switch v.Change {
		case model.SavedJobClosed:
			return fmt.Sprintf("%s is no longer accepting applications.", at)
		case model.SavedJobFilled:
			return fmt.Sprintf("%s has been filled.", at)
		case model.SavedJobDeleted:
			return fmt.Sprintf("%s was removed by the employer.", at)
		default:
			return fmt.Sprintf("%s was updated.", at)
		}
	default:
		return ""
	}
}

func jobAt(title, company string) string {
	if company == "" {
		return title
	}
	return title + " at " + company
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// NotificationServiceOptions groups dependencies for NotificationService.
type NotificationServiceOptions struct {
	Repo    core.NotificationRepository // Required: notification store
	Users   core.UserRepository         // Required: recipient role lookup
	Cache   *core.NotificationCache     // Optional: unread-count cache
	Logger  *slog.Logger                // Optional: structured logger
	Metrics statsd.Sink                 // Optional: metrics sink
}

// NotificationService is the single writer of notifications and serves the
// recipient-facing reads.
type NotificationService struct {
	repo    core.NotificationRepository
	users   core.UserRepository
	cache   *core.NotificationCache
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewNotificationService constructs a new NotificationService.
func NewNotificationService(opts NotificationServiceOptions) (*NotificationService, error) {
	if opts.Repo == nil {
		return nil, errors.New("NotificationRepository is required")
	}
	if opts.Users == nil {
		return nil, errors.New("UserRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{
		repo:    opts.Repo,
		users:   opts.Users,
		cache:   opts.Cache,
		logger:  logger.With("component", "notification_service"),
		metrics: statsd.OrDiscard(opts.Metrics),
	}, nil
}

// MustNewNotificationService constructs a NotificationService and panics on error.
func MustNewNotificationService(opts NotificationServiceOptions) *NotificationService {
	svc, err := NewNotificationService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create NotificationService: %v", err))
	}
	return svc
}

// CreateNotificationParams groups parameters for CreateNotification.
type CreateNotificationParams struct {
	UserID  string
	Payload model.NotificationPayload
	// RelatedID overrides the payload's deep-link id when set.
	RelatedID *string
}

// CreateNotification validates the recipient's role against the payload's
// type, composes title and message, and persists the notification.
func (s *NotificationService) CreateNotification(
	ctx context.Context,
	params CreateNotificationParams,
) (*model.Notification, error) {
	start := time.Now()
	n, err := s.create(ctx, params)

	var typ model.NotificationType
	if params.Payload != nil {
		typ = params.Payload.NotificationType()
	}
	metrics.Emit(s.metrics, metrics.Operation{
		Name:     "notification.create",
		Duration: time.Since(start),
		Err:      err,
		Tags:     map[string]string{"type": string(typ)},
	})
	return n, err
}

func (s *NotificationService) create(ctx context.Context, params CreateNotificationParams) (*model.Notification, error) {
	if strings.TrimSpace(params.UserID) == "" {
		return nil, apperrors.ValidationField("user_id", "notification recipient is required")
	}
	if params.Payload == nil {
		return nil, apperrors.Validation("notification payload is required")
	}
	typ := params.Payload.NotificationType()
	wantRole, ok := typ.RecipientRole()
	if !ok {
		return nil, apperrors.Validationf("unknown notification type %q", typ)
	}

	user, err := s.users.GetByID(ctx, params.UserID)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, apperrors.NotFound("notification recipient not found")
		}
		return nil, fmt.Errorf("resolve recipient: %w", err)
	}
	if user.Role != wantRole {
		mismatch := fmt.Errorf("%w: %s cannot receive %s", ErrRoleMismatch, user.Role, typ)
		s.logger.ErrorContext(ctx, "notification role mismatch",
			"user_id", params.UserID, "role", user.Role, "type", typ, "expected_role", wantRole)
		return nil, apperrors.Wrap(mismatch, apperrors.ErrCodeInternal, "notification recipient role mismatch")
	}

	metadata, err := json.Marshal(params.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode notification metadata: %w", err)
	}
	relatedID := params.RelatedID
	if relatedID == nil {
		if id := params.Payload.RelatedID(); id != "" {
			relatedID = &id
		}
	}

	message := ComposeMessage(params.Payload)
	n, err := s.repo.Create(ctx, &model.CreateNotificationRequest{
		UserID:    params.UserID,
		Type:      typ,
		Title:     TitleFor(typ, message),
		Message:   message,
		Metadata:  metadata,
		RelatedID: relatedID,
	})
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, apperrors.NotFound("notification recipient not found")
		}
		return nil, fmt.Errorf("store notification: %w", err)
	}
	s.invalidateUnread(ctx, params.UserID)
	return n, nil
}

// NotifyEmployerAboutApplication tells the job's employer that someone applied.
func (s *NotificationService) NotifyEmployerAboutApplication(ctx context.Context, ac *model.ApplicationContext) error {
	if ac == nil {
		return errors.New("application context is required")
	}
	_, err := s.CreateNotification(ctx, CreateNotificationParams{
		UserID: ac.EmployerUserID,
		Payload: model.ApplicationReceivedPayload{
			JobID:         ac.JobID,
			JobTitle:      ac.JobTitle,
			ApplicationID: ac.ApplicationID,
			ApplicantID:   ac.ApplicantID,
			ApplicantName: ac.ApplicantName,
		},
	})
	return err
}

// NotifyEmployerAboutWithdrawal tells the job's employer that an applicant withdrew.
func (s *NotificationService) NotifyEmployerAboutWithdrawal(ctx context.Context, ac *model.ApplicationContext) error {
	if ac == nil {
		return errors.New("application context is required")
	}
	_, err := s.CreateNotification(ctx, CreateNotificationParams{
		UserID: ac.EmployerUserID,
		Payload: model.ApplicationWithdrawnPayload{
			JobID:         ac.JobID,
			JobTitle:      ac.JobTitle,
			ApplicationID: ac.ApplicationID,
			ApplicantID:   ac.ApplicantID,
			ApplicantName: ac.ApplicantName,
		},
	})
	return err
}

// NotifyJobseekerAboutApplicationStatus tells the applicant their application moved to status.
func (s *NotificationService) NotifyJobseekerAboutApplicationStatus(
	ctx context.Context,
	ac *model.ApplicationContext,
	status model.ApplicationStatus,
) error {
	if ac == nil {
		return errors.New("application context is required")
	}
	payload := model.ApplicationStatusPayload{
		JobID:         ac.JobID,
		JobTitle:      ac.JobTitle,
		ApplicationID: ac.ApplicationID,
		CompanyName:   ac.CompanyName,
		Status:        status,
	}
	if payload.NotificationType() == "" {
		return apperrors.Validationf("no notification for application status %q", status)
	}
	_, err := s.CreateNotification(ctx, CreateNotificationParams{UserID: ac.ApplicantID, Payload: payload})
	return err
}

// NotifyJobseekerAboutNewJob tells one matched jobseeker about a new posting.
func (s *NotificationService) NotifyJobseekerAboutNewJob(
	ctx context.Context,
	userID string,
	job *model.JobWithCompany,
	matchReasons []string,
) error {
	_, err := s.CreateNotification(ctx, CreateNotificationParams{
		UserID: userID,
		Payload: model.NewJobMatchPayload{
			JobID:          job.ID,
			JobTitle:       job.Title,
			CompanyName:    job.CompanyName,
			Location:       job.Location,
			EmploymentType: job.EmploymentType,
			MatchReasons:   matchReasons,
		},
	})
	return err
}

// NotifyJobseekerSavedJob tells one bookmark holder that a saved job changed.
func (s *NotificationService) NotifyJobseekerSavedJob(
	ctx context.Context,
	userID string,
	job *model.JobWithCompany,
	change model.SavedJobChange,
) error {
	_, err := s.CreateNotification(ctx, CreateNotificationParams{
		UserID: userID,
		Payload: model.SavedJobPayload{
			JobID:       job.ID,
			JobTitle:    job.Title,
			CompanyName: job.CompanyName,
			Change:      change,
		},
	})
	return err
}

// ListNotificationsParams groups parameters for GetNotifications.
type ListNotificationsParams struct {
	UserID string
	Role   auth.Role
	Read   *bool
	Page   int
	Limit  int
}

// GetNotifications returns a page of the caller's notifications restricted
// to the types their role may receive.
func (s *NotificationService) GetNotifications(
	ctx context.Context,
	params ListNotificationsParams,
) (*model.NotificationPage, error) {
	page, limit := model.NormalizePage(params.Page, params.Limit)
	types := model.NotificationTypesForRole(params.Role)
	if len(types) == 0 {
		return &model.NotificationPage{
			Notifications: []model.Notification{},
			Pagination:    model.NewPagination(page, limit, 0),
		}, nil
	}
	out, err := s.repo.List(ctx, model.NotificationListOptions{
		UserID: params.UserID,
		Types:  types,
		Read:   params.Read,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("get notifications: %w", err)
	}
	return out, nil
}

// UnreadCount returns the caller's unread count for their role's types.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string, role auth.Role) (int, error) {
	types := model.NotificationTypesForRole(role)
	if len(types) == 0 {
		return 0, nil
	}
	seen, err := s.cache.UnreadCount(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "unread count cache read failed", "user_id", userID, "error", err)
	} else if seen.Hit {
		return seen.Count, nil
	}

	n, err := s.repo.CountUnread(ctx, userID, types)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	if err := s.cache.StoreUnreadCount(ctx, userID, seen, n); err != nil {
		s.logger.WarnContext(ctx, "unread count cache write failed", "user_id", userID, "error", err)
	}
	return n, nil
}

// MarkRead marks one of the caller's notifications read.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return mapNotificationErr(err)
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

// MarkAllRead marks every unread notification of the caller read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	s.invalidateUnread(ctx, userID)
	return n, nil
}

// Delete removes one of the caller's notifications.
func (s *NotificationService) Delete(ctx context.Context, id, userID string) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return mapNotificationErr(err)
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

func (s *NotificationService) invalidateUnread(ctx context.Context, userID string) {
	if err := s.cache.InvalidateUnread(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "unread count cache invalidation failed", "user_id", userID, "error", err)
	}
}

func mapNotificationErr(err error) error {
	if errors.Is(err, data.ErrNotificationNotFound) {
		return apperrors.NotFound("notification not found")
	}
	return err
}
