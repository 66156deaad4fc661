//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/auth"
)

// NotificationType is drawn from a fixed vocabulary. Every type has exactly
// one recipient role.
type NotificationType string

const (
	NotificationApplicationReceived    NotificationType = "application_received"
	NotificationApplicationWithdrawn   NotificationType = "application_withdrawn"
	NotificationApplicationReviewed    NotificationType = "application_reviewed"
	NotificationApplicationShortlisted NotificationType = "application_shortlisted"
	NotificationApplicationAccepted    NotificationType = "application_accepted"
	NotificationApplicationRejected    NotificationType = "application_rejected"
	NotificationNewJobMatch            NotificationType = "new_job_match"
	NotificationSavedJobUpdated        NotificationType = "saved_job_updated"
	NotificationSavedJobClosed         NotificationType = "saved_job_closed"
	NotificationSavedJobFilled         NotificationType = "saved_job_filled"
	NotificationSavedJobDeleted        NotificationType = "saved_job_deleted"
)

var notificationRecipients = map[NotificationType]auth.Role{
	NotificationApplicationReceived:    auth.RoleEmployer,
	NotificationApplicationWithdrawn:   auth.RoleEmployer,
	NotificationApplicationReviewed:    auth.RoleJobseeker,
	NotificationApplicationShortlisted: auth.RoleJobseeker,
	NotificationApplicationAccepted:    auth.RoleJobseeker,
	NotificationApplicationRejected:    auth.RoleJobseeker,
	NotificationNewJobMatch:            auth.RoleJobseeker,
	NotificationSavedJobUpdated:        auth.RoleJobseeker,
	NotificationSavedJobClosed:         auth.RoleJobseeker,
	NotificationSavedJobFilled:         auth.RoleJobseeker,
	NotificationSavedJobDeleted:        auth.RoleJobseeker,
}

// Valid returns true if the type is part of the vocabulary.
func (t NotificationType) Valid() bool {
	_, ok := notificationRecipients[t]
	return ok
}

// RecipientRole returns the only role allowed to receive this type.
func (t NotificationType) RecipientRole() (auth.Role, bool) {
	r, ok := notificationRecipients[t]
	return r, ok
}

// String returns the string representation of the type.
func (t NotificationType) String() string {
	return string(t)
}

// NotificationTypesForRole returns the types a user with role may see, sorted.
// Admins see nothing through this surface.
func NotificationTypesForRole(role auth.Role) []NotificationType {
	out := make([]NotificationType, 0, len(notificationRecipients))
	for _, t := range allNotificationTypes {
		if notificationRecipients[t] == role {
			out = append(out, t)
		}
	}
	return out
}

var allNotificationTypes = []NotificationType{
	NotificationApplicationAccepted,
	NotificationApplicationReceived,
	NotificationApplicationRejected,
	NotificationApplicationReviewed,
	NotificationApplicationShortlisted,
	NotificationApplicationWithdrawn,
	NotificationNewJobMatch,
	NotificationSavedJobClosed,
	NotificationSavedJobDeleted,
	NotificationSavedJobFilled,
	NotificationSavedJobUpdated,
}

// Notification is one persisted notification. Only Read ever changes.
type Notification struct {
	ID        string           `json:"id"                   db:"id"`
	UserID    string           `json:"user_id"              db:"user_id"`
	Type      NotificationType `json:"type"                 db:"type"`
	Title     string           `json:"title"                db:"title"`
	Message   string           `json:"message"              db:"message"`
	Metadata  json.RawMessage  `json:"metadata"             db:"metadata"`
	RelatedID *string          `json:"related_id,omitempty" db:"related_id"`
	Read      bool             `json:"read"                 db:"read"`
	CreatedAt time.Time        `json:"created_at"           db:"created_at"`
}

// Payload decodes the typed metadata of the notification.
//
//nolint:ireturn // tagged union
func (n *Notification) Payload() (NotificationPayload, error) {
	return DecodeNotificationPayload(n.Type, n.Metadata)
}

// CreateNotificationRequest is what the dispatcher hands to the store.
type CreateNotificationRequest struct {
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	Metadata  json.RawMessage
	RelatedID *string
}

// NotificationListOptions groups parameters for listing a user's notifications.
type NotificationListOptions struct {
	UserID string
	Types  []NotificationType // role allow-list; empty matches nothing
	Read   *bool              // nil: all, true: read only, false: unread only
	Page   int
	Limit  int
}

// NotificationPage is one page of notifications.
type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	Pagination    Pagination     `json:"pagination"`
}

// NotificationPayload is the typed metadata of a notification. The concrete
// variant is determined by the notification type.
type NotificationPayload interface {
	NotificationType() NotificationType
	// RelatedID is the id the notification deep-links to.
	RelatedID() string
}

// ApplicationReceivedPayload tells an employer someone applied.
type ApplicationReceivedPayload struct {
	JobID         string `json:"job_id"`
	JobTitle      string `json:"job_title"`
	ApplicationID string `json:"application_id"`
	ApplicantID   string `json:"applicant_id"`
	ApplicantName string `json:"applicant_name"`
}

func (ApplicationReceivedPayload) NotificationType() NotificationType {
	return NotificationApplicationReceived
}
func (p ApplicationReceivedPayload) RelatedID() string { return p.ApplicationID }

// ApplicationWithdrawnPayload tells an employer an applicant withdrew.
type ApplicationWithdrawnPayload struct {
	JobID         string `json:"job_id"`
	JobTitle      string `json:"job_title"`
	ApplicationID string `json:"application_id"`
	ApplicantID   string `json:"applicant_id"`
	ApplicantName string `json:"applicant_name"`
}

func (ApplicationWithdrawnPayload) NotificationType() NotificationType {
	return NotificationApplicationWithdrawn
}
func (p ApplicationWithdrawnPayload) RelatedID() string { return p.ApplicationID }

// ApplicationStatusPayload tells an applicant the employer moved their application.
type ApplicationStatusPayload struct {
	JobID         string            `json:"job_id"`
	JobTitle      string            `json:"job_title"`
	ApplicationID string            `json:"application_id"`
	CompanyName   string            `json:"company_name"`
	Status        ApplicationStatus `json:"status"`
}

// NotificationType maps the new status onto its notification type; statuses
// that applicants are not told about yield "".
func (p ApplicationStatusPayload) NotificationType() NotificationType {
	switch p.Status {
	case ApplicationStatusReviewed:
		return NotificationApplicationReviewed
	case ApplicationStatusShortlisted:
		return NotificationApplicationShortlisted
	case ApplicationStatusAccepted:
		return NotificationApplicationAccepted
	case ApplicationStatusRejected:
		return NotificationApplicationRejected
	default:
		return ""
	}
}
func (p ApplicationStatusPayload) RelatedID() string { return p.ApplicationID }

// NewJobMatchPayload tells a jobseeker about a new posting matching their profile.
type NewJobMatchPayload struct {
	JobID          string   `json:"job_id"`
	JobTitle       string   `json:"job_title"`
	CompanyName    string   `json:"company_name"`
	Location       string   `json:"location"`
	EmploymentType string   `json:"employment_type"`
	MatchReasons   []string `json:"match_reasons"`
}

func (NewJobMatchPayload) NotificationType() NotificationType { return NotificationNewJobMatch }
func (p NewJobMatchPayload) RelatedID() string                { return p.JobID }

// SavedJobChange is what happened to a bookmarked job.
type SavedJobChange string

const (
	SavedJobUpdated SavedJobChange = "updated"
	SavedJobClosed  SavedJobChange = "closed"
	SavedJobFilled  SavedJobChange = "filled"
	SavedJobDeleted SavedJobChange = "deleted"
)

// SavedJobPayload tells a jobseeker a job they bookmarked changed.
type SavedJobPayload struct {
	JobID       string         `json:"job_id"`
	JobTitle    string         `json:"job_title"`
	CompanyName string         `json:"company_name"`
	Change      SavedJobChange `json:"change"`
}

func (p SavedJobPayload) NotificationType() NotificationType {
	switch p.Change {
	case SavedJobUpdated:
		return NotificationSavedJobUpdated
	case SavedJobClosed:
		return NotificationSavedJobClosed
	case SavedJobFilled:
		return NotificationSavedJobFilled
	case SavedJobDeleted:
		return NotificationSavedJobDeleted
	default:
		return ""
	}
}
func (p SavedJobPayload) RelatedID() string { return p.JobID }

// DecodeNotificationPayload parses stored metadata into the variant for t.
//
//nolint:ireturn // tagged union
func DecodeNotificationPayload(t NotificationType, raw json.RawMessage) (NotificationPayload, error) {
	var (
		p   NotificationPayload
		err error
	)
	switch t {
	case NotificationApplicationReceived:
		var v ApplicationReceivedPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case NotificationApplicationWithdrawn:
		var v ApplicationWithdrawnPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case NotificationApplicationReviewed, NotificationApplicationShortlisted,
		NotificationApplicationAccepted, NotificationApplicationRejected:
		var v ApplicationStatusPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case NotificationNewJobMatch:
		var v NewJobMatchPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case NotificationSavedJobUpdated, NotificationSavedJobClosed,
		NotificationSavedJobFilled, NotificationSavedJobDeleted:
		var v SavedJobPayload
		err = json.Unmarshal(raw, &v)
		p = v
	default:
		return nil, fmt.Errorf("unknown notification type %q", t)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", t, err)
	}
	if p.NotificationType() != t {
		return nil, fmt.Errorf("metadata describes %q, not %q", p.NotificationType(), t)
	}
	return p, nil
}
