//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
)

// ApplicationStatus is the closed set of states a job application can be in.
type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusReviewed    ApplicationStatus = "reviewed"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusAccepted    ApplicationStatus = "accepted"
	ApplicationStatusWithdrawn   ApplicationStatus = "withdrawn"
	ApplicationStatusCancelled   ApplicationStatus = "cancelled"
)

// AllApplicationStatuses lists every status in lifecycle order.
func AllApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		ApplicationStatusPending,
		ApplicationStatusReviewed,
		ApplicationStatusShortlisted,
		ApplicationStatusRejected,
		ApplicationStatusAccepted,
		ApplicationStatusWithdrawn,
		ApplicationStatusCancelled,
	}
}

// Valid returns true if the status is part of the closed enum.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusShortlisted,
		ApplicationStatusRejected, ApplicationStatusAccepted, ApplicationStatusWithdrawn,
		ApplicationStatusCancelled:
		return true
	default:
		return false
	}
}

// IsActive reports whether the application still counts against the job.
// Only withdrawn and cancelled applications are inactive.
func (s ApplicationStatus) IsActive() bool {
	return s != ApplicationStatusWithdrawn && s != ApplicationStatusCancelled
}

// IsTerminal reports whether an employer decision has closed the application.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}

// String returns the string representation of the status.
func (s ApplicationStatus) String() string {
	return string(s)
}

// ParseApplicationStatus normalises and validates a status string.
func ParseApplicationStatus(v string) (ApplicationStatus, bool) {
	s := ApplicationStatus(strings.ToLower(strings.TrimSpace(v)))
	return s, s.Valid()
}

// InactiveApplicationStatuses returns the statuses excluded from the active set.
func InactiveApplicationStatuses() []string {
	return []string{string(ApplicationStatusWithdrawn), string(ApplicationStatusCancelled)}
}

// JobApplication is one applicant's application to one job.
type JobApplication struct {
	ID               string            `json:"id"                          db:"id"`
	UserID           string            `json:"user_id"                     db:"user_id"`
	JobID            string            `json:"job_id"                      db:"job_id"`
	Status           ApplicationStatus `json:"status"                      db:"status"`
	CoverLetter      string            `json:"cover_letter"                db:"cover_letter"`
	ResumeID         *string           `json:"resume_id,omitempty"         db:"resume_id"`
	PortfolioURL     *string           `json:"portfolio_url,omitempty"     db:"portfolio_url"`
	ExpectedSalary   *float64          `json:"expected_salary,omitempty"   db:"expected_salary"`
	AvailabilityDate *time.Time        `json:"availability_date,omitempty" db:"availability_date"`
	AppliedAt        time.Time         `json:"applied_at"                  db:"applied_at"`
	UpdatedAt        time.Time         `json:"updated_at"                  db:"updated_at"`
}

// ApplicationInput carries the applicant-supplied fields of an application.
type ApplicationInput struct {
	CoverLetter      string
	ResumeID         *string
	PortfolioURL     *string
	ExpectedSalary   *float64
	AvailabilityDate *time.Time
}

// ApplicationPatch carries a partial update; nil fields are left unchanged.
type ApplicationPatch struct {
	CoverLetter      *string
	ResumeID         *string
	PortfolioURL     *string
	ExpectedSalary   *float64
	AvailabilityDate *time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p ApplicationPatch) IsEmpty() bool {
	return p.CoverLetter == nil && p.ResumeID == nil && p.PortfolioURL == nil &&
		p.ExpectedSalary == nil && p.AvailabilityDate == nil
}

// ApplicationStatusView answers "have I applied to this job?".
type ApplicationStatusView struct {
	HasApplied    bool               `json:"has_applied"`
	ApplicationID *string            `json:"application_id,omitempty"`
	Status        *ApplicationStatus `json:"status,omitempty"`
	AppliedAt     *time.Time         `json:"applied_at,omitempty"`
}

// AppliedJob is an application joined with a summary of its job.
type AppliedJob struct {
	JobApplication
	JobTitle       string    `json:"job_title"       db:"job_title"`
	CompanyName    string    `json:"company_name"    db:"company_name"`
	JobLocation    string    `json:"job_location"    db:"job_location"`
	EmploymentType string    `json:"employment_type" db:"employment_type"`
	JobStatus      JobStatus `json:"job_status"      db:"job_status"`
}

// AppliedJobsListOptions groups parameters for listing an applicant's applications.
type AppliedJobsListOptions struct {
	UserID string
	Status *ApplicationStatus // Optional filter
	Page   int
	Limit  int
}

// AppliedJobsPage is one page of applied jobs.
type AppliedJobsPage struct {
	Applications []AppliedJob `json:"applications"`
	Pagination   Pagination   `json:"pagination"`
}

// ApplicationStats summarises an applicant's applications by status.
type ApplicationStats struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Pending     int `json:"pending"`
	Reviewed    int `json:"reviewed"`
	Shortlisted int `json:"shortlisted"`
	Accepted    int `json:"accepted"`
	Rejected    int `json:"rejected"`
	Withdrawn   int `json:"withdrawn"`
}

// Add records count applications in status s.
func (st *ApplicationStats) Add(s ApplicationStatus, count int) {
	st.Total += count
	if s.IsActive() {
		st.Active += count
	}
	switch s {
	case ApplicationStatusPending:
		st.Pending += count
	case ApplicationStatusReviewed:
		st.Reviewed += count
	case ApplicationStatusShortlisted:
		st.Shortlisted += count
	case ApplicationStatusAccepted:
		st.Accepted += count
	case ApplicationStatusRejected:
		st.Rejected += count
	case ApplicationStatusWithdrawn:
		st.Withdrawn += count
	case ApplicationStatusCancelled:
	}
}

// ApplicationContext joins an application to the parties a notification
// about it needs: the applicant, the job and the employer's user account.
type ApplicationContext struct {
	ApplicationID  string            `db:"application_id"`
	Status         ApplicationStatus `db:"status"`
	ApplicantID    string            `db:"applicant_id"`
	ApplicantName  string            `db:"applicant_name"`
	JobID          string            `db:"job_id"`
	JobTitle       string            `db:"job_title"`
	CompanyName    string            `db:"company_name"`
	EmployerUserID string            `db:"employer_user_id"`
}
