//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
)

// JobStatus represents the publication state of a job posting.
type JobStatus string

const (
	JobStatusDraft  JobStatus = "draft"
	JobStatusActive JobStatus = "active"
	JobStatusPaused JobStatus = "paused"
	JobStatusClosed JobStatus = "closed"
	JobStatusFilled JobStatus = "filled"
)

// Valid returns true if the job status is valid.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusDraft, JobStatusActive, JobStatusPaused, JobStatusClosed, JobStatusFilled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the job status.
func (s JobStatus) String() string {
	return string(s)
}

// ParseJobStatus normalises and validates a job status string.
func ParseJobStatus(v string) (JobStatus, bool) {
	s := JobStatus(strings.ToLower(strings.TrimSpace(v)))
	return s, s.Valid()
}

// Job is an employer's job posting.
type Job struct {
	ID                  string     `json:"id"                             db:"id"`
	EmployerID          string     `json:"employer_id"                    db:"employer_id"`
	Title               string     `json:"title"                          db:"title"`
	Description         string     `json:"description"                    db:"description"`
	Location            string     `json:"location"                       db:"location"`
	EmploymentType      string     `json:"employment_type"                db:"employment_type"`
	SkillsRequired      []string   `json:"skills_required"                db:"skills_required"`
	SalaryMin           *float64   `json:"salary_min,omitempty"           db:"salary_min"`
	SalaryMax           *float64   `json:"salary_max,omitempty"           db:"salary_max"`
	Status              JobStatus  `json:"status"                         db:"status"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty" db:"application_deadline"`
	ApplicationsCount   int        `json:"applications_count"             db:"applications_count"`
	CreatedAt           time.Time  `json:"created_at"                     db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"                     db:"updated_at"`
}

// AcceptingApplications reports whether apply may proceed at time now.
func (j *Job) AcceptingApplications(now time.Time) bool {
	if j == nil || j.Status != JobStatusActive {
		return false
	}
	return j.ApplicationDeadline == nil || !now.After(*j.ApplicationDeadline)
}

// JobWithCompany is a job joined with the employer's company and user account.
type JobWithCompany struct {
	Job
	CompanyName    string `json:"company_name" db:"company_name"`
	EmployerUserID string `json:"-"            db:"employer_user_id"`
}

// CreateJobRequest is the employer-supplied content of a new posting.
type CreateJobRequest struct {
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Location            string     `json:"location"`
	EmploymentType      string     `json:"employmentType"`
	SkillsRequired      []string   `json:"skillsRequired"`
	SalaryMin           *float64   `json:"salaryMin,omitempty"`
	SalaryMax           *float64   `json:"salaryMax,omitempty"`
	Status              JobStatus  `json:"status,omitempty"`
	ApplicationDeadline *time.Time `json:"applicationDeadline,omitempty"`
}

// Normalize trims fields and defaults the status to active.
func (r *CreateJobRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Location = strings.TrimSpace(r.Location)
	r.EmploymentType = strings.ToLower(strings.TrimSpace(r.EmploymentType))
	r.SkillsRequired = normalizeSkills(r.SkillsRequired)
	if r.Status == "" {
		r.Status = JobStatusActive
	}
}

// UpdateJobRequest is a partial job update; nil fields are left unchanged.
type UpdateJobRequest struct {
	Title               *string    `json:"title,omitempty"`
	Description         *string    `json:"description,omitempty"`
	Location            *string    `json:"location,omitempty"`
	EmploymentType      *string    `json:"employmentType,omitempty"`
	SkillsRequired      []string   `json:"skillsRequired,omitempty"`
	SalaryMin           *float64   `json:"salaryMin,omitempty"`
	SalaryMax           *float64   `json:"salaryMax,omitempty"`
	ApplicationDeadline *time.Time `json:"applicationDeadline,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (r UpdateJobRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Location == nil && r.EmploymentType == nil &&
		r.SkillsRequired == nil && r.SalaryMin == nil && r.SalaryMax == nil && r.ApplicationDeadline == nil
}

func normalizeSkills(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
