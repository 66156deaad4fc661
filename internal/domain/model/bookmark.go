//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// Bookmark is a saved job, unique per (user, job).
type Bookmark struct {
	ID      string    `json:"id"       db:"id"`
	UserID  string    `json:"user_id"  db:"user_id"`
	JobID   string    `json:"job_id"   db:"job_id"`
	SavedAt time.Time `json:"saved_at" db:"saved_at"`
}

// SavedJob is a bookmark joined with its job.
type SavedJob struct {
	BookmarkID  string    `json:"bookmark_id"  db:"bookmark_id"`
	SavedAt     time.Time `json:"saved_at"     db:"saved_at"`
	CompanyName string    `json:"company_name" db:"company_name"`
	Job         Job       `json:"job"          db:"-"`
}

// BookmarkListOptions groups parameters for listing saved jobs.
type BookmarkListOptions struct {
	UserID string
	Page   int
	Limit  int
}

// SavedJobsPage is one page of saved jobs.
type SavedJobsPage struct {
	Jobs       []SavedJob `json:"jobs"`
	Pagination Pagination `json:"pagination"`
}
