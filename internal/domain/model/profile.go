//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"time"

	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/auth"
)

// JobseekerProfile holds the profile attributes used by the apply gate and
// by new-job audience matching.
type JobseekerProfile struct {
	UserID            string    `json:"user_id"             db:"user_id"`
	FullName          string    `json:"full_name"           db:"full_name"`
	Phone             *string   `json:"phone"               db:"phone"`
	Location          *string   `json:"location"            db:"location"`
	Bio               *string   `json:"bio"                 db:"bio"`
	Skills            []string  `json:"skills"              db:"skills"`
	LinkedInURL       *string   `json:"linkedin_url"        db:"linkedin_url"`
	GithubURL         *string   `json:"github_url"          db:"github_url"`
	PortfolioURL      *string   `json:"portfolio_url"       db:"portfolio_url"`
	WebsiteURL        *string   `json:"website_url"         db:"website_url"`
	YearsOfExperience int       `json:"years_of_experience" db:"years_of_experience"`
	CurrentPosition   *string   `json:"current_position"    db:"current_position"`
	PreferredLocation *string   `json:"preferred_location"  db:"preferred_location"`
	PreferredJobType  *string   `json:"preferred_job_type"  db:"preferred_job_type"`
	UpdatedAt         time.Time `json:"updated_at"          db:"updated_at"`
}

// User is the subset of a user account this service reads.
type User struct {
	ID       string    `json:"id"        db:"id"`
	Email    string    `json:"email"     db:"email"`
	FullName string    `json:"full_name" db:"full_name"`
	Role     auth.Role `json:"role"      db:"role"`
	Status   string    `json:"status"    db:"status"`
}

// Recipient is one member of a broadcast audience.
type Recipient struct {
	UserID       string   `db:"user_id"`
	FullName     string   `db:"full_name"`
	MatchReasons []string `db:"match_reasons"`
}
