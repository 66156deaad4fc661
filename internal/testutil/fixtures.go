package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Fixtures inserts rows the repositories read but do not own: users,
// profiles, employers, jobs and resumes.
type Fixtures struct {
	t  TestingTB
	db *sql.DB
}

// NewFixtures returns a fixture writer for db.
func NewFixtures(t TestingTB, db *sql.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) exec(query string, args ...any) {
	f.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := f.db.ExecContext(ctx, query, args...); err != nil {
		f.t.Fatalf("fixture insert failed: %v", err)
	}
}

// User inserts a user with role and returns its id.
func (f *Fixtures) User(role, fullName string) string {
	f.t.Helper()
	id := uuid.NewString()
	f.exec(`INSERT INTO users (id, email, full_name, role) VALUES ($1, $2, $3, $4)`,
		id, id+"@example.test", fullName, role)
	return id
}

// ProfileSpec describes a jobseeker profile fixture.
type ProfileSpec struct {
	Phone             string
	Location          string
	Bio               string
	Skills            []string
	LinkedInURL       string
	YearsOfExperience int
	CurrentPosition   string
	PreferredLocation string
	PreferredJobType  string
}

// CompleteProfile scores 100 on the profile gate.
func CompleteProfile() ProfileSpec {
	return ProfileSpec{
		Phone:             "+254700000000",
		Location:          "Nakuru",
		Bio:               "Agronomist with field experience in smallholder irrigation and crop planning.",
		Skills:            []string{"Irrigation", "Soil testing", "Crop planning"},
		LinkedInURL:       "https://linkedin.example/in/fixture",
		YearsOfExperience: 4,
		CurrentPosition:   "Field officer",
	}
}

// Jobseeker inserts a jobseeker user with a profile built from spec.
func (f *Fixtures) Jobseeker(fullName string, spec ProfileSpec) string {
	f.t.Helper()
	id := f.User("jobseeker", fullName)
	skills := spec.Skills
	if skills == nil {
		skills = []string{}
	}
	f.exec(`
		INSERT INTO jobseeker_profiles (
			user_id, phone, location, bio, skills, linkedin_url, years_of_experience,
			current_position, preferred_location, preferred_job_type
		) VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''), $7,
			NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''))`,
		id, spec.Phone, spec.Location, spec.Bio, skills, spec.LinkedInURL, spec.YearsOfExperience,
		spec.CurrentPosition, spec.PreferredLocation, spec.PreferredJobType)
	return id
}

// Employer inserts an employer user plus its company and returns (userID, employerID).
func (f *Fixtures) Employer(company string) (string, string) {
	f.t.Helper()
	userID := f.User("employer", company+" HR")
	employerID := uuid.NewString()
	f.exec(`INSERT INTO employers (id, user_id, company_name) VALUES ($1, $2, $3)`,
		employerID, userID, company)
	return userID, employerID
}

// JobSpec describes a job fixture.
type JobSpec struct {
	Title          string
	Location       string
	EmploymentType string
	Skills         []string
	Status         string
	Deadline       *time.Time
}

// Job inserts a job for employerID and returns its id.
func (f *Fixtures) Job(employerID string, spec JobSpec) string {
	f.t.Helper()
	id := uuid.NewString()
	if spec.Title == "" {
		spec.Title = "Farm manager"
	}
	if spec.Status == "" {
		spec.Status = "active"
	}
	if spec.Skills == nil {
		spec.Skills = []string{}
	}
	f.exec(`
		INSERT INTO jobs (id, employer_id, title, location, employment_type, skills_required, status, application_deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, employerID, spec.Title, spec.Location, spec.EmploymentType, spec.Skills, spec.Status, spec.Deadline)
	return id
}

// Resume inserts a resume owned by userID and returns its id.
func (f *Fixtures) Resume(userID string) string {
	f.t.Helper()
	id := uuid.NewString()
	f.exec(`INSERT INTO resumes (id, user_id, file_name) VALUES ($1, $2, 'cv.pdf')`, id, userID)
	return id
}

// ApplicationsCount reads the stored counter of a job.
func (f *Fixtures) ApplicationsCount(jobID string) int {
	f.t.Helper()
	var n int
	if err := f.db.QueryRowContext(context.Background(),
		`SELECT applications_count FROM jobs WHERE id = $1`, jobID).Scan(&n); err != nil {
		f.t.Fatalf("read applications_count: %v", err)
	}
	return n
}
