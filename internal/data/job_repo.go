package data

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/agbarbie/Rural-Connect-sub000/internal/data/pgxutil"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
)

// RepoConfig holds configuration options shared by repositories that log or
// need a controllable clock.
type RepoConfig struct {
	Logger       *slog.Logger
	TimeProvider TimeProvider
}

// JobRepo provides database operations for job postings.
type JobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

// NewJobRepo creates a new JobRepo instance with the given database connection and configuration.
func NewJobRepo(db *sql.DB, cfg RepoConfig) *JobRepo {
	tp := clockOrSystem(cfg.TimeProvider)
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &JobRepo{DB: db, timeProvider: tp, logger: logger.With("component", "job_repo")}
}

const jobColumnsJ = `j.id, j.employer_id, j.title, j.description, j.location, j.employment_type,
	j.skills_required, j.salary_min, j.salary_max, j.status, j.application_deadline,
	j.applications_count, j.created_at, j.updated_at`

// Create inserts a posting owned by employerID.
func (r *JobRepo) Create(ctx context.Context, employerID string, req *model.CreateJobRequest) (*model.Job, error) {
	if req == nil {
		return nil, fmt.Errorf("create job: request is required")
	}
	now := r.timeProvider.Now()
	var job *model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		job, err = queryOne[model.Job](ctx, conn, `
			INSERT INTO jobs (
				employer_id, title, description, location, employment_type, skills_required,
				salary_min, salary_max, status, application_deadline, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
			RETURNING `+jobColumns,
			employerID, req.Title, req.Description, req.Location, req.EmploymentType,
			req.SkillsRequired, req.SalaryMin, req.SalaryMax, req.Status,
			req.ApplicationDeadline, now)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	r.logger.DebugContext(ctx, "job created", "job_id", job.ID, "employer_id", employerID)
	return job, nil
}

// GetWithCompany returns a job joined with its employer.
func (r *JobRepo) GetWithCompany(ctx context.Context, id string) (*model.JobWithCompany, error) {
	var job *model.JobWithCompany
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		job, err = queryOne[model.JobWithCompany](ctx, conn, `
			SELECT `+jobColumnsJ+`, e.company_name, e.user_id AS employer_user_id
			FROM jobs j
			JOIN employers e ON e.id = j.employer_id
			WHERE j.id = $1`, id)
		return err
	})
	if err != nil {
		if pgxutil.IsNoRows(err) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// Update applies a partial update; nil fields keep their stored value.
func (r *JobRepo) Update(ctx context.Context, id string, req *model.UpdateJobRequest) (*model.Job, error) {
	if req == nil {
		return nil, fmt.Errorf("update job: request is required")
	}
	var job *model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		job, err = queryOne[model.Job](ctx, conn, `
			UPDATE jobs SET
				title                = COALESCE($2, title),
				description          = COALESCE($3, description),
				location             = COALESCE($4, location),
				employment_type      = COALESCE($5, employment_type),
				skills_required      = COALESCE($6::text[], skills_required),
				salary_min           = COALESCE($7, salary_min),
				salary_max           = COALESCE($8, salary_max),
				application_deadline = COALESCE($9, application_deadline),
				updated_at           = $10
			WHERE id = $1
			RETURNING `+jobColumns,
			id, req.Title, req.Description, req.Location, req.EmploymentType,
			req.SkillsRequired, req.SalaryMin, req.SalaryMax, req.ApplicationDeadline,
			r.timeProvider.Now())
		return err
	})
	if err != nil {
		if pgxutil.IsNoRows(err) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}

// SetStatus moves a posting to status.
func (r *JobRepo) SetStatus(ctx context.Context, id string, status model.JobStatus) (*model.Job, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid job status: %s", status)
	}
	var job *model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		job, err = queryOne[model.Job](ctx, conn, `
			UPDATE jobs SET status = $2, updated_at = $3
			WHERE id = $1
			RETURNING `+jobColumns, id, status, r.timeProvider.Now())
		return err
	})
	if err != nil {
		if pgxutil.IsNoRows(err) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("set job status: %w", err)
	}
	return job, nil
}

// Delete removes a posting; its applications and bookmarks cascade.
func (r *JobRepo) Delete(ctx context.Context, id string) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if affected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// EmployerIDForUser resolves the employer record owned by a user account.
func (r *JobRepo) EmployerIDForUser(ctx context.Context, userID string) (string, error) {
	var employerID string
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `SELECT id FROM employers WHERE user_id = $1`, userID).Scan(&employerID)
	})
	if err != nil {
		if pgxutil.IsNoRows(err) {
			return "", ErrEmployerNotFound
		}
		return "", fmt.Errorf("employer for user: %w", err)
	}
	return employerID, nil
}
