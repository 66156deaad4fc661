package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/agbarbie/Rural-Connect-sub000/internal/core"
	"github.com/agbarbie/Rural-Connect-sub000/internal/data/pgxutil"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
)

const (
	applicationColumns = `id, user_id, job_id, status, cover_letter, resume_id, portfolio_url,
		expected_salary, availability_date, applied_at, updated_at`
	applicationColumnsA = `a.id, a.user_id, a.job_id, a.status, a.cover_letter, a.resume_id, a.portfolio_url,
		a.expected_salary, a.availability_date, a.applied_at, a.updated_at`
	jobColumns = `id, employer_id, title, description, location, employment_type, skills_required,
		salary_min, salary_max, status, application_deadline, applications_count, created_at, updated_at`
)

// ApplicationRepo is the Postgres store for job applications.
type ApplicationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewApplicationRepo creates a new ApplicationRepo.
func NewApplicationRepo(db *sql.DB) *ApplicationRepo {
	return &ApplicationRepo{DB: db, timeProvider: SystemClock}
}

// NewApplicationRepoWithTimeProvider creates an ApplicationRepo with a custom clock.
func NewApplicationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ApplicationRepo {
	return &ApplicationRepo{DB: db, timeProvider: clockOrSystem(tp)}
}

// WithTx runs fn in one read-committed transaction. Any error from fn rolls
// every statement back.
func (r *ApplicationRepo) WithTx(ctx context.Context, fn func(tx core.ApplicationTx) error) error {
	return pgxutil.WithPgxTx(ctx, r.DB, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(&applicationTx{tx: tx, tp: r.timeProvider})
	})
}

// GetByID returns one application.
func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*model.JobApplication, error) {
	var app *model.JobApplication
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		app, err = queryOne[model.JobApplication](ctx, conn,
			`SELECT `+applicationColumns+` FROM job_applications WHERE id = $1`, id)
		return err
	})
	if err != nil {
		if pgxutil.IsNoRows(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return app, nil
}

// StatusForJob reports the caller's active application to a job, if any.
func (r *ApplicationRepo) StatusForJob(ctx context.Context, userID, jobID string) (*model.ApplicationStatusView, error) {
	var app *model.JobApplication
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		app, err = findActive(ctx, conn, userID, jobID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("application status: %w", err)
	}
	if app == nil {
		return &model.ApplicationStatusView{HasApplied: false}, nil
	}
	id, status, appliedAt := app.ID, app.Status, app.AppliedAt
	return &model.ApplicationStatusView{
		HasApplied:    true,
		ApplicationID: &id,
		Status:        &status,
		AppliedAt:     &appliedAt,
	}, nil
}

type appliedJobRow struct {
	model.AppliedJob
	TotalCount int `db:"total_count"`
}

// ListByUser lists an applicant's applications newest first with a job summary.
func (r *ApplicationRepo) ListByUser(ctx context.Context, opts model.AppliedJobsListOptions) (*model.AppliedJobsPage, error) {
	page, limit := model.NormalizePage(opts.Page, opts.Limit)
	var status any
	if opts.Status != nil {
		status = string(*opts.Status)
	}

	var rows []appliedJobRow
	total := 0
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		rows, err = queryAll[appliedJobRow](ctx, conn, `
			SELECT `+applicationColumnsA+`,
				j.title AS job_title, e.company_name, j.location AS job_location,
				j.employment_type, j.status AS job_status,
				COUNT(*) OVER() AS total_count
			FROM job_applications a
			JOIN jobs j ON j.id = a.job_id
			JOIN employers e ON e.id = j.employer_id
			WHERE a.user_id = $1 AND ($2::text IS NULL OR a.status = $2::text)
			ORDER BY a.applied_at DESC, a.id DESC
			LIMIT $3 OFFSET $4`,
			opts.UserID, status, limit, model.Offset(page, limit))
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			total = rows[0].TotalCount
			return nil
		}
		if page > 1 {
			return conn.QueryRow(ctx, `
				SELECT COUNT(*) FROM job_applications
				WHERE user_id = $1 AND ($2::text IS NULL OR status = $2::text)`,
				opts.UserID, status).Scan(&total)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	apps := make([]model.AppliedJob, 0, len(rows))
	for i := range rows {
		apps = append(apps, rows[i].AppliedJob)
	}
	return &model.AppliedJobsPage{
		Applications: apps,
		Pagination:   model.NewPagination(page, limit, total),
	}, nil
}

// CountByStatus counts an applicant's applications per status.
func (r *ApplicationRepo) CountByStatus(ctx context.Context, userID string) (map[model.ApplicationStatus]int, error) {
	type statusCount struct {
		Status model.ApplicationStatus `db:"status"`
		Count  int                     `db:"count"`
	}
	var rows []statusCount
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		rows, err = queryAll[statusCount](ctx, conn, `
			SELECT status, COUNT(*)::int AS count
			FROM job_applications
			WHERE user_id = $1
			GROUP BY status`, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}
	out := make(map[model.ApplicationStatus]int, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// GetContext joins an application with its applicant, job and employer user.
func (r *ApplicationRepo) GetContext(ctx context.Context, applicationID string) (*model.ApplicationContext, error) {
	var out *model.ApplicationContext
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		out, err = queryOne[model.ApplicationContext](ctx, conn, `
			SELECT a.id AS application_id, a.status, a.user_id AS applicant_id,
				u.full_name AS applicant_name, j.id AS job_id, j.title AS job_title,
				e.company_name, e.user_id AS employer_user_id
			FROM job_applications a
			JOIN users u ON u.id = a.user_id
			JOIN jobs j ON j.id = a.job_id
			JOIN employers e ON e.id = j.employer_id
			WHERE a.id = $1`, applicationID)
		return err
	})
	if err != nil {
		if pgxutil.IsNoRows(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("get application context: %w", err)
	}
	return out, nil
}

// FindCounterDrift lists jobs whose stored applications_count differs from
// the number of their active applications.
func (r *ApplicationRepo) FindCounterDrift(ctx context.Context, limit int) ([]core.CounterDrift, error) {
	if limit <= 0 {
		limit = model.MaxPageLimit
	}
	var out []core.CounterDrift
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		out, err = queryAll[core.CounterDrift](ctx, conn, `
			SELECT j.id AS job_id, j.title, j.applications_count AS stored,
				COALESCE(a.n, 0)::int AS computed
			FROM jobs j
			LEFT JOIN (
				SELECT job_id, COUNT(*) AS n
				FROM job_applications
				WHERE status <> ALL($1)
				GROUP BY job_id
			) a ON a.job_id = j.id
			WHERE j.applications_count <> COALESCE(a.n, 0)
			ORDER BY j.id
			LIMIT $2`, model.InactiveApplicationStatuses(), limit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("find counter drift: %w", err)
	}
	return out, nil
}

// RepairCounters recomputes applications_count for jobIDs, or for every
// drifted job when jobIDs is empty. It returns the number of rows changed.
func (r *ApplicationRepo) RepairCounters(ctx context.Context, jobIDs []string) (int64, error) {
	if jobIDs == nil {
		jobIDs = []string{}
	}
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `
			UPDATE jobs j
			SET applications_count = sub.n
			FROM (
				SELECT jj.id, (
					SELECT COUNT(*) FROM job_applications a
					WHERE a.job_id = jj.id AND a.status <> ALL($1)
				)::int AS n
				FROM jobs jj
				WHERE cardinality($2::uuid[]) = 0 OR jj.id = ANY($2::uuid[])
			) sub
			WHERE j.id = sub.id AND j.applications_count <> sub.n`,
			model.InactiveApplicationStatuses(), jobIDs)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("repair counters: %w", err)
	}
	return affected, nil
}

// applicationTx implements core.ApplicationTx on one pgx transaction.
type applicationTx struct {
	tx pgx.Tx
	tp TimeProvider
}

func (t *applicationTx) GetJobForApply(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := queryOne[model.Job](ctx, t.tx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1 FOR NO KEY UPDATE`, jobID)
	if err != nil {
		if pgxutil.IsNoRows(err) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("load job: %w", err)
	}
	return job, nil
}

func (t *applicationTx) GetProfile(ctx context.Context, userID string) (*model.JobseekerProfile, error) {
	p, err := queryOne[model.JobseekerProfile](ctx, t.tx, `
		SELECT p.user_id, u.full_name, p.phone, p.location, p.bio, p.skills,
			p.linkedin_url, p.github_url, p.portfolio_url, p.website_url,
			p.years_of_experience, p.current_position, p.preferred_location,
			p.preferred_job_type, p.updated_at
		FROM jobseeker_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1`, userID)
	if err != nil {
		if pgxutil.IsNoRows(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

func (t *applicationTx) FindActiveApplication(ctx context.Context, userID, jobID string) (*model.JobApplication, error) {
	app, err := findActive(ctx, t.tx, userID, jobID)
	if err != nil {
		return nil, fmt.Errorf("find active application: %w", err)
	}
	return app, nil
}

func findActive(ctx context.Context, q querier, userID, jobID string) (*model.JobApplication, error) {
	app, err := queryOne[model.JobApplication](ctx, q, `
		SELECT `+applicationColumns+`
		FROM job_applications
		WHERE user_id = $1 AND job_id = $2 AND status <> ALL($3)
		LIMIT 1`, userID, jobID, model.InactiveApplicationStatuses())
	if pgxutil.IsNoRows(err) {
		return nil, nil
	}
	return app, err
}

func (t *applicationTx) DeleteInactiveApplications(ctx context.Context, userID, jobID string) (int64, error) {
	tag, err := t.tx.Exec(ctx, `
		DELETE FROM job_applications
		WHERE user_id = $1 AND job_id = $2 AND status = ANY($3)`,
		userID, jobID, model.InactiveApplicationStatuses())
	if err != nil {
		return 0, fmt.Errorf("delete inactive applications: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (t *applicationTx) ResumeOwnedBy(ctx context.Context, resumeID, userID string) (bool, error) {
	var owned bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM resumes WHERE id = $1 AND user_id = $2)`,
		resumeID, userID).Scan(&owned)
	if err != nil {
		return false, fmt.Errorf("check resume: %w", err)
	}
	return owned, nil
}

func (t *applicationTx) InsertApplication(ctx context.Context, params core.InsertApplicationParams) (*model.JobApplication, error) {
	now := t.tp.Now()
	in := params.Input
	app, err := queryOne[model.JobApplication](ctx, t.tx, `
		INSERT INTO job_applications (
			user_id, job_id, status, cover_letter, resume_id, portfolio_url,
			expected_salary, availability_date, applied_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING `+applicationColumns,
		params.UserID, params.JobID, model.ApplicationStatusPending, in.CoverLetter,
		in.ResumeID, in.PortfolioURL, in.ExpectedSalary, in.AvailabilityDate, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrDuplicateActiveApplication
		}
		return nil, fmt.Errorf("insert application: %w", err)
	}
	return app, nil
}

func (t *applicationTx) AdjustApplicationsCount(ctx context.Context, jobID string, delta int) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE jobs
		SET applications_count = GREATEST(applications_count + $2, 0)
		WHERE id = $1`, jobID, delta)
	if err != nil {
		return fmt.Errorf("adjust applications count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (t *applicationTx) LockApplication(ctx context.Context, id string) (*model.JobApplication, error) {
	app, err := queryOne[model.JobApplication](ctx, t.tx,
		`SELECT `+applicationColumns+` FROM job_applications WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if pgxutil.IsNoRows(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("lock application: %w", err)
	}
	return app, nil
}

func (t *applicationTx) LockApplicationForJob(ctx context.Context, userID, jobID string) (*model.JobApplication, error) {
	app, err := queryOne[model.JobApplication](ctx, t.tx, `
		SELECT `+applicationColumns+`
		FROM job_applications
		WHERE user_id = $1 AND job_id = $2
		ORDER BY (status <> ALL($3)) DESC, applied_at DESC
		LIMIT 1
		FOR UPDATE`, userID, jobID, model.InactiveApplicationStatuses())
	if err != nil {
		if pgxutil.IsNoRows(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("lock application for job: %w", err)
	}
	return app, nil
}

func (t *applicationTx) SetStatus(ctx context.Context, id string, status model.ApplicationStatus) (*model.JobApplication, error) {
	app, err := queryOne[model.JobApplication](ctx, t.tx, `
		UPDATE job_applications
		SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+applicationColumns, id, status, t.tp.Now())
	if err != nil {
		if pgxutil.IsNoRows(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("set application status: %w", err)
	}
	return app, nil
}

func (t *applicationTx) UpdateFields(ctx context.Context, id string, patch model.ApplicationPatch) (*model.JobApplication, error) {
	app, err := queryOne[model.JobApplication](ctx, t.tx, `
		UPDATE job_applications SET
			cover_letter      = COALESCE($2, cover_letter),
			resume_id         = COALESCE($3, resume_id),
			portfolio_url     = COALESCE($4, portfolio_url),
			expected_salary   = COALESCE($5, expected_salary),
			availability_date = COALESCE($6, availability_date),
			updated_at        = $7
		WHERE id = $1 AND status = 'pending'
		RETURNING `+applicationColumns,
		id, patch.CoverLetter, patch.ResumeID, patch.PortfolioURL,
		patch.ExpectedSalary, patch.AvailabilityDate, t.tp.Now())
	if err != nil {
		if pgxutil.IsNoRows(err) {
			return nil, ErrApplicationNotEditable
		}
		return nil, fmt.Errorf("update application: %w", err)
	}
	return app, nil
}

func (t *applicationTx) EmployerUserID(ctx context.Context, jobID string) (string, error) {
	var userID string
	err := t.tx.QueryRow(ctx, `
		SELECT e.user_id
		FROM jobs j
		JOIN employers e ON e.id = j.employer_id
		WHERE j.id = $1`, jobID).Scan(&userID)
	if err != nil {
		if pgxutil.IsNoRows(err) {
			return "", ErrJobNotFound
		}
		return "", fmt.Errorf("job employer: %w", err)
	}
	return userID, nil
}
