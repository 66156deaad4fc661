package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/agbarbie/Rural-Connect-sub000/internal/data/pgxutil"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
)

// BookmarkRepo stores saved jobs.
type BookmarkRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewBookmarkRepo creates a new BookmarkRepo.
func NewBookmarkRepo(db *sql.DB) *BookmarkRepo {
	return &BookmarkRepo{DB: db, timeProvider: SystemClock}
}

// Create saves jobID for userID.
func (r *BookmarkRepo) Create(ctx context.Context, userID, jobID string) (*model.Bookmark, error) {
	var b *model.Bookmark
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		b, err = queryOne[model.Bookmark](ctx, conn, `
			INSERT INTO job_bookmarks (user_id, job_id, saved_at)
			VALUES ($1, $2, $3)
			RETURNING id, user_id, job_id, saved_at`, userID, jobID, r.timeProvider.Now())
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return nil, ErrAlreadyBookmarked
			case pgerrcode.ForeignKeyViolation:
				return nil, ErrJobNotFound
			}
		}
		return nil, fmt.Errorf("create bookmark: %w", err)
	}
	return b, nil
}

// Delete removes a saved job.
func (r *BookmarkRepo) Delete(ctx context.Context, userID, jobID string) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `DELETE FROM job_bookmarks WHERE user_id = $1 AND job_id = $2`, userID, jobID)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	if affected == 0 {
		return ErrBookmarkNotFound
	}
	return nil
}

type savedJobRow struct {
	model.Job
	BookmarkID  string    `db:"bookmark_id"`
	SavedAt     time.Time `db:"saved_at"`
	CompanyName string    `db:"company_name"`
	TotalCount  int       `db:"total_count"`
}

// List returns a user's saved jobs, most recently saved first.
func (r *BookmarkRepo) List(ctx context.Context, opts model.BookmarkListOptions) (*model.SavedJobsPage, error) {
	page, limit := model.NormalizePage(opts.Page, opts.Limit)
	var rows []savedJobRow
	total := 0
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		rows, err = queryAll[savedJobRow](ctx, conn, `
			SELECT `+jobColumnsJ+`, b.id AS bookmark_id, b.saved_at, e.company_name,
				COUNT(*) OVER() AS total_count
			FROM job_bookmarks b
			JOIN jobs j ON j.id = b.job_id
			JOIN employers e ON e.id = j.employer_id
			WHERE b.user_id = $1
			ORDER BY b.saved_at DESC, b.id DESC
			LIMIT $2 OFFSET $3`, opts.UserID, limit, model.Offset(page, limit))
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			total = rows[0].TotalCount
			return nil
		}
		if page > 1 {
			return conn.QueryRow(ctx,
				`SELECT COUNT(*) FROM job_bookmarks WHERE user_id = $1`, opts.UserID).Scan(&total)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}

	jobs := make([]model.SavedJob, 0, len(rows))
	for i := range rows {
		jobs = append(jobs, model.SavedJob{
			BookmarkID:  rows[i].BookmarkID,
			SavedAt:     rows[i].SavedAt,
			CompanyName: rows[i].CompanyName,
			Job:         rows[i].Job,
		})
	}
	return &model.SavedJobsPage{Jobs: jobs, Pagination: model.NewPagination(page, limit, total)}, nil
}
