package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agbarbie/Rural-Connect-sub000/internal/core"
	"github.com/agbarbie/Rural-Connect-sub000/internal/data/pgxutil"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
)

// Advisory lock namespace for retention operations.
// Two-arg pg_try_advisory_xact_lock(major, minor) keeps the keys namespaced.
const (
	advisoryLockRetentionMajor         = 2000
	advisoryLockRetentionNotifications = 1
	advisoryLockRetentionApplications  = 2
)

// RetentionRepo purges aged rows in bounded batches. Concurrent reapers skip
// a batch rather than wait when another instance holds the lock.
type RetentionRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewRetentionRepo creates a new RetentionRepo.
func NewRetentionRepo(db *sql.DB, cfg RepoConfig) *RetentionRepo {
	tp := clockOrSystem(cfg.TimeProvider)
	return &RetentionRepo{DB: db, timeProvider: tp}
}

// DeleteReadNotifications deletes up to params.BatchSize read notifications
// created before now - params.MaxAge.
func (r *RetentionRepo) DeleteReadNotifications(ctx context.Context, params core.RetentionParams) (int64, error) {
	return r.deleteBatch(ctx, advisoryLockRetentionNotifications, params, func(tx *sql.Tx, cutoff any) (sql.Result, error) {
		return tx.ExecContext(ctx, `
			DELETE FROM notifications
			WHERE id IN (
				SELECT id FROM notifications
				WHERE read = true AND created_at < $1
				ORDER BY created_at
				LIMIT $2
			)`, cutoff, params.BatchSize)
	})
}

// DeleteInactiveApplications deletes up to params.BatchSize withdrawn or
// cancelled applications last updated before now - params.MaxAge. Inactive
// rows never contribute to applications_count, so no counter moves.
func (r *RetentionRepo) DeleteInactiveApplications(ctx context.Context, params core.RetentionParams) (int64, error) {
	return r.deleteBatch(ctx, advisoryLockRetentionApplications, params, func(tx *sql.Tx, cutoff any) (sql.Result, error) {
		return tx.ExecContext(ctx, `
			DELETE FROM job_applications
			WHERE id IN (
				SELECT id FROM job_applications
				WHERE status = ANY($1) AND updated_at < $2
				ORDER BY updated_at
				LIMIT $3
			)`, model.InactiveApplicationStatuses(), cutoff, params.BatchSize)
	})
}

func (r *RetentionRepo) deleteBatch(
	ctx context.Context,
	minor int,
	params core.RetentionParams,
	del func(tx *sql.Tx, cutoff any) (sql.Result, error),
) (int64, error) {
	if params.BatchSize <= 0 {
		return 0, errors.New("batch size must be greater than zero")
	}
	if params.MaxAge <= 0 {
		return 0, errors.New("max age must be greater than zero")
	}

	var rowsAffected int64
	err := pgxutil.WithSQLTx(ctx, r.DB, nil, func(tx *sql.Tx) error {
		var locked bool
		if err := tx.QueryRowContext(ctx, "SELECT pg_try_advisory_xact_lock($1, $2)",
			advisoryLockRetentionMajor, minor).Scan(&locked); err != nil {
			return fmt.Errorf("acquire advisory lock: %w", err)
		}
		if !locked {
			return nil
		}

		cutoff := r.timeProvider.Now().Add(-params.MaxAge).UTC()
		res, err := del(tx, cutoff)
		if err != nil {
			return fmt.Errorf("retention delete: %w", err)
		}
		ra, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		rowsAffected = ra
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rowsAffected, nil
}
