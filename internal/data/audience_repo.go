package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/agbarbie/Rural-Connect-sub000/internal/core"
	"github.com/agbarbie/Rural-Connect-sub000/internal/data/pgxutil"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
)

// Match reasons reported for new-job candidates.
const (
	MatchReasonSkills   = "skills"
	MatchReasonLocation = "location"
	MatchReasonJobType  = "job_type"
)

// AudienceRepo computes broadcast audiences in user id order so callers can
// page through them with a keyset cursor.
type AudienceRepo struct {
	DB *sql.DB
}

// NewAudienceRepo creates a new AudienceRepo.
func NewAudienceRepo(db *sql.DB) *AudienceRepo {
	return &AudienceRepo{DB: db}
}

// NewJobCandidates returns active jobseekers whose profile matches the job by
// skill overlap, preferred location or preferred job type.
func (r *AudienceRepo) NewJobCandidates(
	ctx context.Context,
	criteria core.NewJobCriteria,
	q core.AudienceQuery,
) ([]model.Recipient, error) {
	skills := make([]string, 0, len(criteria.Skills))
	for _, s := range criteria.Skills {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			skills = append(skills, s)
		}
	}

	var out []model.Recipient
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		out, err = queryAll[model.Recipient](ctx, conn, `
			WITH candidates AS (
				SELECT u.id, u.full_name,
					EXISTS (
						SELECT 1 FROM unnest(p.skills) AS s
						WHERE lower(s) = ANY($1::text[])
					) AS by_skills,
					(
						COALESCE(p.preferred_location, '') <> '' AND $2::text <> '' AND (
							strpos(lower($2::text), lower(p.preferred_location)) > 0 OR
							strpos(lower(p.preferred_location), lower($2::text)) > 0
						)
					) AS by_location,
					(
						COALESCE(p.preferred_job_type, '') <> '' AND
						lower(p.preferred_job_type) = lower($3::text)
					) AS by_job_type
				FROM users u
				JOIN jobseeker_profiles p ON p.user_id = u.id
				WHERE u.role = 'jobseeker'
				  AND u.status = 'active'
				  AND ($4::uuid IS NULL OR u.id > $4::uuid)
			)
			SELECT id AS user_id, full_name,
				array_remove(ARRAY[
					CASE WHEN by_skills THEN $6::text END,
					CASE WHEN by_location THEN $7::text END,
					CASE WHEN by_job_type THEN $8::text END
				], NULL) AS match_reasons
			FROM candidates
			WHERE by_skills OR by_location OR by_job_type
			ORDER BY id
			LIMIT $5`,
			skills, strings.TrimSpace(criteria.Location), strings.TrimSpace(criteria.EmploymentType),
			cursor(q.After), q.Limit,
			MatchReasonSkills, MatchReasonLocation, MatchReasonJobType)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("new job candidates: %w", err)
	}
	return out, nil
}

// BookmarkHolders returns the jobseekers who saved jobID.
func (r *AudienceRepo) BookmarkHolders(ctx context.Context, jobID string, q core.AudienceQuery) ([]model.Recipient, error) {
	var out []model.Recipient
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		out, err = queryAll[model.Recipient](ctx, conn, `
			SELECT u.id AS user_id, u.full_name, ARRAY[]::text[] AS match_reasons
			FROM job_bookmarks b
			JOIN users u ON u.id = b.user_id
			WHERE b.job_id = $1
			  AND u.role = 'jobseeker'
			  AND ($2::uuid IS NULL OR u.id > $2::uuid)
			ORDER BY u.id
			LIMIT $3`, jobID, cursor(q.After), q.Limit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("bookmark holders: %w", err)
	}
	return out, nil
}

// cursor maps the empty keyset cursor to NULL.
func cursor(after string) any {
	if after == "" {
		return nil
	}
	return after
}
