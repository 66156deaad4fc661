package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/agbarbie/Rural-Connect-sub000/internal/data/pgxutil"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
)

const notificationColumns = `id, user_id, type, title, message, metadata, related_id, read, created_at`

// NotificationRepo is the notification store.
type NotificationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewNotificationRepo creates a new NotificationRepo.
func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{DB: db, timeProvider: SystemClock}
}

// Create persists one notification.
func (r *NotificationRepo) Create(ctx context.Context, req *model.CreateNotificationRequest) (*model.Notification, error) {
	if req == nil {
		return nil, errors.New("create notification request is required")
	}
	if strings.TrimSpace(req.UserID) == "" {
		return nil, errors.New("notification recipient is required")
	}
	metadata := req.Metadata
	if len(metadata) == 0 {
		metadata = json.RawMessage(`{}`)
	}

	var n *model.Notification
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		n, err = queryOne[model.Notification](ctx, conn, `
			INSERT INTO notifications (user_id, type, title, message, metadata, related_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+notificationColumns,
			req.UserID, req.Type, req.Title, req.Message, metadata, req.RelatedID, r.timeProvider.Now())
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

type notificationRow struct {
	model.Notification
	TotalCount int `db:"total_count"`
}

// List returns one page of a user's notifications restricted to opts.Types,
// newest first. An empty type list matches nothing.
func (r *NotificationRepo) List(ctx context.Context, opts model.NotificationListOptions) (*model.NotificationPage, error) {
	page, limit := model.NormalizePage(opts.Page, opts.Limit)
	types := typeStrings(opts.Types)
	var read any
	if opts.Read != nil {
		read = *opts.Read
	}

	var rows []notificationRow
	total := 0
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		rows, err = queryAll[notificationRow](ctx, conn, `
			SELECT `+notificationColumns+`, COUNT(*) OVER() AS total_count
			FROM notifications
			WHERE user_id = $1
			  AND type = ANY($2)
			  AND ($3::boolean IS NULL OR read = $3::boolean)
			ORDER BY created_at DESC, id DESC
			LIMIT $4 OFFSET $5`,
			opts.UserID, types, read, limit, model.Offset(page, limit))
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			total = rows[0].TotalCount
			return nil
		}
		if page > 1 {
			// Past the last page the window total is unavailable.
			return conn.QueryRow(ctx, `
				SELECT COUNT(*) FROM notifications
				WHERE user_id = $1
				  AND type = ANY($2)
				  AND ($3::boolean IS NULL OR read = $3::boolean)`,
				opts.UserID, types, read).Scan(&total)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	out := make([]model.Notification, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].Notification)
	}
	return &model.NotificationPage{
		Notifications: out,
		Pagination:    model.NewPagination(page, limit, total),
	}, nil
}

// CountUnread counts a user's unread notifications restricted to types.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID string, types []model.NotificationType) (int, error) {
	var n int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT COUNT(*) FROM notifications
			WHERE user_id = $1 AND read = false AND type = ANY($2)`,
			userID, typeStrings(types)).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead marks one of the user's notifications read. Marking an already
// read notification succeeds.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	return r.execOwned(ctx, "mark notification read",
		`UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`, id, userID)
}

// MarkAllRead marks every unread notification of the user read and returns how many changed.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx,
			`UPDATE notifications SET read = true WHERE user_id = $1 AND read = false`, userID)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return affected, nil
}

// Delete removes one of the user's notifications.
func (r *NotificationRepo) Delete(ctx context.Context, id, userID string) error {
	return r.execOwned(ctx, "delete notification",
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *NotificationRepo) execOwned(ctx context.Context, op, query string, id, userID string) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, query, id, userID)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func typeStrings(types []model.NotificationType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}
