package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/agbarbie/Rural-Connect-sub000/internal/data/pgxutil"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
)

// UserRepo reads user accounts. Accounts are written by the identity service.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// GetByID returns one user.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u *model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		u, err = queryOne[model.User](ctx, conn,
			`SELECT id, email, full_name, role, status FROM users WHERE id = $1`, id)
		return err
	})
	if err != nil {
		if pgxutil.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
