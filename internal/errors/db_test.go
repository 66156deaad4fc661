package errors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapDBError_NilError(t *testing.T) {
	if err := MapDBError(nil); err != nil {
		t.Errorf("MapDBError(nil) = %v, want nil", err)
	}
}

func TestMapDBError_Codes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{name: "deadline exceeded", err: context.DeadlineExceeded, wantCode: ErrCodeTimeout},
		{name: "canceled", err: fmt.Errorf("query: %w", context.Canceled), wantCode: ErrCodeCanceled},
		{name: "pgx no rows", err: pgx.ErrNoRows, wantCode: ErrCodeNotFound},
		{name: "sql no rows", err: fmt.Errorf("scan: %w", sql.ErrNoRows), wantCode: ErrCodeNotFound},
		{name: "fk violation", err: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, wantCode: ErrCodeForeignKey},
		{name: "check violation", err: &pgconn.PgError{Code: pgerrcode.CheckViolation}, wantCode: ErrCodeValidation},
		{name: "not null violation", err: &pgconn.PgError{Code: pgerrcode.NotNullViolation}, wantCode: ErrCodeValidation},
		{name: "bad uuid text", err: &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation}, wantCode: ErrCodeValidation},
		{name: "unknown pg error", err: &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, wantCode: ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(MapDBError(tt.err)); got != tt.wantCode {
				t.Errorf("MapDBError() code = %v, want %v", got, tt.wantCode)
			}
		})
	}
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		TableName:      "job_applications",
		ConstraintName: "job_applications_active_uniq",
		Detail:         "Key (user_id, job_id)=(a, b) already exists.",
	}

	err := MapDBError(fmt.Errorf("insert: %w", pgErr))
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", GetCode(err))
	}
	if got := GetField(err); got != "user_id, job_id" {
		t.Errorf("field = %q, want %q", got, "user_id, job_id")
	}
	if got := err.(*AppError).Message; got != "This application already exists." {
		t.Errorf("message = %q", got)
	}
	if !errors.Is(err, pgErr) {
		t.Errorf("expected cause to be preserved")
	}
}

func TestMapDBError_ForeignKeyMessages(t *testing.T) {
	parent := MapDBError(&pgconn.PgError{
		Code:      pgerrcode.ForeignKeyViolation,
		TableName: "jobs",
		Detail:    `Key (id)=(x) is still referenced from table "job_applications".`,
	})
	if got := parent.(*AppError).Message; got != "Cannot delete because this job is still in use." {
		t.Errorf("parent message = %q", got)
	}

	child := MapDBError(&pgconn.PgError{
		Code:   pgerrcode.ForeignKeyViolation,
		Detail: `Key (job_id)=(x) is not present in table "jobs".`,
	})
	if got := child.(*AppError).Message; got != "The referenced record does not exist." {
		t.Errorf("child message = %q", got)
	}
}

func TestMapDBError_StandardError(t *testing.T) {
	orig := errors.New("boom")
	if err := MapDBError(orig); err != orig {
		t.Errorf("expected unrecognized error to pass through unchanged, got %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "job_bookmarks_user_job_key"}

	if !IsUniqueViolation(fmt.Errorf("wrap: %w", pgErr), "") {
		t.Errorf("expected any-constraint match")
	}
	if !IsUniqueViolation(pgErr, "job_bookmarks_user_job_key") {
		t.Errorf("expected named constraint match")
	}
	if IsUniqueViolation(pgErr, "other") {
		t.Errorf("did not expect other constraint to match")
	}
	if IsUniqueViolation(errors.New("x"), "") {
		t.Errorf("did not expect plain error to match")
	}
}
