package errors

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// reKeyField extracts the column list from "Key (user_id, job_id)=(...) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

// tableNames maps tables to the names shown to API callers.
var tableNames = map[string]string{
	"users":              "user",
	"jobseeker_profiles": "profile",
	"employers":          "employer",
	"jobs":               "job",
	"resumes":            "resume",
	"job_applications":   "application",
	"notifications":      "notification",
	"job_bookmarks":      "bookmark",
}

// MapDBError maps database errors to AppError instances:
//   - pgx.ErrNoRows / sql.ErrNoRows → NotFound
//   - unique violations → Conflict
//   - foreign key violations → ForeignKey
//   - check and NOT NULL violations → Validation
//   - context deadline / cancel → Timeout / Canceled
//
// Unrecognized errors are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &AppError{Code: ErrCodeTimeout, Message: "Request timed out. Please try again.", Cause: err}
	case errors.Is(err, context.Canceled):
		return &AppError{Code: ErrCodeCanceled, Message: "Request was canceled.", Cause: err}
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, sql.ErrNoRows):
		return &AppError{Code: ErrCodeNotFound, Message: "Resource not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}
	return err
}

// IsUniqueViolation reports whether err is a unique violation, optionally on a named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return &AppError{
			Code:    ErrCodeConflict,
			Message: "This " + tableName(pgErr.TableName, "record") + " already exists.",
			Field:   uniqueField(pgErr),
			Cause:   pgErr,
		}
	case pgerrcode.ForeignKeyViolation:
		return &AppError{Code: ErrCodeForeignKey, Message: foreignKeyMessage(pgErr), Cause: pgErr}
	case pgerrcode.CheckViolation:
		return &AppError{Code: ErrCodeValidation, Message: "Invalid data. Please check your input.", Field: pgErr.ColumnName, Cause: pgErr}
	case pgerrcode.NotNullViolation:
		return &AppError{Code: ErrCodeValidation, Message: "Required field is missing.", Field: pgErr.ColumnName, Cause: pgErr}
	case pgerrcode.InvalidTextRepresentation:
		return &AppError{Code: ErrCodeValidation, Message: "Malformed identifier or value.", Cause: pgErr}
	default:
		return &AppError{Code: ErrCodeInternal, Message: "A database error occurred. Please try again.", Cause: pgErr}
	}
}

func uniqueField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return m[1]
	}
	return ""
}

func foreignKeyMessage(pgErr *pgconn.PgError) string {
	switch {
	case strings.Contains(pgErr.Detail, "is still referenced from table"):
		return "Cannot delete because this " + tableName(pgErr.TableName, "item") + " is still in use."
	case strings.Contains(pgErr.Detail, "is not present in table"):
		return "The referenced record does not exist."
	default:
		return "Cannot complete operation because of a related record."
	}
}

func tableName(table, fallback string) string {
	if name, ok := tableNames[strings.ToLower(strings.TrimSpace(table))]; ok {
		return name
	}
	return fallback
}
