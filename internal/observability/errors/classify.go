// Package errors turns errors into low-cardinality classes for metric tags
// and alert fields.
package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/agbarbie/Rural-Connect-sub000/internal/errors"
)

// Classify names the kind of err, checking in order: application codes
// ("app_conflict"), context errors, Postgres SQLSTATE classes
// ("pg_integrity", "pg_connection", "pg_40"), network timeouts, and finally
// the innermost concrete type ("errors_errorstring"). nil classifies as "".
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if code := apperrors.GetCode(err); code != "" {
		return "app_" + string(code)
	}
	switch {
	case goerrors.Is(err, context.Canceled):
		return "context_canceled"
	case goerrors.Is(err, context.DeadlineExceeded):
		return "deadline_exceeded"
	}

	var pgErr *pgconn.PgError
	if goerrors.As(err, &pgErr) {
		return classifySQLState(pgErr.Code)
	}
	var netErr net.Error
	if goerrors.As(err, &netErr) && netErr.Timeout() {
		return "net_timeout"
	}
	return typeName(innermost(err))
}

// sqlStateClasses names the SQLSTATE classes worth telling apart; any other
// class is reported by its two-character prefix.
var sqlStateClasses = map[string]string{
	pgerrcode.UniqueViolation[:2]:       "pg_integrity",
	pgerrcode.ConnectionException[:2]:   "pg_connection",
	pgerrcode.InsufficientResources[:2]: "pg_resources",
}

func classifySQLState(code string) string {
	if len(code) < 2 {
		return "pg_unknown"
	}
	if name, ok := sqlStateClasses[code[:2]]; ok {
		return name
	}
	return "pg_" + strings.ToLower(code[:2])
}

func innermost(err error) error {
	for {
		next := goerrors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// typeName renders *pkg.Type as pkg_type.
func typeName(err error) string {
	name := strings.TrimLeft(fmt.Sprintf("%T", err), "*")
	if name == "" || name == "<nil>" {
		return "unknown"
	}
	return strings.ToLower(strings.ReplaceAll(name, ".", "_"))
}
