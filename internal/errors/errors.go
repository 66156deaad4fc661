// Package errors defines the coded application errors services return and
// the HTTP layer renders.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is the stable, machine-readable kind of an AppError. It is sent
// to API callers as the "code" field.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "not_found"   // missing or not visible to the caller
	ErrCodeConflict     ErrorCode = "conflict"    // collides with current state
	ErrCodeValidation   ErrorCode = "validation"  // malformed input
	ErrCodeIneligible   ErrorCode = "ineligible"  // well-formed but refused by a business rule
	ErrCodeForeignKey   ErrorCode = "foreign_key" // references a row that does not exist
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	ErrCodeForbidden    ErrorCode = "forbidden"
	ErrCodeInternal     ErrorCode = "internal"
	ErrCodeTimeout      ErrorCode = "timeout"
	ErrCodeCanceled     ErrorCode = "canceled"
)

var httpStatus = map[ErrorCode]int{
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeIneligible:   http.StatusBadRequest,
	ErrCodeForeignKey:   http.StatusConflict,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeTimeout:      http.StatusGatewayTimeout,
	ErrCodeCanceled:     http.StatusServiceUnavailable,
}

// HTTPStatus returns the response status for the code. Unknown codes are 500.
func (c ErrorCode) HTTPStatus() int {
	if s, ok := httpStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// AppError carries a code, a caller-safe message and optionally the input
// field at fault and the underlying cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Field   string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *AppError) Unwrap() error { return e.Cause }

// NotFound reports a missing or invisible resource.
func NotFound(msg string) *AppError { return &AppError{Code: ErrCodeNotFound, Message: msg} }

// Conflict reports a request that collides with current state.
func Conflict(msg string) *AppError { return &AppError{Code: ErrCodeConflict, Message: msg} }

// Forbidden reports a role that may not perform the operation.
func Forbidden(msg string) *AppError { return &AppError{Code: ErrCodeForbidden, Message: msg} }

// Validation reports malformed input. msg is used verbatim.
func Validation(msg string) *AppError { return &AppError{Code: ErrCodeValidation, Message: msg} }

// Validationf is Validation with a formatted message.
func Validationf(format string, args ...any) *AppError {
	return Validation(fmt.Sprintf(format, args...))
}

// ValidationField reports malformed input in one named field.
func ValidationField(field, msg string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: msg, Field: field}
}

// Ineligible reports a business-rule refusal. cause stays reachable through
// errors.Is so callers can tell refusals apart.
func Ineligible(msg string, cause error) *AppError {
	return &AppError{Code: ErrCodeIneligible, Message: msg, Cause: cause}
}

// Wrap attaches a code and message to err. A nil err stays nil.
func Wrap(err error, code ErrorCode, msg string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: msg, Cause: err}
}

// As returns the outermost AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// GetCode returns the code of the outermost AppError, or "".
func GetCode(err error) ErrorCode {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ""
}

// GetField returns the offending field of the outermost AppError, or "".
func GetField(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Field
	}
	return ""
}

// IsNotFound reports whether err carries ErrCodeNotFound.
func IsNotFound(err error) bool { return GetCode(err) == ErrCodeNotFound }

// IsConflict reports whether err carries ErrCodeConflict.
func IsConflict(err error) bool { return GetCode(err) == ErrCodeConflict }

// IsValidation reports whether err carries ErrCodeValidation.
func IsValidation(err error) bool { return GetCode(err) == ErrCodeValidation }

// IsIneligible reports whether err carries ErrCodeIneligible.
func IsIneligible(err error) bool { return GetCode(err) == ErrCodeIneligible }
