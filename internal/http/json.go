// Package httpx exposes the marketplace services over a JSON REST API.
package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	apperrors "github.com/agbarbie/Rural-Connect-sub000/internal/errors"
)

// envelope is the response body shape shared by every endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
}

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeJSON(w, r, dst, false)
}

// DecodeOptionalJSON is DecodeJSON for endpoints whose body may be empty.
func DecodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeJSON(w, r, dst, true)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, ErrorParams{Code: http.StatusRequestEntityTooLarge, ErrCode: "body_too_large", Err: err})
			return false
		}
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}
	if dec.More() {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_json",
			Err:     errors.New("request body must contain a single JSON object"),
		})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// WriteData writes a success envelope around data.
func WriteData(w http.ResponseWriter, code int, data any) {
	WriteJSON(w, code, envelope{Success: true, Data: data})
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
	Field   string
}

// WriteError writes a failure envelope using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, envelope{Message: p.Err.Error(), Code: p.ErrCode, Field: p.Field})
}

// WriteServiceError renders an error returned by a service. Application
// errors keep their message; anything else is logged and hidden behind a
// generic 500.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	if apperrors.GetCode(err) == "" {
		err = apperrors.MapDBError(err)
	}

	appErr, ok := apperrors.As(err)
	if !ok {
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: string(apperrors.ErrCodeInternal),
			Err:     errors.New("internal server error"),
		})
		return
	}

	status := appErr.Code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "code", appErr.Code, "error", err)
	}
	WriteError(w, ErrorParams{
		Code:    status,
		ErrCode: string(appErr.Code),
		Err:     errors.New(appErr.Message),
		Field:   appErr.Field,
	})
}
