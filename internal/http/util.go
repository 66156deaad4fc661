package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
	apperrors "github.com/agbarbie/Rural-Connect-sub000/internal/errors"
)

const dateLayout = "2006-01-02"

// parseIntQuery returns the integer value of a query param or a default.
// It is tolerant of missing/invalid values.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// parsePage reads page and limit and clamps them the way every listing does.
func parsePage(r *http.Request) (int, int) {
	return model.NormalizePage(parseIntQuery(r, "page", 1), parseIntQuery(r, "limit", model.DefaultPageLimit))
}

// parseBoolQuery reads an optional boolean query param. Absent yields nil.
func parseBoolQuery(r *http.Request, key string) (*bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, apperrors.ValidationField(key, fmt.Sprintf("%s must be true or false", key))
	}
	return &b, nil
}

// pathID returns the named path value after checking it is a UUID.
func pathID(r *http.Request, name string) (string, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperrors.ValidationField(name, fmt.Sprintf("%s must be a valid UUID", name))
	}
	return id.String(), nil
}

// Date is a calendar date carried as YYYY-MM-DD in request bodies.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string in YYYY-MM-DD form: %w", err)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("date %q must be in YYYY-MM-DD form", s)
	}
	d.Time = t
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

// timePtr converts an optional Date to the model's optional time.
func (d *Date) timePtr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
