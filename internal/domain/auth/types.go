package auth

// Package auth contains domain-level types for authenticated callers.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents a marketplace user's role.
// Keep string form for easy persistence and token claims.
type Role string

const (
	RoleJobseeker Role = "jobseeker"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

// Valid returns true for the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleJobseeker, RoleEmployer, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole normalises a role string from a token claim or session record.
func ParseRole(v string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(v)))
	return r, r.Valid()
}

// Principal is the caller identified by a verified bearer token.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}

// Session is the record the issuing service persists for an opaque bearer token.
// ID is the token itself.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Principal returns the caller described by the session.
func (s Session) Principal() Principal {
	return Principal{UserID: s.UserID, Email: s.Email, Role: s.Role}
}
