package ports

// Package ports defines interfaces (hexagonal ports) for bearer authentication.
// Implementations live in internal/adapters; the HTTP layer depends only on these.

import (
	"context"
	"errors"

	domainauth "github.com/agbarbie/Rural-Connect-sub000/internal/domain/auth"
)

// ErrInvalidToken is returned for unknown, expired or malformed bearer tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenVerifier resolves a bearer token to the calling principal.
type TokenVerifier interface {
	// Verify returns ErrInvalidToken (possibly wrapped) when the token does not
	// identify a caller; any other error is an infrastructure failure.
	Verify(ctx context.Context, token string) (domainauth.Principal, error)
}

// SessionStore persists and retrieves the sessions behind opaque bearer tokens.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
