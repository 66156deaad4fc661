package redis

// Package redis provides Redis-based adapters for bearer authentication.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/agbarbie/Rural-Connect-sub000/internal/domain/auth"
	"github.com/agbarbie/Rural-Connect-sub000/internal/ports"
)

const defaultPrefix = "session:"

// SessionStoreOptions groups dependencies for SessionStore.
type SessionStoreOptions struct {
	Client redis.UniversalClient // Required
	// KeyPrefix must match the prefix used by the service that issues sessions.
	KeyPrefix string
	// DefaultTTL applies to sessions saved without an expiry.
	DefaultTTL time.Duration
	Now        func() time.Time // Optional: clock, defaults to time.Now
}

// SessionStore reads the sessions written by the issuing service and
// resolves opaque bearer tokens against them.
type SessionStore struct {
	client     redis.UniversalClient
	prefix     string
	defaultTTL time.Duration
	now        func() time.Time
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(opts SessionStoreOptions) (*SessionStore, error) {
	if opts.Client == nil {
		return nil, errors.New("redis client is required")
	}
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &SessionStore{client: opts.Client, prefix: prefix, defaultTTL: opts.DefaultTTL, now: now}, nil
}

// Save stores sess until its expiry. Sessions without an expiry use the default TTL.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	ttl := s.defaultTTL
	if !sess.ExpiresAt.IsZero() {
		ttl = sess.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return errors.New("session is expired")
		}
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err()
}

// Get loads the session for id. Missing and expired sessions yield ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal(data, &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}
	if sess.ID == "" {
		sess.ID = id
	}

	// Redis TTL normally removes expired sessions; clock skew can leave one behind.
	if sess.Expired(s.now()) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Session{}, ErrNotFound
	}

	return sess, nil
}

// Delete removes the session for id.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}

// Verify resolves an opaque bearer token to its session's principal.
func (s *SessionStore) Verify(ctx context.Context, token string) (domainauth.Principal, error) {
	sess, err := s.Get(ctx, strings.TrimSpace(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domainauth.Principal{}, fmt.Errorf("%w: session not found", ports.ErrInvalidToken)
		}
		return domainauth.Principal{}, err
	}
	role, ok := domainauth.ParseRole(string(sess.Role))
	if !ok || sess.UserID == "" {
		return domainauth.Principal{}, fmt.Errorf("%w: session has no valid user or role", ports.ErrInvalidToken)
	}
	sess.Role = role
	return sess.Principal(), nil
}

// ErrNotFound is returned when a session is not found.
var ErrNotFound = errors.New("session not found")
