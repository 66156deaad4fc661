package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"sync"

	domainauth "github.com/agbarbie/Rural-Connect-sub000/internal/domain/auth"
	"github.com/agbarbie/Rural-Connect-sub000/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.TokenVerifier = (*StaticVerifier)(nil)
	_ ports.SessionStore  = (*MemorySessionStore)(nil)
)

// StaticVerifier resolves bearer tokens from a fixed table.
type StaticVerifier struct {
	VerifyFunc func(ctx context.Context, token string) (domainauth.Principal, error)

	mu     sync.RWMutex
	tokens map[string]domainauth.Principal
}

// NewStaticVerifier creates a StaticVerifier with no known tokens.
func NewStaticVerifier() *StaticVerifier {
	return &StaticVerifier{tokens: make(map[string]domainauth.Principal)}
}

// Add registers token as identifying p and returns the verifier for chaining.
func (v *StaticVerifier) Add(token string, p domainauth.Principal) *StaticVerifier {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.tokens == nil {
		v.tokens = make(map[string]domainauth.Principal)
	}
	v.tokens[token] = p
	return v
}

func (v *StaticVerifier) Verify(ctx context.Context, token string) (domainauth.Principal, error) {
	if v.VerifyFunc != nil {
		return v.VerifyFunc(ctx, token)
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	p, ok := v.tokens[token]
	if !ok {
		return domainauth.Principal{}, fmt.Errorf("%w: unknown token", ports.ErrInvalidToken)
	}
	return p, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok || id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// ErrNotFound is returned by mocks when an entity is not present.
var ErrNotFound = errors.New("not found")
