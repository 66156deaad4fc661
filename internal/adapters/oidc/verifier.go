package oidc

// Package oidc verifies bearer tokens issued by an external OpenID Connect provider.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/agbarbie/Rural-Connect-sub000/internal/domain/auth"
	"github.com/agbarbie/Rural-Connect-sub000/internal/ports"
)

const (
	defaultRoleClaim   = "role"
	defaultGroupsClaim = "groups"
)

// RoleMapper derives a role from provider groups when the role claim is absent.
type RoleMapper interface {
	Map(groups []string) (domainauth.Role, bool)
}

// VerifierConfig holds configuration for the OIDC verifier.
type VerifierConfig struct {
	IssuerURL string
	ClientID  string
	// RoleClaim names the claim carrying the marketplace role.
	RoleClaim string
	// UserInfoFallback treats tokens that are not valid ID tokens as access
	// tokens and resolves them through the userinfo endpoint.
	UserInfoFallback bool
	// GroupsClaim and Groups are consulted only when the role claim is unusable.
	GroupsClaim string
	Groups      RoleMapper
	HTTPClient  *http.Client // Optional, defaults to a client with a 30s timeout
}

// Verifier implements ports.TokenVerifier using go-oidc.
type Verifier struct {
	provider   *gooidc.Provider
	verifier   *gooidc.IDTokenVerifier
	httpClient *http.Client
	claims     claimMapping
	fallback   bool
}

type claimMapping struct {
	role   string
	groups string
	mapper RoleMapper
}

// NewVerifier performs provider discovery and builds an ID token verifier.
func NewVerifier(ctx context.Context, cfg VerifierConfig) (*Verifier, error) {
	if cfg.IssuerURL == "" {
		return nil, errors.New("issuer URL is required")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	mapping := claimMapping{role: cfg.RoleClaim, groups: cfg.GroupsClaim, mapper: cfg.Groups}
	if mapping.role == "" {
		mapping.role = defaultRoleClaim
	}
	if mapping.groups == "" {
		mapping.groups = defaultGroupsClaim
	}

	issuer := strings.TrimSuffix(cfg.IssuerURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(gooidc.ClientContext(ctx, httpClient), issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Verifier{
		provider:   op,
		verifier:   op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		httpClient: httpClient,
		claims:     mapping,
		fallback:   cfg.UserInfoFallback,
	}, nil
}

// Verify resolves token to a principal. Any verification failure wraps ports.ErrInvalidToken.
func (v *Verifier) Verify(ctx context.Context, token string) (domainauth.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domainauth.Principal{}, fmt.Errorf("%w: empty token", ports.ErrInvalidToken)
	}
	ctx = gooidc.ClientContext(ctx, v.httpClient)

	claims, err := v.idTokenClaims(ctx, token)
	if err != nil {
		if !v.fallback {
			return domainauth.Principal{}, fmt.Errorf("%w: %w", ports.ErrInvalidToken, err)
		}
		claims, err = v.userInfoClaims(ctx, token)
		if err != nil {
			return domainauth.Principal{}, fmt.Errorf("%w: %w", ports.ErrInvalidToken, err)
		}
	}
	return principalFromClaims(claims, v.claims)
}

func (v *Verifier) idTokenClaims(ctx context.Context, raw string) (map[string]any, error) {
	idTok, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("verify id_token: %w", err)
	}
	var claims map[string]any
	if err := idTok.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parse id_token claims: %w", err)
	}
	return claims, nil
}

func (v *Verifier) userInfoClaims(ctx context.Context, accessToken string) (map[string]any, error) {
	ui, err := v.provider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	var claims map[string]any
	if err := ui.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return claims, nil
}

// principalFromClaims maps sub, email and the role claim onto a principal.
// The role claim may be a string or a list whose first known role wins;
// failing that the groups claim goes through the configured mapper.
func principalFromClaims(claims map[string]any, m claimMapping) (domainauth.Principal, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return domainauth.Principal{}, fmt.Errorf("%w: missing sub claim", ports.ErrInvalidToken)
	}
	email, _ := claims["email"].(string)

	var role domainauth.Role
	ok := false
	for _, s := range stringValues(claims[m.role]) {
		if role, ok = domainauth.ParseRole(s); ok {
			break
		}
	}
	if !ok && m.mapper != nil {
		role, ok = m.mapper.Map(stringValues(claims[m.groups]))
	}
	if !ok {
		return domainauth.Principal{}, fmt.Errorf("%w: missing or unknown %s claim", ports.ErrInvalidToken, m.role)
	}
	return domainauth.Principal{UserID: sub, Email: email, Role: role}, nil
}

// stringValues accepts a string claim or a list claim and drops non-strings.
func stringValues(raw any) []string {
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, isString := item.(string); isString {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
