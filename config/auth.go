package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode selects how bearer tokens are verified.
type AuthMode string

const (
	// AuthModeSession resolves opaque bearer tokens against the shared Redis session store.
	AuthModeSession AuthMode = "session"
	// AuthModeOIDC verifies bearer tokens as OIDC ID tokens.
	AuthModeOIDC AuthMode = "oidc"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "session", "oidc":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: session, oidc)", v)
	}
}

// OIDCConfig contains the issuer settings used to verify ID tokens.
type OIDCConfig struct {
	IssuerURL string `env:"ISSUER_URL"`
	ClientID  string `env:"CLIENT_ID"`
	// RoleClaim names the claim holding "jobseeker", "employer" or "admin".
	RoleClaim string `env:"ROLE_CLAIM" envDefault:"role"`
	// UserInfoFallback resolves tokens that are not JWTs through the userinfo endpoint.
	UserInfoFallback bool `env:"USERINFO_FALLBACK" envDefault:"false"`
	// Group mapping applies when a token carries no usable role claim.
	GroupsClaim    string `env:"GROUPS_CLAIM"    envDefault:"groups"`
	AdminGroup     string `env:"ADMIN_GROUP"`
	EmployerGroup  string `env:"EMPLOYER_GROUP"`
	JobseekerGroup string `env:"JOBSEEKER_GROUP"`
}

// SessionConfig controls the Redis-backed session lookup.
type SessionConfig struct {
	// KeyPrefix must match the prefix used by the service that issues sessions.
	KeyPrefix string        `env:"KEY_PREFIX" envDefault:"session:"`
	TTL       time.Duration `env:"TTL"        envDefault:"24h"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	Mode AuthMode `env:"AUTH_MODE" envDefault:"session"`

	OIDC    OIDCConfig    `envPrefix:"OIDC_"`
	Session SessionConfig `envPrefix:"SESSION_"`
}
