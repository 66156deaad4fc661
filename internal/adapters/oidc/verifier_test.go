package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbarbie/Rural-Connect-sub000/internal/adapters/authroles"
	domainauth "github.com/agbarbie/Rural-Connect-sub000/internal/domain/auth"
	"github.com/agbarbie/Rural-Connect-sub000/internal/ports"
)

// newTestIssuer serves a discovery document and a userinfo endpoint that
// accepts the given access tokens.
func newTestIssuer(t *testing.T, tokens map[string]map[string]any) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 srv.URL,
			"authorization_endpoint": srv.URL + "/auth",
			"token_endpoint":         srv.URL + "/token",
			"userinfo_endpoint":      srv.URL + "/userinfo",
			"jwks_uri":               srv.URL + "/jwks",
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "
		auth := r.Header.Get("Authorization")
		if len(auth) <= len(prefix) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		claims, ok := tokens[auth[len(prefix):]]
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(claims)
	})
	mux.HandleFunc("/jwks", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"keys":[]}`))
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewVerifier_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		cfg    VerifierConfig
		errMsg string
	}{
		{name: "missing issuer", cfg: VerifierConfig{ClientID: "c"}, errMsg: "issuer URL is required"},
		{name: "missing client", cfg: VerifierConfig{IssuerURL: "http://issuer"}, errMsg: "client ID is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVerifier(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewVerifier_DiscoveryFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, err := NewVerifier(context.Background(), VerifierConfig{IssuerURL: srv.URL, ClientID: "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oidc new provider")
}

func TestVerifier_UserInfoFallback(t *testing.T) {
	srv := newTestIssuer(t, map[string]map[string]any{
		"access-employer": {"sub": "user-1", "email": "boss@example.com", "role": "Employer"},
		"access-roles":    {"sub": "user-2", "roles": []string{"staff", "jobseeker"}},
		"access-norole":   {"sub": "user-3"},
	})

	v, err := NewVerifier(context.Background(), VerifierConfig{
		IssuerURL:        srv.URL + "/.well-known/openid-configuration",
		ClientID:         "marketplace",
		UserInfoFallback: true,
	})
	require.NoError(t, err)

	p, err := v.Verify(context.Background(), "access-employer")
	require.NoError(t, err)
	assert.Equal(t, domainauth.Principal{UserID: "user-1", Email: "boss@example.com", Role: domainauth.RoleEmployer}, p)

	_, err = v.Verify(context.Background(), "access-norole")
	require.ErrorIs(t, err, ports.ErrInvalidToken)

	_, err = v.Verify(context.Background(), "unknown")
	require.ErrorIs(t, err, ports.ErrInvalidToken)

	t.Run("custom role claim with list value", func(t *testing.T) {
		rv, rerr := NewVerifier(context.Background(), VerifierConfig{
			IssuerURL: srv.URL, ClientID: "marketplace", RoleClaim: "roles", UserInfoFallback: true,
		})
		require.NoError(t, rerr)
		p, rerr := rv.Verify(context.Background(), "access-roles")
		require.NoError(t, rerr)
		assert.Equal(t, domainauth.RoleJobseeker, p.Role)
	})
}

func TestVerifier_NoFallbackRejectsOpaqueTokens(t *testing.T) {
	srv := newTestIssuer(t, map[string]map[string]any{
		"access-employer": {"sub": "user-1", "role": "employer"},
	})
	v, err := NewVerifier(context.Background(), VerifierConfig{IssuerURL: srv.URL, ClientID: "marketplace"})
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "access-employer")
	require.ErrorIs(t, err, ports.ErrInvalidToken)
	assert.Contains(t, err.Error(), "verify id_token")

	_, err = v.Verify(context.Background(), "  ")
	require.ErrorIs(t, err, ports.ErrInvalidToken)
}

func TestPrincipalFromClaims(t *testing.T) {
	roleOnly := claimMapping{role: "role", groups: "groups"}

	p, err := principalFromClaims(map[string]any{"sub": "s", "email": "e@x", "role": "admin"}, roleOnly)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, p.Role)

	_, err = principalFromClaims(map[string]any{"role": "admin"}, roleOnly)
	require.ErrorIs(t, err, ports.ErrInvalidToken)

	_, err = principalFromClaims(map[string]any{"sub": "s", "role": []any{1, "guest"}}, roleOnly)
	require.ErrorIs(t, err, ports.ErrInvalidToken)

	p, err = principalFromClaims(map[string]any{"sub": "s", "role": []any{1, "employer"}}, roleOnly)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleEmployer, p.Role)
}

func TestPrincipalFromClaims_GroupMapping(t *testing.T) {
	m := claimMapping{
		role:   "role",
		groups: "groups",
		mapper: authroles.StaticRoleMapper{EmployerGroup: "hiring"},
	}

	p, err := principalFromClaims(map[string]any{"sub": "s", "groups": []any{"staff", "hiring"}}, m)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleEmployer, p.Role)

	// A usable role claim wins over groups.
	p, err = principalFromClaims(map[string]any{"sub": "s", "role": "jobseeker", "groups": "hiring"}, m)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleJobseeker, p.Role)

	_, err = principalFromClaims(map[string]any{"sub": "s", "groups": []any{"staff"}}, m)
	require.ErrorIs(t, err, ports.ErrInvalidToken)
}
