package ports_test

import (
	"testing"

	"github.com/agbarbie/Rural-Connect-sub000/internal/adapters/oidc"
	"github.com/agbarbie/Rural-Connect-sub000/internal/adapters/redis"
	mocks "github.com/agbarbie/Rural-Connect-sub000/internal/mocks/auth"
	"github.com/agbarbie/Rural-Connect-sub000/internal/ports"
)

// This test only verifies that adapters and test doubles conform to the ports at compile time.
func TestImplementationsSatisfyPorts(t *testing.T) {
	t.Helper()

	var _ ports.TokenVerifier = (*redis.SessionStore)(nil)
	var _ ports.SessionStore = (*redis.SessionStore)(nil)
	var _ ports.TokenVerifier = (*oidc.Verifier)(nil)
	var _ ports.TokenVerifier = (*mocks.StaticVerifier)(nil)
	var _ ports.SessionStore = (*mocks.MemorySessionStore)(nil)
}
