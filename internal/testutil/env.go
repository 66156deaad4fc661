// Package testutil provides Postgres and Redis harnesses plus row fixtures
// for integration tests. Tests skip when the backing service is unreachable
// unless TEST_REQUIRE_DB, TEST_REQUIRE_REDIS or TEST_REQUIRE_INFRA is set.
package testutil

import (
	"os"
	"strings"
)

// TestingTB is the subset of testing.TB the harnesses rely on.
type TestingTB interface {
	Helper()
	Cleanup(func())
	Logf(format string, args ...any)
	Fatalf(format string, args ...any)
	Skipf(format string, args ...any)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envFlag(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

// unavailable fails the test when the dependency is mandatory and skips it otherwise.
func unavailable(t TestingTB, required bool, format string, args ...any) {
	t.Helper()
	if required || envFlag("TEST_REQUIRE_INFRA") {
		t.Fatalf(format, args...)
		return
	}
	t.Skipf(format, args...)
}
