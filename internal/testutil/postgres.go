package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"net"
	"net/url"
	"time"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/agbarbie/Rural-Connect-sub000/internal/migrate"
)

// PostgresTarget locates the integration database. Port 55432 matches the
// docker-compose test profile; CI overrides it through TEST_DB_PORT.
type PostgresTarget struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

// PostgresFromEnv reads the TEST_DB_* variables.
func PostgresFromEnv() PostgresTarget {
	return PostgresTarget{
		Host:     envOr("TEST_DB_HOST", "localhost"),
		Port:     envOr("TEST_DB_PORT", "55432"),
		User:     envOr("TEST_DB_USER", "ruralconnect"),
		Password: envOr("TEST_DB_PASSWORD", "ruralconnect"),
		Database: envOr("TEST_DB_NAME", "ruralconnect"),
		SSLMode:  envOr("TEST_DB_SSLMODE", "disable"),
	}
}

// DSN renders the target as a pgx URL. A non-empty schema is placed first on
// the search_path.
func (p PostgresTarget) DSN(schema string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   net.JoinHostPort(p.Host, p.Port),
		Path:   "/" + p.Database,
	}
	q := url.Values{}
	q.Set("sslmode", p.SSLMode)
	if schema != "" {
		q.Set("search_path", schema+",public")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// cleanupOrder lists tables children first so deletes never trip a foreign key.
var cleanupOrder = []string{
	"notifications",
	"job_bookmarks",
	"job_applications",
	"resumes",
	"jobs",
	"employers",
	"jobseeker_profiles",
	"users",
}

// WithAutoDB hands fn a migrated database. With TEST_DB_EPHEMERAL set every
// call gets a private schema that is dropped afterwards; otherwise the shared
// database is truncated before and after fn.
func WithAutoDB(t TestingTB, fn func(*sql.DB)) {
	t.Helper()
	target := PostgresFromEnv()
	if envFlag("TEST_DB_EPHEMERAL") {
		fn(openEphemeral(t, target))
		return
	}
	db := openMigrated(t, target, "")
	wipe(t, db)
	t.Cleanup(func() {
		wipe(t, db)
		closeQuietly(t, "test db", db)
	})
	fn(db)
}

func openMigrated(t TestingTB, target PostgresTarget, schema string) *sql.DB {
	t.Helper()
	db := openPinged(t, target.DSN(schema))
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := migrate.Run(ctx, db); err != nil {
		closeQuietly(t, "test db", db)
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func openPinged(t TestingTB, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		unavailable(t, envFlag("TEST_REQUIRE_DB"), "test database unavailable: %v", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		closeQuietly(t, "test db", db)
		unavailable(t, envFlag("TEST_REQUIRE_DB"), "test database unavailable: %v", err)
		return nil
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return db
}

func openEphemeral(t TestingTB, target PostgresTarget) *sql.DB {
	t.Helper()
	admin := openPinged(t, target.DSN(""))
	schema := schemaName()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// schemaName only yields [a-z0-9_], so the identifier is safe to splice.
	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		closeQuietly(t, "admin db", admin)
		t.Fatalf("create schema %s: %v", schema, err)
	}

	var db *sql.DB
	t.Cleanup(func() {
		if db != nil {
			closeQuietly(t, "schema db", db)
		}
		dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dcancel()
		if _, err := admin.ExecContext(dctx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
		closeQuietly(t, "admin db", admin)
	})
	t.Logf("using ephemeral schema %s", schema)
	db = openMigrated(t, target, schema)
	return db
}

func schemaName() string {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		return "rc_" + time.Now().UTC().Format("150405000000")
	}
	return "rc_" + hex.EncodeToString(b)
}

func wipe(t TestingTB, db *sql.DB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, table := range cleanupOrder {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("clear %s: %v", table, err)
		}
	}
}

func closeQuietly(t TestingTB, what string, c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		t.Logf("close %s: %v", what, err)
	}
}
