package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/agbarbie/Rural-Connect-sub000/config"
	"github.com/agbarbie/Rural-Connect-sub000/internal/migrate"
)

const connectTimeout = 5 * time.Second

// DatabaseConfig carries the settings needed to reach Postgres and Redis.
type DatabaseConfig struct {
	DBConfig    config.DBConfig
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

func (c DatabaseConfig) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger.With("component", "bootstrap")
}

// PostgresDSN renders the pool settings as a pgx URL. Credentials are
// escaped by net/url.
func PostgresDSN(cfg config.DBConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": []string{cfg.SSLMode}}.Encode(),
	}
	return u.String()
}

// ConnectDB opens the Postgres pool and pings it before returning.
func ConnectDB(ctx context.Context, cfg DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", PostgresDSN(cfg.DBConfig))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBConfig.MaxOpenConns)
	db.SetMaxIdleConns(cfg.DBConfig.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConfig.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, closeAfter(fmt.Errorf("ping database: %w", err), db)
	}

	cfg.logger().InfoContext(ctx, "database connected",
		"host", cfg.DBConfig.Host,
		"port", cfg.DBConfig.Port,
		"database", cfg.DBConfig.Name)
	return db, nil
}

type redisTopology int

const (
	redisSingle redisTopology = iota
	redisSentinel
	redisCluster
)

func (t redisTopology) String() string {
	switch t {
	case redisSentinel:
		return "sentinel"
	case redisCluster:
		return "cluster"
	default:
		return "single"
	}
}

// redisOptions maps the Redis settings onto go-redis universal options. A
// redis:// or rediss:// URI contributes its address, credentials, database
// and TLS settings; a bare host:port is used as the address.
func redisOptions(cfg config.RedisConfig) (*redis.UniversalOptions, redisTopology, error) {
	opts := &redis.UniversalOptions{Password: cfg.Password}

	switch {
	case cfg.UseSentinel:
		if len(trimmed(cfg.SentinelNodes)) == 0 {
			return nil, 0, errors.New("redis sentinel needs at least one sentinel node")
		}
		opts.Addrs = trimmed(cfg.SentinelNodes)
		opts.MasterName = cfg.SentinelMasterName
		opts.SentinelPassword = cfg.SentinelPassword
		return opts, redisSentinel, nil
	case cfg.UseCluster:
		opts.Addrs = trimmed(cfg.ClusterNodes)
		if len(opts.Addrs) == 0 && strings.TrimSpace(cfg.URI) != "" {
			if err := applyRedisURI(opts, cfg.URI); err != nil {
				return nil, 0, err
			}
		}
		if len(opts.Addrs) == 0 {
			return nil, 0, errors.New("redis cluster needs at least one node")
		}
		return opts, redisCluster, nil
	}

	if strings.TrimSpace(cfg.URI) == "" {
		return nil, 0, errors.New("redis needs a URI")
	}
	if err := applyRedisURI(opts, cfg.URI); err != nil {
		return nil, 0, err
	}
	return opts, redisSingle, nil
}

func applyRedisURI(opts *redis.UniversalOptions, raw string) error {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "redis://") && !strings.HasPrefix(raw, "rediss://") {
		opts.Addrs = []string{raw}
		return nil
	}
	parsed, err := redis.ParseURL(raw)
	if err != nil {
		return fmt.Errorf("parse redis uri: %w", err)
	}
	opts.Addrs = []string{parsed.Addr}
	opts.Username = parsed.Username
	if parsed.Password != "" {
		opts.Password = parsed.Password
	}
	opts.DB = parsed.DB
	opts.TLSConfig = parsed.TLSConfig
	return nil
}

func trimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ConnectRedis builds a single, sentinel or cluster client and pings it. It
// returns a nil client when Redis is not configured.
//
//nolint:ireturn // the concrete client depends on the configured topology.
func ConnectRedis(ctx context.Context, cfg DatabaseConfig) (redis.UniversalClient, error) {
	logger := cfg.logger()
	if !cfg.RedisConfig.Enabled() {
		logger.InfoContext(ctx, "redis not configured; unread cache, broadcast dedupe and sessions disabled")
		return nil, nil
	}

	opts, topology, err := redisOptions(cfg.RedisConfig)
	if err != nil {
		return nil, err
	}

	var client redis.UniversalClient
	switch topology {
	case redisSentinel:
		client = redis.NewFailoverClient(opts.Failover())
	case redisCluster:
		client = redis.NewClusterClient(opts.Cluster())
	default:
		client = redis.NewClient(opts.Simple())
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, closeAfter(fmt.Errorf("ping redis: %w", err), client)
	}

	// Addresses only; credentials never reach the log.
	logger.InfoContext(ctx, "redis connected",
		"topology", topology.String(),
		"addrs", strings.Join(opts.Addrs, ","))
	return client, nil
}

func closeAfter(cause error, c interface{ Close() error }) error {
	if err := c.Close(); err != nil {
		return errors.Join(cause, fmt.Errorf("close: %w", err))
	}
	return cause
}

// RunMigrations applies pending schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if err := migrate.Run(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if logger != nil {
		logger.InfoContext(ctx, "database migrations completed")
	}
	return nil
}
