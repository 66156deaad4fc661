package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agbarbie/Rural-Connect-sub000/internal/bootstrap"
)

// infra holds the connections a command asked for. Redis is nil when it was
// not requested or is not configured.
type infra struct {
	DB    *sql.DB
	Redis redis.UniversalClient
}

func withDatabase(cmdCtx *commandContext, timeout time.Duration, f func(context.Context, infra) error) error {
	return withInfra(cmdCtx, timeout, false, f)
}

func withInfra(
	cmdCtx *commandContext,
	timeout time.Duration,
	wantRedis bool,
	f func(context.Context, infra) error,
) (err error) {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var deps infra
	deps.DB, err = bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := closeInfra(deps); closeErr != nil {
			cmdCtx.Logger.Warn("close infrastructure failed", "error", closeErr)
		}
	}()

	if wantRedis {
		deps.Redis, err = bootstrap.ConnectRedis(ctx, bootstrap.DatabaseConfig{
			RedisConfig: cmdCtx.Config.Redis,
			Logger:      cmdCtx.Logger,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
	}

	return f(ctx, deps)
}

func closeInfra(deps infra) error {
	var closeErr error
	if deps.DB != nil {
		if err := deps.DB.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close db: %w", err))
		}
	}
	if deps.Redis != nil {
		if err := deps.Redis.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close redis: %w", err))
		}
	}
	return closeErr
}
