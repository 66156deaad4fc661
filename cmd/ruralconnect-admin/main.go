package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/agbarbie/Rural-Connect-sub000/config"
	"github.com/agbarbie/Rural-Connect-sub000/internal/adapters/reaper"
	"github.com/agbarbie/Rural-Connect-sub000/internal/bootstrap"
	"github.com/agbarbie/Rural-Connect-sub000/internal/migrate"
	"github.com/agbarbie/Rural-Connect-sub000/internal/util"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const (
	defaultMigrationTimeout = 5 * time.Minute
	defaultCommandTimeout   = 10 * time.Minute
)

func main() {
	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			slog.Default().Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			slog.Default().Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			slog.Default().Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		slog.Default().ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	logger := bootstrap.InitLogger(cfg.Log)

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrations,
		},
		"migrate-status": {
			name:        "migrate-status",
			description: "List embedded migrations and whether each has been applied",
			run:         runMigrationStatus,
		},
		"counters": {
			name:        "counters",
			description: "Check (counters check) or repair (counters repair) job application counters",
			run:         runCounters,
		},
		"broadcast": {
			name:        "broadcast",
			description: "Re-send a broadcast: broadcast new-job --job-id <id>",
			run:         runBroadcast,
		},
		"reap": {
			name:        "reap",
			description: "Run one retention pass over read notifications and withdrawn applications",
			run:         runReap,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: ruralconnect-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	names := make([]string, 0, len(commands()))
	for name := range commands() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := commands()[name]
		if err := writef(os.Stdout, "  %-16s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

type timeoutOptions struct {
	Timeout time.Duration
}

func parseTimeoutFlags(name string, args []string, def time.Duration) (timeoutOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := timeoutOptions{Timeout: def}
	fs.DurationVar(&opts.Timeout, "timeout", def, "Maximum duration to wait for the command to complete")

	if err := fs.Parse(args); err != nil {
		return timeoutOptions{}, err
	}
	if opts.Timeout <= 0 {
		return timeoutOptions{}, errors.New("--timeout must be greater than zero")
	}
	if fs.NArg() > 0 {
		return timeoutOptions{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseTimeoutFlags("migrate", args, defaultMigrationTimeout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	cmdCtx.Logger.Info("running database migrations")

	if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
		return fmt.Errorf("run migrations: %w", migrateErr)
	}

	cmdCtx.Logger.Info("migrations completed successfully")
	return nil
}

func runMigrationStatus(cmdCtx *commandContext, args []string) error {
	opts, err := parseTimeoutFlags("migrate-status", args, defaultMigrationTimeout)
	if err != nil {
		return err
	}
	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, deps infra) error {
		versions, statusErr := migrate.Status(ctx, deps.DB)
		if statusErr != nil {
			return fmt.Errorf("migration status: %w", statusErr)
		}
		return printMigrationStatus(os.Stdout, versions)
	})
}

func runReap(cmdCtx *commandContext, args []string) error {
	opts, err := parseTimeoutFlags("reap", args, defaultCommandTimeout)
	if err != nil {
		return err
	}
	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, deps infra) error {
		runner, runnerErr := reaper.NewRunner(reaper.RunnerOptions{
			DB:     deps.DB,
			Config: cmdCtx.Config.Reaper,
			Logger: cmdCtx.Logger,
		})
		if runnerErr != nil {
			return fmt.Errorf("create reaper runner: %w", runnerErr)
		}
		report, runErr := runner.RunOnce(ctx)
		if runErr != nil {
			return fmt.Errorf("reap: %w", runErr)
		}
		return writef(os.Stdout, "Deleted %s and %s in %s\n",
			util.Plural(report.Notifications, "read notification", "read notifications"),
			util.Plural(report.Applications, "inactive application", "inactive applications"),
			util.FormatElapsed(report.Elapsed))
	})
}
