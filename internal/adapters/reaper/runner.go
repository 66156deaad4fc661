// Package reaper runs the retention reaper against Postgres.
package reaper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agbarbie/Rural-Connect-sub000/config"
	"github.com/agbarbie/Rural-Connect-sub000/internal/core"
	"github.com/agbarbie/Rural-Connect-sub000/internal/data"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/statsd"
	"github.com/agbarbie/Rural-Connect-sub000/internal/service"
)

// RunnerOptions wires a Runner. Repo overrides the Postgres retention store,
// which tests use to feed canned batches.
type RunnerOptions struct {
	DB      *sql.DB
	Repo    core.RetentionRepository
	Config  config.ReaperConfig
	Logger  *slog.Logger
	Metrics statsd.Sink
	Alerts  service.FailureAlerter
}

// Runner drives a ReaperService either on its interval or for a single pass.
type Runner struct {
	svc    *service.ReaperService
	cfg    config.ReaperConfig
	logger *slog.Logger
}

// NewRunner builds the retention store and the reaper service behind it.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.DB == nil && opts.Repo == nil {
		return nil, errors.New("reaper needs a database or a retention repository")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	repo := opts.Repo
	if repo == nil {
		repo = data.NewRetentionRepo(opts.DB, data.RepoConfig{Logger: logger})
	}

	svc, err := service.NewReaperService(service.ReaperServiceOptions{
		Repo:    repo,
		Config:  opts.Config,
		Logger:  logger,
		Metrics: opts.Metrics,
		Alerts:  opts.Alerts,
	})
	if err != nil {
		return nil, fmt.Errorf("reaper service: %w", err)
	}
	return &Runner{svc: svc, cfg: opts.Config, logger: logger.With("component", "reaper_runner")}, nil
}

// Run sweeps on every tick until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "reaper started",
		"interval", r.cfg.Interval,
		"notification_max_age", r.cfg.NotificationMaxAge,
		"withdrawn_max_age", r.cfg.WithdrawnMaxAge,
		"batch_size", r.cfg.BatchSize)
	return r.svc.Run(ctx)
}

// RunOnce performs a single sweep and reports what it removed.
func (r *Runner) RunOnce(ctx context.Context) (service.CleanupReport, error) {
	return r.svc.RunOnce(ctx)
}
