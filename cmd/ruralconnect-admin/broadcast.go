package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agbarbie/Rural-Connect-sub000/internal/bootstrap"
)

type broadcastOptions struct {
	Kind    string
	JobID   string
	Force   bool
	Timeout time.Duration
}

func parseBroadcastFlags(args []string) (broadcastOptions, error) {
	if len(args) == 0 || args[0] != "new-job" {
		return broadcastOptions{}, errors.New("usage: broadcast new-job --job-id <id> [--force]")
	}
	opts := broadcastOptions{Kind: args[0]}

	fs := flag.NewFlagSet("broadcast new-job", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.StringVar(&opts.JobID, "job-id", "", "Job posting to broadcast")
	fs.BoolVar(&opts.Force, "force", false, "Ignore the dedupe window by skipping the Redis claim")
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration of the broadcast")

	if err := fs.Parse(args[1:]); err != nil {
		return broadcastOptions{}, err
	}
	opts.JobID = strings.TrimSpace(opts.JobID)
	if _, err := uuid.Parse(opts.JobID); err != nil {
		return broadcastOptions{}, fmt.Errorf("--job-id must be a UUID: %w", err)
	}
	if opts.Timeout <= 0 {
		return broadcastOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func runBroadcast(cmdCtx *commandContext, args []string) error {
	opts, err := parseBroadcastFlags(args)
	if err != nil {
		return err
	}

	// Without Redis no dedupe claim is taken, so --force simply skips the connection.
	return withInfra(cmdCtx, opts.Timeout, !opts.Force, func(ctx context.Context, deps infra) error {
		svcs, wireErr := bootstrap.NewServices(&bootstrap.ServiceDeps{
			Config:      &cmdCtx.Config,
			DB:          deps.DB,
			RedisClient: deps.Redis,
			Logger:      cmdCtx.Logger,
		})
		if wireErr != nil {
			return fmt.Errorf("wire services: %w", wireErr)
		}

		job, getErr := svcs.Jobs.Get(ctx, opts.JobID)
		if getErr != nil {
			return fmt.Errorf("load job: %w", getErr)
		}
		res, sendErr := svcs.Audience.NotifyJobseekersAboutNewJob(ctx, job)
		if sendErr != nil {
			return fmt.Errorf("broadcast: %w", sendErr)
		}
		if res.Skipped {
			return writef(os.Stdout,
				"Broadcast skipped for %q: the job is not active or was broadcast within the dedupe window (use --force)\n",
				job.Title)
		}
		return writef(os.Stdout, "Broadcast %q to %d recipient(s): %d delivered, %d failed\n",
			job.Title, res.Recipients, res.Delivered, res.Failed)
	})
}
