package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/agbarbie/Rural-Connect-sub000/internal/core"
	"github.com/agbarbie/Rural-Connect-sub000/internal/data"
)

type countersOptions struct {
	Action string
	Limit  int
	JobIDs []string
	Yes    bool
}

func parseCountersFlags(args []string) (countersOptions, error) {
	if len(args) == 0 {
		return countersOptions{}, errors.New("usage: counters <check|repair> [flags]")
	}
	opts := countersOptions{Action: args[0]}
	if opts.Action != "check" && opts.Action != "repair" {
		return countersOptions{}, fmt.Errorf("unknown counters action %q (want check or repair)", opts.Action)
	}

	fs := flag.NewFlagSet("counters "+opts.Action, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.IntVar(&opts.Limit, "limit", 50, "Maximum number of drifted jobs to report")
	jobIDs := fs.String("job-id", "", "Comma-separated job ids to repair (default: every drifted job)")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip the confirmation prompt")

	if err := fs.Parse(args[1:]); err != nil {
		return countersOptions{}, err
	}
	if opts.Limit <= 0 {
		return countersOptions{}, errors.New("--limit must be greater than zero")
	}
	for _, id := range strings.Split(*jobIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			opts.JobIDs = append(opts.JobIDs, id)
		}
	}
	return opts, nil
}

func runCounters(cmdCtx *commandContext, args []string) error {
	opts, err := parseCountersFlags(args)
	if err != nil {
		return err
	}
	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, deps infra) error {
		return countersAction(ctx, data.NewApplicationRepo(deps.DB), opts)
	})
}

func countersAction(ctx context.Context, repo core.CounterAuditRepository, opts countersOptions) error {
	drift, err := repo.FindCounterDrift(ctx, opts.Limit)
	if err != nil {
		return fmt.Errorf("find counter drift: %w", err)
	}
	if err = printCounterDrift(os.Stdout, drift); err != nil {
		return err
	}
	if opts.Action == "check" || (len(drift) == 0 && len(opts.JobIDs) == 0) {
		return nil
	}

	target := "every job"
	if len(opts.JobIDs) > 0 {
		target = fmt.Sprintf("%d job(s)", len(opts.JobIDs))
	}
	if !opts.Yes {
		if confirmErr := confirm(fmt.Sprintf("About to recompute applications_count for %s.", target)); confirmErr != nil {
			return confirmErr
		}
	}

	n, err := repo.RepairCounters(ctx, opts.JobIDs)
	if err != nil {
		return fmt.Errorf("repair counters: %w", err)
	}
	return writef(os.Stdout, "Repaired %d job counter(s)\n", n)
}
