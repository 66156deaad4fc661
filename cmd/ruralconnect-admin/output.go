package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/agbarbie/Rural-Connect-sub000/internal/core"
	"github.com/agbarbie/Rural-Connect-sub000/internal/migrate"
)

func printMigrationStatus(w io.Writer, versions []migrate.Version) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "VERSION\tSTATUS"); err != nil {
		return fmt.Errorf("write migration header: %w", err)
	}
	for _, v := range versions {
		status := "pending"
		if v.Applied {
			status = "applied"
		}
		if err := writef(tw, "%s\t%s\n", v.Version, status); err != nil {
			return fmt.Errorf("write migration row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush migration table: %w", err)
	}
	return nil
}

func printCounterDrift(w io.Writer, drift []core.CounterDrift) error {
	if len(drift) == 0 {
		return writeln(w, "All job application counters match their active applications.")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "JOB\tTITLE\tSTORED\tCOMPUTED"); err != nil {
		return fmt.Errorf("write drift header: %w", err)
	}
	for _, d := range drift {
		if err := writef(tw, "%s\t%s\t%d\t%d\n", d.JobID, d.Title, d.Stored, d.Computed); err != nil {
			return fmt.Errorf("write drift row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush drift table: %w", err)
	}
	return writef(w, "%d job(s) with drifted counters\n", len(drift))
}

// confirmInput is swapped in tests.
var confirmInput io.Reader = os.Stdin

func confirm(message string) error {
	if err := writeln(os.Stdout, message); err != nil {
		return fmt.Errorf("print confirmation message: %w", err)
	}
	if err := write(os.Stdout, "Continue? [y/N]: "); err != nil {
		return fmt.Errorf("print confirmation prompt: %w", err)
	}
	resp, err := bufio.NewReader(confirmInput).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.New("aborted by user")
	}
	resp = strings.ToLower(strings.TrimSpace(resp))
	if resp == "y" || resp == "yes" {
		return nil
	}
	return errors.New("aborted by user")
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func write(w io.Writer, args ...any) error {
	_, err := fmt.Fprint(w, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	if len(args) == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintln(w, args...)
	return err
}
