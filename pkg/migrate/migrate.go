package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pressly/goose/v3"
)

const DefaultDir = "pkg/migrate/migrations"

// Commands accepted by Run.
const (
	CommandUp     = "up"
	CommandDown   = "down"
	CommandStatus = "status"
)

// Runner applies the goose SQL files under a directory to a Postgres database.
type Runner struct {
	provider *goose.Provider
	out      io.Writer
}

// NewRunner builds a runner over dir. Progress lines go to out when non-nil.
func NewRunner(db *sql.DB, dir string, out io.Writer) (*Runner, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	if dir == "" {
		return nil, errors.New("dir is required")
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("building goose provider for %s: %w", dir, err)
	}
	if out == nil {
		out = io.Discard
	}
	return &Runner{provider: provider, out: out}, nil
}

// Run executes one of up, down or status.
func (r *Runner) Run(ctx context.Context, command string) error {
	switch command {
	case CommandUp:
		results, err := r.provider.Up(ctx)
		r.report(results...)
		if err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		return nil
	case CommandDown:
		result, err := r.provider.Down(ctx)
		if result != nil {
			r.report(result)
		}
		if err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		return nil
	case CommandStatus:
		statuses, err := r.provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("goose status: %w", err)
		}
		for _, s := range statuses {
			applied := "pending"
			if s.State == goose.StateApplied {
				applied = s.AppliedAt.UTC().Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(r.out, "%-24s %s\n", applied, s.Source.Path)
		}
		return nil
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}

// MigrateTo moves the schema up or down until it sits at target, a
// YYYYMMDDHHMMSS version string.
func (r *Runner) MigrateTo(ctx context.Context, target string) error {
	version, err := strconv.ParseInt(target, 10, 64)
	if err != nil || version < 0 {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS)", target)
	}
	current, err := r.provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("reading db version: %w", err)
	}

	var results []*goose.MigrationResult
	switch {
	case current < version:
		results, err = r.provider.UpTo(ctx, version)
	case current > version:
		results, err = r.provider.DownTo(ctx, version)
	}
	r.report(results...)
	if err != nil {
		return fmt.Errorf("migrating from %d to %d: %w", current, version, err)
	}
	return nil
}

func (r *Runner) report(results ...*goose.MigrationResult) {
	for _, res := range results {
		if res == nil || res.Source == nil {
			continue
		}
		fmt.Fprintf(r.out, "%-5s %s (%s)\n", res.Direction, res.Source.Path, res.Duration)
	}
}

// Run is a one-shot helper for callers that don't keep a Runner around. The
// connection stays open; it belongs to the caller.
func Run(ctx context.Context, db *sql.DB, dir string, command string) error {
	runner, err := NewRunner(db, dir, os.Stdout)
	if err != nil {
		return err
	}
	return runner.Run(ctx, command)
}
