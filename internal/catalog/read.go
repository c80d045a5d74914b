package catalog

import (
	"context"
	"database/sql"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/schema"
)

// ErrRunNotFound is returned by Get for an unknown run ID.
var ErrRunNotFound = errors.New("sync run not found")

const runColumns = `id, seq, mode, fingerprint, statements, snapshot, tool_version`

// Latest returns the most recent run, or nil when nothing was recorded.
func (c *Catalog) Latest(ctx context.Context) (*Run, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM sync_runs
		ORDER BY seq DESC
		LIMIT 1
	`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read latest run")
	}
	return &run, nil
}

// Get returns the run with id.
func (c *Catalog) Get(ctx context.Context, id string) (Run, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM sync_runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, errors.Wrapf(ErrRunNotFound, "run %s", id)
	}
	if err != nil {
		return Run{}, errors.Wrapf(err, "read run %s", id)
	}
	return run, nil
}

// History returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (c *Catalog) History(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := c.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM sync_runs
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query sync runs")
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate sync runs")
	}
	return runs, nil
}

// Introspect returns the latest recorded snapshot, or an empty schema.
func (c *Catalog) Introspect(ctx context.Context) (*schema.LiveSchema, error) {
	run, err := c.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return &schema.LiveSchema{}, nil
	}
	return run.Snapshot, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		run        Run
		mode       string
		statements string
		snapshot   string
	)
	if err := s.Scan(&run.ID, &run.Seq, &mode, &run.Fingerprint, &statements, &snapshot, &run.ToolVersion); err != nil {
		return Run{}, err
	}
	run.Mode = schema.SyncMode(mode)

	var err error
	if run.Undefine, run.Define, err = unmarshalStatements(statements); err != nil {
		return Run{}, err
	}
	if run.Snapshot, err = unmarshalSnapshot(snapshot); err != nil {
		return Run{}, err
	}
	return run, nil
}

var _ schema.Introspector = (*Catalog)(nil)
