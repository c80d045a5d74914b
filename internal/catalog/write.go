package catalog

import (
	"context"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/ir"
	"github.com/roach88/typebridge/internal/logger"
	"github.com/roach88/typebridge/internal/schema"
)

// Run is one recorded sync.
type Run struct {
	ID          string             `json:"id"`
	Seq         int64              `json:"seq"`
	Mode        schema.SyncMode    `json:"mode"`
	Fingerprint string             `json:"fingerprint"`
	Undefine    []string           `json:"undefine"`
	Define      []string           `json:"define"`
	Snapshot    *schema.LiveSchema `json:"snapshot"`
	ToolVersion string             `json:"tool_version"`
}

// Record stores an applied plan and the schema snapshot it produced.
//
// The fingerprint recorded is the snapshot's, so a later Introspect of the
// same catalog plans an empty diff against the same declarations.
func (c *Catalog) Record(ctx context.Context, plan *schema.SyncPlan, snapshot *schema.LiveSchema) (Run, error) {
	if plan == nil {
		return Run{}, errors.Configurationf("catalog", "nil sync plan")
	}
	if snapshot == nil {
		snapshot = &schema.LiveSchema{}
	}

	stmts, err := marshalStatements(plan.Undefine, plan.Define)
	if err != nil {
		return Run{}, errors.Wrap(err, "record sync run")
	}
	snap, err := marshalSnapshot(snapshot)
	if err != nil {
		return Run{}, errors.Wrap(err, "record sync run")
	}

	run := Run{
		ID:          c.ids.Generate(),
		Seq:         c.clock.Next(),
		Mode:        plan.Mode,
		Fingerprint: snapshot.Fingerprint(),
		Undefine:    append([]string{}, plan.Undefine...),
		Define:      append([]string{}, plan.Define...),
		Snapshot:    snapshot,
		ToolVersion: ir.ToolVersion,
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO sync_runs
		(id, seq, mode, fingerprint, statements, snapshot, tool_version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		string(run.Mode),
		run.Fingerprint,
		stmts,
		snap,
		run.ToolVersion,
	)
	if err != nil {
		return Run{}, errors.Wrap(err, "record sync run")
	}

	logger.Logger.Infow("Recorded sync run",
		logger.FieldComponent, "catalog",
		logger.FieldMode, run.Mode,
		"seq", run.Seq,
		logger.FieldFingerprint, run.Fingerprint)
	return run, nil
}
