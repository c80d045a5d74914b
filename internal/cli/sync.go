package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/typebridge/internal/catalog"
	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/schema"
)

// SyncOptions holds flags for the sync command.
type SyncOptions struct {
	*RootOptions
	Force   bool
	DryRun  bool
	Catalog string // ledger path, defaults to catalog.path
	Out     string // script file, stdout in text mode when empty
}

// SyncResult is the output of the sync command.
type SyncResult struct {
	Plan   *schema.SyncPlan `json:"plan"`
	DryRun bool             `json:"dry_run"`
	Run    *catalog.Run     `json:"run,omitempty"`
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync [declarations-dir]",
		Short: "Plan and record a schema sync",
		Long: `Reconcile the declared schema with the schema last recorded in the
sync ledger and write the TypeQL script that applies it.

Diff mode (default) only adds missing definitions and fails on
incompatible ones. Forced mode undefines the incompatible definitions
first and then defines the full declared schema.

Exit codes:
  0 - Synced, or nothing to do
  1 - Conflicting definitions in diff mode
  2 - Command error (declarations, catalog)

Examples:
  typebridge sync ./schema --dry-run
  typebridge sync ./schema --force --catalog ./typebridge.db
  typebridge sync ./schema --out migrate.tql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(opts, opts.schemaDir(args), cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "undefine incompatible definitions, then define everything")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the plan without recording it")
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "sync ledger path (default: catalog.path)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write the TypeQL script to a file")

	return cmd
}

func (opts *SyncOptions) mode() (schema.SyncMode, error) {
	if opts.Force {
		return schema.SyncForce, nil
	}
	if opts.Config != nil {
		return schema.ParseSyncMode(opts.Config.Sync.Mode)
	}
	return schema.SyncDiff, nil
}

func (opts *SyncOptions) catalogPath() string {
	if opts.Catalog != "" {
		return opts.Catalog
	}
	if opts.Config != nil {
		return opts.Config.Catalog.Path
	}
	return ""
}

func runSync(opts *SyncOptions, dir string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()

	_, m, err := loadSchema(f, dir)
	if err != nil {
		return err
	}
	mode, err := opts.mode()
	if err != nil {
		return f.Fail(ExitCommandError, errorCode(err), err, nil)
	}

	cat, err := catalog.Open(opts.catalogPath())
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeCatalog, err, opts.catalogPath())
	}
	defer cat.Close()

	live, err := cat.Introspect(ctx)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeCatalog, err, nil)
	}
	f.VerboseLog("Planning %s sync against %d recorded type(s)", mode, len(live.Types))

	plan, err := m.Plan(live, mode)
	if err != nil {
		if errors.IsSchemaConflict(err) {
			return f.Fail(ExitFailure, errorCode(err), err, errors.FlattenHints(err))
		}
		return f.Fail(ExitCommandError, errorCode(err), err, nil)
	}

	result := SyncResult{Plan: plan, DryRun: opts.DryRun}
	if opts.DryRun || plan.Empty() {
		return outputSync(f, cmd, result)
	}

	script, closeScript, err := opts.scriptWriter(f, cmd)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeWriteFailed, err, opts.Out)
	}
	err = m.Apply(ctx, &scriptExecutor{w: script}, plan)
	if cerr := closeScript(); err == nil {
		err = cerr
	}
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeWriteFailed, err, opts.Out)
	}

	run, err := cat.Record(ctx, plan, m.Snapshot())
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeCatalog, err, nil)
	}
	result.Run = &run

	if f.JSON() {
		return f.Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s sync %s (seq %d)\n", run.Mode, run.ID, run.Seq)
	return nil
}

// scriptWriter returns where applied statements are written: the --out
// file, stdout in text mode, or nowhere in JSON mode.
func (opts *SyncOptions) scriptWriter(f *OutputFormatter, cmd *cobra.Command) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	if opts.Out != "" {
		file, err := os.Create(opts.Out)
		if err != nil {
			return nil, nil, err
		}
		return file, file.Close, nil
	}
	if f.JSON() {
		return io.Discard, noop, nil
	}
	return cmd.OutOrStdout(), noop, nil
}

func outputSync(f *OutputFormatter, cmd *cobra.Command, result SyncResult) error {
	if f.JSON() {
		return f.Success(result)
	}
	w := cmd.OutOrStdout()
	if result.Plan.Empty() {
		fmt.Fprintln(w, "Schema is up to date.")
		return nil
	}
	for _, c := range result.Plan.Conflicts {
		fmt.Fprintf(w, "# conflict: %s\n", c)
	}
	fmt.Fprint(w, result.Plan.Text())
	return nil
}

// scriptExecutor applies a plan by writing it as a TypeQL script.
type scriptExecutor struct {
	w io.Writer
}

func (e *scriptExecutor) Define(ctx context.Context, statements []string) error {
	return e.write(ctx, "define", statements)
}

func (e *scriptExecutor) Undefine(ctx context.Context, statements []string) error {
	return e.write(ctx, "undefine", statements)
}

func (e *scriptExecutor) write(ctx context.Context, keyword string, statements []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(e.w, keyword); err != nil {
		return err
	}
	for _, s := range statements {
		if _, err := fmt.Fprintln(e.w, s); err != nil {
			return err
		}
	}
	return nil
}

var _ schema.Executor = (*scriptExecutor)(nil)
