package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/typebridge/internal/catalog"
	"github.com/roach88/typebridge/internal/errors"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Catalog string
	Limit   int
	Show    string // run ID to print in full
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded schema syncs",
		Long: `List the syncs recorded in the ledger, newest first.

Examples:
  typebridge history --limit 5
  typebridge history --show 0190f5c2-...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "sync ledger path (default: catalog.path)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.Show, "show", "", "print the statements of one run")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()

	path := opts.Catalog
	if path == "" && opts.Config != nil {
		path = opts.Config.Catalog.Path
	}
	cat, err := catalog.Open(path)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeCatalog, err, path)
	}
	defer cat.Close()

	if opts.Show != "" {
		run, err := cat.Get(ctx, opts.Show)
		if err != nil {
			if errors.Is(err, catalog.ErrRunNotFound) {
				return f.Fail(ExitFailure, ErrCodeNotFound, err, nil)
			}
			return f.Fail(ExitCommandError, ErrCodeCatalog, err, nil)
		}
		if f.JSON() {
			return f.Success(run)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s  seq %d  %s  %s\n", run.ID, run.Seq, run.Mode, run.Fingerprint)
		for _, s := range run.Undefine {
			fmt.Fprintf(w, "- %s\n", s)
		}
		for _, s := range run.Define {
			fmt.Fprintf(w, "+ %s\n", s)
		}
		return nil
	}

	runs, err := cat.History(ctx, opts.Limit)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeCatalog, err, nil)
	}
	if runs == nil {
		runs = []catalog.Run{}
	}

	if f.JSON() {
		return f.Success(runs)
	}
	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No syncs recorded.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(w, "%4d  %-5s  %s  %s  -%d +%d\n",
			run.Seq, run.Mode, run.ID, shortFingerprint(run.Fingerprint), len(run.Undefine), len(run.Define))
	}
	return nil
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
