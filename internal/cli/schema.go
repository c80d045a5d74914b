package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/typebridge/internal/compiler"
)

// SchemaResult is the output of the schema command.
type SchemaResult struct {
	Define      []string                   `json:"define"`
	Fingerprint string                     `json:"fingerprint"`
	Lint        []compiler.ValidationError `json:"lint,omitempty"`
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [declarations-dir]",
		Short: "Compile declarations and print the schema",
		Long: `Compile the CUE declarations in a directory, lint them and print the
TypeQL define statements they produce.

Exit codes:
  0 - Declarations compile and pass the lint
  1 - Lint findings
  2 - Declarations failed to load or compile`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(rootOpts, rootOpts.schemaDir(args), cmd)
		},
	}
}

func runSchema(opts *RootOptions, dir string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	decls, m, err := loadSchema(f, dir)
	if err != nil {
		return err
	}

	result := SchemaResult{
		Define:      m.Define(),
		Fingerprint: m.Snapshot().Fingerprint(),
		Lint:        compiler.Validate(decls),
	}
	if result.Define == nil {
		result.Define = []string{}
	}

	if len(result.Lint) > 0 {
		if f.JSON() {
			if err := f.Error(ErrCodeLint, fmt.Sprintf("%d lint finding(s)", len(result.Lint)), result.Lint); err != nil {
				return err
			}
		} else {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "✗ %d lint finding(s)\n", len(result.Lint))
			for _, e := range result.Lint {
				fmt.Fprintf(w, "  %s\n", e.Error())
			}
		}
		return &ExitError{Code: ExitFailure, Message: "lint failed", Reported: true}
	}

	if f.JSON() {
		return f.Success(result)
	}
	f.VerboseLog("fingerprint %s", result.Fingerprint)
	fmt.Fprint(cmd.OutOrStdout(), formatDefine(result.Define))
	return nil
}

func formatDefine(stmts []string) string {
	if len(stmts) == 0 {
		return ""
	}
	return "define\n" + strings.Join(stmts, "\n") + "\n"
}
