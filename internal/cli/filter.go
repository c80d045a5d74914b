package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/query"
	"github.com/roach88/typebridge/internal/typeql"
)

// FilterOptions holds flags for the filter command.
type FilterOptions struct {
	*RootOptions
	Type  string
	Where []string // key=value, applied in order
}

// FilterResult is the output of the filter command.
type FilterResult struct {
	Type        string           `json:"type"`
	Fragment    string           `json:"fragment"`
	Statements  []string         `json:"statements"`
	Bindings    []typeql.Binding `json:"bindings"`
	Fingerprint string           `json:"fingerprint"`
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "filter [declarations-dir]",
		Short: "Compile a keyword filter into a TypeQL match",
		Long: `Compile keyword lookups over a declared type into a TypeQL match
fragment. Keys follow the keyword form: field, field__op, role__field
or role__field__op, with op one of eq, neq, gt, gte, lt, lte, contains
and like. Values are parsed as the kind of the attribute they test.

Examples:
  typebridge filter ./schema --type person --where age__gt=25
  typebridge filter ./schema --type employment \
      --where employee__age__gt=28 --where employer__industry=Technology`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(opts, opts.schemaDir(args), cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "entity or relation type to filter")
	cmd.Flags().StringArrayVarP(&opts.Where, "where", "w", nil, "lookup as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runFilter(opts *FilterOptions, dir string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	_, m, err := loadSchema(f, dir)
	if err != nil {
		return err
	}

	t, _ := m.Lookup(opts.Type)
	b := query.New(typeql.NewCompiler(m), opts.Type)
	for _, w := range opts.Where {
		key, raw, ok := strings.Cut(w, "=")
		if !ok || key == "" {
			err := errors.Configurationf("where", "expected key=value, got %q", w)
			return f.Fail(ExitCommandError, errorCode(err), err, nil)
		}
		v, err := query.Coerce(t, key, raw)
		if err != nil {
			return f.Fail(ExitFailure, errorCode(err), err, key)
		}
		b = b.Where(key, v)
	}

	frag, err := b.Compile()
	if err != nil {
		return f.Fail(ExitFailure, errorCode(err), err, nil)
	}

	result := FilterResult{
		Type:        frag.Type,
		Fragment:    frag.Text(),
		Statements:  frag.Statements,
		Bindings:    frag.Bindings,
		Fingerprint: frag.Fingerprint(),
	}
	if result.Bindings == nil {
		result.Bindings = []typeql.Binding{}
	}

	if f.JSON() {
		return f.Success(result)
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Fragment)
	f.VerboseLog("fingerprint %s", result.Fingerprint)
	return nil
}
