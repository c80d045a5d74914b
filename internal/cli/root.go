// Package cli implements the typebridge command line.
package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/typebridge/internal/config"
	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/logger"
)

// RootOptions holds global flags and the configuration they resolve.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	Config *config.Config
}

// NewRootCommand creates the root command for the typebridge CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "typebridge",
		Short: "typebridge - typed schema and filters for TypeDB",
		Long: `Declare entity, relation and attribute types once, sync them to a
TypeDB schema and compile keyword or typed filters into TypeQL match
fragments.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: nearest "+config.FileName+")")

	cmd.AddCommand(NewSchemaCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewFilterCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve loads the configuration and lets explicit flags override it.
func (opts *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}
	opts.Config = cfg

	flags := cmd.Flags()
	if !flags.Changed("format") {
		opts.Format = cfg.Output.Format
	}
	if !flags.Changed("verbose") {
		opts.Verbose = cfg.Log.Verbose
	}
	if !isValidFormat(opts.Format) {
		return WrapExitError(ExitCommandError, "format",
			errors.Configurationf("format", "invalid format %q: must be one of %v", opts.Format, config.Formats))
	}

	if err := logger.Initialize(cfg.Log.JSON, opts.Verbose); err != nil {
		return WrapExitError(ExitCommandError, "initialize logger", err)
	}
	logger.Logger.Debugw("Configuration resolved",
		logger.FieldComponent, "cli",
		"source", cfg.Source,
		"format", opts.Format)
	return nil
}

// formatter builds the output formatter for cmd.
func (opts *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func isValidFormat(format string) bool {
	return slices.Contains(config.Formats, format)
}

// Main runs the CLI with args and returns the process exit code. Errors
// not already written by a command are reported on stderr; flag and
// argument errors map to ExitCommandError.
func Main(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(stderr, "Error:", err)
		return ExitCommandError
	}
	if !exitErr.Reported {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return exitErr.Code
}
