package cli

import (
	"os"

	"github.com/roach88/typebridge/internal/compiler"
	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/schema"
)

// schemaDir returns the declarations directory from args, falling back to
// the configured schema.dir.
func (opts *RootOptions) schemaDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if opts.Config != nil {
		return opts.Config.Schema.Dir
	}
	return ""
}

// loadSchema compiles the declarations in dir and registers them into a
// fresh manager. Failures are written through f and returned as ExitErrors.
func loadSchema(f *OutputFormatter, dir string) (*compiler.Declarations, *schema.Manager, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, nil, f.Fail(ExitCommandError, ErrCodeNotFound,
			errors.Newf("declarations directory not found: %s", dir), nil)
	}

	decls, err := compiler.LoadDir(dir)
	if err != nil {
		return nil, nil, f.Fail(ExitCommandError, errorCode(err), err, positionOf(err))
	}
	f.VerboseLog("Compiled %d attribute(s) and %d type(s) from %s", len(decls.Attributes), len(decls.Types), dir)

	m := schema.NewManager(nil)
	if err := decls.Register(m); err != nil {
		return nil, nil, f.Fail(ExitCommandError, errorCode(err), err, nil)
	}
	return decls, m, nil
}

// positionOf returns "file:line:col" for errors carrying a CUE position.
func positionOf(err error) any {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) && compileErr.Pos.IsValid() {
		return compileErr.Pos.String()
	}
	return nil
}
