package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const employmentDir = "../compiler/testdata/employment"

// execute runs the CLI in-process and returns stdout, stderr and the exit
// code.
func execute(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Main(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "typebridge", cmd.Use)
	assert.Contains(t, cmd.Long, "TypeQL")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"schema", "sync", "filter", "history", "test"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			require.NotNil(t, sub)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestInvalidFormat(t *testing.T) {
	_, stderr, code := execute(t, "schema", employmentDir, "--format", "yaml")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "invalid format")
}

func TestUnknownCommandIsCommandError(t *testing.T) {
	_, stderr, code := execute(t, "frobnicate")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "unknown command")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typebridge.toml")
	body := "[output]\nformat = \"json\"\n\n[schema]\ndir = \"" + employmentDir + "\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Run("format and schema dir come from the file", func(t *testing.T) {
		stdout, _, code := execute(t, "--config", path, "schema")
		assert.Equal(t, ExitSuccess, code)
		assert.Contains(t, stdout, `"status":"ok"`)
	})

	t.Run("flag overrides the file", func(t *testing.T) {
		stdout, _, code := execute(t, "--config", path, "--format", "text", "schema")
		assert.Equal(t, ExitSuccess, code)
		assert.Contains(t, stdout, "define\n")
	})

	t.Run("missing file", func(t *testing.T) {
		_, stderr, code := execute(t, "--config", filepath.Join(dir, "missing.toml"), "schema")
		assert.Equal(t, ExitCommandError, code)
		assert.Contains(t, stderr, "load config")
	})
}
