package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typebridge/internal/errors"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadWithViper_Defaults(t *testing.T) {
	cfg, err := LoadWithViper(New())
	require.NoError(t, err)

	assert.Equal(t, "typebridge.db", cfg.Catalog.Path)
	assert.Equal(t, "schema", cfg.Schema.Dir)
	assert.Equal(t, "diff", cfg.Sync.Mode)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.False(t, cfg.Log.JSON)
	assert.False(t, cfg.Log.Verbose)
	assert.Empty(t, cfg.Source)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[catalog]
path = "ledger.db"

[schema]
dir = "decl"

[output]
format = "json"

[log]
verbose = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ledger.db", cfg.Catalog.Path)
	assert.Equal(t, "decl", cfg.Schema.Dir)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Log.Verbose)
	assert.Equal(t, "diff", cfg.Sync.Mode, "unset keys keep their defaults")
	assert.Equal(t, path, cfg.Source)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[catalog]\npath = \"ledger.db\"\n")
	t.Setenv("TYPEBRIDGE_CATALOG_PATH", "override.db")
	t.Setenv("TYPEBRIDGE_SYNC_MODE", "force")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "override.db", cfg.Catalog.Path)
	assert.Equal(t, "force", cfg.Sync.Mode)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"format", "[output]\nformat = \"yaml\"\n", "output.format"},
		{"mode", "[sync]\nmode = \"merge\"\n", "sync.mode"},
		{"catalog", "[catalog]\npath = \"\"\n", "catalog.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), tt.body))
			require.Error(t, err)
			assert.True(t, errors.IsConfiguration(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestFindFrom(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, want, findFrom(nested))
	assert.Equal(t, want, findFrom(root))
}

func TestFindProjectConfig(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "[schema]\ndir = \"decl\"\n")
	nested := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	assert.Equal(t, want, FindProjectConfig())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "decl", cfg.Schema.Dir)
	assert.Equal(t, want, cfg.Source)
}
