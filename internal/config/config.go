// Package config loads typebridge settings from typebridge.toml and
// TYPEBRIDGE_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/schema"
)

// FileName is the project configuration file searched for from the
// working directory upward.
const FileName = "typebridge.toml"

// EnvPrefix prefixes environment overrides, e.g. TYPEBRIDGE_CATALOG_PATH.
const EnvPrefix = "TYPEBRIDGE"

// Config is the resolved configuration.
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Schema  SchemaConfig  `mapstructure:"schema"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Output  OutputConfig  `mapstructure:"output"`
	Log     LogConfig     `mapstructure:"log"`

	// Source is the file the settings were read from, empty when only
	// defaults and environment applied.
	Source string `mapstructure:"-"`
}

// CatalogConfig locates the sync ledger database.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// SchemaConfig locates the CUE declarations.
type SchemaConfig struct {
	Dir string `mapstructure:"dir"`
}

// SyncConfig holds sync defaults.
type SyncConfig struct {
	Mode string `mapstructure:"mode"` // diff | force
}

// OutputConfig controls command output.
type OutputConfig struct {
	Format string `mapstructure:"format"` // text | json
}

// LogConfig controls the process logger.
type LogConfig struct {
	JSON    bool `mapstructure:"json"`
	Verbose bool `mapstructure:"verbose"`
}

// Formats lists the accepted output formats.
var Formats = []string{"text", "json"}

// SetDefaults configures default values for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("catalog.path", "typebridge.db")
	v.SetDefault("schema.dir", "schema")
	v.SetDefault("sync.mode", string(schema.SyncDiff))
	v.SetDefault("output.format", "text")
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbose", false)
}

// New returns a viper instance with defaults and environment binding but no
// file loaded.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load resolves the configuration. An explicit path must exist; with an
// empty path the nearest typebridge.toml from the working directory upward
// is used when there is one. Environment variables override the file.
func Load(path string) (*Config, error) {
	v := New()

	source := path
	if source == "" {
		source = FindProjectConfig()
	} else if _, err := os.Stat(source); err != nil {
		return nil, errors.Configurationf("config", "config file %s: %v", source, err)
	}

	if source != "" {
		v.SetConfigFile(source)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", source)
		}
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	cfg.Source = source
	return cfg, nil
}

// LoadWithViper unmarshals and validates the settings held by v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown enumerations and empty paths.
func (c *Config) Validate() error {
	if !slices.Contains(Formats, c.Output.Format) {
		return errors.Configurationf("output.format", "must be one of %v, got %q", Formats, c.Output.Format)
	}
	if _, err := schema.ParseSyncMode(c.Sync.Mode); err != nil {
		return errors.Configurationf("sync.mode", "must be diff or force, got %q", c.Sync.Mode)
	}
	if c.Catalog.Path == "" {
		return errors.Configurationf("catalog.path", "must not be empty")
	}
	return nil
}

// FindProjectConfig walks up from the working directory looking for
// typebridge.toml. It returns "" when none is found.
func FindProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findFrom(dir)
}

func findFrom(dir string) string {
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
