package catalog

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/logger"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - no tables
// 1 - sync_runs
const currentSchemaVersion = 1

// Catalog records sync runs in SQLite.
type Catalog struct {
	db    *sql.DB
	clock Sequencer
	ids   IDGenerator
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithSequencer replaces the logical clock. Tests use it for stable seqs.
func WithSequencer(s Sequencer) Option {
	return func(c *Catalog) { c.clock = s }
}

// WithIDGenerator replaces the UUIDv7 run ID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(c *Catalog) { c.ids = g }
}

// Open creates or opens the catalog database at path, applying pragmas and
// migrations. It is safe to call on an existing catalog.
func Open(path string, opts ...Option) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "connect to catalog %s", path)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "apply pragmas")
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "apply schema")
	}

	var last int64
	if err := db.QueryRow(`SELECT COALESCE(MAX(seq), 0) FROM sync_runs`).Scan(&last); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "read last seq")
	}

	c := newCatalog(db, NewClockAt(last), opts...)
	logger.Logger.Debugw("Opened catalog",
		logger.FieldComponent, "catalog",
		logger.FieldFile, path,
		"last_seq", last)
	return c, nil
}

func newCatalog(db *sql.DB, clock Sequencer, opts ...Option) *Catalog {
	c := &Catalog{db: db, clock: clock, ids: UUIDv7Generator{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return errors.Wrapf(err, "execute %q", pragma)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return errors.Wrap(err, "get user_version")
	}
	if version > currentSchemaVersion {
		return errors.Newf("catalog schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return errors.Wrap(err, "execute schema")
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return errors.Wrap(err, "set user_version")
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
func (c *Catalog) verifyPragma(name, expected string) error {
	var value string
	if err := c.db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return errors.Wrapf(err, "query %s", name)
	}
	if value != expected {
		return errors.Newf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
