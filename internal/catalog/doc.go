// Package catalog is a SQLite ledger of schema sync runs.
//
// Every applied sync plan is recorded with the statements it ran and the
// schema snapshot it produced. The latest snapshot stands in for the live
// database schema when no database is reachable, so the catalog implements
// schema.Introspector.
//
// # Ordering
//
// Runs are stamped with a logical seq from a monotonic clock that resumes
// from the highest recorded seq on Open. All reads order by seq; wall time
// is never stored.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package catalog
