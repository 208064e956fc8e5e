package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// connParams are applied by the driver to every connection.
const connParams = "_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"

// migrations[i] upgrades a journal from user_version i to i+1.
var migrations = []string{
	`CREATE INDEX IF NOT EXISTS idx_entries_batch ON entries(batch)`,
}

// Journal is a durable, hash-chained log of registry mutations.
type Journal struct {
	db     *sql.DB
	logger *slog.Logger
}

// Option configures a Journal.
type Option func(*Journal)

// WithLogger sets the logger used for write events.
//
// Default: slog.Default()
func WithLogger(l *slog.Logger) Option {
	return func(j *Journal) {
		if l != nil {
			j.logger = l
		}
	}
}

// Open creates or opens the journal at path and brings its schema up to
// date. Opening an existing journal never rewrites its records.
func Open(path string, opts ...Option) (*Journal, error) {
	conn, err := sql.Open("sqlite3", path+"?"+connParams)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	// One connection: SQLite admits a single writer and the hash chain
	// needs appends serialized.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	j := &Journal{db: conn, logger: slog.Default()}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// Close closes the database connection. Closing twice is a no-op.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// migrate creates the entries table and applies every migration newer
// than the stored user_version.
func migrate(conn *sql.DB) error {
	if _, err := conn.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	var version int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	for v := version; v < len(migrations); v++ {
		if _, err := conn.Exec(migrations[v]); err != nil {
			return fmt.Errorf("migrate to v%d: %w", v+1, err)
		}
	}
	if version < len(migrations) {
		if _, err := conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", len(migrations))); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}
	return nil
}

// pragma returns the current value of a pragma.
func (j *Journal) pragma(ctx context.Context, name string) (string, error) {
	var value string
	if err := j.db.QueryRowContext(ctx, "PRAGMA "+name).Scan(&value); err != nil {
		return "", fmt.Errorf("query %s: %w", name, err)
	}
	return value, nil
}
