// Package sqlite implements core.Backend on an embedded SQLite database.
// Each key is one row of the entries table.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/aretw0/studyshare/pkg/core"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MemoryPath selects an in-memory database.
const MemoryPath = ":memory:"

// DefaultFileName is the database file created inside Config.Path.
const DefaultFileName = "studyshare.db"

// Config holds the configuration for the SQLite backend.
type Config struct {
	// Path is the directory holding the database file, or MemoryPath.
	Path     string
	FileName string
	// ReadOnly rejects Set and Delete with core.ErrReadOnly. Nothing is
	// created; a missing database reads as empty.
	ReadOnly bool
	Logger   *slog.Logger
}

// Backend implements core.Backend using SQLite.
type Backend struct {
	config Config

	mu         sync.RWMutex
	db         *sql.DB
	migrations []int
}

// NewBackend creates a SQLite backend. The database is opened by Initialize.
func NewBackend(config Config) *Backend {
	if config.FileName == "" {
		config.FileName = DefaultFileName
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Backend{config: config}
}

// DSN returns the data source name used to open the database.
func (b *Backend) DSN() string {
	if b.config.Path == MemoryPath {
		return MemoryPath
	}
	return filepath.Join(b.config.Path, b.config.FileName)
}

// Initialize opens the database and applies pending migrations.
// Calling it again on an open backend is a no-op.
func (b *Backend) Initialize(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db != nil {
		return nil
	}

	dsn := b.DSN()
	if dsn != MemoryPath {
		if b.config.ReadOnly {
			if _, err := os.Stat(dsn); errors.Is(err, os.ErrNotExist) {
				b.config.Logger.Debug("database missing, read-only backend is empty", "path", dsn)
				return nil
			}
		} else if err := os.MkdirAll(b.config.Path, 0o755); err != nil {
			return fmt.Errorf("sqlite.Backend.Initialize: creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("sqlite.Backend.Initialize: opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("sqlite.Backend.Initialize: pinging database: %w", err)
	}

	// One connection: avoids "database is locked" and keeps :memory: a single database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return fmt.Errorf("sqlite.Backend.Initialize: setting busy timeout: %w", err)
	}
	if dsn != MemoryPath && !b.config.ReadOnly {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return fmt.Errorf("sqlite.Backend.Initialize: setting journal mode: %w", err)
		}
	}

	if !b.config.ReadOnly {
		if err := migrate(ctx, db); err != nil {
			db.Close()
			return fmt.Errorf("sqlite.Backend.Initialize: running migrations: %w", err)
		}
	}

	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		db.Close()
		return fmt.Errorf("sqlite.Backend.Initialize: %w", err)
	}

	b.db = db
	b.migrations = applied
	b.config.Logger.Debug("sqlite backend ready", "dsn", dsn, "migrations", len(applied))
	return nil
}

// Close closes the underlying database connection.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

// Get returns the value stored under key or core.ErrKeyNotFound.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		if b.config.ReadOnly {
			return nil, fmt.Errorf("sqlite.Backend.Get %q: %w", key, core.ErrKeyNotFound)
		}
		return nil, errors.New("sqlite.Backend.Get: backend not initialized")
	}

	var value []byte
	err := b.db.QueryRowContext(ctx, "SELECT value FROM entries WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite.Backend.Get %q: %w", key, core.ErrKeyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite.Backend.Get %q: %w", key, err)
	}
	return value, nil
}

// Set replaces the value stored under key.
func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	if b.config.ReadOnly {
		return fmt.Errorf("sqlite.Backend.Set: %w", core.ErrReadOnly)
	}
	if key == "" {
		return errors.New("sqlite.Backend.Set: empty key")
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.db == nil {
		return errors.New("sqlite.Backend.Set: backend not initialized")
	}

	if value == nil {
		value = []byte{}
	}
	_, err := b.db.ExecContext(ctx, `INSERT INTO entries (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("sqlite.Backend.Set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (b *Backend) Delete(ctx context.Context, key string) error {
	if b.config.ReadOnly {
		return fmt.Errorf("sqlite.Backend.Delete: %w", core.ErrReadOnly)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.db == nil {
		return errors.New("sqlite.Backend.Delete: backend not initialized")
	}

	if _, err := b.db.ExecContext(ctx, "DELETE FROM entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("sqlite.Backend.Delete %q: %w", key, err)
	}
	return nil
}

// Keys returns all stored keys in ascending order.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.db == nil {
		return nil, nil
	}

	rows, err := b.db.QueryContext(ctx, "SELECT key FROM entries ORDER BY key ASC")
	if err != nil {
		return nil, fmt.Errorf("sqlite.Backend.Keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// migrate reads embedded SQL migration files and applies any that haven't been run yet.
func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		var exists int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}
	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

// appliedMigrations returns the applied versions in ascending order. A
// database without the bookkeeping table reports none.
func appliedMigrations(ctx context.Context, db *sql.DB) ([]int, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return nil, nil
		}
		return nil, fmt.Errorf("listing migrations: %w", err)
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

var _ core.Backend = (*Backend)(nil)
var _ core.Closer = (*Backend)(nil)
