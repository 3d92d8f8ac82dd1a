// Package sqlite implements core.Backend on a single SQLite database file.
// Every key is one row of the items table.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	_ "github.com/mattn/go-sqlite3"

	"github.com/aretw0/casebook/pkg/core"
)

//go:embed schema.sql
var schema string

// DefaultFilename is the database file created inside a store directory.
const DefaultFilename = "casebook.db"

// Config holds the configuration for the SQLite backend.
type Config struct {
	Path     string // database file
	ReadOnly bool
	Logger   *slog.Logger
}

// Backend stores items in SQLite.
type Backend struct {
	config Config
	logger *slog.Logger

	mu sync.RWMutex
	db *sql.DB
}

// NewBackend creates a backend for the database at config.Path.
// The database is opened by Initialize.
func NewBackend(config Config) *Backend {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Backend{config: config, logger: logger}
}

// Initialize opens the database and creates the schema.
func (b *Backend) Initialize(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db != nil {
		return nil
	}

	dsn := b.config.Path
	if b.config.ReadOnly {
		dsn = "file:" + b.config.Path + "?mode=ro"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	// One connection keeps writers serialized and makes ":memory:" usable.
	db.SetMaxOpenConns(1)

	if !b.config.ReadOnly {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			_ = db.Close()
			return fmt.Errorf("init schema: %w", err)
		}
	} else if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("open database: %w", err)
	}

	b.db = db
	b.logger.Debug("sqlite backend ready", "path", b.config.Path, "read_only", b.config.ReadOnly)
	return nil
}

// Close releases the database handle.
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

// GetItem returns the value stored under key.
func (b *Backend) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	db, err := b.handle(key)
	if err != nil {
		return nil, false, err
	}

	var value []byte
	err = db.QueryRowContext(ctx, "SELECT value FROM items WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get item: %w", err)
	}
	return value, true, nil
}

// SetItem upserts key in a single statement.
func (b *Backend) SetItem(ctx context.Context, key string, value []byte) error {
	if b.config.ReadOnly {
		return core.ErrReadOnly
	}
	db, err := b.handle(key)
	if err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO items (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set item: %w", err)
	}
	return nil
}

// RemoveItem deletes key. Removing an absent key is not an error.
func (b *Backend) RemoveItem(ctx context.Context, key string) error {
	if b.config.ReadOnly {
		return core.ErrReadOnly
	}
	db, err := b.handle(key)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM items WHERE key = ?", key); err != nil {
		return fmt.Errorf("remove item: %w", err)
	}
	return nil
}

// Keys lists the stored keys in lexical order.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	db, err := b.open()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, "SELECT key FROM items ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Usage returns the total size of all stored values.
func (b *Backend) Usage(ctx context.Context) (int64, error) {
	db, err := b.open()
	if err != nil {
		return 0, err
	}

	var total int64
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(SUM(LENGTH(value)), 0) FROM items").Scan(&total); err != nil {
		return 0, fmt.Errorf("usage: %w", err)
	}
	return total, nil
}

func (b *Backend) handle(key string) (*sql.DB, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", core.ErrValidation)
	}
	return b.open()
}

func (b *Backend) open() (*sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.db == nil {
		return nil, fmt.Errorf("sqlite backend not initialized")
	}
	return b.db, nil
}

// BackendState exposes internal state for observability.
type BackendState struct {
	Path     string `json:"path"`
	ReadOnly bool   `json:"read_only"`
	Open     bool   `json:"open"`
}

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return BackendState{
		Path:     b.config.Path,
		ReadOnly: b.config.ReadOnly,
		Open:     b.db != nil,
	}
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string {
	return "sqlite"
}

var _ core.Backend = (*Backend)(nil)
var _ introspection.Introspectable = (*Backend)(nil)
var _ introspection.Component = (*Backend)(nil)
