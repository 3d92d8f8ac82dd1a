// Package fs implements core.Backend on the local filesystem: one file per key
// inside the store directory, replaced atomically on every write.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/casebook/internal/atomicfile"
	"github.com/aretw0/casebook/pkg/core"
)

// DefaultSystemDir marks a directory as a casebook store.
const DefaultSystemDir = ".casebook"

// Backend implements core.Backend using the filesystem.
type Backend struct {
	Path   string
	config Config
	logger *slog.Logger

	mu            sync.RWMutex
	watcherActive bool
	lastEvent     *time.Time
}

// Config holds the configuration for the filesystem backend.
type Config struct {
	Path      string
	MustExist bool
	ReadOnly  bool
	SystemDir string // e.g. ".casebook"
	Logger    *slog.Logger

	// EventBuffer sizes the channel returned by Watch. Zero means 100.
	EventBuffer int
	// ErrorHandler receives runtime watcher failures. They are logged either way.
	ErrorHandler func(error)
}

// NewBackend creates a new filesystem-backed key space rooted at config.Path.
func NewBackend(config Config) *Backend {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = 100
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Backend{
		Path:   config.Path,
		config: config,
		logger: logger,
	}
}

// Initialize creates the store directory and its system marker.
func (b *Backend) Initialize(ctx context.Context) error {
	if b.config.MustExist || b.config.ReadOnly {
		info, err := os.Stat(b.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("store path does not exist: %s", b.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s", b.Path)
		}
	} else if err := os.MkdirAll(b.Path, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	if b.config.ReadOnly {
		return nil
	}
	if err := os.MkdirAll(filepath.Join(b.Path, b.config.SystemDir), 0755); err != nil {
		return fmt.Errorf("failed to create system directory: %w", err)
	}
	return nil
}

// GetItem reads the file holding key.
func (b *Backend) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	path, err := b.pathFor(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// SetItem replaces the file holding key atomically.
func (b *Backend) SetItem(ctx context.Context, key string, value []byte) error {
	if b.config.ReadOnly {
		return core.ErrReadOnly
	}
	path, err := b.pathFor(key)
	if err != nil {
		return err
	}
	if err := atomicfile.WriteFile(path, value, 0644); err != nil {
		return err
	}
	b.logger.Debug("item written", "key", key, "bytes", len(value))
	return nil
}

// RemoveItem deletes the file holding key.
func (b *Backend) RemoveItem(ctx context.Context, key string) error {
	if b.config.ReadOnly {
		return core.ErrReadOnly
	}
	path, err := b.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Keys lists the stored keys in lexical order.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(b.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to list store: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || b.ignored(e.Name()) {
			continue
		}
		keys = append(keys, e.Name())
	}
	sort.Strings(keys)
	return keys, nil
}

// Usage sums the size of every stored key.
func (b *Backend) Usage(ctx context.Context) (int64, error) {
	keys, err := b.Keys(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, k := range keys {
		info, err := os.Stat(filepath.Join(b.Path, k))
		if errors.Is(err, os.ErrNotExist) {
			continue // removed concurrently
		}
		if err != nil {
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}

func (b *Backend) pathFor(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.ContainsAny(key, `/\`) || b.ignored(key) {
		return "", fmt.Errorf("%w: invalid key %q", core.ErrValidation, key)
	}
	return filepath.Join(b.Path, key), nil
}

// ignored reports names that are never keys: dotfiles (including the system
// directory) and in-flight atomic writes.
func (b *Backend) ignored(name string) bool {
	return strings.HasPrefix(name, ".") || atomicfile.IsTemp(name)
}

var _ core.Backend = (*Backend)(nil)
var _ core.Watchable = (*Backend)(nil)
