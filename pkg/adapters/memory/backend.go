// Package memory provides an in-process core.Backend. Nothing survives the process;
// it backs tests and the "memory" adapter.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/casebook/pkg/core"
)

// Backend implements core.Backend with a map.
type Backend struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewBackend creates an empty Backend.
func NewBackend() *Backend {
	return &Backend{items: make(map[string][]byte)}
}

// GetItem returns a copy of the value stored under key.
func (b *Backend) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// SetItem stores a copy of value under key.
func (b *Backend) SetItem(ctx context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items[key] = append([]byte(nil), value...)
	return nil
}

// RemoveItem deletes key.
func (b *Backend) RemoveItem(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.items, key)
	return nil
}

// Keys returns the stored keys in lexical order.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.items))
	for k := range b.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Usage sums the stored value sizes.
func (b *Backend) Usage(ctx context.Context) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var n int64
	for _, v := range b.items {
		n += int64(len(v))
	}
	return n, nil
}

// Initialize is a no-op.
func (b *Backend) Initialize(ctx context.Context) error { return nil }

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string {
	return "memory"
}

var _ core.Backend = (*Backend)(nil)
