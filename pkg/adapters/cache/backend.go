// Package cache decorates a core.Backend with an in-process read-through cache.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"
	gocache "github.com/patrickmn/go-cache"

	"github.com/aretw0/casebook/pkg/core"
)

// DefaultTTL bounds how long a read is served without touching the inner backend.
const DefaultTTL = 30 * time.Second

type entry struct {
	value []byte
	found bool
}

// Backend caches GetItem results of an inner backend. Writes and removals go
// straight through and drop the cached key, so a process always reads its own
// writes. Changes made by other processes become visible after the TTL, or
// immediately when the cache is watching the inner backend.
type Backend struct {
	inner core.Backend
	ttl   time.Duration
	items *gocache.Cache

	// generations counts invalidations per key. A read only populates the
	// cache when no write or eviction touched the key while it was in flight.
	mu          sync.Mutex
	generations map[string]uint64
}

// New wraps inner. A ttl <= 0 uses DefaultTTL.
func New(inner core.Backend, ttl time.Duration) *Backend {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Backend{
		inner: inner,
		ttl:   ttl,
		items:       gocache.New(ttl, 2*ttl),
		generations: make(map[string]uint64),
	}
}

// Inner returns the wrapped backend.
func (b *Backend) Inner() core.Backend {
	return b.inner
}

func (b *Backend) Initialize(ctx context.Context) error {
	b.items.Flush()
	return b.inner.Initialize(ctx)
}

func (b *Backend) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok := b.items.Get(key); ok {
		e := v.(entry)
		return clone(e.value), e.found, nil
	}

	gen := b.generation(key)
	value, found, err := b.inner.GetItem(ctx, key)
	if err != nil {
		return nil, false, err
	}

	b.mu.Lock()
	if b.generations[key] == gen {
		b.items.SetDefault(key, entry{value: clone(value), found: found})
	}
	b.mu.Unlock()
	return value, found, nil
}

// SetItem invalidates key before and after the inner write, so a read that
// overlaps the write is never cached.
func (b *Backend) SetItem(ctx context.Context, key string, value []byte) error {
	b.invalidate(key)
	defer b.invalidate(key)
	return b.inner.SetItem(ctx, key, value)
}

func (b *Backend) RemoveItem(ctx context.Context, key string) error {
	b.invalidate(key)
	defer b.invalidate(key)
	return b.inner.RemoveItem(ctx, key)
}

func (b *Backend) generation(key string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generations[key]
}

func (b *Backend) invalidate(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.generations[key]++
	b.items.Delete(key)
}

func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	return b.inner.Keys(ctx)
}

func (b *Backend) Usage(ctx context.Context) (int64, error) {
	return b.inner.Usage(ctx)
}

// Watch forwards the inner backend's events, evicting each changed key before
// it is delivered. It fails with core.ErrValidation when the inner backend
// cannot be watched.
func (b *Backend) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	w, ok := b.inner.(core.Watchable)
	if !ok {
		return nil, core.ErrValidation
	}
	upstream, err := w.Watch(ctx, pattern)
	if err != nil {
		return nil, err
	}

	out := make(chan core.Event, cap(upstream))
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		for e := range upstream {
			b.invalidate(e.Key)
			select {
			case out <- e:
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})
	return out, nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

// BackendState exposes internal state for observability.
type BackendState struct {
	TTL   string `json:"ttl"`
	Items int    `json:"items"`
	Inner any    `json:"inner,omitempty"`
}

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	s := BackendState{
		TTL:   b.ttl.String(),
		Items: b.items.ItemCount(),
	}
	if i, ok := b.inner.(introspection.Introspectable); ok {
		s.Inner = i.State()
	}
	return s
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string {
	return "cache"
}

var _ core.Backend = (*Backend)(nil)
var _ core.Watchable = (*Backend)(nil)
var _ introspection.Component = (*Backend)(nil)
