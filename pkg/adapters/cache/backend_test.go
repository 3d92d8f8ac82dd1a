package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/casebook/pkg/adapters/cache"
	"github.com/aretw0/casebook/pkg/adapters/memory"
	"github.com/aretw0/casebook/pkg/core"
)

// countingBackend records how often reads reach the wrapped backend.
type countingBackend struct {
	core.Backend
	reads int
}

func (c *countingBackend) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	c.reads++
	return c.Backend.GetItem(ctx, key)
}

func TestCache_ReadThrough(t *testing.T) {
	ctx := context.Background()
	inner := &countingBackend{Backend: memory.NewBackend()}
	b := cache.New(inner, time.Minute)
	require.NoError(t, b.Initialize(ctx))

	require.NoError(t, b.SetItem(ctx, core.KeyNotes, []byte("[]")))

	for i := 0; i < 3; i++ {
		got, ok, err := b.GetItem(ctx, core.KeyNotes)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "[]", string(got))
	}
	assert.Equal(t, 1, inner.reads)

	t.Run("missing keys are cached too", func(t *testing.T) {
		inner.reads = 0
		for i := 0; i < 2; i++ {
			_, ok, err := b.GetItem(ctx, core.KeyCases)
			require.NoError(t, err)
			assert.False(t, ok)
		}
		assert.Equal(t, 1, inner.reads)
	})
}

// pausingBackend parks the first read after it has fetched from the wrapped
// backend, until release is closed.
type pausingBackend struct {
	core.Backend
	once    sync.Once
	fetched chan struct{}
	release chan struct{}
}

func (p *pausingBackend) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	value, found, err := p.Backend.GetItem(ctx, key)
	p.once.Do(func() {
		close(p.fetched)
		<-p.release
	})
	return value, found, err
}

func TestCache_ReadOverlappingWriteIsNotCached(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewBackend()
	require.NoError(t, inner.SetItem(ctx, core.KeyCases, []byte(`["first"]`)))

	slow := &pausingBackend{Backend: inner, fetched: make(chan struct{}), release: make(chan struct{})}
	b := cache.New(slow, time.Minute)

	done := make(chan []byte)
	go func() {
		got, _, _ := b.GetItem(ctx, core.KeyCases)
		done <- got
	}()

	<-slow.fetched
	require.NoError(t, b.SetItem(ctx, core.KeyCases, []byte(`["first","second"]`)))
	close(slow.release)
	assert.Equal(t, `["first"]`, string(<-done))

	got, _, err := b.GetItem(ctx, core.KeyCases)
	require.NoError(t, err)
	assert.Equal(t, `["first","second"]`, string(got))
}

func TestCache_WritesInvalidate(t *testing.T) {
	ctx := context.Background()
	inner := &countingBackend{Backend: memory.NewBackend()}
	b := cache.New(inner, time.Minute)

	require.NoError(t, b.SetItem(ctx, core.KeyIdentity, []byte("a")))
	_, _, _ = b.GetItem(ctx, core.KeyIdentity)

	require.NoError(t, b.SetItem(ctx, core.KeyIdentity, []byte("b")))
	got, _, err := b.GetItem(ctx, core.KeyIdentity)
	require.NoError(t, err)
	assert.Equal(t, "b", string(got))

	require.NoError(t, b.RemoveItem(ctx, core.KeyIdentity))
	_, ok, err := b.GetItem(ctx, core.KeyIdentity)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3, inner.reads)
}

func TestCache_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	b := cache.New(memory.NewBackend(), time.Minute)
	require.NoError(t, b.SetItem(ctx, core.KeyNotes, []byte("[]")))

	got, _, _ := b.GetItem(ctx, core.KeyNotes)
	got[0] = 'X'

	again, _, _ := b.GetItem(ctx, core.KeyNotes)
	assert.Equal(t, "[]", string(again))
}

func TestCache_WatchRequiresWatchableInner(t *testing.T) {
	b := cache.New(memory.NewBackend(), 0)
	_, err := b.Watch(context.Background(), "*")
	assert.ErrorIs(t, err, core.ErrValidation)

	state := b.State().(cache.BackendState)
	assert.Equal(t, cache.DefaultTTL.String(), state.TTL)
	assert.Equal(t, "cache", b.ComponentType())
}
