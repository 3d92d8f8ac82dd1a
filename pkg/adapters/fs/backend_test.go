package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/casebook/pkg/core"
)

func setupBackend(t *testing.T) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b := NewBackend(Config{Path: dir})
	require.NoError(t, b.Initialize(context.Background()))
	return b, dir
}

func TestBackend_Items(t *testing.T) {
	ctx := context.Background()
	b, dir := setupBackend(t)

	_, ok, err := b.GetItem(ctx, core.KeyCases)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.SetItem(ctx, core.KeyCases, []byte(`[]`)))
	require.NoError(t, b.SetItem(ctx, core.KeyIdentity, []byte("user-123")))

	got, ok, err := b.GetItem(ctx, core.KeyIdentity)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "user-123", string(got))

	onDisk, err := os.ReadFile(filepath.Join(dir, core.KeyCases))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(onDisk))

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{core.KeyCases, core.KeyIdentity}, keys)

	usage, err := b.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2+8), usage)

	require.NoError(t, b.RemoveItem(ctx, core.KeyCases))
	require.NoError(t, b.RemoveItem(ctx, core.KeyCases))
	_, ok, _ = b.GetItem(ctx, core.KeyCases)
	assert.False(t, ok)
}

func TestBackend_KeysSkipInternalFiles(t *testing.T) {
	ctx := context.Background()
	b, dir := setupBackend(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "casebook-tmp-123"), []byte("partial"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0644))
	require.NoError(t, b.SetItem(ctx, core.KeyNotes, []byte("[]")))

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{core.KeyNotes}, keys)

	info, err := os.Stat(filepath.Join(dir, DefaultSystemDir))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestBackend_InvalidKeys(t *testing.T) {
	ctx := context.Background()
	b, _ := setupBackend(t)

	for _, key := range []string{"", "../escape", "a/b", ".casebook", "casebook-tmp-1"} {
		err := b.SetItem(ctx, key, []byte("x"))
		assert.ErrorIs(t, err, core.ErrValidation, "key %q", key)
	}
}

func TestBackend_ReadOnly(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, core.KeyIdentity), []byte("user-1"), 0644))

	b := NewBackend(Config{Path: dir, ReadOnly: true})
	require.NoError(t, b.Initialize(ctx))

	_, err := os.Stat(filepath.Join(dir, DefaultSystemDir))
	assert.True(t, os.IsNotExist(err), "read-only init must not create the system dir")

	got, ok, err := b.GetItem(ctx, core.KeyIdentity)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user-1", string(got))

	assert.ErrorIs(t, b.SetItem(ctx, core.KeyIdentity, []byte("x")), core.ErrReadOnly)
	assert.ErrorIs(t, b.RemoveItem(ctx, core.KeyIdentity), core.ErrReadOnly)
}

func TestBackend_MustExist(t *testing.T) {
	b := NewBackend(Config{Path: filepath.Join(t.TempDir(), "missing"), MustExist: true})
	assert.Error(t, b.Initialize(context.Background()))
}

func TestBackend_State(t *testing.T) {
	b, dir := setupBackend(t)

	state, ok := b.State().(BackendState)
	require.True(t, ok)
	assert.Equal(t, dir, state.Path)
	assert.Equal(t, DefaultSystemDir, state.SystemDir)
	assert.False(t, state.WatcherActive)
	assert.Equal(t, "fs", b.ComponentType())
}
