package records_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/casebook/pkg/adapters/memory"
	"github.com/aretw0/casebook/pkg/core"
	"github.com/aretw0/casebook/pkg/detect"
	"github.com/aretw0/casebook/pkg/records"
)

func TestSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)

	_, err := f.svc.Session.Current(ctx)
	assert.ErrorIs(t, err, core.ErrNoSession)

	id, err := f.svc.Session.SignIn(ctx, "user-123", "")
	require.NoError(t, err)
	assert.Equal(t, "user-123", id.DisplayName)

	_, err = f.svc.Session.SignIn(ctx, "user-9", "Ada")
	require.NoError(t, err)
	current, err := f.svc.Session.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, records.Identity{ID: "user-9", DisplayName: "Ada"}, current)

	require.NoError(t, f.svc.Session.SignOut(ctx))
	_, err = f.svc.Session.Current(ctx)
	assert.ErrorIs(t, err, core.ErrNoSession)

	_, err = f.svc.Session.SignIn(ctx, " ", "x")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)

	_, err := f.svc.Analyze(ctx, "u1", "")
	assert.ErrorIs(t, err, core.ErrValidation, "nothing uploaded yet")

	require.NoError(t, f.svc.Upload(ctx, "data:image/png;base64,AAAA"))

	c, err := f.svc.Analyze(ctx, "u1", "Scene 1")
	require.NoError(t, err)
	assert.Equal(t, "Scene 1", c.Name)
	assert.Equal(t, detect.StubObjects(), c.DetectedObjects)
	assert.Equal(t, detect.StubDescription, c.Description)
	assert.Equal(t, "data:image/png;base64,AAAA", c.ImageRef)

	list, err := f.svc.Cases.ListFor(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.svc.ClearUpload(ctx))
	_, ok, err := f.svc.CurrentUpload(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAnalyze_DetectorFailureStoresNothing(t *testing.T) {
	ctx := context.Background()
	store := core.NewStore(memory.NewBackend(), core.StoreConfig{})
	svc := records.NewService(store, records.Config{
		Detector: core.DetectorFunc(func(ctx context.Context, imageRef string) (core.Detection, error) {
			return core.Detection{}, errors.New("model offline")
		}),
	})

	require.NoError(t, svc.Upload(ctx, "img"))
	_, err := svc.Analyze(ctx, "u1", "")
	assert.ErrorIs(t, err, core.ErrDetection)

	list, err := svc.Cases.ListFor(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpload_Quota(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 16)

	err := f.svc.Upload(ctx, "data:image/png;base64,AAAAAAAAAAAAAAAA")
	assert.ErrorIs(t, err, core.ErrQuotaExceeded)
	assert.ErrorIs(t, f.svc.Upload(ctx, ""), core.ErrValidation)
}

func TestService_State(t *testing.T) {
	f := newFixture(t, 100)

	state, ok := f.svc.State().(records.ServiceState)
	require.True(t, ok)
	assert.Equal(t, "*detect.Stub", state.Detector)

	storeState, ok := state.Store.(core.StoreState)
	require.True(t, ok)
	assert.Equal(t, int64(100), storeState.Quota)
}

func TestService_WatchUnsupported(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.svc.Watch(context.Background(), "*")
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.NoError(t, f.svc.Close())
}

func TestSession_FailedSignInKeepsPreviousIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 20)

	_, err := f.svc.Session.SignIn(ctx, "alice", "Alice")
	require.NoError(t, err)

	// The display name fits, the identity does not.
	_, err = f.svc.Session.SignIn(ctx, "bbbbbbbbbbbbbbbbbb", "Bob")
	assert.ErrorIs(t, err, core.ErrQuotaExceeded)

	current, err := f.svc.Session.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, records.Identity{ID: "alice", DisplayName: "Alice"}, current)

	t.Run("first sign in leaves no display name behind", func(t *testing.T) {
		g := newFixture(t, 10)
		_, err := g.svc.Session.SignIn(ctx, "cccccccccc", "Cy")
		assert.ErrorIs(t, err, core.ErrQuotaExceeded)

		_, ok, err := g.store.GetValue(ctx, core.KeyDisplayName)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestSession_SignOutDropsPendingUpload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)

	_, err := f.svc.Session.SignIn(ctx, "alice", "")
	require.NoError(t, err)
	require.NoError(t, f.svc.Upload(ctx, "data:image/png;base64,AAAA"))
	require.NoError(t, f.svc.Session.SignOut(ctx))

	_, err = f.svc.Session.SignIn(ctx, "bob", "")
	require.NoError(t, err)

	_, ok, err := f.svc.CurrentUpload(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.svc.Analyze(ctx, "bob", "")
	assert.ErrorIs(t, err, core.ErrValidation)
	cases, err := f.svc.Cases.ListFor(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, cases)
}
