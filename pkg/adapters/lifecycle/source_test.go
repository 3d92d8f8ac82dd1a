package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/casebook/pkg/adapters/lifecycle"
	"github.com/aretw0/casebook/pkg/core"
)

func TestSource_Forwards(t *testing.T) {
	in := make(chan core.Event, 2)
	in <- core.Event{Type: core.EventCreate, Key: core.KeyCases}
	in <- core.Event{Type: core.EventDelete, Key: core.KeyNotes}
	close(in)

	src := lifecycle.NewSource(in)
	require.NoError(t, src.Start(context.Background()))

	var got []string
	for e := range src.Events() {
		got = append(got, e.String())
	}
	assert.Equal(t, []string{"CREATE userCases", "DELETE userNotes"}, got)
}

func TestSource_StopsOnCancel(t *testing.T) {
	in := make(chan core.Event)
	ctx, cancel := context.WithCancel(context.Background())

	src := lifecycle.NewSource(in)
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("source did not close after cancel")
	}
}
