package records_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/casebook/pkg/adapters/cache"
	"github.com/aretw0/casebook/pkg/adapters/fs"
	"github.com/aretw0/casebook/pkg/adapters/memory"
	"github.com/aretw0/casebook/pkg/adapters/sqlite"
	"github.com/aretw0/casebook/pkg/core"
	"github.com/aretw0/casebook/pkg/records"
)

// TestConcurrency_CreateWhileListing runs writers and readers against one
// service. Every created case and note must survive, whatever the backend.
func TestConcurrency_CreateWhileListing(t *testing.T) {
	const writers = 20

	backends := []struct {
		name string
		new  func(t *testing.T) core.Backend
	}{
		{"memory", func(t *testing.T) core.Backend { return memory.NewBackend() }},
		{"fs", func(t *testing.T) core.Backend { return fs.NewBackend(fs.Config{Path: t.TempDir()}) }},
		{"sqlite", func(t *testing.T) core.Backend {
			b := sqlite.NewBackend(sqlite.Config{Path: filepath.Join(t.TempDir(), sqlite.DefaultFilename)})
			t.Cleanup(func() { _ = b.Close() })
			return b
		}},
		{"cache", func(t *testing.T) core.Backend { return cache.New(memory.NewBackend(), time.Minute) }},
	}

	for _, tc := range backends {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			backend := tc.new(t)
			require.NoError(t, backend.Initialize(ctx))
			svc := records.NewService(core.NewStore(backend, core.StoreConfig{}), records.Config{})

			stop := make(chan struct{})
			var readers sync.WaitGroup
			for i := 0; i < 4; i++ {
				readers.Add(1)
				go func() {
					defer readers.Done()
					for {
						select {
						case <-stop:
							return
						default:
							_, _ = svc.Cases.ListFor(ctx, "owner")
							_, _ = svc.Notes.ListFor(ctx, "owner")
						}
					}
				}()
			}

			var wg sync.WaitGroup
			errs := make(chan error, 2*writers)
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					if _, err := svc.Cases.Create(ctx, "owner", fmt.Sprintf("case-%d", i), "", nil, ""); err != nil {
						errs <- err
					}
					if _, err := svc.Notes.Create(ctx, "owner", "", fmt.Sprintf("note-%d", i)); err != nil {
						errs <- err
					}
				}(i)
			}
			wg.Wait()
			close(stop)
			readers.Wait()
			close(errs)

			for err := range errs {
				assert.NoError(t, err)
			}

			cases, err := svc.Cases.ListFor(ctx, "owner")
			require.NoError(t, err)
			assert.Len(t, cases, writers)

			notes, err := svc.Notes.ListFor(ctx, "owner")
			require.NoError(t, err)
			assert.Len(t, notes, writers)
		})
	}
}
