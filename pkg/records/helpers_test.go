package records_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/casebook/pkg/adapters/memory"
	"github.com/aretw0/casebook/pkg/core"
	"github.com/aretw0/casebook/pkg/records"
)

// fixture builds a service over a fresh memory backend with a stepping clock
// and sequential IDs.
type fixture struct {
	backend *memory.Backend
	store   *core.Store
	svc     *records.Service
	now     time.Time
	seq     int
}

func newFixture(t *testing.T, quota int64) *fixture {
	t.Helper()
	f := &fixture{
		backend: memory.NewBackend(),
		now:     time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	f.store = core.NewStore(f.backend, core.StoreConfig{Quota: quota})
	f.svc = records.NewService(f.store, records.Config{
		Clock: func() time.Time {
			f.now = f.now.Add(time.Second)
			return f.now
		},
		NewID: func() (string, error) {
			f.seq++
			return fmt.Sprintf("id-%03d", f.seq), nil
		},
	})
	return f
}
