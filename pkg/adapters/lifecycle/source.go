// Package lifecycle exposes store change events as a lifecycle.Source so a
// casebook watcher can be supervised next to other event producers.
package lifecycle

import (
	"context"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/casebook/pkg/core"
)

type storeSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	once   sync.Once
}

// NewSource wraps a store event channel, typically the one returned by a
// core.Watchable backend.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &storeSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *storeSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx is done or the upstream channel closes.
// Calling Start more than once has no further effect.
func (s *storeSource) Start(ctx context.Context) error {
	s.once.Do(func() {
		lifecycle.Go(ctx, func(ctx context.Context) error {
			defer close(s.out)
			for {
				select {
				case <-ctx.Done():
					return nil
				case e, ok := <-s.events:
					if !ok {
						return nil
					}
					// core.Event satisfies lifecycle.Event through String().
					select {
					case s.out <- e:
					case <-ctx.Done():
						return nil
					}
				}
			}
		})
	})
	return nil
}
