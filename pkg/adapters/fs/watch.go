package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/casebook/pkg/core"
)

// Watch reports changes to keys whose name matches pattern (a doublestar glob,
// "*" when empty). Every change is reported, including those made by this
// process; writers never coordinate, so the last write wins.
//
// The returned channel is closed when ctx is done or the watcher fails.
func (b *Backend) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: invalid watch pattern %q", core.ErrValidation, pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(b.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", b.Path, err)
	}

	events := make(chan core.Event, b.config.EventBuffer)
	b.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer b.setWatcherActive(false)
		defer watcher.Close()
		return b.watchLoop(ctx, watcher, pattern, events)
	}, lifecycle.WithErrorHandler(b.reportWatchError))

	return events, nil
}

func (b *Backend) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, pattern string, events chan<- core.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}

			e, ok := b.toEvent(event, pattern)
			if !ok {
				continue
			}
			b.recordEvent()
			b.logger.Debug("store changed", "type", e.Type, "key", e.Key)

			select {
			case events <- e:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			b.reportWatchError(err)
		}
	}
}

// toEvent maps a filesystem event to a store event, dropping everything that is
// not a key matching pattern.
func (b *Backend) toEvent(event fsnotify.Event, pattern string) (core.Event, bool) {
	name := filepath.Base(event.Name)
	if b.ignored(name) {
		return core.Event{}, false
	}
	if ok, err := doublestar.Match(pattern, name); err != nil || !ok {
		return core.Event{}, false
	}

	var t core.EventType
	switch {
	case event.Has(fsnotify.Create):
		t = core.EventCreate
	case event.Has(fsnotify.Write):
		t = core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		t = core.EventDelete
	default:
		return core.Event{}, false
	}

	return core.Event{
		Type:      t,
		Key:       name,
		Timestamp: time.Now().Unix(),
	}, true
}

func (b *Backend) reportWatchError(err error) {
	b.logger.Error("watcher error", "error", err)
	if b.config.ErrorHandler != nil {
		b.config.ErrorHandler(err)
	}
}
