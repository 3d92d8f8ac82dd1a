// Package typed turns the raw collections of a core.RecordStore into slices of Go
// values, validating every record at the boundary.
package typed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/aretw0/casebook/pkg/core"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds the configuration for a Collection.
type Config struct {
	// Strict reports malformed records as core.ErrDeserialization instead of
	// dropping them.
	Strict bool
	Logger *slog.Logger
}

// Collection is a typed, validated view over one record kind.
//
// Read-modify-write cycles (Update, Prepend, RemoveFunc) are serialized per
// Collection, so share one Collection per kind inside a process.
type Collection[T any] struct {
	store  core.RecordStore
	kind   core.Kind
	config Config
	logger *slog.Logger
	mu     sync.Mutex
}

// NewCollection creates a typed wrapper for kind.
func NewCollection[T any](store core.RecordStore, kind core.Kind, config Config) *Collection[T] {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collection[T]{
		store:  store,
		kind:   kind,
		config: config,
		logger: logger,
	}
}

// Kind returns the record kind the collection reads and writes.
func (c *Collection[T]) Kind() core.Kind {
	return c.kind
}

// Load decodes every record in stored order.
//
// A record that does not decode into T, or decodes but fails validation, is
// dropped and logged; it disappears from storage on the next write.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	records, err := c.store.Get(ctx, c.kind)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(records))
	for i, raw := range records {
		item, err := decode[T](raw)
		if err != nil {
			if c.config.Strict {
				return nil, fmt.Errorf("%w: %s record %d: %v", core.ErrDeserialization, c.kind, i, err)
			}
			c.logger.Warn("dropping malformed record", "kind", c.kind, "index", i, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Save validates and writes the whole collection.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	records := make([]core.Record, 0, len(items))
	for i, item := range items {
		if err := validate.Struct(item); err != nil {
			return fmt.Errorf("%w: %s record %d: %v", core.ErrValidation, c.kind, i, err)
		}
		raw, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal %s record %d: %w", c.kind, i, err)
		}
		records = append(records, raw)
	}
	return c.store.Put(ctx, c.kind, records)
}

// Update loads the collection, applies fn and saves the result.
// If fn returns an error nothing is written.
func (c *Collection[T]) Update(ctx context.Context, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.Load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	return c.Save(ctx, next)
}

// Prepend stores item in front of the existing records (newest-first).
func (c *Collection[T]) Prepend(ctx context.Context, item T) error {
	return c.Update(ctx, func(items []T) ([]T, error) {
		return append([]T{item}, items...), nil
	})
}

// RemoveFunc deletes every record matching match and reports how many went.
// Nothing is written when no record matches.
func (c *Collection[T]) RemoveFunc(ctx context.Context, match func(T) bool) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.Load(ctx)
	if err != nil {
		return 0, err
	}

	kept := items[:0:0]
	for _, item := range items {
		if !match(item) {
			kept = append(kept, item)
		}
	}
	removed := len(items) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := c.Save(ctx, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

func decode[T any](raw core.Record) (T, error) {
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return item, fmt.Errorf("unmarshal to target type failed: %w", err)
	}
	if err := validate.Struct(item); err != nil {
		return item, err
	}
	return item, nil
}
