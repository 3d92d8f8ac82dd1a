package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// DefaultQuota mirrors the per-origin budget browsers give localStorage.
const DefaultQuota int64 = 5 << 20

// StoreConfig holds the configuration for a Store.
type StoreConfig struct {
	// Quota is the byte budget for all values in the backend. Zero or less disables the check.
	Quota int64
	// ReadOnly makes every write return ErrReadOnly.
	ReadOnly bool
	// Strict surfaces corrupt collections as ErrDeserialization instead of
	// treating them as empty.
	Strict bool
	Logger *slog.Logger
}

// Store implements RecordStore on top of a Backend.
//
// Collections are stored as one JSON array per kind. A collection that fails to
// parse is treated as empty (and logged) so a damaged store never locks the user
// out; the damaged bytes are only replaced on the next successful Put.
type Store struct {
	backend Backend
	config  StoreConfig
	logger  *slog.Logger

	// writeMu makes the quota check and the write it guards one step.
	writeMu sync.Mutex
}

// NewStore creates a Store writing through backend.
func NewStore(backend Backend, config StoreConfig) *Store {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		backend: backend,
		config:  config,
		logger:  logger,
	}
}

// Backend returns the backend the store writes through.
func (s *Store) Backend() Backend {
	return s.backend
}

// Get returns every record of kind in stored order.
// A missing key yields an empty slice.
func (s *Store) Get(ctx context.Context, kind Kind) ([]Record, error) {
	key, err := kind.Key()
	if err != nil {
		return nil, err
	}

	data, ok, err := s.backend.GetItem(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}
	if !ok || len(bytes.TrimSpace(data)) == 0 {
		return []Record{}, nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		if s.config.Strict {
			return nil, fmt.Errorf("%w: %s: %v", ErrDeserialization, kind, err)
		}
		s.logger.Warn("treating corrupt collection as empty", "kind", kind, "key", key, "error", err)
		return []Record{}, nil
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Put replaces the whole collection of kind.
func (s *Store) Put(ctx context.Context, kind Kind, records []Record) error {
	key, err := kind.Key()
	if err != nil {
		return err
	}
	if records == nil {
		records = []Record{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", kind, err)
	}

	if err := s.write(ctx, key, data); err != nil {
		return err
	}
	s.logger.Debug("collection written", "kind", kind, "records", len(records), "bytes", len(data))
	return nil
}

// Remove clears every record of kind.
func (s *Store) Remove(ctx context.Context, kind Kind) error {
	key, err := kind.Key()
	if err != nil {
		return err
	}
	if s.config.ReadOnly {
		return ErrReadOnly
	}
	if err := s.backend.RemoveItem(ctx, key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", kind, err)
	}
	return nil
}

// GetValue reads a single-value key.
func (s *Store) GetValue(ctx context.Context, key string) (string, bool, error) {
	if err := checkValueKey(key); err != nil {
		return "", false, err
	}
	data, ok, err := s.backend.GetItem(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return "", false, nil
	}
	return string(data), true, nil
}

// SetValue writes a single-value key. The quota applies.
func (s *Store) SetValue(ctx context.Context, key, value string) error {
	if err := checkValueKey(key); err != nil {
		return err
	}
	return s.write(ctx, key, []byte(value))
}

// DeleteValue removes a single-value key.
func (s *Store) DeleteValue(ctx context.Context, key string) error {
	if err := checkValueKey(key); err != nil {
		return err
	}
	if s.config.ReadOnly {
		return ErrReadOnly
	}
	if err := s.backend.RemoveItem(ctx, key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Usage returns the bytes stored and the configured budget.
func (s *Store) Usage(ctx context.Context) (used, quota int64, err error) {
	used, err = s.backend.Usage(ctx)
	if err != nil {
		return 0, 0, err
	}
	return used, s.config.Quota, nil
}

func (s *Store) write(ctx context.Context, key string, data []byte) error {
	if s.config.ReadOnly {
		return ErrReadOnly
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.checkQuota(ctx, key, int64(len(data))); err != nil {
		return err
	}
	if err := s.backend.SetItem(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) checkQuota(ctx context.Context, key string, size int64) error {
	if s.config.Quota <= 0 {
		return nil
	}

	used, err := s.backend.Usage(ctx)
	if err != nil {
		return fmt.Errorf("failed to measure usage: %w", err)
	}
	prev, _, err := s.backend.GetItem(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}

	projected := used - int64(len(prev)) + size
	if projected > s.config.Quota {
		s.logger.Warn("write rejected by quota", "key", key, "projected", projected, "quota", s.config.Quota)
		return fmt.Errorf("%w: writing %s needs %d bytes, budget is %d", ErrQuotaExceeded, key, projected, s.config.Quota)
	}
	return nil
}

func checkValueKey(key string) error {
	switch key {
	case "":
		return fmt.Errorf("%w: empty key", ErrValidation)
	case KeyCases, KeyNotes:
		return fmt.Errorf("%w: %s holds a collection", ErrValidation, key)
	}
	return nil
}

var _ RecordStore = (*Store)(nil)
