package core

import "context"

// Backend is the byte-level key space records are persisted in.
// Adhering to this interface keeps the record store independent of the
// underlying storage mechanism (memory, filesystem, SQLite).
type Backend interface {
	// GetItem returns the value stored under key and whether it exists.
	GetItem(ctx context.Context, key string) ([]byte, bool, error)

	// SetItem replaces the value stored under key in a single write.
	SetItem(ctx context.Context, key string, value []byte) error

	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error

	// Keys returns every key currently stored.
	Keys(ctx context.Context) ([]string, error)

	// Usage returns the number of value bytes currently stored.
	Usage(ctx context.Context) (int64, error)

	// Initialize ensures the underlying storage is ready (directories, schema).
	Initialize(ctx context.Context) error
}

// Watchable defines an interface for backends that can report changes to
// their keys, including those made by other processes sharing the storage.
type Watchable interface {
	// Watch emits an Event for every change to a key matching pattern until ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// RecordStore persists whole collections of records, one collection per Kind,
// plus a handful of single-value keys.
//
// There are no partial updates: Put rewrites the entire collection.
type RecordStore interface {
	Get(ctx context.Context, kind Kind) ([]Record, error)
	Put(ctx context.Context, kind Kind, records []Record) error
	Remove(ctx context.Context, kind Kind) error

	GetValue(ctx context.Context, key string) (string, bool, error)
	SetValue(ctx context.Context, key, value string) error
	DeleteValue(ctx context.Context, key string) error
}

// Detector produces a Detection for an image reference.
type Detector interface {
	Detect(ctx context.Context, imageRef string) (Detection, error)
}

// DetectorFunc adapts a plain function to the Detector interface.
type DetectorFunc func(ctx context.Context, imageRef string) (Detection, error)

// Detect calls f.
func (f DetectorFunc) Detect(ctx context.Context, imageRef string) (Detection, error) {
	return f(ctx, imageRef)
}
