package casebook

import (
	"log/slog"
	"time"

	"github.com/aretw0/casebook/internal/platform"
	"github.com/aretw0/casebook/pkg/core"
	"github.com/aretw0/casebook/pkg/records"
)

// --- Types ---

// Service is the entry point returned by Open.
type Service = records.Service

// Case is one analyzed image.
type Case = core.Case

// Note is a free-form annotation.
type Note = core.Note

// Identity is the signed-in user.
type Identity = records.Identity

// --- Configuration ---

// Option defines a functional option for configuring casebook.
type Option = platform.Option

// WithLogger sets the logger for the store and its managers.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithAdapter selects the storage adapter by name ("fs", "sqlite", "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithBackend injects a custom storage backend.
func WithBackend(b core.Backend) Option {
	return platform.WithBackend(b)
}

// WithQuota sets the byte budget of the store.
func WithQuota(bytes int64) Option {
	return platform.WithQuota(bytes)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithStrictDecoding reports corrupt stored data instead of treating it as empty.
func WithStrictDecoding(strict bool) Option {
	return platform.WithStrictDecoding(strict)
}

// WithCache adds a read-through cache in front of the backend.
func WithCache(ttl time.Duration) Option {
	return platform.WithCache(ttl)
}

// WithDetector replaces the stub detector.
func WithDetector(d core.Detector) Option {
	return platform.WithDetector(d)
}

// WithClock overrides the clock used to stamp new records.
func WithClock(clock func() time.Time) Option {
	return platform.WithClock(clock)
}

// WithDevSafety controls the `go run` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist requires the store directory to exist already.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithSystemDir sets the hidden directory that marks a store.
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithEventBuffer sets the buffer of the channel returned by Watch.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// Open opens (creating if needed) the store at path.
func Open(path string, opts ...Option) (*Service, error) {
	return platform.New(path, opts...)
}

// Init builds and initializes a backend without the record managers.
func Init(path string, opts ...Option) (core.Backend, error) {
	return platform.Init(path, opts...)
}

// --- Safety & Utils ---

// ResolveStorePath determines the actual store directory based on safety rules.
func ResolveStorePath(userPath string, forceTemp bool) string {
	return platform.ResolveStorePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindStoreRoot looks upwards for a store root indicator.
func FindStoreRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
