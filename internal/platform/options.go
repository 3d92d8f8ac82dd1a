package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/casebook/pkg/core"
)

// options holds the internal configuration for a casebook store.
type options struct {
	backend core.Backend
	logger  *slog.Logger
	adapter string
	config  map[string]interface{}

	detector core.Detector
	clock    func() time.Time
}

// Option defines a functional option for configuring casebook.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
		config:  make(map[string]interface{}),
	}
}

func (o *options) bool(key string, def bool) bool {
	if v, ok := o.config[key].(bool); ok {
		return v
	}
	return def
}

// WithLogger sets the logger for the store and its managers.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAdapter selects the storage adapter by name: "fs" (default), "sqlite" or "memory".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithBackend injects a custom backend. The adapter name and path are ignored.
func WithBackend(b core.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithQuota sets the byte budget of the store. Zero means core.DefaultQuota
// and a negative value disables the check.
func WithQuota(bytes int64) Option {
	return func(o *options) {
		o.config["quota"] = bytes
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Every write returns core.ErrReadOnly.
// 2. Directories are never created.
// 3. The dev sandbox is bypassed (the real path is used).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithStrictDecoding makes reads fail with core.ErrDeserialization on corrupt
// data instead of treating it as empty.
func WithStrictDecoding(strict bool) Option {
	return func(o *options) {
		o.config["strict"] = strict
	}
}

// WithCache puts a read-through cache with the given TTL in front of the backend.
func WithCache(ttl time.Duration) Option {
	return func(o *options) {
		o.config["cache_ttl"] = ttl
	}
}

// WithDetector replaces the stub detector used by Analyze.
func WithDetector(d core.Detector) Option {
	return func(o *options) {
		o.detector = d
	}
}

// WithClock overrides the clock used to stamp new records.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or `go test`.
// By default (true), the store is re-rooted into a temporary directory.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist requires the store directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithSystemDir sets the hidden directory that marks a store (".casebook" by default).
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithEventBuffer sets the buffer of the channel returned by Watch.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures
// (e.g. permission denied), which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
