package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/casebook/pkg/adapters/cache"
	"github.com/aretw0/casebook/pkg/adapters/fs"
	"github.com/aretw0/casebook/pkg/adapters/memory"
	"github.com/aretw0/casebook/pkg/adapters/sqlite"
	"github.com/aretw0/casebook/pkg/core"
	"github.com/aretw0/casebook/pkg/records"
)

// New opens the store at uri and wires the record managers on top of it.
// The uri is adapter-specific: a directory for "fs", a directory or .db file
// for "sqlite", and ignored for "memory".
//
//	svc, err := casebook.Open("./cases", casebook.WithAdapter("sqlite"))
func New(uri string, opts ...Option) (*records.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	backend, err := initBackend(uri, o)
	if err != nil {
		return nil, err
	}

	quota, _ := o.config["quota"].(int64)
	if quota == 0 {
		quota = core.DefaultQuota
	}
	strict := o.bool("strict", false)

	store := core.NewStore(backend, core.StoreConfig{
		Quota:    quota,
		ReadOnly: o.bool("read_only", false),
		Strict:   strict,
		Logger:   o.logger,
	})

	return records.NewService(store, records.Config{
		Clock:    o.clock,
		Detector: o.detector,
		Strict:   strict,
		Logger:   o.logger,
	}), nil
}

// Init builds and initializes the backend New would use, without the managers.
func Init(uri string, opts ...Option) (core.Backend, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initBackend(uri, o)
}

func initBackend(uri string, o *options) (core.Backend, error) {
	backend := o.backend
	if backend == nil {
		var err error
		switch o.adapter {
		case "fs", "":
			backend = initFS(uri, o)
		case "sqlite":
			backend, err = initSQLite(uri, o)
		case "memory":
			backend = memory.NewBackend()
		default:
			return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
		}
		if err != nil {
			return nil, err
		}
	}

	if ttl, ok := o.config["cache_ttl"].(time.Duration); ok && ttl > 0 {
		backend = cache.New(backend, ttl)
	}

	if err := backend.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return backend, nil
}

// resolvePath applies the dev sandbox rules to a user supplied path.
func resolvePath(path string, o *options) string {
	readOnly := o.bool("read_only", false)
	devSafety := o.bool("dev_safety", true)

	// Read-only stores cannot be damaged, so they always use the real path.
	bypassSafety := readOnly || !devSafety
	useTemp := o.bool("temp_dir", false) || (IsDevRun() && !bypassSafety)
	resolved := ResolveStorePath(path, useTemp)

	if o.logger != nil && IsDevRun() {
		switch {
		case useTemp:
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "original_path", path, "resolved_path", resolved)
		case readOnly:
			o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
		default:
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		}
	}
	return resolved
}

func initFS(path string, o *options) core.Backend {
	systemDir, _ := o.config["system_dir"].(string)
	eventBuffer, _ := o.config["event_buffer"].(int)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	return fs.NewBackend(fs.Config{
		Path:         resolvePath(path, o),
		MustExist:    o.bool("must_exist", false),
		ReadOnly:     o.bool("read_only", false),
		SystemDir:    systemDir,
		Logger:       o.logger,
		EventBuffer:  eventBuffer,
		ErrorHandler: errorHandler,
	})
}

func initSQLite(uri string, o *options) (core.Backend, error) {
	readOnly := o.bool("read_only", false)

	dir, file := uri, sqlite.DefaultFilename
	if strings.HasSuffix(uri, ".db") {
		dir, file = filepath.Dir(uri), filepath.Base(uri)
	}
	dir = resolvePath(dir, o)

	if o.bool("must_exist", false) || readOnly {
		if _, err := os.Stat(filepath.Join(dir, file)); err != nil {
			return nil, fmt.Errorf("store database does not exist: %w", err)
		}
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	return sqlite.NewBackend(sqlite.Config{
		Path:     filepath.Join(dir, file),
		ReadOnly: readOnly,
		Logger:   o.logger,
	}), nil
}
