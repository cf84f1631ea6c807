package platform

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/studyshare/pkg/adapters/fs"
	"github.com/aretw0/studyshare/pkg/adapters/memory"
	"github.com/aretw0/studyshare/pkg/adapters/sqlite"
	"github.com/aretw0/studyshare/pkg/core"
)

// Init creates and initializes the storage backend selected by the options.
// The uri argument is adapter-specific: a root directory for "fs" and
// "sqlite" (":memory:" is accepted by sqlite), ignored by "memory".
func Init(ctx context.Context, uri string, opts ...Option) (core.Backend, error) {
	o := buildOptions(opts)
	return initBackend(ctx, uri, o)
}

func initBackend(ctx context.Context, uri string, o *options) (core.Backend, error) {
	backend := o.backend
	if backend == nil {
		var err error
		switch o.adapter {
		case AdapterFS:
			backend = initFS(uri, o)
		case AdapterSQLite:
			backend = initSQLite(uri, o)
		case AdapterMemory:
			backend = memory.NewBackend(memory.WithReadOnly(o.readOnly()))
		default:
			err = fmt.Errorf("unknown adapter: %s", o.adapter)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := backend.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("platform.Init: %w: %w", core.ErrStorage, err)
	}
	return backend, nil
}

// resolvePath applies the dev safety rules to a user supplied root.
func resolvePath(path string, o *options) string {
	tempDir, _ := o.config["temp_dir"].(bool)
	isReadOnly := o.readOnly()

	// Default to true (safe) if not present.
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Read-only access is inherently safe.
	bypassSafety := isReadOnly || !devSafety

	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolved := ResolveDataPath(path, useTemp)

	if IsDevRun() {
		switch {
		case bypassSafety && isReadOnly:
			o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
		case bypassSafety:
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		default:
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		}
	}
	if useTemp && resolved != filepath.Clean(path) {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}
	return resolved
}

func systemDir(o *options) string {
	if dir, _ := o.config["system_dir"].(string); dir != "" {
		return dir
	}
	return fs.DefaultSystemDir
}

// initFS builds the filesystem backend.
func initFS(path string, o *options) core.Backend {
	autoInit := true
	if val, ok := o.config["auto_init"].(bool); ok {
		autoInit = val
	}
	mustExist, _ := o.config["must_exist"].(bool)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	resolved := resolvePath(path, o)

	return fs.NewBackend(fs.Config{
		Path:         resolved,
		SystemDir:    systemDir(o),
		MustExist:    mustExist,
		AutoInit:     autoInit,
		ReadOnly:     o.readOnly(),
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	})
}

// initSQLite builds the SQLite backend. The database lives in the system
// directory of the root, next to where the fs adapter keeps its files.
func initSQLite(path string, o *options) core.Backend {
	dir := sqlite.MemoryPath
	if path != sqlite.MemoryPath {
		resolved := resolvePath(path, o)
		dir = filepath.Join(resolved, systemDir(o))
	}
	return sqlite.NewBackend(sqlite.Config{
		Path:     dir,
		ReadOnly: o.readOnly(),
		Logger:   o.logger,
	})
}
