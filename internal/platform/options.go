package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/studyshare/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
	AdapterMemory = "memory"
)

// options holds the internal configuration for a catalog.
type options struct {
	backend    core.Backend
	logger     *slog.Logger
	adapter    string
	storageKey string
	seed       bool
	clock      func() time.Time
	config     map[string]interface{}
}

// Option defines a functional option for configuring a catalog.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: AdapterFS,
		seed:    true,
		config:  make(map[string]interface{}),
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// WithAutoInit creates the storage directory when it is missing.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.config["auto_init"] = auto
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist requires the root directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithBackend injects a storage backend (e.g. a mock). The adapter
// selection is skipped; the backend is still initialized.
func WithBackend(backend core.Backend) Option {
	return func(o *options) {
		o.backend = backend
	}
}

// WithAdapter selects the storage adapter by name: "fs" (default),
// "sqlite" or "memory".
func WithAdapter(name string) Option {
	return func(o *options) {
		if name != "" {
			o.adapter = name
		}
	}
}

// WithSystemDir sets the hidden directory name. Defaults to ".studyshare".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithStorageKey sets the backend entry holding the collection.
// Defaults to core.DefaultStorageKey.
func WithStorageKey(key string) Option {
	return func(o *options) {
		o.storageKey = key
	}
}

// WithSeed controls whether empty storage is populated with sample notes.
// Enabled by default.
func WithSeed(enabled bool) Option {
	return func(o *options) {
		o.seed = enabled
	}
}

// WithClock overrides the time source used for new notes and seeding.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithWatcherErrorHandler registers a callback for errors raised by the
// storage watcher at runtime (e.g. permission denied).
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. AddNote and RemoveNote return core.ErrReadOnly.
// 2. Directory creation is skipped and seeded samples stay in memory.
// 3. Dev Safety (go run temp dir) is BYPASSED (uses real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or
// `go test`: by default (true) data is redirected to a temporary directory.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

func (o *options) readOnly() bool {
	v, _ := o.config["read_only"].(bool)
	return v
}
