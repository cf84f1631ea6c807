package studyshare

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/studyshare/internal/platform"
	"github.com/aretw0/studyshare/pkg/core"
)

// --- Types ---

// Note is a public alias for the catalog entry.
type Note = core.Note

// NoteInput is a public alias for the fields accepted by AddNote.
type NoteInput = core.NoteInput

// Collection is a public alias for the in-memory catalog.
type Collection = core.Collection

// Query is a public alias for the query parameters.
type Query = core.Query

// Config is the file and environment configuration of a catalog root.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring a catalog.
type Option = platform.Option

// WithAutoInit enables automatic creation of the storage directory.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the root directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithLogger sets the logger for the catalog.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithBackend allows injecting a custom storage backend.
func WithBackend(backend core.Backend) Option {
	return platform.WithBackend(backend)
}

// WithAdapter allows specifying the storage adapter to use by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithSystemDir allows specifying the hidden directory name (e.g. ".studyshare").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithStorageKey selects the backend entry holding the collection.
func WithStorageKey(key string) Option {
	return platform.WithStorageKey(key)
}

// WithSeed enables or disables sample notes for empty storage.
func WithSeed(enabled bool) Option {
	return platform.WithSeed(enabled)
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return platform.WithClock(clock)
}

// WithReadOnly opens the catalog without write access.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the temp directory sandbox for dev runs.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithWatcherErrorHandler receives runtime errors of the storage watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New initializes storage at path and returns the loaded collection.
func New(ctx context.Context, path string, opts ...Option) (*core.Collection, error) {
	return platform.New(ctx, path, opts...)
}

// Init initializes a storage backend explicitly.
func Init(ctx context.Context, path string, opts ...Option) (core.Backend, error) {
	return platform.Init(ctx, path, opts...)
}

// Open loads a collection from an initialized backend.
func Open(ctx context.Context, backend core.Backend, opts ...Option) (*core.Collection, error) {
	return platform.Open(ctx, backend, opts...)
}

// --- Queries ---

// Apply filters and sorts notes without modifying them.
func Apply(notes []Note, q Query) []Note {
	return core.Apply(notes, q)
}

// --- Safety & Utils ---

// ResolveDataPath determines the actual storage path based on safety rules.
func ResolveDataPath(userPath string, forceTemp bool) string {
	return platform.ResolveDataPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot recursively looks upwards for a catalog root indicator.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// LoadConfig reads the configuration of the catalog at root.
func LoadConfig(root string) (Config, error) {
	return platform.LoadConfig(root)
}
