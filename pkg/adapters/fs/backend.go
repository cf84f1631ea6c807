package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/studyshare/pkg/core"
)

// DefaultSystemDir is the hidden directory holding the entry files.
const DefaultSystemDir = ".studyshare"

// entryExt is appended to a key to form its file name.
const entryExt = ".json"

// Config holds the configuration for the filesystem backend.
type Config struct {
	Path      string
	SystemDir string // e.g. ".studyshare"
	// MustExist fails Initialize when Path is missing instead of creating it.
	MustExist bool
	// AutoInit creates the system directory on Initialize. Without it a
	// missing system directory is an error.
	AutoInit bool
	// ReadOnly rejects Set and Delete with core.ErrReadOnly and skips all
	// directory creation.
	ReadOnly bool
	Logger   *slog.Logger
	// ErrorHandler receives runtime watcher failures. Optional.
	ErrorHandler func(error)
}

// Backend implements core.Backend with one file per key:
// {Path}/{SystemDir}/{key}.json.
type Backend struct {
	Path   string
	config Config
	cache  *cache

	mu            sync.RWMutex
	watcherActive bool
	lastEvent     *time.Time
}

// NewBackend creates a filesystem backend. Call Initialize before use.
func NewBackend(config Config) *Backend {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Backend{
		Path:   config.Path,
		config: config,
		cache:  newCache(),
	}
}

// DataDir returns the directory holding the entry files.
func (b *Backend) DataDir() string {
	return filepath.Join(b.Path, b.config.SystemDir)
}

// Initialize prepares the directory layout.
//
// Workflow:
//  1. Check or create the root path (MustExist).
//  2. Check or create the system directory (AutoInit).
//
// In read-only mode nothing is created; a missing system directory is then
// tolerated and reads simply find no entries.
func (b *Backend) Initialize(ctx context.Context) error {
	if b.config.MustExist || b.config.ReadOnly {
		info, err := os.Stat(b.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("fs.Backend.Initialize: path does not exist: %s", b.Path)
		}
		if err != nil {
			return fmt.Errorf("fs.Backend.Initialize: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("fs.Backend.Initialize: path is not a directory: %s", b.Path)
		}
	} else if err := os.MkdirAll(b.Path, 0755); err != nil {
		return fmt.Errorf("fs.Backend.Initialize: failed to create directory: %w", err)
	}

	if b.config.ReadOnly {
		return nil
	}

	if _, err := os.Stat(b.DataDir()); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("fs.Backend.Initialize: %w", err)
	}

	if !b.config.AutoInit {
		return fmt.Errorf("fs.Backend.Initialize: %s is not initialized (missing %s)", b.Path, b.config.SystemDir)
	}
	if err := os.MkdirAll(b.DataDir(), 0755); err != nil {
		return fmt.Errorf("fs.Backend.Initialize: failed to create system directory: %w", err)
	}
	b.config.Logger.Debug("initialized storage directory", "path", b.DataDir())
	return nil
}

// Get returns the content stored under key or core.ErrKeyNotFound.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := b.entryPath(key)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("fs.Backend.Get %q: %w", key, core.ErrKeyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fs.Backend.Get %q: %w", key, err)
	}

	if data, ok := b.cache.Get(key, info.ModTime(), info.Size()); ok {
		return data, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("fs.Backend.Get %q: %w", key, core.ErrKeyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fs.Backend.Get %q: %w", key, err)
	}
	b.cache.Set(key, data, info.ModTime())
	return data, nil
}

// Set atomically replaces the content stored under key.
func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	if b.config.ReadOnly {
		return fmt.Errorf("fs.Backend.Set: %w", core.ErrReadOnly)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := b.entryPath(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(b.DataDir(), 0755); err != nil {
		return fmt.Errorf("fs.Backend.Set %q: %w", key, err)
	}
	if err := writeFileAtomic(path, value, 0644); err != nil {
		return fmt.Errorf("fs.Backend.Set %q: %w", key, err)
	}

	if info, err := os.Stat(path); err == nil {
		b.cache.Set(key, value, info.ModTime())
	} else {
		b.cache.Delete(key)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (b *Backend) Delete(ctx context.Context, key string) error {
	if b.config.ReadOnly {
		return fmt.Errorf("fs.Backend.Delete: %w", core.ErrReadOnly)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := b.entryPath(key)
	if err != nil {
		return err
	}

	b.cache.Delete(key)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("fs.Backend.Delete %q: %w", key, err)
	}
	return nil
}

// entryPath maps a key to its file. Keys are plain names: no separators,
// no parent references.
func (b *Backend) entryPath(key string) (string, error) {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return "", fmt.Errorf("fs.Backend: invalid key %q", key)
	}
	return filepath.Join(b.DataDir(), key+entryExt), nil
}

// keyFromPath is the inverse of entryPath. ok is false for files that are
// not entries (temp files, other extensions).
func keyFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if isTempFile(base) {
		return "", false
	}
	key, ok := strings.CutSuffix(base, entryExt)
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

var _ core.Backend = (*Backend)(nil)
var _ core.Watchable = (*Backend)(nil)
