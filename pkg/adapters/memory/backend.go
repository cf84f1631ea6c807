// Package memory provides a process-local core.Backend. Data lives as long
// as the Backend value; it is used for previews, read-only demos and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/studyshare/pkg/core"
)

// Backend implements core.Backend and core.Watchable in memory.
type Backend struct {
	mu       sync.RWMutex
	entries  map[string][]byte
	watchers map[int]watcher
	nextID   int
	readOnly bool
}

type watcher struct {
	pattern string
	ch      chan core.Event
}

// Option configures a Backend.
type Option func(*Backend)

// WithReadOnly rejects Set and Delete with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return func(b *Backend) { b.readOnly = enabled }
}

// WithEntry preloads key with value.
func WithEntry(key string, value []byte) Option {
	return func(b *Backend) { b.entries[key] = append([]byte(nil), value...) }
}

// NewBackend creates an empty in-memory backend.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		entries:  make(map[string][]byte),
		watchers: make(map[int]watcher),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Initialize is a no-op.
func (b *Backend) Initialize(context.Context) error { return nil }

// Get returns a copy of the value stored under key or core.ErrKeyNotFound.
func (b *Backend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.entries[key]
	if !ok {
		return nil, fmt.Errorf("memory.Backend.Get %q: %w", key, core.ErrKeyNotFound)
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (b *Backend) Set(_ context.Context, key string, value []byte) error {
	if b.readOnly {
		return fmt.Errorf("memory.Backend.Set: %w", core.ErrReadOnly)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	eType := core.EventModify
	if _, ok := b.entries[key]; !ok {
		eType = core.EventCreate
	}
	b.entries[key] = append([]byte(nil), value...)
	b.notify(core.Event{Type: eType, Key: key, Timestamp: time.Now().Unix()})
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (b *Backend) Delete(_ context.Context, key string) error {
	if b.readOnly {
		return fmt.Errorf("memory.Backend.Delete: %w", core.ErrReadOnly)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.entries[key]; !ok {
		return nil
	}
	delete(b.entries, key)
	b.notify(core.Event{Type: core.EventDelete, Key: key, Timestamp: time.Now().Unix()})
	return nil
}

// Watch reports changes to keys matching pattern until ctx is cancelled.
// Slow subscribers miss events rather than block writers.
func (b *Backend) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("memory.Backend.Watch: invalid pattern %q", pattern)
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	ch := make(chan core.Event, 16)
	b.watchers[id] = watcher{pattern: pattern, ch: ch}
	b.mu.Unlock()

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.watchers, id)
		close(ch)
		return nil
	})
	return ch, nil
}

// notify must be called with b.mu held.
func (b *Backend) notify(e core.Event) {
	for _, w := range b.watchers {
		if ok, _ := doublestar.Match(w.pattern, e.Key); !ok {
			continue
		}
		select {
		case w.ch <- e:
		default:
		}
	}
}

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return struct {
		Entries  int  `json:"entries"`
		Watchers int  `json:"watchers"`
		ReadOnly bool `json:"read_only"`
	}{len(b.entries), len(b.watchers), b.readOnly}
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string {
	return "memory"
}

var _ core.Backend = (*Backend)(nil)
var _ core.Watchable = (*Backend)(nil)
