package core

import "context"

// Backend defines the contract for a durable key-value store holding named
// entries. It is the only thing NoteStore needs from the storage layer, which
// keeps the core independent of the underlying mechanism (files, SQLite, memory).
type Backend interface {
	// Get returns the raw value stored under key.
	// Returns ErrKeyNotFound if the entry does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key. The prior value is entirely
	// replaced; readers never observe a partial write.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Initialize ensures the underlying storage is ready (directories, schema).
	Initialize(ctx context.Context) error
}

// Watchable is implemented by backends that can report external changes to
// their entries (another process rewriting the store, for example).
type Watchable interface {
	// Watch emits an Event for every change to an entry whose key matches
	// pattern (doublestar syntax). The channel is closed when ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Closer is implemented by backends holding resources (database handles).
type Closer interface {
	Close() error
}
