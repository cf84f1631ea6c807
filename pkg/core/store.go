package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// DefaultStorageKey is the name of the entry holding the serialized collection.
const DefaultStorageKey = "studyshare-notes"

// Store is the persistence contract the Collection depends on.
// NoteStore is the production implementation; tests may substitute their own.
type Store interface {
	// Load returns the persisted collection. It never fails: any access or
	// decode error yields an empty sequence and is reported for diagnostics only.
	Load(ctx context.Context) []Note

	// Save replaces the persisted collection with notes.
	Save(ctx context.Context, notes []Note) error
}

// NoteStore persists the whole collection as a single JSON entry in a Backend.
type NoteStore struct {
	backend Backend
	key     string
	logger  *slog.Logger
}

// NewNoteStore creates a NoteStore writing under key. An empty key selects
// DefaultStorageKey and a nil logger selects slog.Default().
func NewNoteStore(backend Backend, key string, logger *slog.Logger) *NoteStore {
	if key == "" {
		key = DefaultStorageKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NoteStore{backend: backend, key: key, logger: logger}
}

// Key returns the backend entry name used by the store.
func (s *NoteStore) Key() string {
	return s.key
}

// Load reads and decodes the persisted collection.
func (s *NoteStore) Load(ctx context.Context) []Note {
	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Error("failed to load notes from storage", "key", s.key, "error", err)
		}
		return []Note{}
	}

	notes, err := DecodeNotes(data)
	if err != nil {
		s.logger.Error("failed to decode stored notes", "key", s.key, "error", err)
		return []Note{}
	}

	s.logger.Debug("notes loaded", "key", s.key, "count", len(notes))
	return notes
}

// Save serializes notes and replaces the stored entry.
// Errors wrap ErrStorage.
func (s *NoteStore) Save(ctx context.Context, notes []Note) error {
	data, err := EncodeNotes(notes)
	if err != nil {
		return fmt.Errorf("core.NoteStore.Save: %w: %w", ErrStorage, err)
	}
	if err := s.backend.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("core.NoteStore.Save: %w: %w", ErrStorage, err)
	}
	s.logger.Debug("notes saved", "key", s.key, "count", len(notes), "bytes", len(data))
	return nil
}
