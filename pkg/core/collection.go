package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CollectionConfig holds the optional collaborators of a Collection.
// Zero values select sensible defaults.
type CollectionConfig struct {
	// Seed installs the sample notes when storage is empty at Initialize.
	Seed bool
	// ReadOnly rejects AddNote and RemoveNote with ErrReadOnly and skips
	// persisting seeded samples.
	ReadOnly bool
	// Clock returns the creation time for new notes. Defaults to time.Now.
	Clock func() time.Time
	// NewID returns a fresh identifier. Defaults to a UUIDv7 string.
	NewID  func() string
	Logger *slog.Logger
}

// Collection holds the current ordered set of notes and is the only way to
// mutate it. Every mutation is followed by a full save through the Store.
// Native order is most-recent-first: AddNote inserts at the front.
type Collection struct {
	mu     sync.RWMutex
	store  Store
	notes  []Note
	config CollectionConfig
	seeded bool
	logger *slog.Logger
}

// NewCollection creates an empty Collection backed by store.
// Call Initialize to load persisted notes.
func NewCollection(store Store, config CollectionConfig) *Collection {
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if config.NewID == nil {
		config.NewID = newNoteID
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection{
		store:  store,
		notes:  []Note{},
		config: config,
		logger: logger,
	}
}

// Initialize loads the persisted collection. When it is empty and seeding is
// enabled, the sample notes are installed and persisted immediately; this
// happens at most once per Collection. A returned error wraps ErrStorage and
// leaves the collection usable with the unsaved samples.
func (c *Collection) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notes = c.store.Load(ctx)
	if len(c.notes) > 0 || !c.config.Seed || c.seeded {
		return nil
	}

	c.seeded = true
	c.notes = SampleNotes(c.config.Clock())
	c.logger.Info("storage empty, installed sample notes", "count", len(c.notes))
	if c.config.ReadOnly {
		return nil
	}
	if err := c.store.Save(ctx, c.notes); err != nil {
		c.logger.Warn("failed to persist sample notes", "error", err)
		return fmt.Errorf("core.Collection.Initialize: %w", err)
	}
	return nil
}

// Reload replaces the in-memory notes with the persisted collection.
// It never seeds.
func (c *Collection) Reload(ctx context.Context) {
	notes := c.store.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = notes
}

// AddNote validates in, creates a note at the front of the collection and
// persists. Returns ErrValidation when a required field is missing; the
// collection and storage are then left untouched.
//
// When the save fails the note stays in memory: both the note and an error
// wrapping ErrStorage are returned.
func (c *Collection) AddNote(ctx context.Context, in NoteInput) (Note, error) {
	if c.config.ReadOnly {
		return Note{}, fmt.Errorf("core.Collection.AddNote: %w", ErrReadOnly)
	}
	if err := validateInput(in); err != nil {
		return Note{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	thumbnail := in.Thumbnail
	if thumbnail == "" {
		thumbnail = in.FullImage
	}

	note := Note{
		ID:        c.uniqueID(),
		Title:     strings.TrimSpace(in.Title),
		Class:     strings.TrimSpace(in.Class),
		Tags:      normalizeTags(in.Tags),
		Thumbnail: thumbnail,
		FullImage: in.FullImage,
		CreatedAt: c.config.Clock().UTC().Truncate(time.Millisecond),
		FileName:  in.FileName,
	}

	c.notes = append([]Note{note}, c.notes...)
	c.logger.Debug("note added", "id", note.ID, "title", note.Title)

	if err := c.store.Save(ctx, c.notes); err != nil {
		return note, fmt.Errorf("core.Collection.AddNote: %w", err)
	}
	return note, nil
}

// RemoveNote deletes the note with the given id and persists.
// It reports whether a note was removed; a missing id is a no-op that
// returns false and does not touch storage.
func (c *Collection) RemoveNote(ctx context.Context, id string) (bool, error) {
	if c.config.ReadOnly {
		return false, fmt.Errorf("core.Collection.RemoveNote: %w", ErrReadOnly)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return false, nil
	}

	kept := make([]Note, 0, len(c.notes)-1)
	kept = append(kept, c.notes[:idx]...)
	kept = append(kept, c.notes[idx+1:]...)
	c.notes = kept
	c.logger.Debug("note removed", "id", id)

	if err := c.store.Save(ctx, c.notes); err != nil {
		return true, fmt.Errorf("core.Collection.RemoveNote: %w", err)
	}
	return true, nil
}

// Snapshot returns a copy of the notes in native order (front = newest).
func (c *Collection) Snapshot() []Note {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Note, len(c.notes))
	for i, n := range c.notes {
		n.Tags = append([]string(nil), n.Tags...)
		out[i] = n
	}
	return out
}

// Get returns the note with the given id.
func (c *Collection) Get(id string) (Note, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return Note{}, false
	}
	n := c.notes[idx]
	n.Tags = append([]string(nil), n.Tags...)
	return n, true
}

// Len returns the number of notes.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.notes)
}

// indexOf must be called with c.mu held.
func (c *Collection) indexOf(id string) int {
	for i, n := range c.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// uniqueID must be called with c.mu held.
// A generator that keeps colliding falls back to a random UUID.
func (c *Collection) uniqueID() string {
	for range 8 {
		id := c.config.NewID()
		if id != "" && c.indexOf(id) < 0 {
			return id
		}
	}
	return uuid.NewString()
}

// validateInput enforces the creation rules:
//   - Title must be non-empty (whitespace-only titles are rejected).
//   - Class must be non-empty.
//   - Image data must be present.
func validateInput(in NoteInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(in.Class) == "" {
		return fmt.Errorf("%w: class is required", ErrValidation)
	}
	if in.FullImage == "" {
		return fmt.Errorf("%w: image is required", ErrValidation)
	}
	return nil
}

func newNoteID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
