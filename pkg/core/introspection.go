package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// CollectionState exposes internal state for observability.
type CollectionState struct {
	Notes       int        `json:"notes"`
	Classes     int        `json:"classes"`
	Seeded      bool       `json:"seeded"`
	ReadOnly    bool       `json:"read_only"`
	LatestNote  *time.Time `json:"latest_note,omitempty"`
	StorageType string     `json:"storage_type"`
}

// State implements introspection.Introspectable.
func (c *Collection) State() any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	classes := make(map[string]struct{})
	for _, n := range c.notes {
		classes[n.Class] = struct{}{}
	}

	storageType := "store"
	if comp, ok := c.store.(introspection.Component); ok {
		storageType = comp.ComponentType()
	}

	state := CollectionState{
		Notes:       len(c.notes),
		Classes:     len(classes),
		Seeded:      c.seeded,
		ReadOnly:    c.config.ReadOnly,
		StorageType: storageType,
	}
	if latest := Latest(c.notes); !latest.IsZero() {
		state.LatestNote = &latest
	}
	return state
}

// ComponentType implements introspection.Component.
func (c *Collection) ComponentType() string {
	return "collection"
}

// ComponentType implements introspection.Component.
func (s *NoteStore) ComponentType() string {
	if comp, ok := s.backend.(introspection.Component); ok {
		return "note-store/" + comp.ComponentType()
	}
	return "note-store"
}

var _ introspection.Introspectable = (*Collection)(nil)
var _ introspection.Component = (*Collection)(nil)
var _ introspection.Component = (*NoteStore)(nil)
