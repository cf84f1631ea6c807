// Package core holds the note collection engine: the Note model, the
// persistence contract, the collection mutation API and the query engine.
// It has no knowledge of files, databases or terminals.
package core

import (
	"strings"
	"time"
)

// Note is a persisted study artifact: metadata plus two image representations.
type Note struct {
	ID        string
	Title     string
	Class     string
	Tags      []string
	Thumbnail string // data URI (seeded samples use remote URLs)
	FullImage string
	CreatedAt time.Time
	FileName  string // original upload name, may be empty
}

// NoteInput is a creation request assembled by the caller before AddNote.
// Thumbnail overrides the derived thumbnail when set.
type NoteInput struct {
	Title     string
	Class     string
	Tags      []string
	FullImage string
	Thumbnail string
	FileName  string
}

// Subject class keys known to the catalog. Other keys are accepted as-is.
const (
	ClassMath       = "math"
	ClassPhysics    = "physics"
	ClassChemistry  = "chemistry"
	ClassBiology    = "biology"
	ClassHistory    = "history"
	ClassLiterature = "literature"
)

var classDisplayNames = map[string]string{
	ClassMath:       "Mathematics",
	ClassPhysics:    "Physics",
	ClassChemistry:  "Chemistry",
	ClassBiology:    "Biology",
	ClassHistory:    "History",
	ClassLiterature: "Literature",
}

// Classes returns the known subject class keys in display order.
func Classes() []string {
	return []string{ClassMath, ClassPhysics, ClassChemistry, ClassBiology, ClassHistory, ClassLiterature}
}

// ClassDisplayName returns the human-readable name of a subject class.
// Unknown keys are returned unchanged.
func ClassDisplayName(class string) string {
	if name, ok := classDisplayNames[class]; ok {
		return name
	}
	return class
}

// ParseTags splits a comma-separated tag list, trimming each entry and
// dropping empties. Order and duplicates are preserved.
func ParseTags(raw string) []string {
	return normalizeTags(strings.Split(raw, ","))
}

func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, tag := range in {
		if t := strings.TrimSpace(tag); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// EventType represents the kind of change observed on a backend entry.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a named backend entry.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return string(e.Type) + " " + e.Key
}
