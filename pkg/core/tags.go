package core

import (
	"slices"
	"strings"
)

// TagFilter is the set of tags the user has selected to narrow the visible
// notes. It is session state and is never persisted. Each tag is either
// active or inactive; Toggle is the only transition.
type TagFilter struct {
	active []string
}

// NewTagFilter returns a filter with the given tags toggled in order.
func NewTagFilter(tags ...string) *TagFilter {
	f := &TagFilter{}
	for _, t := range tags {
		f.Toggle(t)
	}
	return f
}

// Toggle activates tag if inactive and deactivates it otherwise.
// It returns the new state. Blank tags are ignored and report false.
func (f *TagFilter) Toggle(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	if i := slices.Index(f.active, tag); i >= 0 {
		f.active = slices.Delete(f.active, i, i+1)
		return false
	}
	f.active = append(f.active, tag)
	return true
}

// Has reports whether tag is active.
func (f *TagFilter) Has(tag string) bool {
	return slices.Contains(f.active, strings.TrimSpace(tag))
}

// Active returns the active tags in the order they were toggled on.
func (f *TagFilter) Active() []string {
	return slices.Clone(f.active)
}

// Len returns the number of active tags.
func (f *TagFilter) Len() int {
	return len(f.active)
}
