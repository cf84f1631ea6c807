package core

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode selects the ordering applied by Apply.
type SortMode string

const (
	SortNone     SortMode = "none"
	SortDateAsc  SortMode = "date-asc"
	SortDateDesc SortMode = "date-desc"
	SortNameAsc  SortMode = "name-asc"
	SortNameDesc SortMode = "name-desc"
)

// SortModes lists the recognized modes.
func SortModes() []SortMode {
	return []SortMode{SortDateDesc, SortDateAsc, SortNameAsc, SortNameDesc, SortNone}
}

// ParseSortMode maps a string to a SortMode. Unrecognized values map to
// SortNone, which keeps the filtered order.
func ParseSortMode(s string) SortMode {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case SortDateAsc, SortDateDesc, SortNameAsc, SortNameDesc:
		return m
	default:
		return SortNone
	}
}

// Query describes what the caller wants to see.
type Query struct {
	// Search is matched case-insensitively as a substring of the title or of
	// any tag. Surrounding whitespace is ignored; empty matches everything.
	Search string
	// Class must equal the note's subject class exactly; empty matches everything.
	Class string
	// Tags must each be contained (case-insensitively) in at least one of the
	// note's tags. Empty matches everything.
	Tags []string
	Sort SortMode
	// Locale is a BCP 47 tag used to collate titles. Defaults to English.
	Locale string
}

// Apply filters and sorts notes according to q. It never mutates notes and
// always returns a new, non-nil slice. Sorting is stable: notes with equal
// keys keep their relative input order.
func Apply(notes []Note, q Query) []Note {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	tags := make([]string, len(q.Tags))
	for i, t := range q.Tags {
		tags[i] = strings.ToLower(t)
	}

	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if matchesSearch(n, search) && matchesClass(n, q.Class) && matchesTags(n, tags) {
			out = append(out, n)
		}
	}

	sortNotes(out, q.Sort, q.Locale)
	return out
}

func matchesSearch(n Note, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(n.Title), term) {
		return true
	}
	return slices.ContainsFunc(n.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), term)
	})
}

func matchesClass(n Note, class string) bool {
	return class == "" || n.Class == class
}

// matchesTags expects required tags already lowercased.
func matchesTags(n Note, required []string) bool {
	for _, want := range required {
		found := slices.ContainsFunc(n.Tags, func(tag string) bool {
			return strings.Contains(strings.ToLower(tag), want)
		})
		if !found {
			return false
		}
	}
	return true
}

func sortNotes(notes []Note, mode SortMode, locale string) {
	switch mode {
	case SortDateAsc:
		slices.SortStableFunc(notes, func(a, b Note) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case SortDateDesc:
		slices.SortStableFunc(notes, func(a, b Note) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case SortNameAsc:
		c := newCollator(locale)
		slices.SortStableFunc(notes, func(a, b Note) int {
			return c.CompareString(a.Title, b.Title)
		})
	case SortNameDesc:
		c := newCollator(locale)
		slices.SortStableFunc(notes, func(a, b Note) int {
			return c.CompareString(b.Title, a.Title)
		})
	}
}

// newCollator returns a fresh collator; collators keep internal buffers and
// are not shared between calls.
func newCollator(locale string) *collate.Collator {
	tag := language.English
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			tag = parsed
		}
	}
	return collate.New(tag)
}

// Latest returns the creation time of the newest note, or the zero time.
func Latest(notes []Note) time.Time {
	var latest time.Time
	for _, n := range notes {
		if n.CreatedAt.After(latest) {
			latest = n.CreatedAt
		}
	}
	return latest
}
