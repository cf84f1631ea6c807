package core

import "errors"

// ErrValidation is returned by AddNote when a required field is missing.
// No note is created and storage is not touched.
var ErrValidation = errors.New("validation error")

// ErrConversion is returned by converters when an upload cannot be turned
// into an image (corrupt file, unsupported type).
var ErrConversion = errors.New("conversion error")

// ErrStorage wraps backend write failures surfaced by NoteStore.Save.
// The in-memory collection keeps the unsaved state.
var ErrStorage = errors.New("storage error")

// ErrReadOnly is returned by mutating operations on a read-only session.
var ErrReadOnly = errors.New("read-only mode")

// ErrKeyNotFound is returned by a Backend when the requested entry does not exist.
var ErrKeyNotFound = errors.New("key not found")

// ErrNotFound is returned by lookups for a note id that is not in the collection.
// Removal never returns it: deleting a missing id is a no-op.
var ErrNotFound = errors.New("not found")
