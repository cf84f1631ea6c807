// Package studyshare is the Composition Root for the StudyShare catalog.
//
// It connects the note collection (Domain Layer) with the storage adapters
// (Persistence Layer) and exposes them through functional options.
//
// StudyShare keeps a local catalog of study notes: images or PDF pages with a
// title, a subject class and free-form tags. The whole collection is stored as
// a single JSON array under one key of a pluggable backend.
//
// Features:
//
//   - **Pluggable Storage**: filesystem (default), SQLite or in-memory backends via `core.Backend`.
//   - **Seeding**: empty storage is populated once with sample notes.
//   - **Queries**: search, class and tag filters with stable, locale-aware sorting.
//   - **Dev Safety**: `go run` and `go test` sessions are redirected to a temp directory.
//
// Usage:
//
//	catalog, err := studyshare.New(ctx, "./notes",
//		studyshare.WithAdapter("sqlite"),
//		studyshare.WithLogger(logger),
//	)
//
//	note, err := catalog.AddNote(ctx, input)
//	visible := studyshare.Apply(catalog.Snapshot(), studyshare.Query{Search: "calc"})
package studyshare
