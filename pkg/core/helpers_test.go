package core_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/studyshare/pkg/core"
)

// ---- fake backend ----------------------------------------------------------

// fakeBackend is an in-memory core.Backend that counts writes and can be told
// to fail them.
type fakeBackend struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	getErr  error
	setErr  error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{entries: make(map[string][]byte)}
}

func (b *fakeBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.getErr != nil {
		return nil, b.getErr
	}
	v, ok := b.entries[key]
	if !ok {
		return nil, core.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (b *fakeBackend) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.setErr != nil {
		return b.setErr
	}
	b.sets++
	b.entries[key] = append([]byte(nil), value...)
	return nil
}

func (b *fakeBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, key)
	return nil
}

func (b *fakeBackend) Initialize(context.Context) error { return nil }

func (b *fakeBackend) writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sets
}

// compile-time check
var _ core.Backend = (*fakeBackend)(nil)

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedClock returns a clock that advances one second per call, starting at start.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(time.Second)
		return t
	}
}

func newTestCollection(backend core.Backend, seed bool) *core.Collection {
	store := core.NewNoteStore(backend, "", discardLogger())
	return core.NewCollection(store, core.CollectionConfig{
		Seed:   seed,
		Clock:  fixedClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)),
		Logger: discardLogger(),
	})
}

func validInput(title string) core.NoteInput {
	return core.NoteInput{
		Title:     title,
		Class:     core.ClassMath,
		Tags:      []string{"calculus", "limits"},
		FullImage: "data:image/png;base64,AAAA",
		FileName:  "scan.png",
	}
}

func ids(notes []core.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}
