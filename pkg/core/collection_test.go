package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studyshare/pkg/core"
)

// ---- Initialize ------------------------------------------------------------

func TestCollection_Initialize_SeedsEmptyStorage(t *testing.T) {
	backend := newFakeBackend()
	c := newTestCollection(backend, true)

	require.NoError(t, c.Initialize(context.Background()))

	snap := c.Snapshot()
	require.Len(t, snap, 6)
	assert.Equal(t, 1, backend.writes(), "samples are persisted immediately")

	classes := make(map[string]bool)
	for _, n := range snap {
		classes[n.Class] = true
	}
	assert.Len(t, classes, 6, "samples span distinct subject classes")
}

func TestCollection_Initialize_SeedsAtMostOnce(t *testing.T) {
	backend := newFakeBackend()
	c := newTestCollection(backend, true)
	ctx := context.Background()

	require.NoError(t, c.Initialize(ctx))
	for _, n := range c.Snapshot() {
		_, err := c.RemoveNote(ctx, n.ID)
		require.NoError(t, err)
	}
	writes := backend.writes()

	require.NoError(t, c.Initialize(ctx))

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, writes, backend.writes())
}

func TestCollection_Initialize_LoadsExisting(t *testing.T) {
	backend := newFakeBackend()
	first := newTestCollection(backend, false)
	ctx := context.Background()
	require.NoError(t, first.Initialize(ctx))
	added, err := first.AddNote(ctx, validInput("Vectors"))
	require.NoError(t, err)

	second := newTestCollection(backend, true)
	require.NoError(t, second.Initialize(ctx))

	require.Equal(t, 1, second.Len())
	assert.Equal(t, added.ID, second.Snapshot()[0].ID)
}

func TestCollection_Initialize_NoSeed(t *testing.T) {
	c := newTestCollection(newFakeBackend(), false)

	require.NoError(t, c.Initialize(context.Background()))

	assert.Equal(t, 0, c.Len())
	assert.NotNil(t, c.Snapshot())
}

func TestCollection_Initialize_SeedSaveFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.setErr = errors.New("quota exceeded")
	c := newTestCollection(backend, true)

	err := c.Initialize(context.Background())

	require.ErrorIs(t, err, core.ErrStorage)
	assert.Equal(t, 6, c.Len(), "unsaved samples remain queryable")
}

// ---- AddNote ---------------------------------------------------------------

func TestCollection_AddNote_OK(t *testing.T) {
	backend := newFakeBackend()
	c := newTestCollection(backend, false)
	ctx := context.Background()
	require.NoError(t, c.Initialize(ctx))

	got, err := c.AddNote(ctx, validInput("  Limits  "))

	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Limits", got.Title)
	assert.Equal(t, core.ClassMath, got.Class)
	assert.Equal(t, []string{"calculus", "limits"}, got.Tags)
	assert.Equal(t, got.FullImage, got.Thumbnail, "thumbnail defaults to the full image")
	assert.Equal(t, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), got.CreatedAt)
	assert.Equal(t, "scan.png", got.FileName)
	assert.Equal(t, 1, backend.writes())
}

func TestCollection_AddNote_CustomThumbnailOverrides(t *testing.T) {
	c := newTestCollection(newFakeBackend(), false)
	in := validInput("Optics")
	in.Thumbnail = "data:image/jpeg;base64,BBBB"

	got, err := c.AddNote(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,BBBB", got.Thumbnail)
	assert.Equal(t, "data:image/png;base64,AAAA", got.FullImage)
}

func TestCollection_AddNote_FrontOfSnapshot(t *testing.T) {
	c := newTestCollection(newFakeBackend(), true)
	ctx := context.Background()
	require.NoError(t, c.Initialize(ctx))

	got, err := c.AddNote(ctx, validInput("Integrals"))

	require.NoError(t, err)
	snap := c.Snapshot()
	require.Len(t, snap, 7)
	assert.Equal(t, got.ID, snap[0].ID)
}

func TestCollection_AddNote_UniqueIDs(t *testing.T) {
	c := newTestCollection(newFakeBackend(), false)
	ctx := context.Background()

	seen := make(map[string]bool)
	for range 200 {
		n, err := c.AddNote(ctx, validInput("Note"))
		require.NoError(t, err)
		require.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}
	assert.Equal(t, 200, c.Len())
}

func TestCollection_AddNote_CollidingGenerator(t *testing.T) {
	store := core.NewNoteStore(newFakeBackend(), "", discardLogger())
	c := core.NewCollection(store, core.CollectionConfig{
		NewID:  func() string { return "same" },
		Logger: discardLogger(),
	})
	ctx := context.Background()

	a, err := c.AddNote(ctx, validInput("A"))
	require.NoError(t, err)
	b, err := c.AddNote(ctx, validInput("B"))
	require.NoError(t, err)

	assert.Equal(t, "same", a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCollection_AddNote_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*core.NoteInput)
	}{
		{"empty title", func(in *core.NoteInput) { in.Title = "" }},
		{"blank title", func(in *core.NoteInput) { in.Title = "   " }},
		{"empty class", func(in *core.NoteInput) { in.Class = "" }},
		{"missing image", func(in *core.NoteInput) { in.FullImage = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			c := newTestCollection(backend, true)
			ctx := context.Background()
			require.NoError(t, c.Initialize(ctx))
			before := c.Snapshot()
			writes := backend.writes()

			in := validInput("Title")
			tt.mutate(&in)
			_, err := c.AddNote(ctx, in)

			assert.ErrorIs(t, err, core.ErrValidation)
			assert.Equal(t, before, c.Snapshot(), "collection unchanged")
			assert.Equal(t, writes, backend.writes(), "storage not rewritten")
		})
	}
}

func TestCollection_AddNote_SaveFailureKeepsNote(t *testing.T) {
	backend := newFakeBackend()
	c := newTestCollection(backend, false)
	backend.setErr = errors.New("disk full")

	got, err := c.AddNote(context.Background(), validInput("Kept"))

	require.ErrorIs(t, err, core.ErrStorage)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, 1, c.Len())
}

func TestCollection_AddNote_ReadOnly(t *testing.T) {
	store := core.NewNoteStore(newFakeBackend(), "", discardLogger())
	c := core.NewCollection(store, core.CollectionConfig{ReadOnly: true, Logger: discardLogger()})

	_, err := c.AddNote(context.Background(), validInput("Nope"))

	assert.ErrorIs(t, err, core.ErrReadOnly)
	assert.Equal(t, 0, c.Len())
}

// ---- RemoveNote ------------------------------------------------------------

func TestCollection_RemoveNote_Idempotent(t *testing.T) {
	backend := newFakeBackend()
	c := newTestCollection(backend, false)
	ctx := context.Background()
	n, err := c.AddNote(ctx, validInput("Gone"))
	require.NoError(t, err)

	removed, err := c.RemoveNote(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	writes := backend.writes()

	removed, err = c.RemoveNote(ctx, n.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, writes, backend.writes(), "missing id does not touch storage")
}

func TestCollection_RemoveNote_PreservesOrder(t *testing.T) {
	c := newTestCollection(newFakeBackend(), true)
	ctx := context.Background()
	require.NoError(t, c.Initialize(ctx))

	removed, err := c.RemoveNote(ctx, "3")

	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"1", "2", "4", "5", "6"}, ids(c.Snapshot()))
}

func TestCollection_RemoveNote_SaveFailure(t *testing.T) {
	backend := newFakeBackend()
	c := newTestCollection(backend, true)
	ctx := context.Background()
	require.NoError(t, c.Initialize(ctx))
	backend.setErr = errors.New("unavailable")

	removed, err := c.RemoveNote(ctx, "1")

	assert.True(t, removed)
	assert.ErrorIs(t, err, core.ErrStorage)
	_, ok := c.Get("1")
	assert.False(t, ok, "in-memory state is not rolled back")
}

// ---- Snapshot / Get / Reload -----------------------------------------------

func TestCollection_Snapshot_IsCopy(t *testing.T) {
	c := newTestCollection(newFakeBackend(), true)
	require.NoError(t, c.Initialize(context.Background()))

	snap := c.Snapshot()
	snap[0].Title = "changed"
	snap[0].Tags[0] = "changed"

	fresh := c.Snapshot()
	assert.NotEqual(t, "changed", fresh[0].Title)
	assert.NotEqual(t, "changed", fresh[0].Tags[0])
}

func TestCollection_Get(t *testing.T) {
	c := newTestCollection(newFakeBackend(), true)
	require.NoError(t, c.Initialize(context.Background()))

	n, ok := c.Get("2")
	require.True(t, ok)
	assert.Equal(t, "Physics - Wave Properties", n.Title)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCollection_Reload(t *testing.T) {
	backend := newFakeBackend()
	ctx := context.Background()
	reader := newTestCollection(backend, false)
	require.NoError(t, reader.Initialize(ctx))

	writer := newTestCollection(backend, false)
	_, err := writer.AddNote(ctx, validInput("External"))
	require.NoError(t, err)

	reader.Reload(ctx)

	assert.Equal(t, 1, reader.Len())
}

func TestCollection_State(t *testing.T) {
	c := newTestCollection(newFakeBackend(), true)
	require.NoError(t, c.Initialize(context.Background()))

	state, ok := c.State().(core.CollectionState)

	require.True(t, ok)
	assert.Equal(t, 6, state.Notes)
	assert.Equal(t, 6, state.Classes)
	assert.True(t, state.Seeded)
	require.NotNil(t, state.LatestNote)
	assert.Equal(t, "collection", c.ComponentType())
}
