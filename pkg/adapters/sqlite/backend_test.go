package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studyshare/pkg/core"
)

func openTestBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend(Config{Path: MemoryPath})
	require.NoError(t, b.Initialize(context.Background()))
	t.Cleanup(func() { b.Close() })
	return b
}

func TestBackend_GetSetDelete(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()

	_, err := b.Get(ctx, core.DefaultStorageKey)
	require.ErrorIs(t, err, core.ErrKeyNotFound)

	require.NoError(t, b.Set(ctx, core.DefaultStorageKey, []byte(`[]`)))
	got, err := b.Get(ctx, core.DefaultStorageKey)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, b.Set(ctx, core.DefaultStorageKey, []byte(`[{"id":"1"}]`)))
	got, err = b.Get(ctx, core.DefaultStorageKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{core.DefaultStorageKey}, keys)

	require.NoError(t, b.Delete(ctx, core.DefaultStorageKey))
	_, err = b.Get(ctx, core.DefaultStorageKey)
	assert.ErrorIs(t, err, core.ErrKeyNotFound)
	assert.NoError(t, b.Delete(ctx, core.DefaultStorageKey))
}

func TestBackend_NotInitialized(t *testing.T) {
	b := NewBackend(Config{Path: MemoryPath})
	ctx := context.Background()

	_, err := b.Get(ctx, "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrKeyNotFound)
	assert.Error(t, b.Set(ctx, "k", []byte("v")))
}

// TestMigrationsIdempotent opens the same file database twice and verifies
// migrations are recorded once.
func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first := NewBackend(Config{Path: dir})
	require.NoError(t, first.Initialize(ctx))
	require.NoError(t, first.Set(ctx, "k", []byte("persisted")))
	v1 := first.State().(BackendState).Migrations
	require.NoError(t, first.Close())

	second := NewBackend(Config{Path: dir})
	require.NoError(t, second.Initialize(ctx))
	defer second.Close()

	assert.Equal(t, v1, second.State().(BackendState).Migrations)
	assert.Equal(t, []int{1}, v1)
	got, err := second.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(got))
	assert.FileExists(t, filepath.Join(dir, DefaultFileName))
}

func TestBackend_ReadOnly(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	missing := NewBackend(Config{Path: filepath.Join(dir, "absent"), ReadOnly: true})
	require.NoError(t, missing.Initialize(ctx))
	_, err := missing.Get(ctx, "k")
	assert.ErrorIs(t, err, core.ErrKeyNotFound)

	writer := NewBackend(Config{Path: dir})
	require.NoError(t, writer.Initialize(ctx))
	require.NoError(t, writer.Set(ctx, "k", []byte("v")))
	require.NoError(t, writer.Close())

	reader := NewBackend(Config{Path: dir, ReadOnly: true})
	require.NoError(t, reader.Initialize(ctx))
	defer reader.Close()

	got, err := reader.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
	assert.ErrorIs(t, reader.Set(ctx, "k", []byte("w")), core.ErrReadOnly)
	assert.ErrorIs(t, reader.Delete(ctx, "k"), core.ErrReadOnly)
}

func TestBackend_WithCollection(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()

	c := core.NewCollection(core.NewNoteStore(b, "", nil), core.CollectionConfig{Seed: true})
	require.NoError(t, c.Initialize(ctx))
	_, err := c.RemoveNote(ctx, "1")
	require.NoError(t, err)

	reopened := core.NewCollection(core.NewNoteStore(b, "", nil), core.CollectionConfig{Seed: true})
	require.NoError(t, reopened.Initialize(ctx))
	assert.Equal(t, 5, reopened.Len())
	assert.Equal(t, "note-store/sqlite", core.NewNoteStore(b, "", nil).ComponentType())
}

func TestParseMigrationVersion(t *testing.T) {
	v, err := parseMigrationVersion("001_entries.sql")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = parseMigrationVersion("entries.sql")
	assert.Error(t, err)
}
