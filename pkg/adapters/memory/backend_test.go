package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studyshare/pkg/adapters/memory"
	"github.com/aretw0/studyshare/pkg/core"
)

func TestBackend_GetSetDelete(t *testing.T) {
	b := memory.NewBackend()
	ctx := context.Background()

	_, err := b.Get(ctx, "k")
	require.ErrorIs(t, err, core.ErrKeyNotFound)

	value := []byte("v1")
	require.NoError(t, b.Set(ctx, "k", value))
	value[0] = 'X'

	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got), "stored value is a copy")

	require.NoError(t, b.Delete(ctx, "k"))
	require.NoError(t, b.Delete(ctx, "k"))
	_, err = b.Get(ctx, "k")
	assert.ErrorIs(t, err, core.ErrKeyNotFound)
}

func TestBackend_ReadOnly(t *testing.T) {
	b := memory.NewBackend(memory.WithReadOnly(true), memory.WithEntry("k", []byte("seed")))
	ctx := context.Background()

	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "seed", string(got))
	assert.ErrorIs(t, b.Set(ctx, "k", nil), core.ErrReadOnly)
	assert.ErrorIs(t, b.Delete(ctx, "k"), core.ErrReadOnly)
}

func TestBackend_Watch(t *testing.T) {
	b := memory.NewBackend()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	events, err := b.Watch(ctx, "studyshare-*")
	require.NoError(t, err)

	require.NoError(t, b.Set(ctx, "other", []byte("x")))
	require.NoError(t, b.Set(ctx, "studyshare-notes", []byte("a")))
	require.NoError(t, b.Set(ctx, "studyshare-notes", []byte("b")))
	require.NoError(t, b.Delete(ctx, "studyshare-notes"))

	var got []core.EventType
	for range 3 {
		select {
		case e := <-events:
			assert.Equal(t, "studyshare-notes", e.Key)
			got = append(got, e.Type)
		case <-ctx.Done():
			t.Fatal("Timed out waiting for event")
		}
	}
	assert.Equal(t, []core.EventType{core.EventCreate, core.EventModify, core.EventDelete}, got)

	cancel()
	require.Eventually(t, func() bool {
		_, ok := <-events
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestBackend_WatchInvalidPattern(t *testing.T) {
	_, err := memory.NewBackend().Watch(context.Background(), "[")
	assert.Error(t, err)
}

func TestBackend_Collection(t *testing.T) {
	b := memory.NewBackend()
	ctx := context.Background()
	c := core.NewCollection(core.NewNoteStore(b, "", nil), core.CollectionConfig{Seed: true})

	require.NoError(t, c.Initialize(ctx))

	assert.Equal(t, 6, c.Len())
	assert.Equal(t, "note-store/memory", core.NewNoteStore(b, "", nil).ComponentType())
}
