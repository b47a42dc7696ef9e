package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/tally/internal/model"
)

type flakyBackend struct {
	inner    *MemoryBackend
	failGet  bool
	failPut  bool
	putCalls int
}

func (f *flakyBackend) Get(ctx context.Context, slot string) (string, bool, error) {
	if f.failGet {
		return "", false, errors.New("quota exceeded")
	}
	return f.inner.Get(ctx, slot)
}

func (f *flakyBackend) Put(ctx context.Context, slot string, payload string) error {
	f.putCalls++
	if f.failPut {
		return errors.New("quota exceeded")
	}
	return f.inner.Put(ctx, slot, payload)
}

func TestResilientBackendDegradesOnWrite(t *testing.T) {
	primary := &flakyBackend{inner: NewMemoryBackend(), failPut: true}
	backend := NewResilientBackend(primary, nil)
	store := NewSlotStore(backend)
	ctx := context.Background()

	seq := []model.CompletedEntry{{ID: 1, Content: "Completed on May 1, 2024"}}
	require.ErrorIs(t, store.SaveCompleted(ctx, seq), ErrStorageUnavailable)
	require.True(t, backend.Degraded())

	got, err := store.LoadCompleted(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1, "in-memory copy survives the failed write")

	require.NoError(t, store.SaveCompleted(ctx, nil), "writes are silent once degraded")
	assert.Equal(t, 1, primary.putCalls, "primary is not retried")
}

func TestResilientBackendDegradesOnRead(t *testing.T) {
	primary := &flakyBackend{inner: NewMemoryBackend(), failGet: true}
	backend := NewResilientBackend(primary, nil)
	ctx := context.Background()

	_, _, err := backend.Get(ctx, SlotGiven)
	require.ErrorIs(t, err, ErrStorageUnavailable)

	_, ok, err := backend.Get(ctx, SlotGiven)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResilientBackendServesMirrorAfterReadOutage(t *testing.T) {
	primary := &flakyBackend{inner: NewMemoryBackend()}
	store := NewSlotStore(NewResilientBackend(primary, nil))
	ctx := context.Background()

	seq := []model.CompletedEntry{{ID: 2, Content: "b"}, {ID: 1, Content: "a"}}
	require.NoError(t, store.SaveCompleted(ctx, seq))

	primary.failGet = true
	_, err := store.LoadCompleted(ctx)
	require.ErrorIs(t, err, ErrStorageUnavailable)

	got, err := store.LoadCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, seq, got)
}

func TestResilientBackendPassesThroughWhenHealthy(t *testing.T) {
	primary := &flakyBackend{inner: NewMemoryBackend()}
	backend := NewResilientBackend(primary, nil)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, SlotGiven, "[]"))
	got, ok, err := primary.inner.Get(ctx, SlotGiven)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", got)
	assert.False(t, backend.Degraded())
}
