package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/tally/internal/model"
)

func TestSlotStoreMissingSlotsAreEmpty(t *testing.T) {
	s := NewSlotStore(NewMemoryBackend(), WithStrictDecoding())
	ctx := context.Background()

	completed, err := s.LoadCompleted(ctx)
	require.NoError(t, err)
	assert.NotNil(t, completed)
	assert.Empty(t, completed)

	given, err := s.LoadGiven(ctx)
	require.NoError(t, err)
	assert.Empty(t, given)
}

func TestSlotStoreRoundTripKeepsOrder(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewSlotStore(backend, WithStrictDecoding())
	ctx := context.Background()
	seq := []model.CompletedEntry{
		{ID: 3, Content: "Completed on March 3, 2024"},
		{ID: 1, Content: "Completed on March 1, 2024"},
	}
	require.NoError(t, s.SaveCompleted(ctx, seq))

	raw, ok, _ := backend.Get(ctx, SlotCompleted)
	require.True(t, ok)
	assert.Equal(t, `[{"id":3,"content":"Completed on March 3, 2024"},{"id":1,"content":"Completed on March 1, 2024"}]`, raw)

	got, err := s.LoadCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, seq, got)
}

func TestSlotStoreSaveNilWritesEmptyArray(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewSlotStore(backend)
	require.NoError(t, s.SaveGiven(context.Background(), nil))

	raw, _, _ := backend.Get(context.Background(), SlotGiven)
	assert.Equal(t, "[]", raw)
}

func TestSlotStoreCorruptSlot(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Put(ctx, SlotGiven, "{not json"))

	_, err := NewSlotStore(backend, WithStrictDecoding()).LoadGiven(ctx)
	require.ErrorIs(t, err, ErrDeserialization)

	got, err := NewSlotStore(backend).LoadGiven(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSlotStoreSkipsMalformedRecords(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Put(ctx, SlotCompleted, `[{"id":2,"content":"ok"},{"id":"x"},{"content":"no id"},{"id":1,"content":"also ok"}]`))

	got, err := NewSlotStore(backend).LoadCompleted(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)

	_, err = NewSlotStore(backend, WithStrictDecoding()).LoadCompleted(ctx)
	assert.ErrorIs(t, err, ErrDeserialization)
}

func TestSlotStoreDropsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Put(ctx, SlotCompleted, `[{"id":5,"content":"a"},{"id":5,"content":"b"}]`))

	got, err := NewSlotStore(backend).LoadCompleted(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Content)
}
