package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/tally/internal/model"
)

const (
	SlotCompleted = "completionEntries"
	SlotGiven     = "givenEntries"
)

var (
	ErrDeserialization    = errors.New("storage: invalid serialized data")
	ErrStorageUnavailable = errors.New("storage: unavailable")
)

// Store owns both sequences. Loads of a missing slot return an empty sequence and
// saves overwrite the whole slot.
type Store interface {
	LoadCompleted(ctx context.Context) ([]model.CompletedEntry, error)
	SaveCompleted(ctx context.Context, seq []model.CompletedEntry) error
	LoadGiven(ctx context.Context) ([]model.GivenEntry, error)
	SaveGiven(ctx context.Context, seq []model.GivenEntry) error
}

// Backend is the raw key-value medium underneath a Store.
type Backend interface {
	Get(ctx context.Context, slot string) (payload string, ok bool, err error)
	Put(ctx context.Context, slot string, payload string) error
}
