package storage

import (
	"context"
	"sync"
)

type MemoryBackend struct {
	mu    sync.Mutex
	slots map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: make(map[string]string)}
}

func (b *MemoryBackend) Get(_ context.Context, slot string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	payload, ok := b.slots[slot]
	return payload, ok, nil
}

func (b *MemoryBackend) Put(_ context.Context, slot string, payload string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slots[slot] = payload
	return nil
}
