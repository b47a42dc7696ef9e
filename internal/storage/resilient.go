package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sandeepkv93/tally/internal/logging"
)

// ResilientBackend mirrors every slot into memory. After the primary medium
// fails once it is abandoned for the rest of the session: the failing call
// returns ErrStorageUnavailable and later calls are served from memory.
type ResilientBackend struct {
	primary  Backend
	mem      *MemoryBackend
	log      logging.Logger
	mu       sync.Mutex
	degraded bool
}

func NewResilientBackend(primary Backend, log logging.Logger) *ResilientBackend {
	if log == nil {
		log = logging.Discard()
	}
	return &ResilientBackend{primary: primary, mem: NewMemoryBackend(), log: log}
}

func (b *ResilientBackend) Degraded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.degraded
}

func (b *ResilientBackend) Get(ctx context.Context, slot string) (string, bool, error) {
	if b.Degraded() {
		return b.mem.Get(ctx, slot)
	}
	payload, ok, err := b.primary.Get(ctx, slot)
	if err != nil {
		if errors.Is(err, ErrDeserialization) {
			return "", false, err
		}
		return "", false, b.degrade(ctx, "read", slot, err)
	}
	if ok {
		_ = b.mem.Put(ctx, slot, payload)
	}
	return payload, ok, nil
}

func (b *ResilientBackend) Put(ctx context.Context, slot string, payload string) error {
	_ = b.mem.Put(ctx, slot, payload)
	if b.Degraded() {
		return nil
	}
	if err := b.primary.Put(ctx, slot, payload); err != nil {
		return b.degrade(ctx, "write", slot, err)
	}
	return nil
}

func (b *ResilientBackend) degrade(ctx context.Context, op, slot string, cause error) error {
	b.mu.Lock()
	b.degraded = true
	b.mu.Unlock()
	b.log.Error(ctx, "storage degraded to memory", "op", op, "slot", slot, "err", cause)
	if errors.Is(cause, ErrStorageUnavailable) {
		return cause
	}
	return fmt.Errorf("%w: %s slot %s: %w", ErrStorageUnavailable, op, slot, cause)
}
