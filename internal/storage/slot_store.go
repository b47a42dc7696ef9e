package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/tally/internal/logging"
	"github.com/sandeepkv93/tally/internal/model"
)

type SlotStore struct {
	backend Backend
	log     logging.Logger
	strict  bool
}

type Option func(*SlotStore)

// WithStrictDecoding surfaces ErrDeserialization instead of treating corrupt
// slots as empty and skipping malformed records.
func WithStrictDecoding() Option {
	return func(s *SlotStore) { s.strict = true }
}

func WithLogger(log logging.Logger) Option {
	return func(s *SlotStore) {
		if log != nil {
			s.log = log
		}
	}
}

func NewSlotStore(backend Backend, opts ...Option) *SlotStore {
	s := &SlotStore{backend: backend, log: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SlotStore) Backend() Backend {
	return s.backend
}

func (s *SlotStore) LoadCompleted(ctx context.Context) ([]model.CompletedEntry, error) {
	out, err := loadSlot[model.CompletedEntry](ctx, s, SlotCompleted)
	if err != nil {
		return nil, err
	}
	return s.dropDuplicateIDs(ctx, out)
}

func (s *SlotStore) SaveCompleted(ctx context.Context, seq []model.CompletedEntry) error {
	return saveSlot(ctx, s, SlotCompleted, seq)
}

func (s *SlotStore) LoadGiven(ctx context.Context) ([]model.GivenEntry, error) {
	return loadSlot[model.GivenEntry](ctx, s, SlotGiven)
}

func (s *SlotStore) SaveGiven(ctx context.Context, seq []model.GivenEntry) error {
	return saveSlot(ctx, s, SlotGiven, seq)
}

func (s *SlotStore) dropDuplicateIDs(ctx context.Context, in []model.CompletedEntry) ([]model.CompletedEntry, error) {
	seen := make(map[int64]bool, len(in))
	out := in[:0]
	for _, e := range in {
		if seen[e.ID] {
			if s.strict {
				return nil, fmt.Errorf("%w: duplicate id %d in %s", ErrDeserialization, e.ID, SlotCompleted)
			}
			s.log.Warn(ctx, "dropping duplicate completed entry", "id", e.ID)
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out, nil
}

type record interface {
	model.CompletedEntry | model.GivenEntry
	Validate() error
}

func loadSlot[T record](ctx context.Context, s *SlotStore, slot string) ([]T, error) {
	raw, ok, err := s.backend.Get(ctx, slot)
	if err != nil {
		if errors.Is(err, ErrDeserialization) && !s.strict {
			s.log.Warn(ctx, "unreadable storage treated as empty", "slot", slot, "err", err)
			return []T{}, nil
		}
		return nil, err
	}
	if !ok {
		return []T{}, nil
	}
	out, skipped, err := decodeSequence[T](raw)
	if err != nil {
		if s.strict {
			return nil, fmt.Errorf("slot %s: %w", slot, err)
		}
		s.log.Warn(ctx, "corrupt slot treated as empty", "slot", slot, "err", err)
		return []T{}, nil
	}
	if skipped > 0 {
		if s.strict {
			return nil, fmt.Errorf("%w: slot %s has %d malformed records", ErrDeserialization, slot, skipped)
		}
		s.log.Warn(ctx, "skipped malformed records", "slot", slot, "count", skipped)
	}
	return out, nil
}

func saveSlot[T record](ctx context.Context, s *SlotStore, slot string, seq []T) error {
	if seq == nil {
		seq = []T{}
	}
	payload, err := json.Marshal(seq)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", slot, err)
	}
	return s.backend.Put(ctx, slot, string(payload))
}

// decodeSequence parses a JSON array record by record. Records that do not
// decode or validate are counted and left out.
func decodeSequence[T record](raw string) ([]T, int, error) {
	if strings.TrimSpace(raw) == "" {
		return []T{}, 0, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDeserialization, err)
	}
	out := make([]T, 0, len(items))
	skipped := 0
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			skipped++
			continue
		}
		if err := v.Validate(); err != nil {
			skipped++
			continue
		}
		out = append(out, v)
	}
	return out, skipped, nil
}
