package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sandeepkv93/tally/internal/logging"
)

const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverMemory = "memory"
)

type Options struct {
	Driver string
	Path   string
	Strict bool
}

// Open builds the Store for the configured driver. Persistent drivers are
// wrapped so that a failing medium degrades to memory instead of stopping the
// session. If the medium cannot be opened at all the store starts degraded and
// the returned error carries ErrStorageUnavailable.
func Open(ctx context.Context, opts Options, log logging.Logger) (*SlotStore, io.Closer, error) {
	if log == nil {
		log = logging.Discard()
	}
	storeOpts := []Option{WithLogger(log)}
	if opts.Strict {
		storeOpts = append(storeOpts, WithStrictDecoding())
	}

	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case DriverMemory:
		return NewSlotStore(NewMemoryBackend(), storeOpts...), io.NopCloser(nil), nil
	case DriverFile:
		backend := NewResilientBackend(NewFileBackend(opts.Path), log)
		return NewSlotStore(backend, storeOpts...), io.NopCloser(nil), nil
	case DriverSQLite, "":
		sqlite, err := OpenSQLite(ctx, opts.Path)
		if err != nil {
			log.Error(ctx, "sqlite unavailable, using memory", "path", opts.Path, "err", err)
			return NewSlotStore(NewMemoryBackend(), storeOpts...), io.NopCloser(nil), err
		}
		backend := NewResilientBackend(sqlite, log)
		return NewSlotStore(backend, storeOpts...), sqlite, nil
	default:
		return nil, nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}
