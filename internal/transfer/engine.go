package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandeepkv93/tally/internal/logging"
	"github.com/sandeepkv93/tally/internal/model"
	"github.com/sandeepkv93/tally/internal/storage"
)

// ErrNoFallback reports a store that stayed unreadable after an outage, so an
// operation could not see the entries it would otherwise overwrite.
var ErrNoFallback = errors.New("storage unavailable with no fallback")

type Snapshot struct {
	Completed []model.CompletedEntry
	Given     []model.GivenEntry
}

// Engine applies every mutation of the two sequences. A store error wrapping
// storage.ErrStorageUnavailable does not stop an operation: the remaining steps
// still run against the store (which keeps serving from memory) and the error
// is returned once the operation has finished.
type Engine struct {
	store storage.Store
	ids   *model.IDSource
	now   func() time.Time
	log   logging.Logger
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithLogger(log logging.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

func NewEngine(store storage.Store, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		ids:   model.NewIDSource(0),
		now:   time.Now,
		log:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Seed makes new ids larger than any id already persisted.
func (e *Engine) Seed(ctx context.Context) error {
	completed, degraded, err := load(ctx, "load completed", e.store.LoadCompleted)
	if err != nil {
		return err
	}
	e.ids.Observe(model.MaxID(completed))
	return degraded
}

// Snapshot reads both sequences. When the store went unavailable during the
// read the entries are still returned together with that error.
func (e *Engine) Snapshot(ctx context.Context) (Snapshot, error) {
	completed, degradedCompleted, err := load(ctx, "load completed", e.store.LoadCompleted)
	if err != nil {
		return Snapshot{}, err
	}
	given, degraded, err := load(ctx, "load given", e.store.LoadGiven)
	if err != nil {
		return Snapshot{}, err
	}
	if degraded == nil {
		degraded = degradedCompleted
	}
	return Snapshot{Completed: completed, Given: given}, degraded
}

func (e *Engine) Add(ctx context.Context) (model.CompletedEntry, error) {
	completed, degraded, err := load(ctx, "load completed", e.store.LoadCompleted)
	if err != nil {
		return model.CompletedEntry{}, err
	}
	now := e.now()
	entry := model.NewCompletedEntry(e.ids.Next(now), now)
	completed = append([]model.CompletedEntry{entry}, completed...)
	if err := e.store.SaveCompleted(ctx, completed); err != nil {
		if !isUnavailable(err) {
			return model.CompletedEntry{}, fmt.Errorf("save completed: %w", err)
		}
		degraded = err
	}
	e.log.Info(ctx, "completed entry added", "id", entry.ID)
	return entry, degraded
}

func (e *Engine) Lookup(ctx context.Context, id int64) (model.CompletedEntry, bool, error) {
	completed, degraded, err := load(ctx, "load completed", e.store.LoadCompleted)
	if err != nil {
		return model.CompletedEntry{}, false, err
	}
	i := model.IndexOf(completed, id)
	if i < 0 {
		return model.CompletedEntry{}, false, degraded
	}
	return completed[i], true, degraded
}

// Transfer removes entry from Completed by id and prepends the derived given
// entry. An id that is no longer in Completed leaves that sequence untouched;
// the given entry is still recorded.
func (e *Engine) Transfer(ctx context.Context, entry model.CompletedEntry) (model.GivenEntry, error) {
	var degraded error
	keep := func(step string, err error) error {
		if err == nil {
			return nil
		}
		if isUnavailable(err) {
			degraded = err
			return nil
		}
		return fmt.Errorf("%s: %w", step, err)
	}

	completed, degraded, err := load(ctx, "load completed", e.store.LoadCompleted)
	if err != nil {
		return model.GivenEntry{}, err
	}
	if i := model.IndexOf(completed, entry.ID); i >= 0 {
		completed = append(completed[:i:i], completed[i+1:]...)
		if err := keep("save completed", e.store.SaveCompleted(ctx, completed)); err != nil {
			return model.GivenEntry{}, err
		}
	} else {
		e.log.Warn(ctx, "transfer of entry not in completed", "id", entry.ID)
	}

	given := model.NewGivenEntry(entry, e.now())
	seq, degradedGiven, err := load(ctx, "load given", e.store.LoadGiven)
	if err != nil {
		return model.GivenEntry{}, err
	}
	if degradedGiven != nil {
		degraded = degradedGiven
	}
	seq = append([]model.GivenEntry{given}, seq...)
	if err := keep("save given", e.store.SaveGiven(ctx, seq)); err != nil {
		return model.GivenEntry{}, err
	}
	e.log.Info(ctx, "entry transferred", "id", entry.ID)
	return given, degraded
}

func (e *Engine) Reset(ctx context.Context) error {
	var degraded error
	if err := e.store.SaveCompleted(ctx, nil); err != nil {
		if !isUnavailable(err) {
			return fmt.Errorf("clear completed: %w", err)
		}
		degraded = err
	}
	if err := e.store.SaveGiven(ctx, nil); err != nil {
		if !isUnavailable(err) {
			return fmt.Errorf("clear given: %w", err)
		}
		degraded = err
	}
	e.log.Warn(ctx, "all entries reset")
	return degraded
}

// load reads a sequence. A read that hits a storage outage is retried once,
// since the store serves its in-memory copy from then on and a mutation must
// never be built on the empty result of the failed read. degraded carries the
// outage when the retry succeeded; a second failure is wrapped in ErrNoFallback.
func load[T any](ctx context.Context, step string, read func(context.Context) ([]T, error)) (seq []T, degraded error, err error) {
	seq, err = read(ctx)
	if err == nil {
		return seq, nil, nil
	}
	if !isUnavailable(err) {
		return nil, nil, fmt.Errorf("%s: %w", step, err)
	}
	degraded = err
	seq, err = read(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w: %v", step, ErrNoFallback, err)
	}
	return seq, degraded, nil
}

func isUnavailable(err error) bool {
	return errors.Is(err, storage.ErrStorageUnavailable)
}
