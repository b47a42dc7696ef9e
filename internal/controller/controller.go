package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandeepkv93/tally/internal/logging"
	"github.com/sandeepkv93/tally/internal/model"
	"github.com/sandeepkv93/tally/internal/render"
	"github.com/sandeepkv93/tally/internal/storage"
	"github.com/sandeepkv93/tally/internal/surface"
	"github.com/sandeepkv93/tally/internal/transfer"
)

const (
	DefaultHoldDuration = 3000 * time.Millisecond

	AddGlyph    = "+ add"
	ResetGlyph  = "↺ reset"
	ResetPrompt = "Delete every completed and given entry?"

	storageNotice = "storage unavailable: changes will not survive a restart"
)

var ErrNoSuchRow = errors.New("controller: no such row")

type Tab string

const (
	TabCompleted Tab = "Completed"
	TabGiven     Tab = "Given"
)

type HoldState string

const (
	HoldNormal     HoldState = "normal"
	HoldArmPending HoldState = "arm-pending"
	HoldArmed      HoldState = "armed"
)

// Surface is every handle the controller draws into.
type Surface struct {
	AddButton     surface.Element
	CompletedTab  surface.Element
	GivenTab      surface.Element
	CompletedPage surface.Element
	GivenPage     surface.Element
	CompletedList surface.List
	GivenList     surface.List
}

type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

type Notifier interface {
	Notify(text string, isError bool)
}

type NotifyFunc func(text string, isError bool)

func (f NotifyFunc) Notify(text string, isError bool) { f(text, isError) }

// State is the transient UI mode. It lives as long as the controller and is
// never persisted.
type State struct {
	Tab  Tab
	Hold HoldState

	holdGen      uint64
	swallowClick bool
}

// NextClickResets reports whether the next click would open the reset prompt.
func (s State) NextClickResets() bool {
	return s.Hold == HoldArmed && !s.swallowClick
}

// HoldTimer asks the host to call HoldElapsed with Gen once After has passed.
type HoldTimer struct {
	Gen   uint64
	After time.Duration
}

type Controller struct {
	engine   *transfer.Engine
	ui       Surface
	renderer render.Renderer
	confirm  Confirmer
	notifier Notifier
	log      logging.Logger
	hold     time.Duration
	state    State
	noticed  bool
}

type Option func(*Controller)

func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

func WithLogger(log logging.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

func WithHoldDuration(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.hold = d
		}
	}
}

func New(engine *transfer.Engine, ui Surface, confirm Confirmer, opts ...Option) *Controller {
	c := &Controller{
		engine: engine,
		ui:     ui,
		renderer: render.Renderer{
			Completed:      ui.CompletedList,
			Given:          ui.GivenList,
			CompletedLabel: ui.CompletedTab,
			GivenLabel:     ui.GivenTab,
		},
		confirm:  confirm,
		notifier: NotifyFunc(func(string, bool) {}),
		log:      logging.Discard(),
		hold:     DefaultHoldDuration,
		state:    State{Tab: TabCompleted, Hold: HoldNormal},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) HoldDuration() time.Duration {
	return c.hold
}

// Start draws the initial screen from the store.
func (c *Controller) Start(ctx context.Context) error {
	if err := c.engine.Seed(ctx); err != nil {
		c.report(ctx, "seed ids", err)
	}
	c.SelectTab(TabCompleted)
	c.applyHoldVisual()
	return c.Refresh(ctx)
}

// Refresh rebuilds both lists and the counts from the store.
func (c *Controller) Refresh(ctx context.Context) error {
	snap, err := c.engine.Snapshot(ctx)
	if err != nil && !c.report(ctx, "refresh", err) {
		return err
	}
	c.renderer.Render(snap.Completed, snap.Given)
	c.renderer.RenderCounts(len(snap.Completed), len(snap.Given))
	return nil
}

func (c *Controller) SelectTab(tab Tab) {
	onCompleted := tab != TabGiven
	if onCompleted {
		c.state.Tab = TabCompleted
	} else {
		c.state.Tab = TabGiven
	}
	c.ui.CompletedPage.SetHidden(!onCompleted)
	c.ui.GivenPage.SetHidden(onCompleted)
	c.ui.AddButton.SetHidden(!onCompleted)
	c.ui.CompletedTab.SetActive(onCompleted)
	c.ui.GivenTab.SetActive(!onCompleted)
}

// Press starts the hold timer. It reports false when no timer is needed.
func (c *Controller) Press() (HoldTimer, bool) {
	if c.state.Hold != HoldNormal {
		return HoldTimer{}, false
	}
	c.state.holdGen++
	c.state.Hold = HoldArmPending
	return HoldTimer{Gen: c.state.holdGen, After: c.hold}, true
}

// HoldElapsed arms reset mode if gen is still the pending press. Timers from
// released presses carry an older generation and do nothing.
func (c *Controller) HoldElapsed(ctx context.Context, gen uint64) bool {
	if c.state.Hold != HoldArmPending || gen != c.state.holdGen {
		return false
	}
	c.state.Hold = HoldArmed
	c.state.swallowClick = true
	c.applyHoldVisual()
	c.log.Info(ctx, "reset armed")
	return true
}

func (c *Controller) Release() {
	if c.state.Hold == HoldArmPending {
		c.state.Hold = HoldNormal
	}
}

// ReleaseOutside ends a press that will not be followed by a click, such as a
// mouse button let go away from the button.
func (c *Controller) ReleaseOutside() {
	c.Release()
	c.state.swallowClick = false
}

// Click handles activation of the add button. In normal mode it adds an entry;
// in armed mode it asks for confirmation and resets. The click that ends the
// arming press itself is ignored.
func (c *Controller) Click(ctx context.Context) {
	if c.state.swallowClick {
		c.state.swallowClick = false
		return
	}
	switch c.state.Hold {
	case HoldArmed:
		c.resolveReset(ctx)
	case HoldArmPending:
		c.state.Hold = HoldNormal
		c.add(ctx)
	default:
		c.add(ctx)
	}
}

func (c *Controller) add(ctx context.Context) {
	entry, err := c.engine.Add(ctx)
	if err != nil && !c.report(ctx, "add", err) {
		return
	}
	c.ui.CompletedList.Prepend(render.CompletedRow(entry))
	c.refreshCounts(ctx)
}

func (c *Controller) resolveReset(ctx context.Context) {
	defer func() {
		c.state.Hold = HoldNormal
		c.applyHoldVisual()
	}()
	if !c.confirm.Confirm(ResetPrompt) {
		c.notifier.Notify("reset cancelled", false)
		return
	}
	if err := c.engine.Reset(ctx); err != nil && !c.report(ctx, "reset", err) {
		return
	}
	_ = c.Refresh(ctx)
	c.notifier.Notify("all entries cleared", false)
}

// Transfer gives the completed row identified by key.
func (c *Controller) Transfer(ctx context.Context, key string) error {
	for _, row := range c.ui.CompletedList.Rows() {
		if row.Key != key {
			continue
		}
		entry, ok := render.EntryFromRow(row)
		if !ok {
			break
		}
		return c.transfer(ctx, row.Key, entry)
	}
	return fmt.Errorf("%w: %s", ErrNoSuchRow, key)
}

// TransferAt gives the completed row at index, counted from the top.
func (c *Controller) TransferAt(ctx context.Context, index int) error {
	rows := c.ui.CompletedList.Rows()
	if index < 0 || index >= len(rows) {
		return fmt.Errorf("%w: index %d", ErrNoSuchRow, index)
	}
	return c.Transfer(ctx, rows[index].Key)
}

func (c *Controller) transfer(ctx context.Context, key string, entry model.CompletedEntry) error {
	given, err := c.engine.Transfer(ctx, entry)
	if err != nil && !c.report(ctx, "transfer", err) {
		return err
	}
	c.ui.CompletedList.Remove(key)
	c.ui.GivenList.Prepend(render.GivenRow(given, len(c.ui.GivenList.Rows())+1))
	c.refreshCounts(ctx)
	c.notifier.Notify("given: "+entry.Content, false)
	return nil
}

func (c *Controller) refreshCounts(ctx context.Context) {
	snap, err := c.engine.Snapshot(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrStorageUnavailable) {
			c.log.Warn(ctx, "counts from visible rows", "err", err)
			c.renderer.RenderCounts(len(c.ui.CompletedList.Rows()), len(c.ui.GivenList.Rows()))
			return
		}
		c.report(ctx, "counts", err)
	}
	c.renderer.RenderCounts(len(snap.Completed), len(snap.Given))
}

func (c *Controller) applyHoldVisual() {
	if c.state.Hold == HoldArmed {
		c.ui.AddButton.SetText(ResetGlyph)
		c.ui.AddButton.SetActive(true)
		return
	}
	c.ui.AddButton.SetText(AddGlyph)
	c.ui.AddButton.SetActive(false)
}

// report surfaces err to the user and reports whether the operation may carry
// on. Storage outages are announced once and the session continues in memory;
// anything else stops the operation and resyncs the screen from the store.
func (c *Controller) report(ctx context.Context, op string, err error) bool {
	if errors.Is(err, storage.ErrStorageUnavailable) {
		c.log.Warn(ctx, "storage unavailable", "op", op, "err", err)
		if !c.noticed {
			c.noticed = true
			c.notifier.Notify(storageNotice, true)
		}
		return true
	}
	c.log.Error(ctx, "operation failed", "op", op, "err", err)
	c.notifier.Notify(fmt.Sprintf("%s failed: %v", op, err), true)
	if op != "refresh" {
		_ = c.Refresh(ctx)
	}
	return false
}
