package update

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/tally/internal/controller"
	"github.com/sandeepkv93/tally/internal/logging"
	"github.com/sandeepkv93/tally/internal/surface"
	"github.com/sandeepkv93/tally/internal/transfer"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Completed string
	Given     string
	Add       string
	Down      string
	Up        string
	Give      string
	Help      string
	Quit      string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// ConfirmState is the yes/no modal shown before an armed click is delivered.
type ConfirmState struct {
	Active bool
	Prompt string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type Options struct {
	HoldDuration         time.Duration
	Logger               logging.Logger
	DesktopNotifications bool
	Notifier             DesktopNotifier
	// StartupNotice is shown as an error once the first frame is drawn.
	StartupNotice string
}

type Model struct {
	Cursor         int
	Confirm        ConfirmState
	Palette        CommandPaletteState
	HelpVisible    bool
	Status         StatusBar
	Notifications  []Notification
	DesktopEnabled bool
	Keys           GlobalKeyMap
	Quitting       bool

	ctx      context.Context
	ctrl     *controller.Controller
	log      logging.Logger
	notifier DesktopNotifier

	addButton     *surface.MemoryElement
	completedTab  *surface.MemoryElement
	givenTab      *surface.MemoryElement
	completedPage *surface.MemoryElement
	givenPage     *surface.MemoryElement
	completedRows *surface.MemoryList
	givenRows     *surface.MemoryList

	confirmer *modalConfirmer
	notices   *noticeQueue
	pressing  bool

	completedList list.Model
	givenList     list.Model
	commandInput  textinput.Model
	helpModel     help.Model
}

type HoldElapsedMsg struct {
	Gen uint64
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

// modalConfirmer answers the controller's prompt with whatever the modal
// collected. The answer is consumed by the first Confirm call.
type modalConfirmer struct {
	answer bool
	asked  string
}

func (c *modalConfirmer) Confirm(prompt string) bool {
	c.asked = prompt
	answer := c.answer
	c.answer = false
	return answer
}

// noticeQueue collects controller notices until the next Update drains them.
type noticeQueue struct {
	items []Notification
}

func (q *noticeQueue) Notify(text string, isError bool) {
	q.items = append(q.items, Notification{
		Title: "tally",
		Body:  text,
		Level: levelFromError(isError),
		At:    time.Now().UTC(),
	})
}

func (q *noticeQueue) drain() []Notification {
	out := q.items
	q.items = nil
	return out
}

// NewModel builds the TUI around a controller and draws the first frame from
// the store behind engine.
func NewModel(ctx context.Context, engine *transfer.Engine, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	m := Model{
		ctx:            ctx,
		log:            opts.Logger,
		DesktopEnabled: opts.DesktopNotifications,
		notifier:       NoopDesktopNotifier{},
		Keys: GlobalKeyMap{
			Completed: "1",
			Given:     "2",
			Add:       "a",
			Down:      "j",
			Up:        "k",
			Give:      "g",
			Help:      "?",
			Quit:      "q",
		},
		addButton:     surface.NewElement(controller.AddGlyph),
		completedTab:  surface.NewElement(""),
		givenTab:      surface.NewElement(""),
		completedPage: surface.NewElement(""),
		givenPage:     surface.NewElement(""),
		completedRows: surface.NewList(),
		givenRows:     surface.NewList(),
		confirmer:     &modalConfirmer{},
		notices:       &noticeQueue{},
	}
	if opts.Notifier != nil {
		m.notifier = opts.Notifier
	}
	m.ctrl = controller.New(engine, controller.Surface{
		AddButton:     m.addButton,
		CompletedTab:  m.completedTab,
		GivenTab:      m.givenTab,
		CompletedPage: m.completedPage,
		GivenPage:     m.givenPage,
		CompletedList: m.completedRows,
		GivenList:     m.givenRows,
	}, m.confirmer,
		controller.WithNotifier(m.notices),
		controller.WithLogger(opts.Logger),
		controller.WithHoldDuration(opts.HoldDuration),
	)
	if err := m.ctrl.Start(ctx); err != nil {
		m.log.Warn(ctx, "initial render", "err", err)
	}
	m.initBubbleComponents()
	if opts.StartupNotice != "" {
		m.notices.Notify(opts.StartupNotice, true)
	}
	m.flushNotices()
	m.syncBubbleData()
	return m
}

func (m Model) Controller() *controller.Controller {
	return m.ctrl
}

func (m Model) CompletedRows() []surface.Row {
	return m.completedRows.Rows()
}

func (m Model) GivenRows() []surface.Row {
	return m.givenRows.Rows()
}
