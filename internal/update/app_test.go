package update

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sandeepkv93/tally/internal/controller"
	"github.com/sandeepkv93/tally/internal/storage"
	"github.com/sandeepkv93/tally/internal/transfer"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	m.Run()
}

type recordingNotifier struct {
	sent []Notification
}

func (r *recordingNotifier) Send(n Notification) error {
	r.sent = append(r.sent, n)
	return nil
}

func newTestModel(t *testing.T, opts Options) (Model, *time.Time) {
	t.Helper()
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	store := storage.NewSlotStore(storage.NewMemoryBackend(), storage.WithStrictDecoding())
	engine := transfer.NewEngine(store, transfer.WithClock(func() time.Time { return now }))
	return NewModel(context.Background(), engine, opts), &now
}

func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func TestNewModelDefaults(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	state := m.Controller().State()
	if state.Tab != controller.TabCompleted || state.Hold != controller.HoldNormal {
		t.Fatalf("unexpected initial state: %+v", state)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if m.addButton.Text() != controller.AddGlyph || m.addButton.Hidden() {
		t.Fatalf("expected visible add button, got %q hidden=%v", m.addButton.Text(), m.addButton.Hidden())
	}
	if m.completedTab.Text() != "Completed (0)" || m.givenTab.Text() != "Given (0)" {
		t.Fatalf("unexpected tab labels: %q %q", m.completedTab.Text(), m.givenTab.Text())
	}
}

func TestAddKeyPrependsEntry(t *testing.T) {
	m, now := newTestModel(t, Options{})
	m, _ = press(t, m, runes("a"))
	*now = now.Add(24 * time.Hour)
	m, _ = press(t, m, runes("a"))

	rows := m.CompletedRows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Primary != "Completed on January 11, 2024" || rows[1].Primary != "Completed on January 10, 2024" {
		t.Fatalf("rows not newest first: %+v", rows)
	}
	if m.completedTab.Text() != "Completed (2)" {
		t.Fatalf("unexpected label: %q", m.completedTab.Text())
	}
}

func TestGiveKeyTransfersSelectedRow(t *testing.T) {
	m, now := newTestModel(t, Options{})
	m, _ = press(t, m, runes("a"))
	*now = time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC)
	m, _ = press(t, m, runes("a"))
	m, _ = press(t, m, runes("j"))
	if m.Cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", m.Cursor)
	}
	m, _ = press(t, m, runes("g"))

	if len(m.CompletedRows()) != 1 || m.CompletedRows()[0].Primary != "Completed on January 15, 2024" {
		t.Fatalf("unexpected completed rows: %+v", m.CompletedRows())
	}
	given := m.GivenRows()
	if len(given) != 1 || given[0].Primary != "Completed on January 10, 2024" || given[0].Secondary != "Given on: January 15, 2024" {
		t.Fatalf("unexpected given rows: %+v", given)
	}
	if m.Cursor != 0 {
		t.Fatalf("cursor should clamp to remaining rows, got %d", m.Cursor)
	}
	if !strings.HasPrefix(m.Status.Text, "given: ") {
		t.Fatalf("expected give notice in status, got %q", m.Status.Text)
	}
}

func TestTabKeysSwitchPages(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m, _ = press(t, m, runes("2"))
	if m.Controller().State().Tab != controller.TabGiven {
		t.Fatalf("expected Given tab")
	}
	if !m.addButton.Hidden() || !m.completedPage.Hidden() || m.givenPage.Hidden() {
		t.Fatal("given tab should hide the button and the completed page")
	}
	m, _ = press(t, m, runes("a"))
	if len(m.CompletedRows()) != 0 {
		t.Fatal("add must be unreachable on the Given tab")
	}
	m, _ = press(t, m, runes("1"))
	if m.addButton.Hidden() {
		t.Fatal("completed tab should show the button")
	}
}

func TestShortMouseClickAdds(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m, cmd := press(t, m, mouse(tea.MouseActionPress, 2, 0))
	if cmd == nil {
		t.Fatal("press on the button should schedule the hold timer")
	}
	if m.Controller().State().Hold != controller.HoldArmPending {
		t.Fatalf("expected arm-pending, got %s", m.Controller().State().Hold)
	}
	m, _ = press(t, m, mouse(tea.MouseActionRelease, 2, 0))
	if len(m.CompletedRows()) != 1 {
		t.Fatalf("expected one entry, got %d", len(m.CompletedRows()))
	}
	m, _ = press(t, m, HoldElapsedMsg{Gen: 1})
	if m.Controller().State().Hold != controller.HoldNormal {
		t.Fatal("stale hold timer must not arm")
	}
}

func TestMousePressOffButtonIsIgnored(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m, cmd := press(t, m, mouse(tea.MouseActionPress, 30, 4))
	if cmd != nil || m.Controller().State().Hold != controller.HoldNormal {
		t.Fatal("press away from the button must not start a hold")
	}
}

func TestHoldArmsThenConfirmedResetClears(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m, _ = press(t, m, runes("a"))
	m, _ = press(t, m, runes("g"))
	m, _ = press(t, m, runes("a"))

	m, _ = press(t, m, mouse(tea.MouseActionPress, 1, 0))
	m, _ = press(t, m, HoldElapsedMsg{Gen: 1})
	if m.Controller().State().Hold != controller.HoldArmed {
		t.Fatal("expected armed after hold")
	}
	m, _ = press(t, m, mouse(tea.MouseActionRelease, 1, 0))
	if m.Confirm.Active {
		t.Fatal("the arming release must not open the prompt")
	}
	if m.addButton.Text() != controller.ResetGlyph {
		t.Fatalf("expected reset glyph, got %q", m.addButton.Text())
	}

	m, cmd := press(t, m, mouse(tea.MouseActionPress, 1, 0))
	if cmd != nil {
		t.Fatal("press while armed needs no timer")
	}
	m, _ = press(t, m, mouse(tea.MouseActionRelease, 1, 0))
	if !m.Confirm.Active || m.Confirm.Prompt != controller.ResetPrompt {
		t.Fatalf("expected confirm modal, got %+v", m.Confirm)
	}
	if !strings.Contains(m.View(), controller.ResetPrompt) {
		t.Fatal("modal prompt should be drawn")
	}

	m, _ = press(t, m, runes("y"))
	if m.Confirm.Active {
		t.Fatal("modal should close")
	}
	if len(m.CompletedRows()) != 0 || len(m.GivenRows()) != 0 {
		t.Fatalf("expected empty lists, got %d/%d", len(m.CompletedRows()), len(m.GivenRows()))
	}
	if m.completedTab.Text() != "Completed (0)" || m.givenTab.Text() != "Given (0)" {
		t.Fatalf("unexpected labels after reset: %q %q", m.completedTab.Text(), m.givenTab.Text())
	}
	if m.Controller().State().Hold != controller.HoldNormal || m.addButton.Text() != controller.AddGlyph {
		t.Fatal("reset must return the button to normal")
	}
}

func TestDeclinedResetKeepsEntries(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m, _ = press(t, m, runes("a"))
	m, _ = press(t, m, mouse(tea.MouseActionPress, 0, 0))
	m, _ = press(t, m, HoldElapsedMsg{Gen: 1})
	m, _ = press(t, m, mouse(tea.MouseActionRelease, 0, 0))
	m, _ = press(t, m, runes("a"))
	if !m.Confirm.Active {
		t.Fatal("keyboard click while armed should ask")
	}
	m, _ = press(t, m, runes("n"))
	if len(m.CompletedRows()) != 1 {
		t.Fatalf("declined reset must keep entries, got %d", len(m.CompletedRows()))
	}
	if m.Status.Text != "reset cancelled" {
		t.Fatalf("unexpected status: %q", m.Status.Text)
	}
	if m.Controller().State().Hold != controller.HoldNormal {
		t.Fatal("declined reset returns to normal")
	}
}

func TestReleaseOffButtonDoesNotClick(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m, _ = press(t, m, mouse(tea.MouseActionPress, 0, 0))
	m, _ = press(t, m, mouse(tea.MouseActionRelease, 40, 6))
	if len(m.CompletedRows()) != 0 {
		t.Fatal("release away from the button must not add")
	}
	if m.Controller().State().Hold != controller.HoldNormal {
		t.Fatal("early release returns to normal")
	}
}

func TestPaletteGiveAndErrors(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m, _ = press(t, m, runes("a"))
	m, _ = press(t, m, runes("/"))
	if !m.Palette.Active {
		t.Fatal("expected palette to open")
	}
	m, _ = press(t, m, runes("give 1"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Palette.Active {
		t.Fatal("palette should close after running")
	}
	if len(m.GivenRows()) != 1 || len(m.CompletedRows()) != 0 {
		t.Fatalf("expected give to move the row, got %d/%d", len(m.CompletedRows()), len(m.GivenRows()))
	}

	m, _ = press(t, m, runes("/"))
	m, _ = press(t, m, runes("give 4"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "no completed row 4") {
		t.Fatalf("expected row error, got %+v", m.Status)
	}

	m, _ = press(t, m, runes("/"))
	m, _ = press(t, m, runes("reset"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unsupported command") {
		t.Fatalf("reset must not be a palette command, got %+v", m.Status)
	}
}

func TestPaletteShowAndAdd(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	for _, input := range []string{"show given", "add"} {
		m, _ = press(t, m, runes("/"))
		m, _ = press(t, m, runes(input))
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	}
	if m.Controller().State().Tab != controller.TabCompleted {
		t.Fatal("add should switch back to Completed")
	}
	if len(m.CompletedRows()) != 1 || m.Status.Text != "added: Completed on January 10, 2024" {
		t.Fatalf("unexpected add result: rows=%d status=%q", len(m.CompletedRows()), m.Status.Text)
	}
}

func TestDesktopNotifierReceivesNotices(t *testing.T) {
	rec := &recordingNotifier{}
	m, _ := newTestModel(t, Options{DesktopNotifications: true, Notifier: rec})
	m, _ = press(t, m, runes("a"))
	m, _ = press(t, m, runes("g"))
	if len(rec.sent) == 0 || !strings.HasPrefix(rec.sent[len(rec.sent)-1].Body, "given: ") {
		t.Fatalf("expected give notice to reach the desktop notifier, got %+v", rec.sent)
	}
	if len(m.Notifications) != len(rec.sent) {
		t.Fatalf("notification log and desktop sends differ: %d vs %d", len(m.Notifications), len(rec.sent))
	}
}

func TestHelpToggleAndQuit(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m, _ = press(t, m, runes("?"))
	if !m.HelpVisible || !strings.Contains(m.View(), "give selected") {
		t.Fatal("expected help panel in view")
	}
	m, cmd := press(t, m, runes("q"))
	if !m.Quitting || cmd == nil {
		t.Fatal("expected quit")
	}
}

func TestViewShowsButtonTabsAndStatus(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m, _ = press(t, m, runes("a"))
	out := m.View()
	for _, want := range []string{controller.AddGlyph, "Completed (1)", "Given (0)", "hold: normal"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
	if !strings.Contains(strings.SplitN(out, "\n", 2)[0], controller.AddGlyph) {
		t.Fatalf("button must be on the first line:\n%s", out)
	}
}

func TestStartupNoticeShownAsError(t *testing.T) {
	m, _ := newTestModel(t, Options{StartupNotice: "storage unavailable"})
	if !m.Status.IsError || m.Status.Text != "storage unavailable" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	if !strings.Contains(m.View(), "status: error: storage unavailable") {
		t.Fatal("notice should be drawn")
	}
}
