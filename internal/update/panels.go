package update

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/tally/internal/controller"
	"github.com/sandeepkv93/tally/internal/views"
)

const maxNotifications = 40

func (m *Model) initBubbleComponents() {
	m.completedList = newRowList()
	m.givenList = newRowList()

	m.commandInput = textinput.New()
	m.commandInput.Prompt = ""
	m.commandInput.Placeholder = "add | give <row> | show completed|given"
	m.commandInput.CharLimit = 64

	m.helpModel = help.New()
	m.helpModel.ShowAll = true
}

func newRowList() list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 60, 18)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	return l
}

func (m *Model) syncBubbleData() {
	completed := m.completedRows.Rows()
	items := make([]list.Item, 0, len(completed))
	for _, row := range completed {
		items = append(items, listItem{title: row.Primary, description: "give with " + m.Keys.Give})
	}
	m.completedList.SetItems(items)

	given := m.givenRows.Rows()
	items = make([]list.Item, 0, len(given))
	for _, row := range given {
		items = append(items, listItem{title: row.Primary, description: row.Secondary})
	}
	m.givenList.SetItems(items)

	m.Cursor = clamp(m.Cursor, 0, m.visibleRowCount()-1)
	if m.ctrl.State().Tab == controller.TabGiven {
		m.givenList.Select(m.Cursor)
	} else {
		m.completedList.Select(m.Cursor)
	}
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

// flushNotices moves controller notices into the status bar and the
// notification log.
func (m *Model) flushNotices() {
	for _, n := range m.notices.drain() {
		m.Status = StatusBar{Text: n.Body, IsError: n.Level == "error"}
		m.notify(n)
	}
}

func (m *Model) notify(n Notification) {
	if strings.TrimSpace(n.Body) == "" {
		return
	}
	if n.At.IsZero() {
		n.At = time.Now().UTC()
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		if err := m.notifier.Send(n); err != nil {
			m.log.Warn(m.ctx, "desktop notification failed", "err", err)
		}
	}
}
