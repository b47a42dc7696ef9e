package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tally/internal/controller"
	"github.com/sandeepkv93/tally/internal/views"
)

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.flushNotices()
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Confirm.Active {
			return m.handleConfirmKey(typed), nil
		}
		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed), nil
		}
		return m.handleKey(typed)
	case tea.MouseMsg:
		return m.handleMouse(typed)
	case HoldElapsedMsg:
		if m.ctrl.HoldElapsed(m.ctx, typed.Gen) {
			m.Status = StatusBar{Text: "reset armed: click the button again to clear everything"}
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.Focus()
		m.commandInput.SetValue("")
		m.Status = StatusBar{Text: "command palette active"}
	case m.Keys.Completed:
		m.selectTab(controller.TabCompleted)
	case m.Keys.Given:
		m.selectTab(controller.TabGiven)
	case m.Keys.Add:
		m = m.clickAdd()
	case m.Keys.Down, "down":
		m.Cursor = clamp(m.Cursor+1, 0, m.visibleRowCount()-1)
	case m.Keys.Up, "up":
		m.Cursor = clamp(m.Cursor-1, 0, m.visibleRowCount()-1)
	case m.Keys.Give, "enter":
		m = m.giveSelected()
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown"}
		} else {
			m.Status = StatusBar{Text: "help hidden"}
		}
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	state := m.ctrl.State()
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	var body string
	if state.Tab == controller.TabGiven {
		body = views.RenderListPanel(views.ListPanelData{
			Title:    string(controller.TabGiven),
			ListView: m.givenList.View(),
			Empty:    m.givenRows.Len() == 0,
		})
	} else {
		body = views.RenderListPanel(views.ListPanelData{
			Title:    string(controller.TabCompleted),
			ListView: m.completedList.View(),
			Empty:    m.completedRows.Len() == 0,
			Hint:     fmt.Sprintf("%s/enter give selected", m.Keys.Give),
		})
	}
	if help := m.renderHelpIfVisible(); help != "" {
		body = strings.TrimSpace(body + "\n\n" + help)
	}

	modal := ""
	switch {
	case m.Confirm.Active:
		modal = views.RenderConfirm(m.Confirm.Prompt)
	case m.Palette.Active:
		modal = m.renderCommandPalette()
	}

	return views.RenderApp(views.AppData{
		Button: views.RenderButton(views.ButtonData{
			Label:   m.addButton.Text(),
			Armed:   m.addButton.Active(),
			Pending: state.Hold == controller.HoldArmPending,
			Hidden:  m.addButton.Hidden(),
		}),
		Header: fmt.Sprintf("tally | tab: %s | hold: %s", state.Tab, state.Hold),
		Tabs: views.RenderTabs([]views.TabData{
			{Label: fmt.Sprintf("[%s] %s", m.Keys.Completed, m.completedTab.Text()), Active: m.completedTab.Active()},
			{Label: fmt.Sprintf("[%s] %s", m.Keys.Given, m.givenTab.Text()), Active: m.givenTab.Active()},
		}),
		Body:         body,
		Modal:        modal,
		StatusLine:   status,
		Notification: m.renderNotificationsView(),
		Footer:       fmt.Sprintf("keys: %s add | %s give | / cmd | %s help | %s quit | hold the button to reset", m.Keys.Add, m.Keys.Give, m.Keys.Help, m.Keys.Quit),
	})
}
