package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tally/internal/controller"
	"github.com/sandeepkv93/tally/internal/views"
)

func holdTickCmd(timer controller.HoldTimer) tea.Cmd {
	return tea.Tick(timer.After, func(_ time.Time) tea.Msg {
		return HoldElapsedMsg{Gen: timer.Gen}
	})
}

// onButton reports whether a mouse event landed on the add button, which is
// always drawn at the start of the first line.
func (m Model) onButton(msg tea.MouseMsg) bool {
	return !m.addButton.Hidden() && msg.Y == 0 && msg.X >= 0 && msg.X < views.ButtonWidth
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.Confirm.Active || m.Palette.Active {
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.onButton(msg) {
			return m, nil
		}
		m.pressing = true
		timer, ok := m.ctrl.Press()
		if !ok {
			return m, nil
		}
		return m, holdTickCmd(timer)
	case tea.MouseActionRelease:
		if !m.pressing {
			return m, nil
		}
		m.pressing = false
		if !m.onButton(msg) {
			m.ctrl.ReleaseOutside()
			return m, nil
		}
		m.ctrl.Release()
		return m.clickAdd(), nil
	}
	return m, nil
}

// clickAdd delivers a click to the add button. A click that would reset asks
// first; the answer reaches the controller through the modal confirmer.
func (m Model) clickAdd() Model {
	if m.addButton.Hidden() {
		return m
	}
	if m.ctrl.State().NextClickResets() {
		m.Confirm = ConfirmState{Active: true, Prompt: controller.ResetPrompt}
		m.Status = StatusBar{Text: "confirm reset: y/n"}
		return m
	}
	m.ctrl.Click(m.ctx)
	return m
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "y", "Y":
		return m.resolveConfirm(true)
	case "n", "N", "esc":
		return m.resolveConfirm(false)
	}
	return m
}

func (m Model) resolveConfirm(yes bool) Model {
	m.confirmer.answer = yes
	m.Confirm = ConfirmState{}
	m.ctrl.Click(m.ctx)
	m.Cursor = clamp(m.Cursor, 0, m.visibleRowCount()-1)
	return m
}

func (m *Model) selectTab(tab controller.Tab) {
	if m.ctrl.State().Tab != tab {
		m.Cursor = 0
	}
	m.ctrl.SelectTab(tab)
}

func (m Model) visibleRowCount() int {
	if m.ctrl.State().Tab == controller.TabGiven {
		return m.givenRows.Len()
	}
	return m.completedRows.Len()
}

func (m Model) giveSelected() Model {
	if m.ctrl.State().Tab != controller.TabCompleted {
		return m
	}
	if m.completedRows.Len() == 0 {
		m.Status = StatusBar{Text: "nothing to give"}
		return m
	}
	if err := m.ctrl.TransferAt(m.ctx, m.Cursor); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Cursor = clamp(m.Cursor, 0, m.completedRows.Len()-1)
	return m
}
