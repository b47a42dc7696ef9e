package update

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tally/internal/commands"
	"github.com/sandeepkv93/tally/internal/controller"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m.closePalette()
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func() (commands.Result, error) {
			if m.ctrl.State().Hold == controller.HoldArmed {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "reset is armed; use the button"}
			}
			m.selectTab(controller.TabCompleted)
			before := m.completedRows.Len()
			m.ctrl.Click(m.ctx)
			if m.completedRows.Len() == before {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "entry was not added"}
			}
			return commands.Result{Message: "added: " + m.completedRows.Rows()[0].Primary}, nil
		},
		Give: func(g commands.GiveArgs) (commands.Result, error) {
			m.selectTab(controller.TabCompleted)
			err := m.ctrl.TransferAt(m.ctx, g.Row-1)
			if errors.Is(err, controller.ErrNoSuchRow) {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no completed row %d", g.Row)}
			}
			if err != nil {
				return commands.Result{}, err
			}
			m.Cursor = clamp(m.Cursor, 0, m.completedRows.Len()-1)
			return commands.Result{Message: fmt.Sprintf("gave row %d", g.Row)}, nil
		},
		Show: func(s commands.ShowArgs) (commands.Result, error) {
			tab := controller.TabCompleted
			if s.Tab == "given" {
				tab = controller.TabGiven
			}
			m.selectTab(tab)
			return commands.Result{Message: fmt.Sprintf("showing %s", s.Tab)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify(Notification{Title: "Command Failed", Body: err.Error(), Level: "error"})
	} else {
		m.Status = StatusBar{Text: res.Message}
		m.notify(Notification{Title: "Command", Body: res.Message, Level: "info"})
	}
	return m.closePalette()
}
