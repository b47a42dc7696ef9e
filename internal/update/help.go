package update

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/tally/internal/views"
)

const helpMarkdown = `# tally

Click **+ add** (or press ` + "`a`" + `) to record a completion for today.
Give the selected completion with ` + "`g`" + ` to move it to the Given list.

Hold the button for a few seconds to arm **reset**, then click it again
and confirm to delete every entry.

Palette: ` + "`/add`" + `, ` + "`/give <row>`" + `, ` + "`/show completed|given`" + `.`

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	return views.RenderHelpPanel(views.HelpPanelData{
		Markdown: helpMarkdown,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Completed, Action: "show Completed"},
		{Key: m.Keys.Given, Action: "show Given"},
		{Key: m.Keys.Add, Action: "click the add button"},
		{Key: m.Keys.Down + "/" + m.Keys.Up, Action: "move selection"},
		{Key: m.Keys.Give, Action: "give selected"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
