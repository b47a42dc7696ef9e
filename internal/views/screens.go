package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ButtonWidth is the number of cells the add/reset button occupies on line 0.
const ButtonWidth = 11

type ButtonData struct {
	Label   string
	Armed   bool
	Pending bool
	Hidden  bool
}

type TabData struct {
	Label  string
	Active bool
}

type ListPanelData struct {
	Title    string
	ListView string
	Empty    bool
	Hint     string
}

type HelpPanelData struct {
	Markdown string
	HelpView string
}

var (
	buttonStyle        = lipgloss.NewStyle().Width(ButtonWidth).Align(lipgloss.Center).Bold(true).Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15"))
	buttonPendingStyle = buttonStyle.Background(lipgloss.Color("3"))
	buttonArmedStyle   = buttonStyle.Background(lipgloss.Color("1"))
	tabStyle           = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8"))
	activeTabStyle     = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(lipgloss.Color("12"))
)

func RenderButton(data ButtonData) string {
	if data.Hidden {
		return strings.Repeat(" ", ButtonWidth)
	}
	switch {
	case data.Armed:
		return buttonArmedStyle.Render(data.Label)
	case data.Pending:
		return buttonPendingStyle.Render(data.Label)
	default:
		return buttonStyle.Render(data.Label)
	}
}

func RenderTabs(tabs []TabData) string {
	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		if tab.Active {
			parts = append(parts, activeTabStyle.Render(tab.Label))
			continue
		}
		parts = append(parts, tabStyle.Render(tab.Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func RenderListPanel(data ListPanelData) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(data.Title) + ":\n")
	if data.Hint != "" {
		b.WriteString("actions: " + data.Hint + "\n")
	}
	if data.Empty {
		b.WriteString("(nothing here yet)")
		return b.String()
	}
	b.WriteString(data.ListView)
	return strings.TrimSpace(b.String())
}

func RenderConfirm(prompt string) string {
	return fmt.Sprintf("%s\n\n[y] yes    [n] no", prompt)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return strings.TrimSpace(RenderMarkdown(data.Markdown) + "\n" + data.HelpView)
}
