package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type AppData struct {
	Button       string
	Header       string
	Tabs         string
	Body         string
	Modal        string
	StatusLine   string
	Footer       string
	Notification string
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	modalStyle  = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("9")).Padding(0, 2)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderApp lays the frame out top to bottom. The button is always the first
// thing on line 0 so mouse hit-testing stays trivial.
func RenderApp(data AppData) string {
	lines := []string{
		data.Button + " " + headerStyle.Render(data.Header),
		data.Tabs,
		panelStyle.Width(64).Render(data.Body),
	}
	if data.Modal != "" {
		lines = append(lines, modalStyle.Render(data.Modal))
	}
	if data.StatusLine != "" {
		status := statusStyle.Render(data.StatusLine)
		if strings.Contains(strings.ToLower(data.StatusLine), "error") {
			status = errorStyle.Render(data.StatusLine)
		}
		lines = append(lines, status)
	}
	if data.Notification != "" {
		lines = append(lines, data.Notification)
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	style := "dark"
	if lipgloss.ColorProfile() == termenv.Ascii {
		style = "ascii"
	}
	out, err := glamour.Render(md, style)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
