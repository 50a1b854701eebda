package tui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle styles table and picker headers.
	HeaderStyle = lipgloss.NewStyle().Bold(true)

	faintStyle   = lipgloss.NewStyle().Faint(true)
	focusedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))

	statusStyles = map[string]lipgloss.Style{
		"installed": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"pass":      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),

		"skipped": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"warning": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),

		"error": lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"fail":  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
