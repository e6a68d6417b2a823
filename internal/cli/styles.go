package cli

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("240")).
			Width(12)

	cellStyle = lipgloss.NewStyle().Width(12)

	weekendStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Width(12)

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			MarginTop(1)

	okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)
