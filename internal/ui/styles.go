package ui

import (
	"github.com/charmbracelet/lipgloss"

	"taskdash/internal/tasks"
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted   lipgloss.TerminalColor = ac("240", "243")
	colorAccent  lipgloss.TerminalColor = ac("27", "62")
	colorSuccess lipgloss.TerminalColor = ac("28", "78")
	colorWarning lipgloss.TerminalColor = ac("130", "214")
	colorError   lipgloss.TerminalColor = ac("160", "203")

	titleStyle     = lipgloss.NewStyle().Bold(true)
	subtitleStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(colorAccent)
	badgeStyle     = lipgloss.NewStyle().Foreground(colorAccent)
	doneStyle      = lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true)
	starStyle      = lipgloss.NewStyle().Foreground(colorWarning)
	cursorStyle    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(colorError)
	menuStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1)
	dueStyle       = lipgloss.NewStyle().Foreground(colorMuted)
)

func badgeColor(s tasks.Status) lipgloss.TerminalColor {
	switch s {
	case tasks.StatusActive:
		return colorAccent
	case tasks.StatusCompleted:
		return colorSuccess
	case tasks.StatusImportant:
		return colorWarning
	default:
		return colorMuted
	}
}

func priorityStyle(p tasks.Priority) lipgloss.Style {
	switch p {
	case tasks.PriorityHigh:
		return lipgloss.NewStyle().Foreground(colorError)
	case tasks.PriorityMedium:
		return lipgloss.NewStyle().Foreground(colorWarning)
	default:
		return lipgloss.NewStyle().Foreground(colorAccent)
	}
}
