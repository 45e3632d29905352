package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vburojevic/pcx/internal/explorer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238"))

	focusedPaneStyle = paneStyle.
				BorderForeground(lipgloss.Color("39"))

	paneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("25")).
			Foreground(lipgloss.Color("255"))

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	modeOnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	copyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	statusStyles = map[explorer.StatusLevel]lipgloss.Style{
		explorer.LevelInfo: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		explorer.LevelOK:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		explorer.LevelWarn: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		explorer.LevelErr:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

func statusStyle(level explorer.StatusLevel) lipgloss.Style {
	if s, ok := statusStyles[level]; ok {
		return s
	}
	return dimStyle
}
