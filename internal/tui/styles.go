package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	cellStyle = lipgloss.NewStyle().
			Width(3).
			Align(lipgloss.Center)

	cursorStyle = cellStyle.
			Background(lipgloss.Color("240")).
			Bold(true)

	xStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("cyan")).
		Bold(true)

	oStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("yellow")).
		Bold(true)

	statusStyle = lipgloss.NewStyle().
			MarginTop(1).
			Bold(true)

	winnerStyle = statusStyle.
			Foreground(lipgloss.Color("120"))

	moveStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	currentMoveStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(lipgloss.Color("170")).
				Bold(true)

	panelStyle = lipgloss.NewStyle().
			MarginRight(4)
)
