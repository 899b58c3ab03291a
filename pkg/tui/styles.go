package tui

import "github.com/charmbracelet/lipgloss"

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("6"))

	styleModeDev = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3"))

	styleModeAll = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))

	styleDim = lipgloss.NewStyle().
			Faint(true)

	styleSelected = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2"))

	styleHighlight = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Reverse(true)

	styleSearch = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3"))

	styleWarn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3"))

	styleOK = lipgloss.NewStyle().
		Foreground(lipgloss.Color("2"))

	styleErr = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))

	styleCPUHot = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))

	styleCPUWarm = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3"))

	styleDetail = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1).
			Width(detailWidth)

	styleDetailEmpty = styleDetail.
				BorderForeground(lipgloss.Color("8"))

	styleLabel = lipgloss.NewStyle().
			Faint(true)

	stylePad = lipgloss.NewStyle().
			Padding(0, 1)
)
