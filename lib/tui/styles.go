package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorSubtle    = lipgloss.Color("240") // Muted gray
	colorHighlight = lipgloss.Color("37")  // Cyan
	colorAccent    = lipgloss.Color("63")  // Indigo
	colorError     = lipgloss.Color("196")
	colorSuccess   = lipgloss.Color("40")
	colorWhite     = lipgloss.Color("231")
)

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().Foreground(colorSubtle)

	groupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1).
			Width(40)

	groupTitleStyle = lipgloss.NewStyle().Bold(true)

	segmentStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(colorSubtle)

	activeSegmentStyle = segmentStyle.
				Foreground(colorWhite).
				Background(colorHighlight).
				Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorAccent).
			Bold(true).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().Foreground(colorSubtle)

	keyValueStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorSubtle).
			Width(36)

	outputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1).
			Width(48).
			Height(6)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorError).
			Padding(0, 1)

	toastStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorSuccess).
			Padding(0, 2)

	helpStyle = lipgloss.NewStyle().Foreground(colorSubtle).Italic(true)
)
