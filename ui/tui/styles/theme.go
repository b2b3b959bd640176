package styles

import "github.com/charmbracelet/lipgloss"

var (
	Subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	Highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	Special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	TitleStyle = lipgloss.NewStyle().
			MarginLeft(1).
			MarginRight(5).
			Padding(0, 1).
			Italic(true).
			Foreground(lipgloss.Color("#FFF7DB"))

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Highlight).
			Padding(0, 1).
			Margin(0, 1)

	StatusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFF"))

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666")).
			PaddingLeft(1)

	// Heatmap cell styles, darkest glyph = most congested.
	CellNoData    = lipgloss.NewStyle().Foreground(lipgloss.Color("#383838"))
	CellClear     = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))  // Green
	CellLight     = lipgloss.NewStyle().Foreground(lipgloss.Color("220")) // Gold
	CellModerate  = lipgloss.NewStyle().Foreground(lipgloss.Color("208")) // Orange
	CellCongested = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // Red
)
