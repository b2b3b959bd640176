package views

import (
	"fmt"
	"math"
	"time"

	"wifimon/internal/store"
	"wifimon/ui/tui/state"
	"wifimon/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

// Occupancy score boundaries for the heatmap glyph ladder. With the
// default power-sum scoring, 0.01 is roughly one neighbor at -50 dBm and
// 0.1 one at -40 dBm.
const (
	lightScoreMax    = 0.01
	moderateScoreMax = 0.1
)

func ColorForStatus(status string) lipgloss.Style {
	sStyle := styles.StatusStyle
	if status == "WARN" {
		return sStyle.Foreground(lipgloss.Color("220")) // Gold
	} else if status == "CRIT" {
		return sStyle.Foreground(lipgloss.Color("196")) // Red
	}
	return sStyle.Foreground(lipgloss.Color("46")) // Green
}

// GlyphForCell maps an occupancy cell to its block glyph and style.
func GlyphForCell(c store.Cell) (string, lipgloss.Style) {
	switch {
	case !c.HasData:
		return "░", styles.CellNoData
	case c.Score == 0:
		return "░", styles.CellClear
	case c.Score <= lightScoreMax:
		return "▒", styles.CellLight
	case c.Score <= moderateScoreMax:
		return "▓", styles.CellModerate
	default:
		return "█", styles.CellCongested
	}
}

// RenderTabBar draws the page tabs with the spring-animated cursor and
// bubblezone marks for mouse selection.
func RenderTabBar(current state.Page, animCursor float64) string {
	labels := []string{"Live", "Heatmap"}

	var tabs []string
	for i, label := range labels {
		dist := math.Abs(float64(i) - animCursor)
		selectionStrength := 0.0
		if dist < 1.0 {
			selectionStrength = 1.0 - dist
		}

		borderColor := lipgloss.Color("#444")
		if selectionStrength > 0.1 || state.Page(i) == current {
			borderColor = lipgloss.Color("#f27b24")
		}

		popOut := int(selectionStrength * 2)
		tabStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1+popOut)

		if state.Page(i) == current {
			tabStyle = tabStyle.Bold(true).Foreground(lipgloss.Color("#FFF"))
		} else {
			tabStyle = tabStyle.Foreground(lipgloss.Color("#AAA"))
		}

		tabs = append(tabs, zone.Mark(fmt.Sprintf("tab_%d", i), tabStyle.Render(label)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// ZoomLabel formats a zoom span the way the status line shows it.
func ZoomLabel(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

// AgoLabel formats how long ago an instant was, coarsely.
func AgoLabel(since time.Duration) string {
	switch {
	case since < time.Minute:
		return fmt.Sprintf("%ds ago", int(since.Seconds()))
	case since < time.Hour:
		return fmt.Sprintf("%dm ago", int(since.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(since.Hours()))
	}
}

func RenderHelpBar(page state.Page) string {
	help := "[+/-] zoom • [p] pause • [a] add host • [d] drop host • [h] heatmap • [q] quit"
	if page == state.PageHeatmap {
		help = "[s] scan now • [2] 2.4GHz • [5] 5GHz • [l] live • [q] quit"
	}
	return styles.HelpStyle.Render(help)
}
