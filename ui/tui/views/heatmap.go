package views

import (
	"fmt"
	"time"

	"wifimon/internal/scan"
	"wifimon/internal/store"
	"wifimon/ui/tui/state"
	"wifimon/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

type HeatmapView struct{}

func (v HeatmapView) Render(s state.AppState, props ViewProps) string {
	tabBar := RenderTabBar(state.PageHeatmap, props.AnimCursor)

	var grid *store.BandGrid
	if s.Heatmap != nil && s.Band != "" {
		grid, _ = s.Heatmap.Grid(s.Band)
	}

	var body string
	if grid == nil {
		body = styles.CardStyle.Render(
			styles.HelpStyle.Render("No scan data available. Press 's' to scan."),
		)
	} else {
		body = styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(
				fmt.Sprintf("Channel Heatmap (%s GHz) - Last %d days", s.Band, store.HeatmapDays)),
			renderGrid(grid, s.HeatmapAsOf),
		))
	}

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left,
		tabBar,
		body,
		renderLegend(),
		renderScanInfo(s, props.SpinnerView),
		RenderHelpBar(state.PageHeatmap),
	))
}

// renderGrid draws one row per calendar date, newest first, with a glyph
// column per channel. Each glyph is the daily mean of the hour cells that
// a scan actually covered.
func renderGrid(grid *store.BandGrid, asOf time.Time) string {
	header := "      "
	for _, ch := range grid.Channels {
		header += fmt.Sprintf("%3d", ch)
	}
	rows := []string{lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Render(header)}

	for i := 0; i < store.HeatmapDays; i++ {
		date := asOf.AddDate(0, 0, -i)
		row := styles.HelpStyle.Render(date.Format("01/02"))
		dayStart := int(date.Weekday()) * 24
		for chIdx := range grid.Channels {
			cell := dayCell(grid.Cells[chIdx][dayStart : dayStart+24])
			glyph, style := GlyphForCell(cell)
			row += "  " + style.Render(glyph)
		}
		rows = append(rows, row)
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// dayCell folds one channel's 24 hour slots for a date into one cell.
func dayCell(hours []store.Cell) store.Cell {
	var sum float64
	var n int
	for _, h := range hours {
		if !h.HasData {
			continue
		}
		sum += h.Score
		n++
	}
	if n == 0 {
		return store.Cell{}
	}
	return store.Cell{Score: sum / float64(n), HasData: true}
}

func renderLegend() string {
	dim := styles.HelpStyle
	return " " + dim.Render("Legend: ") +
		styles.CellNoData.Render("░") + dim.Render(" none  ") +
		styles.CellClear.Render("░") + dim.Render(" clear  ") +
		styles.CellLight.Render("▒") + dim.Render(" light  ") +
		styles.CellModerate.Render("▓") + dim.Render(" moderate  ") +
		styles.CellCongested.Render("█") + dim.Render(" congested")
}

func renderScanInfo(s state.AppState, spinnerView string) string {
	if s.Scanning {
		return fmt.Sprintf(" %s scanning %s GHz...", spinnerView, bandLabel(s.Band))
	}
	if !s.HasScan {
		return styles.HelpStyle.Render("No scan data")
	}
	return styles.HelpStyle.Render(fmt.Sprintf("Last scan: %s", AgoLabel(time.Since(s.LastScan))))
}

func bandLabel(b scan.Band) string {
	if b == "" {
		return "all"
	}
	return string(b)
}
