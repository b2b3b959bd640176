package components

import (
	"fmt"

	"wifimon/internal/telemetry"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ChartWidget renders one downsampled metric as a braille line chart.
// Gap columns break the line instead of being interpolated across.
type ChartWidget struct {
	Title   string
	Unit    string
	Columns []telemetry.Column
	Width   int
	Height  int
}

func NewChartWidget(title, unit string, width, height int) *ChartWidget {
	return &ChartWidget{
		Title:  title,
		Unit:   unit,
		Width:  width,
		Height: height,
	}
}

func (c *ChartWidget) Init() tea.Cmd {
	return nil
}

func (c *ChartWidget) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return c, nil
}

func (c *ChartWidget) SetColumns(cols []telemetry.Column) {
	c.Columns = cols
}

func (c *ChartWidget) Resize(w, h int) {
	c.Width = w
	c.Height = h
}

// Latest returns the newest non-gap column value, formatted with the
// widget's unit, or a placeholder when the whole window is gaps.
func (c *ChartWidget) Latest() string {
	for i := len(c.Columns) - 1; i >= 0; i-- {
		if !c.Columns[i].Gap {
			return fmt.Sprintf("%.1f %s", c.Columns[i].Mean, c.Unit)
		}
	}
	return "--"
}

func (c *ChartWidget) yRange() (float64, float64) {
	first := true
	var minY, maxY float64
	for _, col := range c.Columns {
		if col.Gap {
			continue
		}
		if first {
			minY, maxY = col.Mean, col.Mean
			first = false
			continue
		}
		if col.Mean < minY {
			minY = col.Mean
		}
		if col.Mean > maxY {
			maxY = col.Mean
		}
	}
	if first {
		return 0, 1
	}
	if minY == maxY {
		return minY - 1, maxY + 1
	}
	pad := (maxY - minY) * 0.05
	return minY - pad, maxY + pad
}

func (c *ChartWidget) View() string {
	minY, maxY := c.yRange()
	maxX := float64(len(c.Columns))
	if maxX == 0 {
		maxX = 1
	}
	chart := linechart.New(c.Width, c.Height, 0, maxX, minY, maxY)

	for i := 0; i < len(c.Columns)-1; i++ {
		if c.Columns[i].Gap || c.Columns[i+1].Gap {
			continue
		}
		chart.DrawBrailleLine(
			canvas.Float64Point{X: float64(i), Y: c.Columns[i].Mean},
			canvas.Float64Point{X: float64(i + 1), Y: c.Columns[i+1].Mean},
		)
	}
	chart.DrawXYAxisAndLabel()

	title := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("%s  %s", c.Title, c.Latest()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, title, chart.View())
}
