package views

import (
	"fmt"
	"time"

	"wifimon/ui/tui/state"
	"wifimon/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

type LiveView struct{}

func (v LiveView) Render(s state.AppState, props ViewProps) string {
	if s.Err != nil {
		return fmt.Sprintf("Error: %v", s.Err)
	}

	tabBar := RenderTabBar(state.PageLive, props.AnimCursor)
	header := renderLinkHeader(s, props.SpinnerView)

	signalCard := styles.CardStyle.Render(props.SignalChart)

	var hostCards []string
	for _, hc := range props.HostCharts {
		hostCards = append(hostCards, styles.CardStyle.Render(hc.Chart))
	}
	latencyRow := lipgloss.JoinVertical(lipgloss.Left, hostCards...)

	ratesCard := styles.CardStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Top, props.RxChart, "   ", props.TxChart),
	)

	statusLine := renderStatusLine(s)
	checksLine := renderChecks(s)

	body := lipgloss.JoinVertical(lipgloss.Left,
		tabBar,
		header,
		signalCard,
		latencyRow,
		ratesCard,
		statusLine,
		checksLine,
		RenderHelpBar(state.PageLive),
	)

	if props.AddingHost {
		prompt := styles.CardStyle.Render(
			lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Bold(true).Render("Add ping host"),
				props.InputView,
				styles.HelpStyle.Render("[enter] add • [esc] cancel"),
			),
		)
		body = lipgloss.JoinVertical(lipgloss.Left, body, prompt)
	}

	return zone.Scan(body)
}

func renderLinkHeader(s state.AppState, spinnerView string) string {
	title := styles.TitleStyle.Render(fmt.Sprintf("wifimon // %s", s.Iface))

	link := "disconnected"
	if s.LinkOK && s.Link.Connected {
		link = fmt.Sprintf("%s (%s)  ch %d @ %s GHz", s.Link.SSID, s.Link.BSSID, s.Link.Channel, s.Link.Band)
		if s.Link.WidthMHz > 0 {
			link += fmt.Sprintf("  %d MHz", s.Link.WidthMHz)
		}
		if s.Link.RxBitrateMbps > 0 || s.Link.TxBitrateMbps > 0 {
			link += fmt.Sprintf("  %.0f/%.0f Mbit/s", s.Link.RxBitrateMbps, s.Link.TxBitrateMbps)
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Left,
		spinnerView,
		title,
		link,
		fmt.Sprintf("  Last Update: %s", s.LastUpdate.Format("15:04:05")),
	)
}

func renderStatusLine(s state.AppState) string {
	line := fmt.Sprintf(" window: %s", ZoomLabel(s.Frame.Zoom))
	if s.Frame.Paused {
		frozen := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")).
			Render(fmt.Sprintf("PAUSED @ %s", s.Frame.To.Format(time.Kitchen)))
		line += "  " + frozen
	}
	return line
}

func renderChecks(s state.AppState) string {
	parts := " "
	for _, res := range s.Results {
		parts += fmt.Sprintf("%s %s  ", res.Name, ColorForStatus(res.Status).Render(res.Status))
	}
	return parts
}
