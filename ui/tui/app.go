package tui

import (
	"context"
	"fmt"
	"time"

	"wifimon/internal/collector"
	"wifimon/internal/engine"
	"wifimon/internal/scan"
	"wifimon/internal/scheduler"
	"wifimon/internal/store"
	"wifimon/internal/telemetry"
	"wifimon/ui/tui/components"
	"wifimon/ui/tui/state"
	"wifimon/ui/tui/views"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

// Deps are the long-lived collaborators the TUI renders from. The workers
// keep filling the buffers and the store on their own schedules; the TUI
// only reads.
type Deps struct {
	Iface      string
	Window     *telemetry.LiveWindow
	Hosts      *telemetry.HostRegistry
	Sampler    *scheduler.Sampler
	Scheduler  *scheduler.ScanScheduler
	Aggregator *store.Aggregator
	Store      *store.DailyStore
}

// MainModel is the Bubble Tea Model acting as the Controller
type MainModel struct {
	deps  Deps
	state state.AppState

	spinner     spinner.Model
	hostInput   textinput.Model
	addingHost  bool
	signalChart *components.ChartWidget
	rxChart     *components.ChartWidget
	txChart     *components.ChartWidget
	hostCharts  map[string]*components.ChartWidget

	tabCursor  int
	animCursor float64
	velocity   float64 // Physics velocity
	spring     harmonica.Spring
	mouseX     int
	mouseY     int
	quitting   bool
	width      int
	height     int
	chartCols  int
}

// Messages
type TickMsg time.Time
type AnimateMsg time.Time
type FrameMsg struct {
	Frame   telemetry.Frame
	Link    collector.LinkStats
	LinkOK  bool
	Results []engine.CheckResult
}
type ScanDoneMsg struct {
	Err error
}
type HeatmapMsg struct {
	Heatmap  *store.Heatmap
	AsOf     time.Time
	LastScan time.Time
	HasScan  bool
}

func InitialModel(deps Deps) MainModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "host or IP"
	ti.CharLimit = 64
	ti.Width = 30

	// Initialize physics spring for smooth tab cursor animation
	spring := harmonica.NewSpring(harmonica.FPS(60), 12.0, 0.9)

	const defaultCols = 70
	return MainModel{
		deps:        deps,
		spinner:     s,
		hostInput:   ti,
		spring:      spring,
		chartCols:   defaultCols,
		signalChart: components.NewChartWidget("Signal", "dBm", defaultCols, 6),
		rxChart:     components.NewChartWidget("RX", "B/s", defaultCols/2-2, 5),
		txChart:     components.NewChartWidget("TX", "B/s", defaultCols/2-2, 5),
		hostCharts:  make(map[string]*components.ChartWidget),
		state: state.AppState{
			Iface:       deps.Iface,
			CurrentPage: state.PageLive,
		},
	}
}

func (m *MainModel) Init() tea.Cmd {
	zone.NewGlobal()
	return tea.Batch(
		m.spinner.Tick,
		tickCmd(),
		animateCmd(),
		m.frameCmd(),
		m.heatmapCmd(),
	)
}

// Commands
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second*1, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animateCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*16, func(t time.Time) tea.Msg {
		return AnimateMsg(t)
	})
}

func (m *MainModel) frameCmd() tea.Cmd {
	window, sampler, cols := m.deps.Window, m.deps.Sampler, m.chartCols
	return func() tea.Msg {
		frame := window.Render(time.Now(), cols)
		link, ok := sampler.LastLink()

		var hosts []engine.HostSample
		for _, hv := range frame.Hosts {
			hs := engine.HostSample{
				ID:                  hv.ID,
				ConsecutiveTimeouts: hv.Liveness.ConsecutiveTimeouts,
			}
			if n := len(hv.Samples); n > 0 && hv.Samples[n-1].Valid {
				hs.LatencyMS = hv.Samples[n-1].Value
				hs.Valid = true
			}
			hosts = append(hosts, hs)
		}

		return FrameMsg{
			Frame:   frame,
			Link:    link,
			LinkOK:  ok,
			Results: engine.Evaluate(link, ok, hosts),
		}
	}
}

func (m *MainModel) scanCmd() tea.Cmd {
	sched := m.deps.Scheduler
	return func() tea.Msg {
		return ScanDoneMsg{Err: sched.ScanOnce(context.Background())}
	}
}

func (m *MainModel) heatmapCmd() tea.Cmd {
	agg, sched, st := m.deps.Aggregator, m.deps.Scheduler, m.deps.Store
	return func() tea.Msg {
		now := time.Now()
		last, has := sched.LastScan()
		if !has {
			// Scans from earlier runs still count for the info line.
			last, has = st.LastScan(now)
		}
		return HeatmapMsg{
			Heatmap:  agg.BuildHeatmap(now),
			AsOf:     now,
			LastScan: last,
			HasScan:  has,
		}
	}
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case AnimateMsg:
		return m.handleAnimateMsg(msg)

	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)

	case TickMsg:
		return m.handleTickMsg(msg)

	case FrameMsg:
		return m.handleFrameMsg(msg)

	case ScanDoneMsg:
		m.state.Scanning = false
		if msg.Err != nil {
			m.state.Err = msg.Err
			return m, nil
		}
		m.state.Err = nil
		return m, m.heatmapCmd()

	case HeatmapMsg:
		return m.handleHeatmapMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	}

	return m, nil
}

func (m *MainModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.addingHost {
		switch msg.String() {
		case "enter":
			host := m.hostInput.Value()
			m.addingHost = false
			m.hostInput.Reset()
			if host != "" {
				if err := m.deps.Hosts.AddHost(host); err != nil {
					m.state.Err = err
				}
			}
			return m, nil
		case "esc":
			m.addingHost = false
			m.hostInput.Reset()
			return m, nil
		}
		var cmd tea.Cmd
		m.hostInput, cmd = m.hostInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	if m.state.CurrentPage == state.PageLive {
		switch msg.String() {
		case "h":
			m.navigateTo(1)
			return m, m.heatmapCmd()
		case "p":
			m.deps.Window.TogglePause(time.Now())
			return m, m.frameCmd()
		case "+", "=":
			m.deps.Window.ZoomIn()
			return m, m.frameCmd()
		case "-":
			m.deps.Window.ZoomOut()
			return m, m.frameCmd()
		case "a":
			m.addingHost = true
			return m, m.hostInput.Focus()
		case "d":
			ids := m.deps.Hosts.Hosts()
			if len(ids) > 0 {
				last := ids[len(ids)-1]
				if err := m.deps.Hosts.RemoveHost(last); err == nil {
					delete(m.hostCharts, last)
				}
			}
			return m, m.frameCmd()
		}
		return m, nil
	}

	// Heatmap page
	switch msg.String() {
	case "l":
		m.navigateTo(0)
	case "2":
		m.state.Band = scan.Band24
	case "5":
		m.state.Band = scan.Band5
	case "s":
		if !m.state.Scanning {
			m.state.Scanning = true
			return m, m.scanCmd()
		}
	}
	return m, nil
}

func (m *MainModel) navigateTo(cursor int) {
	m.tabCursor = cursor
	switch cursor {
	case 0:
		m.state.CurrentPage = state.PageLive
	case 1:
		m.state.CurrentPage = state.PageHeatmap
	}
}

func (m *MainModel) handleAnimateMsg(msg AnimateMsg) (tea.Model, tea.Cmd) {
	var v float64 = m.velocity
	m.animCursor, v = m.spring.Update(m.animCursor, float64(m.tabCursor), v)
	m.velocity = v
	return m, animateCmd()
}

func (m *MainModel) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	cols := msg.Width - 10
	if cols < 20 {
		cols = 20
	}
	m.chartCols = cols
	m.signalChart.Resize(cols, 6)
	m.rxChart.Resize(cols/2-2, 5)
	m.txChart.Resize(cols/2-2, 5)
	for _, hc := range m.hostCharts {
		hc.Resize(cols, 4)
	}
	return m, m.frameCmd()
}

func (m *MainModel) handleTickMsg(msg TickMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.frameCmd(), tickCmd()}
	if m.state.CurrentPage == state.PageHeatmap {
		// Cached by store generation, so per-tick rebuilds are cheap.
		cmds = append(cmds, m.heatmapCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m *MainModel) handleFrameMsg(msg FrameMsg) (tea.Model, tea.Cmd) {
	m.state.Frame = msg.Frame
	m.state.Results = msg.Results
	m.state.LastUpdate = time.Now()
	m.state.Scanning = m.deps.Scheduler.Scanning()

	m.state.Link = msg.Link
	m.state.LinkOK = msg.LinkOK

	m.signalChart.SetColumns(msg.Frame.Signal.Columns)
	m.rxChart.SetColumns(msg.Frame.RxRate.Columns)
	m.txChart.SetColumns(msg.Frame.TxRate.Columns)

	seen := make(map[string]bool, len(msg.Frame.Hosts))
	for _, hv := range msg.Frame.Hosts {
		seen[hv.ID] = true
		hc, ok := m.hostCharts[hv.ID]
		if !ok {
			hc = components.NewChartWidget(hv.ID, "ms", m.chartCols, 4)
			m.hostCharts[hv.ID] = hc
		}
		hc.SetColumns(hv.Columns)
	}
	for id := range m.hostCharts {
		if !seen[id] {
			delete(m.hostCharts, id)
		}
	}

	if m.state.Band == "" && m.state.LinkOK && m.state.Link.Connected {
		m.state.Band = m.state.Link.Band
	}
	return m, nil
}

func (m *MainModel) handleHeatmapMsg(msg HeatmapMsg) (tea.Model, tea.Cmd) {
	m.state.Heatmap = msg.Heatmap
	m.state.HeatmapAsOf = msg.AsOf
	m.state.LastScan = msg.LastScan
	m.state.HasScan = msg.HasScan

	// Auto-detect the band from whatever the store has seen.
	if m.state.Band == "" && len(msg.Heatmap.Bands) > 0 {
		m.state.Band = msg.Heatmap.Bands[0].Band
	}
	return m, nil
}

func (m *MainModel) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.mouseX = msg.X
	m.mouseY = msg.Y

	if msg.Action == tea.MouseActionRelease {
		for i := 0; i <= 1; i++ {
			if zone.Get(fmt.Sprintf("tab_%d", i)).InBounds(msg) {
				m.navigateTo(i)
				if i == 1 {
					return m, m.heatmapCmd()
				}
				return m, nil
			}
		}
	}
	return m, nil
}

func (m *MainModel) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	props := views.ViewProps{
		Width:       m.width,
		Height:      m.height,
		MouseX:      m.mouseX,
		MouseY:      m.mouseY,
		TabCursor:   m.tabCursor,
		AnimCursor:  m.animCursor,
		SpinnerView: m.spinner.View(),
		SignalChart: m.signalChart.View(),
		RxChart:     m.rxChart.View(),
		TxChart:     m.txChart.View(),
		AddingHost:  m.addingHost,
		InputView:   m.hostInput.View(),
	}
	for _, id := range m.deps.Hosts.Hosts() {
		if hc, ok := m.hostCharts[id]; ok {
			props.HostCharts = append(props.HostCharts, views.HostChart{ID: id, Chart: hc.View()})
		}
	}

	switch m.state.CurrentPage {
	case state.PageHeatmap:
		return views.RenderHeatmap(m.state, props)
	default:
		return views.RenderLive(m.state, props)
	}
}

func Start(deps Deps) error {
	m := InitialModel(deps)
	p := tea.NewProgram(
		&m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
