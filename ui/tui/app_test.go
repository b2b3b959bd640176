package tui

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"wifimon/internal/collector"
	"wifimon/internal/scan"
	"wifimon/internal/scheduler"
	"wifimon/internal/store"
	"wifimon/internal/telemetry"
	"wifimon/ui/tui/state"

	tea "github.com/charmbracelet/bubbletea"
)

// Mock providers for testing
type mockMetrics struct{}

func (mockMetrics) SampleLink(ctx context.Context) (collector.LinkStats, error) {
	return collector.LinkStats{Connected: true, SignalDBM: -55, SignalValid: true}, nil
}

type mockPinger struct{}

func (mockPinger) Ping(ctx context.Context, host string) (time.Duration, error) {
	return 5 * time.Millisecond, nil
}

type mockScanner struct{}

func (mockScanner) ScanChannels(ctx context.Context) ([]scan.BandScan, error) {
	return []scan.BandScan{
		{Band: scan.Band24, Entries: []scan.Entry{{Channel: 6, SignalDBM: -50}}},
	}, nil
}

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	cfg := collector.DefaultConfig()

	signal := telemetry.NewSampleBuffer(telemetry.MaxZoom)
	rx := telemetry.NewSampleBuffer(telemetry.MaxZoom)
	tx := telemetry.NewSampleBuffer(telemetry.MaxZoom)
	hosts := telemetry.NewHostRegistry(telemetry.MaxZoom)

	st := store.NewDailyStore(t.TempDir(), logger)
	agg := store.NewAggregator(st, nil, logger)

	sampler, err := scheduler.NewSampler(mockMetrics{}, mockPinger{}, signal, rx, tx, hosts, nil, cfg, logger)
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}
	sched, err := scheduler.NewScanScheduler(mockScanner{}, st, agg, nil, cfg, logger)
	if err != nil {
		t.Fatalf("NewScanScheduler: %v", err)
	}

	return Deps{
		Iface:      "wlan0",
		Window:     telemetry.NewLiveWindow(signal, rx, tx, hosts),
		Hosts:      hosts,
		Sampler:    sampler,
		Scheduler:  sched,
		Aggregator: agg,
		Store:      st,
	}
}

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: false}
}

func TestPageTransition(t *testing.T) {
	model := InitialModel(newTestDeps(t))

	if model.state.CurrentPage != state.PageLive {
		t.Errorf("Expected initial page PageLive, got %v", model.state.CurrentPage)
	}

	updatedModel, _ := model.Update(keyMsg('h'))
	m := updatedModel.(*MainModel)
	if m.state.CurrentPage != state.PageHeatmap {
		t.Errorf("Expected page to change to PageHeatmap, got %v", m.state.CurrentPage)
	}

	updatedModel, _ = m.Update(keyMsg('l'))
	m = updatedModel.(*MainModel)
	if m.state.CurrentPage != state.PageLive {
		t.Errorf("Expected page to change back to PageLive, got %v", m.state.CurrentPage)
	}
}

func TestZoomKeys(t *testing.T) {
	deps := newTestDeps(t)
	model := InitialModel(deps)

	if got := deps.Window.Zoom(); got != telemetry.ZoomLevels[0] {
		t.Fatalf("Expected initial zoom %v, got %v", telemetry.ZoomLevels[0], got)
	}

	// Already at the narrowest span, zooming in saturates
	updatedModel, _ := model.Update(keyMsg('+'))
	m := updatedModel.(*MainModel)
	if got := deps.Window.Zoom(); got != telemetry.ZoomLevels[0] {
		t.Errorf("Expected zoom to stay %v, got %v", telemetry.ZoomLevels[0], got)
	}

	updatedModel, _ = m.Update(keyMsg('-'))
	m = updatedModel.(*MainModel)
	if got := deps.Window.Zoom(); got != telemetry.ZoomLevels[1] {
		t.Errorf("Expected zoom %v after '-', got %v", telemetry.ZoomLevels[1], got)
	}

	updatedModel, _ = m.Update(keyMsg('+'))
	_ = updatedModel.(*MainModel)
	if got := deps.Window.Zoom(); got != telemetry.ZoomLevels[0] {
		t.Errorf("Expected zoom %v after '+', got %v", telemetry.ZoomLevels[0], got)
	}
}

func TestPauseKey(t *testing.T) {
	deps := newTestDeps(t)
	model := InitialModel(deps)

	updatedModel, _ := model.Update(keyMsg('p'))
	m := updatedModel.(*MainModel)
	if !deps.Window.Paused() {
		t.Error("Expected window paused after 'p'")
	}

	updatedModel, _ = m.Update(keyMsg('p'))
	_ = updatedModel.(*MainModel)
	if deps.Window.Paused() {
		t.Error("Expected window live after second 'p'")
	}
}

func TestBandSelectionKeys(t *testing.T) {
	model := InitialModel(newTestDeps(t))
	model.navigateTo(1)

	updatedModel, _ := model.Update(keyMsg('5'))
	m := updatedModel.(*MainModel)
	if m.state.Band != scan.Band5 {
		t.Errorf("Expected band 5 after '5', got %q", m.state.Band)
	}

	updatedModel, _ = m.Update(keyMsg('2'))
	m = updatedModel.(*MainModel)
	if m.state.Band != scan.Band24 {
		t.Errorf("Expected band 2.4 after '2', got %q", m.state.Band)
	}
}

func TestAddHostFlow(t *testing.T) {
	deps := newTestDeps(t)
	model := InitialModel(deps)

	updatedModel, _ := model.Update(keyMsg('a'))
	m := updatedModel.(*MainModel)
	if !m.addingHost {
		t.Fatal("Expected host input mode after 'a'")
	}

	// 'q' must be typed into the input, not quit the program
	updatedModel, cmd := m.Update(keyMsg('q'))
	m = updatedModel.(*MainModel)
	if m.quitting {
		t.Fatal("Expected 'q' to be captured by the host input")
	}
	_ = cmd

	for _, r := range "uad1" {
		updatedModel, _ = m.Update(keyMsg(r))
		m = updatedModel.(*MainModel)
	}

	updatedModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updatedModel.(*MainModel)
	if m.addingHost {
		t.Error("Expected host input mode to close on enter")
	}

	hosts := deps.Hosts.Hosts()
	if len(hosts) != 1 || hosts[0] != "quad1" {
		t.Errorf("Expected registry to hold [quad1], got %v", hosts)
	}
}

func TestTabAnimationLogic(t *testing.T) {
	model := InitialModel(newTestDeps(t))
	model.tabCursor = 1

	if model.animCursor != 0 {
		t.Errorf("Expected initial animCursor 0, got %f", model.animCursor)
	}

	// The spring physics should move animCursor towards tabCursor (1.0)
	animateMsg := AnimateMsg(time.Now())
	updatedModel, _ := model.Update(animateMsg)
	m := updatedModel.(*MainModel)

	if m.animCursor <= 0 {
		t.Errorf("Expected animCursor to increase after animation frame, got %f", m.animCursor)
	}
	if m.animCursor >= 1.0 {
		t.Errorf("Expected animCursor to not reach target immediately, got %f", m.animCursor)
	}

	updatedModel, _ = m.Update(animateMsg)
	m = updatedModel.(*MainModel)
	prevCursor := m.animCursor

	updatedModel, _ = m.Update(animateMsg)
	m = updatedModel.(*MainModel)

	if m.animCursor <= prevCursor {
		t.Errorf("Expected animCursor to continue increasing, got %f (prev %f)", m.animCursor, prevCursor)
	}
}
