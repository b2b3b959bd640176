package views

import (
	"wifimon/ui/tui/state"
)

// HostChart pairs a monitored host with its rendered latency chart.
type HostChart struct {
	ID    string
	Chart string
}

// ViewProps contains UI-specific properties provided by the Controller.
type ViewProps struct {
	Width, Height  int
	MouseX, MouseY int

	// Component States
	TabCursor   int
	AnimCursor  float64
	SpinnerView string
	SignalChart string
	RxChart     string
	TxChart     string
	HostCharts  []HostChart
	AddingHost  bool
	InputView   string
}

// View defines the contract for any renderable page in the TUI.
type View interface {
	Render(s state.AppState, props ViewProps) string
}
