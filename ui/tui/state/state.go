package state

import (
	"time"

	"wifimon/internal/collector"
	"wifimon/internal/engine"
	"wifimon/internal/scan"
	"wifimon/internal/store"
	"wifimon/internal/telemetry"
)

type Page int

const (
	PageLive    Page = iota // signal / latency / throughput charts
	PageHeatmap             // channel congestion grid
)

// AppState holds the current snapshot of the link
type AppState struct {
	Iface       string
	Frame       telemetry.Frame
	Link        collector.LinkStats
	LinkOK      bool
	Results     []engine.CheckResult
	Heatmap     *store.Heatmap
	HeatmapAsOf time.Time
	Band        scan.Band // "" until auto-detected or selected
	Scanning    bool
	LastScan    time.Time
	HasScan     bool
	LastUpdate  time.Time
	Err         error
	CurrentPage Page
}
