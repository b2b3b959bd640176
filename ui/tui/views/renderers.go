package views

import (
	"wifimon/ui/tui/state"
)

func RenderLive(s state.AppState, props ViewProps) string {
	v := LiveView{}
	return v.Render(s, props)
}

func RenderHeatmap(s state.AppState, props ViewProps) string {
	v := HeatmapView{}
	return v.Render(s, props)
}
