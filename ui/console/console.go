package console

import (
	"fmt"
	"io"
	"strings"

	"wifimon/internal/collector"
	"wifimon/internal/engine"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// Print renders one link snapshot to the writer in a compact format.
func Print(w io.Writer, iface string, link collector.LinkStats, ok bool, results []engine.CheckResult) {
	fmt.Fprintf(w, "%s%s %s%s\n", colorCyan, "■", "WIFIMON REPORT // "+iface, colorReset)

	fmt.Fprintf(w, "%s%s%s\n", colorCyan, "─ Link", colorReset)
	if !ok || !link.Connected {
		fmt.Fprintf(w, "  %snot connected%s\n", colorRed, colorReset)
	} else {
		printRow(w, "SSID", link.SSID)
		printRow(w, "BSSID", link.BSSID)
		printRow(w, "Channel", fmt.Sprintf("%d (%s GHz)", link.Channel, link.Band))
		if link.SignalValid {
			printRow(w, "Signal", fmt.Sprintf("%.0f dBm", link.SignalDBM))
		}
		if link.WidthMHz > 0 {
			printRow(w, "Width", fmt.Sprintf("%d MHz", link.WidthMHz))
		}
		if link.RxBitrateMbps > 0 || link.TxBitrateMbps > 0 {
			printRow(w, "Bitrate", fmt.Sprintf("%.0f/%.0f Mbit/s", link.RxBitrateMbps, link.TxBitrateMbps))
		}
		if link.RatesValid {
			printRow(w, "Throughput", fmt.Sprintf("%.0f/%.0f B/s", link.RxBytesPerSec, link.TxBytesPerSec))
		}
	}

	if len(results) > 0 {
		fmt.Fprintf(w, "%s%s%s\n", colorCyan, "─ Checks", colorReset)
		for _, res := range results {
			printRow(w, res.Name, fmt.Sprintf("%.1f%s", res.Value, statusMarker(res.Status)))
		}
	}
	fmt.Fprintln(w)
}

func printRow(w io.Writer, label, value string) {
	if len(label) > 20 {
		label = label[:17] + "..."
	}
	dots := strings.Repeat("·", 22-len(label))
	fmt.Fprintf(w, "  %s%s %14s\n", label, colorCyan+dots+colorReset, value)
}

func statusMarker(status string) string {
	switch status {
	case "WARN":
		return fmt.Sprintf(" %s!%s", colorYellow, colorReset)
	case "CRIT":
		return fmt.Sprintf(" %sX%s", colorRed, colorReset)
	case "OK":
		return fmt.Sprintf(" %s✓%s", colorGreen, colorReset)
	default:
		return ""
	}
}
