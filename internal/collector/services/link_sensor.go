package services

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// LinkResult is one reading of `iw dev <iface> link`.
type LinkResult struct {
	Connected     bool
	BSSID         string
	SSID          string
	FreqMHz       int
	SignalDBM     float64
	SignalValid   bool
	RxBitrateMbps float64
	TxBitrateMbps float64
	WidthMHz      int
}

var (
	reConnected = regexp.MustCompile(`^Connected to ([0-9a-fA-F:]+)`)
	reSSID      = regexp.MustCompile(`^SSID: (.+)`)
	reFreq      = regexp.MustCompile(`^freq: ([\d.]+)`)
	reSignal    = regexp.MustCompile(`^signal: (-?\d+) dBm`)
	reRxBitrate = regexp.MustCompile(`^rx bitrate: ([\d.]+) MBit/s(?:.*?(\d+)MHz)?`)
	reTxBitrate = regexp.MustCompile(`^tx bitrate: ([\d.]+) MBit/s(?:.*?(\d+)MHz)?`)
)

// LinkSensor reads the current wireless link state for one interface.
type LinkSensor struct {
	iface string
}

func NewLinkSensor(iface string) *LinkSensor {
	return &LinkSensor{iface: iface}
}

func (s *LinkSensor) Name() string {
	return "Link"
}

func (s *LinkSensor) Connect(ctx context.Context) error {
	return nil
}

func (s *LinkSensor) Disconnect(ctx context.Context) error {
	return nil
}

func (s *LinkSensor) Collect(ctx context.Context) (any, error) {
	out, err := exec.CommandContext(ctx, "iw", "dev", s.iface, "link").Output()
	if err != nil {
		return nil, fmt.Errorf("iw dev %s link: %w", s.iface, err)
	}
	return ParseLinkOutput(string(out)), nil
}

// ParseLinkOutput extracts the link state from `iw dev <iface> link`
// output. A "Not connected." reading yields Connected=false; individual
// fields missing from the output are left at their zero values.
func ParseLinkOutput(out string) LinkResult {
	var res LinkResult

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)

		if m := reConnected.FindStringSubmatch(line); m != nil {
			res.Connected = true
			res.BSSID = strings.ToLower(m[1])
			continue
		}
		if m := reSSID.FindStringSubmatch(line); m != nil {
			res.SSID = strings.TrimSpace(m[1])
			continue
		}
		if m := reFreq.FindStringSubmatch(line); m != nil {
			if f, err := strconv.ParseFloat(m[1], 64); err == nil {
				res.FreqMHz = int(f)
			}
			continue
		}
		if m := reSignal.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				res.SignalDBM = v
				res.SignalValid = true
			}
			continue
		}
		if m := reRxBitrate.FindStringSubmatch(line); m != nil {
			res.RxBitrateMbps, _ = strconv.ParseFloat(m[1], 64)
			if m[2] != "" {
				res.WidthMHz, _ = strconv.Atoi(m[2])
			}
			continue
		}
		if m := reTxBitrate.FindStringSubmatch(line); m != nil {
			res.TxBitrateMbps, _ = strconv.ParseFloat(m[1], 64)
			if m[2] != "" && res.WidthMHz == 0 {
				res.WidthMHz, _ = strconv.Atoi(m[2])
			}
			continue
		}
	}
	return res
}
