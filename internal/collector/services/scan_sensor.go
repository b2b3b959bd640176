package services

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"wifimon/internal/scan"
)

var (
	reBSS        = regexp.MustCompile(`^BSS ([0-9a-fA-F:]+)`)
	reScanFreq   = regexp.MustCompile(`^freq: ([\d.]+)`)
	reScanSignal = regexp.MustCompile(`^signal: (-?[\d.]+) dBm`)
	reDSChannel  = regexp.MustCompile(`^DS Parameter set: channel (\d+)`)
	reScanSSID   = regexp.MustCompile(`^SSID: (.+)`)
)

// ScanSensor reads the kernel's cached channel scan results via
// `iw dev <iface> scan dump`, optionally asking the network manager to
// refresh the cache first. Reading the dump does not require root.
type ScanSensor struct {
	iface   string
	refresh bool
	settle  time.Duration
}

func NewScanSensor(iface string, refresh bool, settle time.Duration) *ScanSensor {
	return &ScanSensor{iface: iface, refresh: refresh, settle: settle}
}

func (s *ScanSensor) Name() string {
	return "Scan"
}

func (s *ScanSensor) Connect(ctx context.Context) error {
	return nil
}

func (s *ScanSensor) Disconnect(ctx context.Context) error {
	return nil
}

func (s *ScanSensor) Collect(ctx context.Context) (any, error) {
	if s.refresh {
		// Best effort: the dump below still works on a stale cache.
		_ = exec.CommandContext(ctx, "nmcli", "device", "wifi", "rescan").Run()
		select {
		case <-time.After(s.settle):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	out, err := exec.CommandContext(ctx, "iw", "dev", s.iface, "scan", "dump").Output()
	if err != nil {
		return nil, fmt.Errorf("iw dev %s scan dump: %w", s.iface, err)
	}
	return GroupByBand(ParseScanDump(string(out))), nil
}

type bssState struct {
	seen      bool
	own       bool
	channel   int
	freqMHz   int
	signalDBM float64
	hasSignal bool
	ssid      string
}

func (b *bssState) entry() (scan.Entry, bool) {
	if !b.seen || !b.hasSignal {
		return scan.Entry{}, false
	}
	ch := b.channel
	if ch == 0 {
		mapped, ok := scan.FreqToChannel(b.freqMHz)
		if !ok {
			return scan.Entry{}, false
		}
		ch = mapped
	}
	return scan.Entry{
		Channel:      ch,
		SignalDBM:    b.signalDBM,
		OwnInterface: b.own,
		SSID:         b.ssid,
	}, true
}

// ParseScanDump extracts one entry per BSS from `iw scan dump` output.
// Channel comes from the DS Parameter set when present, else from the
// frequency; a BSS without a usable channel or signal level is skipped.
// The BSS the interface is associated with is flagged as own.
func ParseScanDump(out string) []scan.Entry {
	var entries []scan.Entry
	var cur bssState

	flush := func() {
		if e, ok := cur.entry(); ok {
			entries = append(entries, e)
		}
		cur = bssState{}
	}

	for _, raw := range strings.Split(out, "\n") {
		line := strings.TrimSpace(raw)

		if m := reBSS.FindStringSubmatch(line); m != nil {
			flush()
			cur.seen = true
			cur.own = strings.Contains(line, "associated")
			continue
		}
		if m := reScanFreq.FindStringSubmatch(line); m != nil {
			if f, err := strconv.ParseFloat(m[1], 64); err == nil {
				cur.freqMHz = int(f)
			}
			continue
		}
		if m := reScanSignal.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				cur.signalDBM = v
				cur.hasSignal = true
			}
			continue
		}
		if m := reDSChannel.FindStringSubmatch(line); m != nil {
			cur.channel, _ = strconv.Atoi(m[1])
			continue
		}
		if m := reScanSSID.FindStringSubmatch(line); m != nil {
			cur.ssid = strings.TrimSpace(m[1])
			continue
		}
	}
	flush()
	return entries
}

// GroupByBand splits scan entries into per-band result sets, 2.4GHz
// first. Bands with no observed entries are omitted entirely so the
// aggregator never sees an empty band.
func GroupByBand(entries []scan.Entry) []scan.BandScan {
	var low, high []scan.Entry
	for _, e := range entries {
		if e.Channel <= 14 {
			low = append(low, e)
		} else {
			high = append(high, e)
		}
	}

	var out []scan.BandScan
	if len(low) > 0 {
		out = append(out, scan.BandScan{Band: scan.Band24, Entries: low})
	}
	if len(high) > 0 {
		out = append(out, scan.BandScan{Band: scan.Band5, Entries: high})
	}
	return out
}
