package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"wifimon/internal/collector/services"
	"wifimon/internal/scan"
)

// ErrUnavailable reports that an external tool could not produce a
// sample this cycle. Recorded as an absent data point, never fatal.
var ErrUnavailable = errors.New("collector unavailable")

// ErrPingTimeout mirrors the sensor-level timeout so callers only need
// this package's errors.
var ErrPingTimeout = services.ErrPingTimeout

// LinkStats is one foreground sample of the wireless link.
type LinkStats struct {
	Connected bool
	SSID      string
	BSSID     string
	FreqMHz   int
	Channel   int
	Band      scan.Band

	SignalDBM   float64
	SignalValid bool

	// Interface throughput derived from kernel byte counters.
	RxBytesPerSec float64
	TxBytesPerSec float64
	RatesValid    bool

	// PHY bitrates as reported by the driver, for the header line.
	RxBitrateMbps float64
	TxBitrateMbps float64
	WidthMHz      int
}

// MetricProvider samples the live link metrics.
type MetricProvider interface {
	SampleLink(ctx context.Context) (LinkStats, error)
}

// Pinger measures round-trip latency to one host.
type Pinger interface {
	Ping(ctx context.Context, host string) (time.Duration, error)
}

// ScanProvider runs one discrete channel scan and returns the observed
// access points grouped per band.
type ScanProvider interface {
	ScanChannels(ctx context.Context) ([]scan.BandScan, error)
}

// LinkCollector implements all three collaborator contracts for a single
// wireless interface by shelling out to iw/ping and reading kernel IO
// counters.
type LinkCollector struct {
	cfg        Config
	iface      string
	link       *services.LinkSensor
	throughput *services.ThroughputSensor
	ping       *services.PingSensor
	scanner    *services.ScanSensor
}

func NewLinkCollector(cfg Config, iface string) *LinkCollector {
	return &LinkCollector{
		cfg:        cfg,
		iface:      iface,
		link:       services.NewLinkSensor(iface),
		throughput: services.NewThroughputSensor(iface),
		ping:       services.NewPingSensor(cfg.PingTimeout),
		scanner:    services.NewScanSensor(iface, cfg.RefreshScanCache, cfg.RescanSettle),
	}
}

// Internal result types for concurrency
type linkResult struct {
	stats services.LinkResult
	err   error
}

type throughputResult struct {
	stats services.ThroughputResult
	err   error
}

// SampleLink collects the link state and throughput concurrently under
// the configured timeout.
func (c *LinkCollector) SampleLink(ctx context.Context) (LinkStats, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.LinkSampleTimeout)
	defer cancel()

	linkCh := make(chan linkResult, 1)
	rateCh := make(chan throughputResult, 1)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		res, err := c.link.Collect(ctx)
		if err != nil {
			linkCh <- linkResult{err: err}
			return
		}
		linkCh <- linkResult{stats: res.(services.LinkResult)}
	}()

	go func() {
		defer wg.Done()
		res, err := c.throughput.Collect(ctx)
		if err != nil {
			rateCh <- throughputResult{err: err}
			return
		}
		rateCh <- throughputResult{stats: res.(services.ThroughputResult)}
	}()

	wg.Wait()

	linkRes := <-linkCh
	rateRes := <-rateCh

	if linkRes.err != nil {
		return LinkStats{}, fmt.Errorf("%w: %v", ErrUnavailable, linkRes.err)
	}

	stats := LinkStats{
		Connected:     linkRes.stats.Connected,
		SSID:          linkRes.stats.SSID,
		BSSID:         linkRes.stats.BSSID,
		FreqMHz:       linkRes.stats.FreqMHz,
		SignalDBM:     linkRes.stats.SignalDBM,
		SignalValid:   linkRes.stats.SignalValid,
		RxBitrateMbps: linkRes.stats.RxBitrateMbps,
		TxBitrateMbps: linkRes.stats.TxBitrateMbps,
		WidthMHz:      linkRes.stats.WidthMHz,
	}
	if stats.FreqMHz > 0 {
		stats.Band = scan.BandForFreq(stats.FreqMHz)
		if ch, ok := scan.FreqToChannel(stats.FreqMHz); ok {
			stats.Channel = ch
		}
	}

	// A throughput failure degrades the rate series only; the signal
	// reading is still worth keeping.
	if rateRes.err == nil && rateRes.stats.Valid {
		stats.RxBytesPerSec = rateRes.stats.RxBytesPerSec
		stats.TxBytesPerSec = rateRes.stats.TxBytesPerSec
		stats.RatesValid = true
	}
	return stats, nil
}

// Ping measures one round trip to the host.
func (c *LinkCollector) Ping(ctx context.Context, host string) (time.Duration, error) {
	return c.ping.Ping(ctx, host)
}

// ScanChannels runs one channel scan under the configured timeout.
func (c *LinkCollector) ScanChannels(ctx context.Context) ([]scan.BandScan, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ScanTimeout)
	defer cancel()

	res, err := c.scanner.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return res.([]scan.BandScan), nil
}

// DetectInterfaces lists the machine's wireless interfaces and its
// default gateway, for startup interface selection and the default
// ping target.
func DetectInterfaces(ctx context.Context) (services.IfaceResult, error) {
	res, err := services.NewIfaceSensor().Collect(ctx)
	if err != nil {
		return services.IfaceResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return res.(services.IfaceResult), nil
}
