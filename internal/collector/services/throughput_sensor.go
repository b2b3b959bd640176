package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	gnet "github.com/shirou/gopsutil/v4/net"
)

// ThroughputResult is the interface byte rate since the previous
// collection. Valid is false for the first reading (no delta yet) and
// after a counter reset.
type ThroughputResult struct {
	RxBytesPerSec float64
	TxBytesPerSec float64
	Valid         bool
}

// ThroughputSensor derives receive/transmit byte rates for one interface
// from the kernel's cumulative IO counters.
type ThroughputSensor struct {
	iface string

	mu     sync.Mutex
	primed bool
	lastAt time.Time
	lastRx uint64
	lastTx uint64
}

func NewThroughputSensor(iface string) *ThroughputSensor {
	return &ThroughputSensor{iface: iface}
}

func (s *ThroughputSensor) Name() string {
	return "Throughput"
}

func (s *ThroughputSensor) Connect(ctx context.Context) error {
	return nil
}

func (s *ThroughputSensor) Disconnect(ctx context.Context) error {
	return nil
}

func (s *ThroughputSensor) Collect(ctx context.Context) (any, error) {
	counters, err := gnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("net io counters: %w", err)
	}
	for _, c := range counters {
		if c.Name == s.iface {
			return s.rates(time.Now(), c.BytesRecv, c.BytesSent), nil
		}
	}
	return nil, fmt.Errorf("interface %s not found in io counters", s.iface)
}

func (s *ThroughputSensor) rates(now time.Time, rx, tx uint64) ThroughputResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevAt, prevRx, prevTx, primed := s.lastAt, s.lastRx, s.lastTx, s.primed
	s.lastAt, s.lastRx, s.lastTx, s.primed = now, rx, tx, true

	elapsed := now.Sub(prevAt).Seconds()
	if !primed || elapsed <= 0 || rx < prevRx || tx < prevTx {
		// First reading, or the counters wrapped (interface bounce).
		return ThroughputResult{}
	}
	return ThroughputResult{
		RxBytesPerSec: float64(rx-prevRx) / elapsed,
		TxBytesPerSec: float64(tx-prevTx) / elapsed,
		Valid:         true,
	}
}
