package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"wifimon/internal/collector"
	"wifimon/internal/store"
)

// ScanScheduler runs the channel survey pipeline: Scanner -> DailyStore.
// The first scan fires immediately on Start, then one scan per interval.
type ScanScheduler struct {
	scanner  collector.ScanProvider
	store    *store.DailyStore
	agg      *store.Aggregator
	clock    Clock
	interval time.Duration
	timeout  time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	wg      sync.WaitGroup

	scanning atomic.Bool
	lastScan atomic.Int64 // unix seconds of last committed scan, 0 if none
}

// NewScanScheduler creates a new scheduler instance.
func NewScanScheduler(
	s collector.ScanProvider,
	st *store.DailyStore,
	agg *store.Aggregator,
	clock Clock,
	cfg collector.Config,
	logger *log.Logger,
) (*ScanScheduler, error) {
	if s == nil || st == nil || agg == nil {
		return nil, errors.New("scanner, store, and aggregator are required")
	}
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ScanScheduler{
		scanner:  s,
		store:    st,
		agg:      agg,
		clock:    clock,
		interval: cfg.ScanInterval,
		timeout:  cfg.ScanTimeout,
		logger:   logger,
	}, nil
}

// Start begins the periodic scan loop, running the first scan right away.
func (w *ScanScheduler) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("scheduler already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.wg.Add(1)
	w.mu.Unlock()

	go w.loop(ctx)
	return nil
}

// Stop gracefully stops the scheduler and waits for an in-flight scan.
func (w *ScanScheduler) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.running = false
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

// ScanOnce executes a single scan cycle immediately.
func (w *ScanScheduler) ScanOnce(ctx context.Context) error {
	return w.execute(ctx)
}

// Scanning reports whether a scan cycle is currently in flight.
func (w *ScanScheduler) Scanning() bool { return w.scanning.Load() }

// LastScan returns the time of the last scan that committed at least one
// band, and false if no scan has committed since startup.
func (w *ScanScheduler) LastScan() (time.Time, bool) {
	sec := w.lastScan.Load()
	if sec == 0 {
		return time.Time{}, false
	}
	return time.Unix(sec, 0), true
}

func (w *ScanScheduler) loop(ctx context.Context) {
	defer w.wg.Done()

	if err := w.execute(ctx); err != nil {
		w.logger.Printf("initial scan failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.execute(ctx); err != nil {
				w.logger.Printf("scan cycle failed: %v", err)
			}
		}
	}
}

func (w *ScanScheduler) execute(ctx context.Context) error {
	w.scanning.Store(true)
	defer w.scanning.Store(false)

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	scans, err := w.scanner.ScanChannels(ctx)
	if err != nil {
		// A failed scan leaves the hour absent; it is never recorded as zero.
		return fmt.Errorf("channel scan: %w", err)
	}

	now := w.clock.Now()
	committed := false
	for _, bs := range scans {
		if err := w.store.RecordHour(now, bs.Band, bs.Entries); err != nil {
			w.logger.Printf("persist %s GHz scan for hour %d: %v", bs.Band, now.Hour(), err)
			continue
		}
		committed = true
	}
	if committed {
		w.lastScan.Store(now.Unix())
		w.agg.Invalidate()
	}
	return nil
}
