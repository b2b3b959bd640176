package scheduler

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"wifimon/internal/collector"
	"wifimon/internal/telemetry"
)

// Sampler drives the per-second telemetry loop: one link sample plus one
// ping per monitored host on every tick. Samples keep flowing into the
// buffers regardless of whether the view is paused.
type Sampler struct {
	metrics collector.MetricProvider
	pinger  collector.Pinger
	clock   Clock

	signal   *telemetry.SampleBuffer
	rx       *telemetry.SampleBuffer
	tx       *telemetry.SampleBuffer
	hosts    *telemetry.HostRegistry
	interval time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	wg      sync.WaitGroup

	linkMu   sync.Mutex
	lastLink collector.LinkStats
	linkOK   bool
}

// NewSampler creates a new sampler instance.
func NewSampler(
	m collector.MetricProvider,
	p collector.Pinger,
	signal, rx, tx *telemetry.SampleBuffer,
	hosts *telemetry.HostRegistry,
	clock Clock,
	cfg collector.Config,
	logger *log.Logger,
) (*Sampler, error) {
	if m == nil || p == nil {
		return nil, errors.New("metric provider and pinger are required")
	}
	if signal == nil || rx == nil || tx == nil || hosts == nil {
		return nil, errors.New("sample buffers and host registry are required")
	}
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Sampler{
		metrics:  m,
		pinger:   p,
		clock:    clock,
		signal:   signal,
		rx:       rx,
		tx:       tx,
		hosts:    hosts,
		interval: cfg.SampleInterval,
		logger:   logger,
	}, nil
}

// Start begins the periodic sampling loop.
func (w *Sampler) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("sampler already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.wg.Add(1)
	w.mu.Unlock()

	go w.loop(ctx)
	return nil
}

// Stop gracefully stops the sampler.
func (w *Sampler) Stop() {
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

// SampleOnce executes a single sampling cycle immediately.
func (w *Sampler) SampleOnce(ctx context.Context) {
	w.execute(ctx)
}

// LastLink returns the most recent successful link sample, and false if
// the link has never been sampled successfully.
func (w *Sampler) LastLink() (collector.LinkStats, bool) {
	w.linkMu.Lock()
	defer w.linkMu.Unlock()
	return w.lastLink, w.linkOK
}

func (w *Sampler) loop(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.execute(ctx)
		}
	}
}

func (w *Sampler) execute(ctx context.Context) {
	now := w.clock.Now()

	stats, err := w.metrics.SampleLink(ctx)
	if err != nil {
		// An unavailable link still produces a tick: missing samples keep
		// the time axis honest instead of stretching the last good value.
		w.push(w.signal, telemetry.Missing(now))
		w.push(w.rx, telemetry.Missing(now))
		w.push(w.tx, telemetry.Missing(now))
	} else {
		w.linkMu.Lock()
		w.lastLink = stats
		w.linkOK = true
		w.linkMu.Unlock()

		if stats.SignalValid {
			w.push(w.signal, telemetry.At(now, stats.SignalDBM))
		} else {
			w.push(w.signal, telemetry.Missing(now))
		}
		if stats.RatesValid {
			w.push(w.rx, telemetry.At(now, stats.RxBytesPerSec))
			w.push(w.tx, telemetry.At(now, stats.TxBytesPerSec))
		} else {
			w.push(w.rx, telemetry.Missing(now))
			w.push(w.tx, telemetry.Missing(now))
		}
	}

	w.pingHosts(ctx, now)
}

func (w *Sampler) pingHosts(ctx context.Context, now time.Time) {
	ids := w.hosts.Hosts()
	if len(ids) == 0 {
		return
	}

	var pg sync.WaitGroup
	for _, id := range ids {
		pg.Add(1)
		go func(host string) {
			defer pg.Done()
			sample := telemetry.Missing(now)
			if rtt, err := w.pinger.Ping(ctx, host); err == nil {
				sample = telemetry.At(now, float64(rtt)/float64(time.Millisecond))
			}
			// The host may have been removed while the ping was in flight.
			if err := w.hosts.Record(host, sample); err != nil && !errors.Is(err, telemetry.ErrUnknownHost) {
				w.logger.Printf("record latency for %s: %v", host, err)
			}
		}(id)
	}
	pg.Wait()
}

func (w *Sampler) push(buf *telemetry.SampleBuffer, s telemetry.Sample) {
	if err := buf.Push(s); err != nil {
		w.logger.Printf("drop sample at %s: %v", s.Time.Format(time.RFC3339), err)
	}
}
