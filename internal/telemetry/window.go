package telemetry

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// ZoomLevels is the fixed ladder of live-view time spans. Zooming moves
// one step along the ladder and saturates at both ends.
var ZoomLevels = []time.Duration{
	10 * time.Minute,
	30 * time.Minute,
	time.Hour,
	4 * time.Hour,
	24 * time.Hour,
}

// MaxZoom is the widest supported span; live buffers must retain at least
// this much history.
const MaxZoom = 24 * time.Hour

type viewState int

const (
	stateLive viewState = iota
	stateFrozen
)

// Column is one display-width bucket of a downsampled metric. Gap columns
// had no valid samples and are rendered as holes, never interpolated.
type Column struct {
	Mean float64
	Gap  bool
}

// MetricView is one metric's slice over the current window plus its
// downsampled per-column summary.
type MetricView struct {
	Samples []Sample
	Columns []Column
}

// HostView is a per-host latency view with liveness metadata.
type HostView struct {
	ID string
	MetricView
	Liveness Liveness
}

// Frame is everything the live view needs for one render pass.
type Frame struct {
	From, To time.Time
	Paused   bool
	Zoom     time.Duration
	Signal   MetricView
	RxRate   MetricView
	TxRate   MetricView
	Hosts    []HostView
}

// LiveWindow computes the per-session view over the live buffers: a zoom
// level selects the span, and pausing freezes the rendered interval while
// the buffers keep receiving samples underneath.
type LiveWindow struct {
	signal *SampleBuffer
	rx     *SampleBuffer
	tx     *SampleBuffer
	hosts  *HostRegistry

	mu       sync.Mutex
	zoom     int
	state    viewState
	frozenAt time.Time
}

// NewLiveWindow builds a window over the given buffers starting at the
// narrowest zoom level, unpaused.
func NewLiveWindow(signal, rx, tx *SampleBuffer, hosts *HostRegistry) *LiveWindow {
	return &LiveWindow{signal: signal, rx: rx, tx: tx, hosts: hosts}
}

// ZoomIn narrows the time span one step, saturating at the narrowest.
func (w *LiveWindow) ZoomIn() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.zoom > 0 {
		w.zoom--
	}
}

// ZoomOut widens the time span one step, saturating at the widest.
func (w *LiveWindow) ZoomOut() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.zoom < len(ZoomLevels)-1 {
		w.zoom++
	}
}

// Zoom returns the current time span.
func (w *LiveWindow) Zoom() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ZoomLevels[w.zoom]
}

// TogglePause flips between the Live and Frozen states. Freezing pins the
// interval end at the given instant; only the view stops advancing, the
// underlying buffers continue to fill.
func (w *LiveWindow) TogglePause(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == stateLive {
		w.state = stateFrozen
		w.frozenAt = now
	} else {
		w.state = stateLive
		w.frozenAt = time.Time{}
	}
}

// Paused reports whether the view is frozen.
func (w *LiveWindow) Paused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state == stateFrozen
}

// Interval returns the window [to-zoom, to] where to is now, or the
// freeze instant while paused.
func (w *LiveWindow) Interval(now time.Time) (time.Time, time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	to := now
	if w.state == stateFrozen {
		to = w.frozenAt
	}
	return to.Add(-ZoomLevels[w.zoom]), to
}

// Render computes the frame for the current interval, downsampled to the
// given number of display columns. The interval, pause flag and zoom are
// snapshotted under one lock hold so the frame is internally consistent
// even when a pause or zoom change races a render.
func (w *LiveWindow) Render(now time.Time, cols int) Frame {
	w.mu.Lock()
	to := now
	if w.state == stateFrozen {
		to = w.frozenAt
	}
	zoom := ZoomLevels[w.zoom]
	paused := w.state == stateFrozen
	w.mu.Unlock()
	from := to.Add(-zoom)

	f := Frame{
		From:   from,
		To:     to,
		Paused: paused,
		Zoom:   zoom,
		Signal: viewOf(w.signal, from, to, cols),
		RxRate: viewOf(w.rx, from, to, cols),
		TxRate: viewOf(w.tx, from, to, cols),
	}
	for _, id := range w.hosts.Hosts() {
		buf, ok := w.hosts.Buffer(id)
		if !ok {
			continue // removed between listing and lookup
		}
		live, _ := w.hosts.Liveness(id)
		f.Hosts = append(f.Hosts, HostView{
			ID:         id,
			MetricView: viewOf(buf, from, to, cols),
			Liveness:   live,
		})
	}
	return f
}

func viewOf(buf *SampleBuffer, from, to time.Time, cols int) MetricView {
	samples := buf.Slice(from, to)
	return MetricView{
		Samples: samples,
		Columns: Downsample(samples, from, to, cols),
	}
}

// Downsample buckets samples into cols equal time slices of [from, to];
// each column is the mean of the valid samples whose timestamp falls in
// its bucket, and a bucket with no valid samples becomes a gap.
func Downsample(samples []Sample, from, to time.Time, cols int) []Column {
	if cols <= 0 || !to.After(from) {
		return nil
	}

	span := to.Sub(from)
	buckets := make([][]float64, cols)
	for _, s := range samples {
		if !s.Valid {
			continue
		}
		idx := int(int64(s.Time.Sub(from)) * int64(cols) / int64(span))
		if idx < 0 {
			continue
		}
		if idx >= cols {
			idx = cols - 1 // sample exactly at the window end
		}
		buckets[idx] = append(buckets[idx], s.Value)
	}

	out := make([]Column, cols)
	for i, vals := range buckets {
		if len(vals) == 0 {
			out[i] = Column{Gap: true}
			continue
		}
		out[i] = Column{Mean: stat.Mean(vals, nil)}
	}
	return out
}
