package telemetry

import (
	"errors"
	"sync"
	"time"
)

// ErrOutOfOrder is returned when a pushed sample is older than the most
// recent stored sample. The buffer is left unchanged; the caller logs the
// fault and drops the sample.
var ErrOutOfOrder = errors.New("sample timestamp out of order")

// SampleBuffer is a time-windowed bounded store for one metric's samples.
// Retention is fixed at construction: every push evicts samples that have
// fallen out of the retention window, so memory stays proportional to the
// window regardless of uptime. One writer (the sampler) and one reader
// (the render loop) may use it concurrently.
type SampleBuffer struct {
	mu        sync.Mutex
	retention time.Duration
	samples   []Sample
}

// NewSampleBuffer creates an empty buffer retaining samples for the given
// window. The window should cover the longest supported zoom level.
func NewSampleBuffer(retention time.Duration) *SampleBuffer {
	return &SampleBuffer{retention: retention}
}

// Push appends a sample and evicts expired ones from the front.
// Samples must arrive in non-decreasing timestamp order; an older sample
// is rejected with ErrOutOfOrder and the buffer contents are untouched.
func (b *SampleBuffer) Push(s Sample) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n := len(b.samples); n > 0 && s.Time.Before(b.samples[n-1].Time) {
		return ErrOutOfOrder
	}
	b.samples = append(b.samples, s)

	cutoff := s.Time.Add(-b.retention)
	idx := 0
	for idx < len(b.samples) && b.samples[idx].Time.Before(cutoff) {
		idx++
	}
	if idx > 0 {
		b.samples = b.samples[idx:]
	}
	return nil
}

// Slice returns a copy of the samples with timestamps in [from, to],
// oldest first. If from precedes the oldest retained sample the result
// starts at the oldest available one; partial history is expected, not an
// error.
func (b *SampleBuffer) Slice(from, to time.Time) []Sample {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Sample, 0, len(b.samples))
	for _, s := range b.samples {
		if s.Time.Before(from) || s.Time.After(to) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Latest returns the most recent sample, or false if the buffer is empty.
func (b *SampleBuffer) Latest() (Sample, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.samples) == 0 {
		return Sample{}, false
	}
	return b.samples[len(b.samples)-1], true
}

// Len returns the number of retained samples.
func (b *SampleBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.samples)
}

// Retention returns the buffer's retention window.
func (b *SampleBuffer) Retention() time.Duration {
	return b.retention
}
