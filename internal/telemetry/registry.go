package telemetry

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrDuplicateHost is returned when adding a host id that is already
	// tracked. Surfaced to the UI action handler, never swallowed.
	ErrDuplicateHost = errors.New("host already tracked")
	// ErrUnknownHost is returned for operations on a host id that is not
	// (or no longer) tracked.
	ErrUnknownHost = errors.New("unknown host")
)

// Liveness describes how recently a host answered.
type Liveness struct {
	LastSeen time.Time
	// ConsecutiveTimeouts counts failed pings since the last answer.
	ConsecutiveTimeouts int
}

type hostEntry struct {
	buf      *SampleBuffer
	liveness Liveness
}

// HostRegistry manages the dynamic set of ping targets, each owning its
// own SampleBuffer. Hosts keep insertion order so dashboard rows stay
// stable while hosts are added and removed at runtime.
type HostRegistry struct {
	mu        sync.Mutex
	retention time.Duration
	order     []string
	hosts     map[string]*hostEntry
}

// NewHostRegistry creates an empty registry; each added host gets a fresh
// SampleBuffer with the given retention.
func NewHostRegistry(retention time.Duration) *HostRegistry {
	return &HostRegistry{
		retention: retention,
		hosts:     make(map[string]*hostEntry),
	}
}

// AddHost starts tracking a host with an empty buffer.
func (r *HostRegistry) AddHost(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.hosts[id]; ok {
		return ErrDuplicateHost
	}
	r.hosts[id] = &hostEntry{buf: NewSampleBuffer(r.retention)}
	r.order = append(r.order, id)
	return nil
}

// RemoveHost stops tracking a host and discards its history entirely.
func (r *HostRegistry) RemoveHost(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.hosts[id]; !ok {
		return ErrUnknownHost
	}
	delete(r.hosts, id)
	for i, h := range r.order {
		if h == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Record stores one latency sample for a host and updates its liveness.
// A sample for a host removed concurrently returns ErrUnknownHost; the
// sampler treats that as a benign race, not a failure.
func (r *HostRegistry) Record(id string, s Sample) error {
	r.mu.Lock()
	e, ok := r.hosts[id]
	if !ok {
		r.mu.Unlock()
		return ErrUnknownHost
	}
	if s.Valid {
		e.liveness.LastSeen = s.Time
		e.liveness.ConsecutiveTimeouts = 0
	} else {
		e.liveness.ConsecutiveTimeouts++
	}
	buf := e.buf
	r.mu.Unlock()

	return buf.Push(s)
}

// Hosts returns the tracked host ids in insertion order.
func (r *HostRegistry) Hosts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Buffer returns the sample buffer for a host.
func (r *HostRegistry) Buffer(id string) (*SampleBuffer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.hosts[id]
	if !ok {
		return nil, false
	}
	return e.buf, true
}

// Liveness returns the liveness metadata for a host.
func (r *HostRegistry) Liveness(id string) (Liveness, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.hosts[id]
	if !ok {
		return Liveness{}, false
	}
	return e.liveness, true
}
