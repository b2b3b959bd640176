package services

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"time"
)

// ErrPingTimeout reports that the host did not answer within the probe
// window. Distinct from exec failures so the caller can record a timeout
// sample instead of dropping the tick.
var ErrPingTimeout = errors.New("ping timeout")

var rePingTime = regexp.MustCompile(`time=([\d.]+)`)

// PingSensor measures round-trip latency with one ICMP echo per call.
// Unlike the other sensors it is parameterized by host, so it does not
// sit behind the Sensor interface; each tracked host gets its own call.
type PingSensor struct {
	timeout time.Duration
}

func NewPingSensor(timeout time.Duration) *PingSensor {
	if timeout <= 0 {
		timeout = time.Second
	}
	return &PingSensor{timeout: timeout}
}

// Ping sends a single echo request and returns the round-trip latency.
func (s *PingSensor) Ping(ctx context.Context, host string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout+time.Second)
	defer cancel()

	waitSec := int(s.timeout.Round(time.Second).Seconds())
	if waitSec < 1 {
		waitSec = 1
	}
	out, err := exec.CommandContext(ctx, "ping", "-c", "1", "-W", strconv.Itoa(waitSec), host).Output()
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrPingTimeout, host)
	}
	return ParsePingOutput(string(out))
}

// ParsePingOutput extracts the round trip from ping's "time=12.3 ms" line.
func ParsePingOutput(out string) (time.Duration, error) {
	m := rePingTime.FindStringSubmatch(out)
	if m == nil {
		return 0, ErrPingTimeout
	}
	ms, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, ErrPingTimeout
	}
	return time.Duration(ms * float64(time.Millisecond)), nil
}
