package telemetry

import "time"

// Sample is one timestamped scalar measurement of a live metric.
// Valid is false when the collector timed out or could not produce a
// value for that tick; the timestamp is still recorded so the gap is
// visible in the rendered window.
type Sample struct {
	Time  time.Time
	Value float64
	Valid bool
}

// At builds a valid sample.
func At(t time.Time, value float64) Sample {
	return Sample{Time: t, Value: value, Valid: true}
}

// Missing builds an invalid (timeout/unavailable) sample.
func Missing(t time.Time) Sample {
	return Sample{Time: t}
}
