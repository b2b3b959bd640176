package engine

import (
	"fmt"

	"wifimon/internal/collector"
)

const (
	StatusHealthy  = "OK"
	StatusWarning  = "WARN"
	StatusCritical = "CRIT"

	SignalWarningThreshold   = -67.0 // dBm
	SignalCriticalThreshold  = -75.0 // dBm
	LatencyWarningThreshold  = 150.0 // ms
	LatencyCriticalThreshold = 500.0 // ms
	TimeoutWarningStreak     = 3
	TimeoutCriticalStreak    = 10
)

type CheckResult struct {
	Name   string
	Value  float64
	Status string
}

// HostSample is the latest latency observation for one monitored host.
type HostSample struct {
	ID                  string
	LatencyMS           float64
	Valid               bool
	ConsecutiveTimeouts int
}

func getStatus(value, warning, critical float64) string {
	if value > critical {
		return StatusCritical
	}
	if value > warning {
		return StatusWarning
	}
	return StatusHealthy
}

// getStatusLow grades metrics where lower values are worse, like dBm.
func getStatusLow(value, warning, critical float64) string {
	if value < critical {
		return StatusCritical
	}
	if value < warning {
		return StatusWarning
	}
	return StatusHealthy
}

// Evaluate grades the current link and host latencies against the fixed
// thresholds. linkOK is false when the interface has never been sampled
// successfully.
func Evaluate(link collector.LinkStats, linkOK bool, hosts []HostSample) []CheckResult {
	var result []CheckResult

	// Link
	linkStatus := StatusHealthy
	linkValue := 1.0
	if !linkOK || !link.Connected {
		linkStatus = StatusCritical
		linkValue = 0.0
	}
	result = append(result, CheckResult{
		Name:   "Link",
		Value:  linkValue,
		Status: linkStatus,
	})

	// Signal strength, only meaningful while associated
	if linkOK && link.Connected && link.SignalValid {
		result = append(result, CheckResult{
			Name:   "Signal",
			Value:  link.SignalDBM,
			Status: getStatusLow(link.SignalDBM, SignalWarningThreshold, SignalCriticalThreshold),
		})
	}

	for _, h := range hosts {
		latencyStatus := StatusCritical
		if h.Valid {
			latencyStatus = getStatus(h.LatencyMS, LatencyWarningThreshold, LatencyCriticalThreshold)
		}
		result = append(result, CheckResult{
			Name:   fmt.Sprintf("Latency %s", h.ID),
			Value:  h.LatencyMS,
			Status: latencyStatus,
		})

		reachStatus := StatusHealthy
		if h.ConsecutiveTimeouts >= TimeoutCriticalStreak {
			reachStatus = StatusCritical
		} else if h.ConsecutiveTimeouts >= TimeoutWarningStreak {
			reachStatus = StatusWarning
		}
		result = append(result, CheckResult{
			Name:   fmt.Sprintf("Reachability %s", h.ID),
			Value:  float64(h.ConsecutiveTimeouts),
			Status: reachStatus,
		})
	}

	return result
}
