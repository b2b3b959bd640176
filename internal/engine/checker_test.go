package engine

import (
	"testing"

	"wifimon/internal/collector"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		link     collector.LinkStats
		linkOK   bool
		hosts    []HostSample
		expected map[string]string // Metric Name -> Expected Status
	}{
		{
			name: "All Healthy",
			link: collector.LinkStats{
				Connected:   true,
				SignalDBM:   -52,
				SignalValid: true,
			},
			linkOK: true,
			hosts: []HostSample{
				{ID: "192.168.1.1", LatencyMS: 3.5, Valid: true},
			},
			expected: map[string]string{
				"Link":                     StatusHealthy,
				"Signal":                   StatusHealthy,
				"Latency 192.168.1.1":      StatusHealthy,
				"Reachability 192.168.1.1": StatusHealthy,
			},
		},
		{
			name:   "Link Down",
			link:   collector.LinkStats{Connected: false},
			linkOK: true,
			expected: map[string]string{
				"Link": StatusCritical,
			},
		},
		{
			name:   "Never Sampled",
			linkOK: false,
			expected: map[string]string{
				"Link": StatusCritical,
			},
		},
		{
			name: "Signal Warning",
			link: collector.LinkStats{
				Connected:   true,
				SignalDBM:   -70,
				SignalValid: true,
			},
			linkOK: true,
			expected: map[string]string{
				"Signal": StatusWarning,
			},
		},
		{
			name: "Signal Critical",
			link: collector.LinkStats{
				Connected:   true,
				SignalDBM:   -80,
				SignalValid: true,
			},
			linkOK: true,
			expected: map[string]string{
				"Signal": StatusCritical,
			},
		},
		{
			name: "Skip Signal when reading invalid",
			link: collector.LinkStats{
				Connected:   true,
				SignalValid: false,
			},
			linkOK: true,
			expected: map[string]string{
				"Link": StatusHealthy,
			},
		},
		{
			name:   "Latency Warning",
			link:   collector.LinkStats{Connected: true},
			linkOK: true,
			hosts: []HostSample{
				{ID: "8.8.8.8", LatencyMS: 220, Valid: true},
			},
			expected: map[string]string{
				"Latency 8.8.8.8": StatusWarning,
			},
		},
		{
			name:   "Latency Critical",
			link:   collector.LinkStats{Connected: true},
			linkOK: true,
			hosts: []HostSample{
				{ID: "8.8.8.8", LatencyMS: 900, Valid: true},
			},
			expected: map[string]string{
				"Latency 8.8.8.8": StatusCritical,
			},
		},
		{
			name:   "Ping Timeout",
			link:   collector.LinkStats{Connected: true},
			linkOK: true,
			hosts: []HostSample{
				{ID: "8.8.8.8", Valid: false, ConsecutiveTimeouts: 1},
			},
			expected: map[string]string{
				"Latency 8.8.8.8":      StatusCritical,
				"Reachability 8.8.8.8": StatusHealthy,
			},
		},
		{
			name:   "Timeout Streak Warning",
			link:   collector.LinkStats{Connected: true},
			linkOK: true,
			hosts: []HostSample{
				{ID: "8.8.8.8", Valid: false, ConsecutiveTimeouts: 4},
			},
			expected: map[string]string{
				"Reachability 8.8.8.8": StatusWarning,
			},
		},
		{
			name:   "Timeout Streak Critical",
			link:   collector.LinkStats{Connected: true},
			linkOK: true,
			hosts: []HostSample{
				{ID: "8.8.8.8", Valid: false, ConsecutiveTimeouts: 12},
			},
			expected: map[string]string{
				"Reachability 8.8.8.8": StatusCritical,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := Evaluate(tt.link, tt.linkOK, tt.hosts)

			if tt.name == "Skip Signal when reading invalid" {
				for _, res := range results {
					if res.Name == "Signal" {
						t.Errorf("%s: Signal should have been skipped", tt.name)
					}
				}
			}

			for _, res := range results {
				if want, ok := tt.expected[res.Name]; ok {
					if res.Status != want {
						t.Errorf("%s: for %s expected %s, got %s (Value: %.2f)", tt.name, res.Name, want, res.Status, res.Value)
					}
				}
			}
		})
	}
}
