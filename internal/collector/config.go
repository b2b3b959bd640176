package collector

import "time"

// Config contains configurable parameters for the link collectors.
// Use DefaultConfig() to get sensible defaults, then override as needed.
type Config struct {
	// Timeout settings
	LinkSampleTimeout time.Duration // Timeout for one link/throughput sample (default: 2s)
	PingTimeout       time.Duration // Timeout for one ping round trip (default: 1s)
	ScanTimeout       time.Duration // Timeout for one full channel scan (default: 30s)

	// Scan settings
	RefreshScanCache bool          // Ask the network manager to rescan before reading the cache (default: true)
	RescanSettle     time.Duration // Wait after triggering a rescan before reading (default: 2s)

	// Polling cadences (for the workers)
	SampleInterval time.Duration // Foreground sampling cadence (default: 1s)
	ScanInterval   time.Duration // Background scan cadence (default: 1h)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LinkSampleTimeout: 2 * time.Second,
		PingTimeout:       time.Second,
		ScanTimeout:       30 * time.Second,
		RefreshScanCache:  true,
		RescanSettle:      2 * time.Second,
		SampleInterval:    time.Second,
		ScanInterval:      time.Hour,
	}
}

// WithSampleInterval returns a copy of the config with modified sampling cadence.
func (c Config) WithSampleInterval(d time.Duration) Config {
	c.SampleInterval = d
	return c
}

// WithScanInterval returns a copy of the config with modified scan cadence.
func (c Config) WithScanInterval(d time.Duration) Config {
	c.ScanInterval = d
	return c
}

// WithScanTimeout returns a copy of the config with modified scan timeout.
func (c Config) WithScanTimeout(d time.Duration) Config {
	c.ScanTimeout = d
	return c
}

// Validate checks if the configuration is valid and returns an error if not.
func (c Config) Validate() error {
	if c.LinkSampleTimeout <= 0 {
		return &ConfigError{Field: "LinkSampleTimeout", Message: "must be positive"}
	}
	if c.PingTimeout <= 0 {
		return &ConfigError{Field: "PingTimeout", Message: "must be positive"}
	}
	if c.ScanTimeout <= 0 {
		return &ConfigError{Field: "ScanTimeout", Message: "must be positive"}
	}
	if c.SampleInterval <= 0 {
		return &ConfigError{Field: "SampleInterval", Message: "must be positive"}
	}
	if c.ScanInterval < time.Minute {
		return &ConfigError{Field: "ScanInterval", Message: "must be at least one minute"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Message
}
