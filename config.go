package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"wifimon/internal/collector"
)

// Config represents the application configuration
type Config struct {
	Interface string         `yaml:"interface"` // auto-detected when empty
	PingHosts []string       `yaml:"ping_hosts"`
	ScanDir   string         `yaml:"scan_dir"`
	Sampling  SamplingConfig `yaml:"sampling"`
	Scanning  ScanningConfig `yaml:"scanning"`
	Logging   LoggingConfig  `yaml:"logging"`
}

// SamplingConfig controls the per-second foreground loop
type SamplingConfig struct {
	IntervalSeconds    float64 `yaml:"interval_seconds"`
	LinkTimeoutSeconds int     `yaml:"link_timeout_seconds"`
	PingTimeoutSeconds int     `yaml:"ping_timeout_seconds"`
}

// ScanningConfig controls the hourly channel survey
type ScanningConfig struct {
	IntervalMinutes int  `yaml:"interval_minutes"`
	TimeoutSeconds  int  `yaml:"timeout_seconds"`
	RefreshCache    bool `yaml:"refresh_cache"` // nmcli rescan before dumping
	SettleSeconds   int  `yaml:"settle_seconds"`
}

// LoggingConfig contains log output settings. The TUI owns the terminal,
// so worker logs go to a file or nowhere.
type LoggingConfig struct {
	File string `yaml:"file"`
}

// DefaultAppConfig returns the configuration used when no file is given.
func DefaultAppConfig() *Config {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return &Config{
		PingHosts: nil, // gateway + 1.1.1.1 resolved at startup
		ScanDir:   filepath.Join(base, "wifi-monitor", "scans"),
		Sampling: SamplingConfig{
			IntervalSeconds:    1,
			LinkTimeoutSeconds: 2,
			PingTimeoutSeconds: 1,
		},
		Scanning: ScanningConfig{
			IntervalMinutes: 60,
			TimeoutSeconds:  30,
			RefreshCache:    true,
			SettleSeconds:   2,
		},
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultAppConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.ScanDir == "" {
		// Empty means default, same as interface and ping_hosts. Without
		// this a blank scan_dir would root the store at "" and every
		// hourly commit would fail.
		config.ScanDir = DefaultAppConfig().ScanDir
	}
	return config, nil
}

// collectorConfig maps the file settings onto the collector's typed
// config and validates the result.
func (c *Config) collectorConfig() (collector.Config, error) {
	cfg := collector.DefaultConfig().
		WithSampleInterval(time.Duration(c.Sampling.IntervalSeconds * float64(time.Second))).
		WithScanInterval(time.Duration(c.Scanning.IntervalMinutes) * time.Minute).
		WithScanTimeout(time.Duration(c.Scanning.TimeoutSeconds) * time.Second)

	cfg.LinkSampleTimeout = time.Duration(c.Sampling.LinkTimeoutSeconds) * time.Second
	cfg.PingTimeout = time.Duration(c.Sampling.PingTimeoutSeconds) * time.Second
	cfg.RefreshScanCache = c.Scanning.RefreshCache
	cfg.RescanSettle = time.Duration(c.Scanning.SettleSeconds) * time.Second

	if err := cfg.Validate(); err != nil {
		return collector.Config{}, err
	}
	return cfg, nil
}
