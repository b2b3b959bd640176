package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
interface: wlp3s0
ping_hosts:
  - 192.168.1.1
scanning:
  interval_minutes: 120
  refresh_cache: false
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Interface != "wlp3s0" {
		t.Errorf("Interface = %q, want wlp3s0", cfg.Interface)
	}
	if len(cfg.PingHosts) != 1 || cfg.PingHosts[0] != "192.168.1.1" {
		t.Errorf("PingHosts = %v", cfg.PingHosts)
	}
	if cfg.Scanning.IntervalMinutes != 120 {
		t.Errorf("IntervalMinutes = %d, want 120", cfg.Scanning.IntervalMinutes)
	}
	if cfg.Scanning.RefreshCache {
		t.Error("RefreshCache = true, want explicit false to stick")
	}
	// Untouched sections keep their defaults
	if cfg.Sampling.IntervalSeconds != 1 {
		t.Errorf("IntervalSeconds = %v, want default 1", cfg.Sampling.IntervalSeconds)
	}

	ccfg, err := cfg.collectorConfig()
	if err != nil {
		t.Fatalf("collectorConfig: %v", err)
	}
	if ccfg.ScanInterval != 2*time.Hour {
		t.Errorf("ScanInterval = %v, want 2h", ccfg.ScanInterval)
	}
	if ccfg.RefreshScanCache {
		t.Error("RefreshScanCache = true, want false")
	}
}

func TestLoadConfigEmptyScanDirKeepsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	// An explicit blank scan_dir, as a hand-edited file may carry, must
	// fall back to the default location rather than rooting the store
	// at the empty string.
	data := []byte(`
scan_dir: ""
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ScanDir == "" {
		t.Fatal("ScanDir empty after load, want default")
	}
	if want := DefaultAppConfig().ScanDir; cfg.ScanDir != want {
		t.Errorf("ScanDir = %q, want %q", cfg.ScanDir, want)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadConfig succeeded on a missing file")
	}
}

func TestCollectorConfigRejectsBadInterval(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.Scanning.IntervalMinutes = 0
	if _, err := cfg.collectorConfig(); err == nil {
		t.Error("collectorConfig accepted a zero scan interval")
	}
}
