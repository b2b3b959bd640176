package collector

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LinkSampleTimeout != 2*time.Second {
		t.Errorf("Expected LinkSampleTimeout 2s, got %v", cfg.LinkSampleTimeout)
	}
	if cfg.PingTimeout != time.Second {
		t.Errorf("Expected PingTimeout 1s, got %v", cfg.PingTimeout)
	}
	if cfg.ScanTimeout != 30*time.Second {
		t.Errorf("Expected ScanTimeout 30s, got %v", cfg.ScanTimeout)
	}
	if cfg.SampleInterval != time.Second {
		t.Errorf("Expected SampleInterval 1s, got %v", cfg.SampleInterval)
	}
	if cfg.ScanInterval != time.Hour {
		t.Errorf("Expected ScanInterval 1h, got %v", cfg.ScanInterval)
	}
	if !cfg.RefreshScanCache {
		t.Error("Expected RefreshScanCache enabled by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config failed validation: %v", err)
	}
}

func TestConfigModifiers(t *testing.T) {
	base := DefaultConfig()

	modified := base.
		WithSampleInterval(250 * time.Millisecond).
		WithScanInterval(2 * time.Hour).
		WithScanTimeout(10 * time.Second)

	if modified.SampleInterval != 250*time.Millisecond {
		t.Errorf("SampleInterval = %v", modified.SampleInterval)
	}
	if modified.ScanInterval != 2*time.Hour {
		t.Errorf("ScanInterval = %v", modified.ScanInterval)
	}
	if modified.ScanTimeout != 10*time.Second {
		t.Errorf("ScanTimeout = %v", modified.ScanTimeout)
	}
	// Modifiers return copies; the base is untouched.
	if base.SampleInterval != time.Second {
		t.Errorf("base mutated: SampleInterval = %v", base.SampleInterval)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"zero sample interval", func(c *Config) { c.SampleInterval = 0 }, "SampleInterval"},
		{"negative link timeout", func(c *Config) { c.LinkSampleTimeout = -time.Second }, "LinkSampleTimeout"},
		{"zero ping timeout", func(c *Config) { c.PingTimeout = 0 }, "PingTimeout"},
		{"zero scan timeout", func(c *Config) { c.ScanTimeout = 0 }, "ScanTimeout"},
		{"scan interval too short", func(c *Config) { c.ScanInterval = time.Second }, "ScanInterval"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error type = %T, want *ConfigError", err)
			}
			if cfgErr.Field != tc.wantField {
				t.Errorf("error field = %s, want %s", cfgErr.Field, tc.wantField)
			}
		})
	}
}
