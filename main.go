package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"wifimon/internal/collector"
	"wifimon/internal/engine"
	"wifimon/internal/scheduler"
	"wifimon/internal/store"
	"wifimon/internal/telemetry"
	"wifimon/ui/console"
	"wifimon/ui/tui"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		iface      = flag.String("interface", "", "wireless interface (auto-detected if empty)")
		once       = flag.Bool("once", false, "print one link snapshot and exit")
	)
	flag.Parse()

	cfg := DefaultAppConfig()
	if *configPath != "" {
		var err error
		cfg, err = LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *iface != "" {
		cfg.Interface = *iface
	}

	ccfg, err := cfg.collectorConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	gateway := ""
	if cfg.Interface == "" || len(cfg.PingHosts) == 0 {
		detected, err := collector.DetectInterfaces(ctx)
		if err != nil && cfg.Interface == "" {
			fmt.Fprintf(os.Stderr, "Error detecting wireless interfaces: %v\n", err)
			fmt.Fprintln(os.Stderr, "Is 'iw' installed? Pass -interface to skip detection.")
			os.Exit(1)
		}
		if cfg.Interface == "" {
			if len(detected.Interfaces) == 0 {
				fmt.Fprintln(os.Stderr, "No wireless interfaces found.")
				os.Exit(1)
			}
			cfg.Interface = detected.Interfaces[0]
		}
		gateway = detected.Gateway
	}

	col := collector.NewLinkCollector(ccfg, cfg.Interface)

	if *once {
		runOnce(ctx, col, cfg.Interface, ccfg)
		return
	}

	logger, closeLog, err := openLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	signal := telemetry.NewSampleBuffer(telemetry.MaxZoom)
	rx := telemetry.NewSampleBuffer(telemetry.MaxZoom)
	tx := telemetry.NewSampleBuffer(telemetry.MaxZoom)
	hosts := telemetry.NewHostRegistry(telemetry.MaxZoom)

	pingHosts := cfg.PingHosts
	if len(pingHosts) == 0 {
		if gateway != "" {
			pingHosts = append(pingHosts, gateway)
		}
		pingHosts = append(pingHosts, "1.1.1.1")
	}
	for _, h := range pingHosts {
		if err := hosts.AddHost(h); err != nil {
			logger.Printf("skipping ping host %s: %v", h, err)
		}
	}

	st := store.NewDailyStore(cfg.ScanDir, logger)
	agg := store.NewAggregator(st, nil, logger)

	sampler, err := scheduler.NewSampler(col, col, signal, rx, tx, hosts, nil, ccfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	sched, err := scheduler.NewScanScheduler(col, st, agg, nil, ccfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := sampler.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting sampler: %v\n", err)
		os.Exit(1)
	}
	defer sampler.Stop()

	if err := sched.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting scan scheduler: %v\n", err)
		os.Exit(1)
	}
	defer sched.Stop()

	deps := tui.Deps{
		Iface:      cfg.Interface,
		Window:     telemetry.NewLiveWindow(signal, rx, tx, hosts),
		Hosts:      hosts,
		Sampler:    sampler,
		Scheduler:  sched,
		Aggregator: agg,
		Store:      st,
	}
	if err := tui.Start(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// runOnce prints a single plain-text snapshot, for scripts and quick checks.
func runOnce(ctx context.Context, col *collector.LinkCollector, iface string, ccfg collector.Config) {
	ctx, cancel := context.WithTimeout(ctx, ccfg.LinkSampleTimeout+time.Second)
	defer cancel()

	stats, err := col.SampleLink(ctx)
	ok := err == nil
	results := engine.Evaluate(stats, ok, nil)
	console.Print(os.Stdout, iface, stats, ok, results)
}

func openLogger(cfg LoggingConfig) (*log.Logger, func(), error) {
	if cfg.File == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return log.New(f, "wifimon: ", log.LstdFlags), func() { f.Close() }, nil
}
