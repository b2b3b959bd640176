package scheduler

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"testing"
	"time"

	"wifimon/internal/collector"
	"wifimon/internal/scan"
	"wifimon/internal/store"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeScanner struct {
	scans []scan.BandScan
	err   error
	calls atomic.Int64
}

func (f *fakeScanner) ScanChannels(ctx context.Context) ([]scan.BandScan, error) {
	f.calls.Add(1)
	return f.scans, f.err
}

func newTestScheduler(t *testing.T, scanner *fakeScanner, clock Clock) (*ScanScheduler, *store.DailyStore, *store.Aggregator) {
	t.Helper()
	st := store.NewDailyStore(t.TempDir(), quietLogger())
	agg := store.NewAggregator(st, nil, quietLogger())
	sched, err := NewScanScheduler(scanner, st, agg, clock, collector.DefaultConfig(), quietLogger())
	if err != nil {
		t.Fatalf("NewScanScheduler: %v", err)
	}
	return sched, st, agg
}

func TestScanOnceCommitsEveryBand(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, time.March, 3, 14, 30, 0, 0, time.UTC)}
	scanner := &fakeScanner{scans: []scan.BandScan{
		{Band: scan.Band24, Entries: []scan.Entry{{Channel: 6, SignalDBM: -48}}},
		{Band: scan.Band5, Entries: []scan.Entry{{Channel: 36, SignalDBM: -61}}},
	}}
	sched, st, agg := newTestScheduler(t, scanner, clock)

	if err := sched.ScanOnce(context.Background()); err != nil {
		t.Fatalf("ScanOnce: %v", err)
	}

	records, err := st.Load(clock.t)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	for _, rec := range records {
		if rec.Hour != 14 {
			t.Errorf("record hour = %d, want 14", rec.Hour)
		}
	}

	hm := agg.BuildHeatmap(clock.t)
	if _, ok := hm.Grid(scan.Band24); !ok {
		t.Error("heatmap missing 2.4 GHz grid after commit")
	}
	if _, ok := hm.Grid(scan.Band5); !ok {
		t.Error("heatmap missing 5 GHz grid after commit")
	}

	last, ok := sched.LastScan()
	if !ok {
		t.Fatal("LastScan reported no scan after commit")
	}
	if got := last.Unix(); got != clock.t.Unix() {
		t.Errorf("LastScan = %d, want %d", got, clock.t.Unix())
	}
}

func TestScanOnceFailureLeavesStoreUntouched(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, time.March, 3, 14, 0, 0, 0, time.UTC)}
	scanner := &fakeScanner{err: errors.New("iw: command not found")}
	sched, st, _ := newTestScheduler(t, scanner, clock)

	if err := sched.ScanOnce(context.Background()); err == nil {
		t.Fatal("ScanOnce succeeded with failing scanner")
	}
	if gen := st.Generation(); gen != 0 {
		t.Errorf("store generation = %d after failed scan, want 0", gen)
	}
	if _, ok := sched.LastScan(); ok {
		t.Error("LastScan reported a scan after failure")
	}
}

func TestStartRunsFirstScanImmediately(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, time.March, 3, 14, 0, 0, 0, time.UTC)}
	scanner := &fakeScanner{scans: []scan.BandScan{
		{Band: scan.Band24, Entries: []scan.Entry{{Channel: 1, SignalDBM: -70}}},
	}}
	sched, st, _ := newTestScheduler(t, scanner, clock)

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sched.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for st.Generation() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first scan did not commit before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if calls := scanner.calls.Load(); calls != 1 {
		t.Errorf("scanner calls = %d before first tick, want 1", calls)
	}
}

func TestStartTwiceFails(t *testing.T) {
	scanner := &fakeScanner{}
	sched, _, _ := newTestScheduler(t, scanner, &fakeClock{t: time.Now()})

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sched.Stop()

	if err := sched.Start(context.Background()); err == nil {
		t.Error("second Start succeeded")
	}
}

func TestNewScanSchedulerRequiresPipeline(t *testing.T) {
	st := store.NewDailyStore(t.TempDir(), quietLogger())
	agg := store.NewAggregator(st, nil, quietLogger())
	if _, err := NewScanScheduler(nil, st, agg, nil, collector.DefaultConfig(), nil); err == nil {
		t.Error("NewScanScheduler accepted nil scanner")
	}
	if _, err := NewScanScheduler(&fakeScanner{}, nil, agg, nil, collector.DefaultConfig(), nil); err == nil {
		t.Error("NewScanScheduler accepted nil store")
	}
}
