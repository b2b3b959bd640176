package store

import (
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"sync"
	"time"

	"wifimon/internal/scan"
)

// HoursPerWeek is the number of hour-of-week slots in the heatmap grid.
const HoursPerWeek = 168

// HeatmapDays is the window of calendar dates the aggregator reads. With
// 7 days every hour-of-week slot maps to exactly one date in the window.
const HeatmapDays = 7

// referenceCeilingMW is the aggregate receive power, in milliwatts, at
// which a cell saturates to full congestion. Equivalent to a single
// neighbor at -30 dBm.
const referenceCeilingMW = 1e-3

// ScoreFunc turns the access points observed at one channel during one
// scan into a 0-1 occupancy score. Pluggable because the weighting is a
// judgment call; DefaultScore is the shipped policy.
type ScoreFunc func(entries []scan.Entry) float64

// DefaultScore sums the linear receive power (10^(dBm/10) mW) of all
// non-own-interface entries and normalizes against a fixed ceiling,
// mapping log-scale signal readings to a linear congestion intensity.
func DefaultScore(entries []scan.Entry) float64 {
	var totalMW float64
	for _, e := range entries {
		if e.OwnInterface {
			continue
		}
		totalMW += math.Pow(10, e.SignalDBM/10)
	}
	if score := totalMW / referenceCeilingMW; score < 1 {
		return score
	}
	return 1
}

// Cell is one derived heatmap slot. HasData distinguishes "no scan
// covered this hour-of-week" from "a scan measured zero congestion".
type Cell struct {
	Score   float64
	HasData bool
}

// BandGrid is a band's channel × hour-of-week occupancy grid.
// Cells[i][h] covers Channels[i] at hour-of-week h (hour 0 = Sunday
// midnight in the store's local calendar).
type BandGrid struct {
	Band     scan.Band
	Channels []int
	Cells    [][]Cell
}

// Heatmap is a pure projection of the last seven day files. It is never
// persisted; identical store contents always rebuild an identical grid.
type Heatmap struct {
	AsOf  string
	Bands []BandGrid
}

// Grid returns the grid for a band, or false if the band reported no
// scans across the window.
func (h *Heatmap) Grid(band scan.Band) (*BandGrid, bool) {
	for i := range h.Bands {
		if h.Bands[i].Band == band {
			return &h.Bands[i], true
		}
	}
	return nil, false
}

// Aggregator builds heatmaps from a DailyStore with a small cache keyed
// by the as-of date and the store generation, so repeated view refreshes
// between scans cost nothing.
type Aggregator struct {
	store  *DailyStore
	score  ScoreFunc
	logger *log.Logger

	mu       sync.Mutex
	cacheKey string
	cached   *Heatmap
}

// NewAggregator creates an aggregator over the store. A nil score uses
// DefaultScore.
func NewAggregator(store *DailyStore, score ScoreFunc, logger *log.Logger) *Aggregator {
	if score == nil {
		score = DefaultScore
	}
	if logger == nil {
		logger = log.New(os.Stderr, "heatmap: ", log.LstdFlags)
	}
	return &Aggregator{store: store, score: score, logger: logger}
}

// Invalidate drops the cached grid. Called after every committed scan.
func (a *Aggregator) Invalidate() {
	a.mu.Lock()
	a.cacheKey = ""
	a.cached = nil
	a.mu.Unlock()
}

// BuildHeatmap aggregates the day files for asOf and the six preceding
// calendar dates into per-band occupancy grids. Bands with zero records
// across the window are absent from the result. Corrupt days are logged
// and treated as empty.
func (a *Aggregator) BuildHeatmap(asOf time.Time) *Heatmap {
	key := fmt.Sprintf("%s@%d", DateKey(asOf), a.store.Generation())

	a.mu.Lock()
	if a.cached != nil && a.cacheKey == key {
		h := a.cached
		a.mu.Unlock()
		return h
	}
	a.mu.Unlock()

	grids := make(map[scan.Band]*BandGrid)
	for i := HeatmapDays - 1; i >= 0; i-- {
		date := asOf.AddDate(0, 0, -i)
		records, err := a.store.Load(date)
		if err != nil {
			a.logger.Printf("skipping day %s: %v", DateKey(date), err)
			continue
		}
		for _, rec := range records {
			if rec.Hour < 0 || rec.Hour > 23 || !rec.Band.Valid() {
				a.logger.Printf("discarding malformed record on %s: hour=%d band=%q",
					DateKey(date), rec.Hour, rec.Band)
				continue
			}
			grid, ok := grids[rec.Band]
			if !ok {
				grid = newBandGrid(rec.Band)
				grids[rec.Band] = grid
			}
			how := int(date.Weekday())*24 + rec.Hour
			for chIdx, ch := range grid.Channels {
				grid.Cells[chIdx][how] = Cell{
					Score:   a.score(entriesAt(rec.Entries, ch)),
					HasData: true,
				}
			}
		}
	}

	h := &Heatmap{AsOf: DateKey(asOf)}
	for _, grid := range grids {
		h.Bands = append(h.Bands, *grid)
	}
	sort.Slice(h.Bands, func(i, j int) bool { return h.Bands[i].Band < h.Bands[j].Band })

	a.mu.Lock()
	a.cacheKey = key
	a.cached = h
	a.mu.Unlock()
	return h
}

func newBandGrid(band scan.Band) *BandGrid {
	channels := scan.ChannelsForBand(band)
	cells := make([][]Cell, len(channels))
	for i := range cells {
		cells[i] = make([]Cell, HoursPerWeek)
	}
	return &BandGrid{Band: band, Channels: channels, Cells: cells}
}

func entriesAt(entries []scan.Entry, channel int) []scan.Entry {
	var out []scan.Entry
	for _, e := range entries {
		if e.Channel == channel {
			out = append(out, e)
		}
	}
	return out
}
