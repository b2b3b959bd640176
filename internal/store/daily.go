package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"wifimon/internal/scan"
)

// ErrCorruptData is returned when a day file exists but cannot be parsed.
// Callers treat that date as empty and log the fault rather than abort.
var ErrCorruptData = errors.New("corrupt scan data")

const dateLayout = "2006-01-02"

// DateKey formats a wall-clock time as the calendar-date key used for the
// on-disk layout. Computed fresh on every write so a process running
// across midnight rolls over to a new file without restart.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

type dayFile struct {
	Date    string        `json:"date"`
	Records []scan.Record `json:"records"`
}

// DailyStore persists one calendar day's scan records as a single JSON
// file under its root directory. Writes replace the whole file atomically
// (temp file + rename) so a reader never observes a half-written day.
// The scan scheduler is the sole writer.
type DailyStore struct {
	dir    string
	logger *log.Logger

	mu  sync.Mutex
	gen uint64 // bumped on every committed record, keys the heatmap cache
}

// NewDailyStore creates a store rooted at dir. The directory is created
// lazily on first write.
func NewDailyStore(dir string, logger *log.Logger) *DailyStore {
	if logger == nil {
		logger = log.New(os.Stderr, "store: ", log.LstdFlags)
	}
	return &DailyStore{dir: dir, logger: logger}
}

func (s *DailyStore) pathFor(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// RecordHour commits one band's scan result for the given wall-clock
// hour. A rescan within the same (hour, band) slot overwrites the prior
// record. The day file is replaced atomically.
func (s *DailyStore) RecordHour(at time.Time, band scan.Band, entries []scan.Entry) error {
	hour := at.Hour()
	if !band.Valid() {
		return fmt.Errorf("record hour %d: unknown band %q", hour, band)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := DateKey(at)
	records, err := s.loadLocked(key)
	if err != nil {
		// A corrupt day is discarded, not fatal: the rescan starts the
		// file over.
		s.logger.Printf("day %s unreadable, starting fresh: %v", key, err)
		records = nil
	}

	rec := scan.Record{Hour: hour, Band: band, Entries: entries}
	replaced := false
	for i, r := range records {
		if r.Hour == hour && r.Band == band {
			records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Hour != records[j].Hour {
			return records[i].Hour < records[j].Hour
		}
		return records[i].Band < records[j].Band
	})

	if err := s.writeLocked(key, records); err != nil {
		return err
	}
	s.gen++
	return nil
}

// Load returns the scan records for a calendar date. A missing file is a
// normal empty result; a file that exists but cannot be parsed returns
// ErrCorruptData.
func (s *DailyStore) Load(date time.Time) ([]scan.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(DateKey(date))
}

func (s *DailyStore) loadLocked(key string) ([]scan.Record, error) {
	data, err := os.ReadFile(s.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: day %s: %v", ErrCorruptData, key, err)
	}
	var day dayFile
	if err := json.Unmarshal(data, &day); err != nil {
		return nil, fmt.Errorf("%w: day %s: %v", ErrCorruptData, key, err)
	}
	return day.Records, nil
}

func (s *DailyStore) writeLocked(key string, records []scan.Record) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create scan dir: %w", err)
	}
	data, err := json.MarshalIndent(dayFile{Date: key, Records: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode day %s: %w", key, err)
	}

	path := s.pathFor(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write day %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace day %s: %w", key, err)
	}
	return nil
}

// Generation returns a counter bumped on every committed record. The
// heatmap cache keys on it to notice new scans.
func (s *DailyStore) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// LastScan returns the wall-clock hour bucket of the most recent recorded
// scan, walking back up to 30 days from asOf. ok is false when no scan
// exists in that range.
func (s *DailyStore) LastScan(asOf time.Time) (time.Time, bool) {
	for i := 0; i < 30; i++ {
		date := asOf.AddDate(0, 0, -i)
		records, err := s.Load(date)
		if err != nil || len(records) == 0 {
			continue
		}
		latest := -1
		for _, r := range records {
			if r.Hour > latest {
				latest = r.Hour
			}
		}
		year, month, day := date.Date()
		return time.Date(year, month, day, latest, 0, 0, 0, date.Location()), true
	}
	return time.Time{}, false
}
