package scan

// Entry is one access point observed during a channel scan.
type Entry struct {
	Channel      int     `json:"channel"`
	SignalDBM    float64 `json:"signal_dbm"`
	OwnInterface bool    `json:"own,omitempty"`
	SSID         string  `json:"ssid,omitempty"`
}

// Record is the normalized result of one discrete channel scan for one
// band, bucketed to the hour it ran in. Immutable once written.
type Record struct {
	Hour    int     `json:"hour"`
	Band    Band    `json:"band"`
	Entries []Entry `json:"entries"`
}

// BandScan is a raw per-band scan result handed over by the scan
// collaborator before hour bucketing.
type BandScan struct {
	Band    Band
	Entries []Entry
}
