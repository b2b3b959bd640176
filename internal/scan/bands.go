package scan

// Band identifies a wireless spectrum group.
type Band string

const (
	Band24 Band = "2.4"
	Band5  Band = "5"
)

// Channels24 lists the 2.4GHz channels (1-14).
var Channels24 = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14}

// Channels5 lists the 5GHz UNII channels.
var Channels5 = []int{
	36, 40, 44, 48, 52, 56, 60, 64,
	100, 104, 108, 112, 116, 120, 124, 128, 132, 136, 140, 144,
	149, 153, 157, 161, 165,
}

var freqToChannel = map[int]int{
	// 2.4GHz
	2412: 1, 2417: 2, 2422: 3, 2427: 4, 2432: 5, 2437: 6, 2442: 7,
	2447: 8, 2452: 9, 2457: 10, 2462: 11, 2467: 12, 2472: 13, 2484: 14,
	// 5GHz
	5180: 36, 5200: 40, 5220: 44, 5240: 48,
	5260: 52, 5280: 56, 5300: 60, 5320: 64,
	5500: 100, 5520: 104, 5540: 108, 5560: 112,
	5580: 116, 5600: 120, 5620: 124, 5640: 128,
	5660: 132, 5680: 136, 5700: 140, 5720: 144,
	5745: 149, 5765: 153, 5785: 157, 5805: 161, 5825: 165,
}

// FreqToChannel maps a center frequency in MHz to its channel number.
func FreqToChannel(freqMHz int) (int, bool) {
	ch, ok := freqToChannel[freqMHz]
	return ch, ok
}

// BandForFreq returns the band a frequency belongs to. 2.4GHz occupies
// 2412-2484 MHz, everything above 3000 is treated as 5GHz.
func BandForFreq(freqMHz int) Band {
	if freqMHz < 3000 {
		return Band24
	}
	return Band5
}

// ChannelsForBand returns the channel list for a band.
func ChannelsForBand(b Band) []int {
	if b == Band5 {
		return Channels5
	}
	return Channels24
}

// Valid reports whether b names a known band.
func (b Band) Valid() bool {
	return b == Band24 || b == Band5
}
