package history

import (
	"math"
	"time"
)

// Core Data stores timestamps as seconds since 2001-01-01T00:00:00Z.
// appleEpochOffset is the distance from the Unix epoch to that reference.
const appleEpochOffset int64 = 978307200

// FromAppleTime converts a Core Data timestamp (seconds since 2001-01-01,
// possibly fractional) to a time.Time in UTC.
func FromAppleTime(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole)+appleEpochOffset, int64(math.Round(frac*1e9))).UTC()
}

// ToAppleTime converts a time.Time to a Core Data timestamp. It is the exact
// inverse of FromAppleTime for any value FromAppleTime can produce.
func ToAppleTime(t time.Time) float64 {
	return float64(t.Unix()-appleEpochOffset) + float64(t.Nanosecond())/1e9
}
