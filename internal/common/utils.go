package common

import (
	"math"
	"time"
)

// RoundHalfUp rounds to the nearest integer with halves going towards
// positive infinity, so -2.5 becomes -2 and 2.5 becomes 3.
func RoundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}

// ISOTime formats a unix timestamp as an ISO-8601 UTC string with millisecond
// precision, e.g. 2024-05-01T12:00:00.000Z.
func ISOTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("2006-01-02T15:04:05.000Z")
}
