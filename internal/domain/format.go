package domain

import (
	"fmt"
	"strconv"
)

// UnknownCount is what FormatCount prints for a missing value.
const UnknownCount = "Unknown"

// FormatCount renders a metric compactly: 1.2M, 3.4K or the plain integer.
// Every caller shares this one implementation.
func FormatCount(n *Count) string {
	if n == nil {
		return UnknownCount
	}
	return FormatInt(int64(*n))
}

// FormatInt is FormatCount for a known value.
func FormatInt(v int64) string {
	switch {
	case v >= 1_000_000:
		return strconv.FormatFloat(float64(v)/1e6, 'f', 1, 64) + "M"
	case v >= 1_000:
		return strconv.FormatFloat(float64(v)/1e3, 'f', 1, 64) + "K"
	default:
		return strconv.FormatInt(v, 10)
	}
}

// FormatDuration renders a track length in milliseconds as m:ss.
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	minutes := ms / 60000
	seconds := (ms % 60000) / 1000
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
