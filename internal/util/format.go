// Package util holds small display helpers shared by the binaries.
package util //nolint:revive // util is the conventional home for these helpers

import (
	"strconv"
	"time"
)

// FormatElapsed renders a pass duration for operator output: "-" when
// nothing ran, microseconds for sub-millisecond passes, else milliseconds.
func FormatElapsed(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d < time.Millisecond:
		return d.Truncate(time.Microsecond).String()
	default:
		return d.Truncate(time.Millisecond).String()
	}
}

// Plural renders n with the singular or plural noun.
func Plural(n int64, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.FormatInt(n, 10) + " " + plural
}
