package data

import (
	"sync/atomic"
	"time"
)

// TimeProvider is the clock repositories stamp rows and compute cutoffs with.
type TimeProvider interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to TimeProvider.
type ClockFunc func() time.Time

// Now implements TimeProvider.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reports wall-clock time in UTC.
var SystemClock TimeProvider = ClockFunc(func() time.Time { return time.Now().UTC() })

func clockOrSystem(tp TimeProvider) TimeProvider {
	if tp == nil {
		return SystemClock
	}
	return tp
}

// FixedClock is a TimeProvider pinned to an instant until moved by Set or Advance.
// It is safe for concurrent use.
type FixedClock struct {
	nanos atomic.Int64
}

// NewFixedClock returns a clock frozen at t.
func NewFixedClock(t time.Time) *FixedClock {
	c := &FixedClock{}
	c.Set(t)
	return c
}

// Now implements TimeProvider.
func (c *FixedClock) Now() time.Time {
	return time.Unix(0, c.nanos.Load()).UTC()
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.nanos.Store(t.UnixNano())
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.nanos.Add(int64(d))
}
