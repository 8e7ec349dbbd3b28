package engine

import "time"

// Clock is a monotonic high-resolution counter.
// Now and Frequency must never fail and Now must never go backwards.
type Clock interface {
	// Now returns the current counter value in ticks.
	Now() uint64

	// Frequency returns the number of ticks per second.
	Frequency() uint64
}

// MonotonicClock counts nanoseconds on Go's monotonic clock since it was
// created.
type MonotonicClock struct {
	origin time.Time
}

// NewMonotonicClock creates a clock whose counter starts at zero.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{origin: time.Now()}
}

// Now returns nanoseconds elapsed since the clock was created.
func (c *MonotonicClock) Now() uint64 {
	return uint64(time.Since(c.origin))
}

// Frequency returns one billion ticks per second.
func (c *MonotonicClock) Frequency() uint64 {
	return uint64(time.Second)
}

// DeltaSeconds converts two counter samples into elapsed seconds.
// The difference is taken as a signed value so an out-of-order pair yields a
// negative delta rather than a wrapped one. A zero frequency yields zero.
func DeltaSeconds(start, end, frequency uint64) float64 {
	if frequency == 0 {
		return 0
	}
	return float64(int64(end-start)) / float64(frequency)
}
