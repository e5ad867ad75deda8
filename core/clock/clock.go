// Package clock provides the simulated wall clock driving a delivery day.
// Time advances in fixed ticks; every other component treats the clock as
// the single source of truth for "now".
package clock

import "time"

// Tick is the fixed simulation step. At fleet speed one tenth of a mile
// is covered per tick, so route lengths in sub-units double as tick counts.
const Tick = 20 * time.Second

// refDate anchors every simulated instant to one calendar day so times
// parsed from datasets, config and fixtures compare directly.
var refDate = time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC)

// At returns the instant for the given wall-clock time of day on the
// simulated day.
func At(hour, minute, second int) time.Time {
	return refDate.Add(time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second)
}

// Clock is a mutable simulation clock. It is owned by the driver loop and
// must not be shared across goroutines.
type Clock struct {
	start time.Time
	now   time.Time
}

// New returns a clock positioned at start.
func New(start time.Time) *Clock {
	return &Clock{start: start, now: start}
}

// Now returns the current simulated instant.
func (c *Clock) Now() time.Time {
	return c.now
}

// Start returns the instant the clock was created at.
func (c *Clock) Start() time.Time {
	return c.start
}

// Advance moves the clock forward by one tick and returns the new instant.
func (c *Clock) Advance() time.Time {
	c.now = c.now.Add(Tick)
	return c.now
}

// Project returns the instant n ticks from now without moving the clock.
func (c *Clock) Project(n int) time.Time {
	return c.now.Add(time.Duration(n) * Tick)
}

// Elapsed returns the simulated time spent since the clock started.
func (c *Clock) Elapsed() time.Duration {
	return c.now.Sub(c.start)
}
