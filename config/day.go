package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/parcelsim/core/clock"
)

// timeOfDay is the layout for wall-clock config fields, the same form
// the dataset uses for deadlines.
const timeOfDay = "3:04 PM"

// Stop times must fall inside the operating window.
var (
	windowOpen  = clock.At(8, 0, 0)
	windowClose = clock.At(23, 59, 0)
)

// DayConfig fixes the simulated day: when vehicles roll out and an
// optional early cutoff for inspecting mid-day state.
type DayConfig struct {
	// Start is the instant vehicles leave the hub, e.g. "8:00 AM".
	Start string `json:"start"`
	// StopAt freezes the day at the given time instead of running to
	// completion. Empty runs until every item is delivered or the
	// operating window closes.
	StopAt string `json:"stop_at"`
}

// SetDefaults applies sane defaults.
func (c *DayConfig) SetDefaults() {
	if c.Start == "" {
		c.Start = "8:00 AM"
	}
}

// Validate checks the times parse and respect the operating window.
func (c DayConfig) Validate() error {
	start, err := parseTimeOfDay(c.Start)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if start.Before(windowOpen) {
		return fmt.Errorf("start %s is before 8:00 AM", c.Start)
	}
	if c.StopAt == "" {
		return nil
	}
	stop, err := parseTimeOfDay(c.StopAt)
	if err != nil {
		return fmt.Errorf("stop_at: %w", err)
	}
	if stop.Before(windowOpen) || stop.After(windowClose) {
		return fmt.Errorf("stop_at %s is outside the 8:00 AM to 11:59 PM window", c.StopAt)
	}
	if !stop.After(start) {
		return fmt.Errorf("stop_at %s is not after start %s", c.StopAt, c.Start)
	}
	return nil
}

// StartTime returns the parsed run start.
func (c DayConfig) StartTime() (time.Time, error) {
	return parseTimeOfDay(c.Start)
}

// StopTime returns the run cutoff: the parsed stop_at, or the close of
// the operating window when unset.
func (c DayConfig) StopTime() (time.Time, error) {
	if c.StopAt == "" {
		return windowClose, nil
	}
	return parseTimeOfDay(c.StopAt)
}

func parseTimeOfDay(s string) (time.Time, error) {
	t, err := time.Parse(timeOfDay, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return clock.At(t.Hour(), t.Minute(), 0), nil
}
