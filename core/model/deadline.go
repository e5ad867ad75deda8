package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/parcelsim/core/clock"
)

// EndOfDayHour is the hour of day that "EOD" deadlines normalize to.
const EndOfDayHour = 17

// Deadline is an item's latest acceptable delivery instant. End-of-day
// deadlines carry the concrete 17:00 cutoff but keep their soft flavour:
// the repair pass only protects items with a real wall-clock deadline.
type Deadline struct {
	at       time.Time
	endOfDay bool
}

// DeadlineAt returns a hard deadline for the given instant.
func DeadlineAt(t time.Time) Deadline {
	return Deadline{at: t}
}

// EndOfDay returns the soft end-of-day deadline.
func EndOfDay() Deadline {
	return Deadline{at: clock.At(EndOfDayHour, 0, 0), endOfDay: true}
}

// ParseDeadline reads the dataset deadline forms: "EOD" or a wall-clock
// time like "10:30 AM". Anything else is a setup error.
func ParseDeadline(s string) (Deadline, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "EOD") {
		return EndOfDay(), nil
	}
	t, err := time.Parse("3:04 PM", s)
	if err != nil {
		return Deadline{}, fmt.Errorf("parse deadline %q: %w", s, err)
	}
	return DeadlineAt(clock.At(t.Hour(), t.Minute(), 0)), nil
}

// Time returns the concrete deadline instant.
func (d Deadline) Time() time.Time {
	return d.at
}

// IsEndOfDay reports whether this is a soft end-of-day deadline.
func (d Deadline) IsEndOfDay() bool {
	return d.endOfDay
}

// Met reports whether a delivery at now meets the deadline. Arriving
// exactly on the deadline counts as on time.
func (d Deadline) Met(now time.Time) bool {
	return !now.After(d.at)
}

// Before orders deadlines by their concrete instant.
func (d Deadline) Before(other Deadline) bool {
	return d.at.Before(other.at)
}

// DaySeconds returns the deadline as seconds since midnight, used as an
// index key for grouping items that share a deadline.
func (d Deadline) DaySeconds() int {
	return d.at.Hour()*3600 + d.at.Minute()*60 + d.at.Second()
}

func (d Deadline) String() string {
	if d.endOfDay {
		return "EOD"
	}
	return d.at.Format("3:04 PM")
}
