package sim

import (
	"fmt"
	"time"

	"github.com/kilianp07/parcelsim/core/clock"
	"github.com/kilianp07/parcelsim/core/model"
)

// World event kinds.
const (
	KindReleaseDelayed = "release-delayed"
	KindCorrectAddress = "correct-address"
)

// WorldEvent is a scheduled change to the world outside any vehicle's
// control. Each event fires exactly once, on the tick whose clock time
// equals At.
type WorldEvent struct {
	At   time.Time
	Kind string

	// ItemID and Location are set for address corrections only.
	ItemID   int
	Location *model.Location

	fired bool
}

// ReleaseDelayedAt schedules the hub arrival of every delayed item.
func ReleaseDelayedAt(at time.Time) *WorldEvent {
	return &WorldEvent{At: at, Kind: KindReleaseDelayed}
}

// CorrectAddressAt schedules an address correction for one item.
func CorrectAddressAt(at time.Time, itemID int, loc *model.Location) *WorldEvent {
	return &WorldEvent{At: at, Kind: KindCorrectAddress, ItemID: itemID, Location: loc}
}

// Validate checks the event against the run's start time. Events fire on
// exact tick instants, so At must land on the tick grid after start.
func (e *WorldEvent) Validate(start time.Time) error {
	switch e.Kind {
	case KindReleaseDelayed:
	case KindCorrectAddress:
		if e.ItemID <= 0 {
			return fmt.Errorf("world event %s: missing item id", e.Kind)
		}
		if e.Location == nil {
			return fmt.Errorf("world event %s for item %d: missing corrected location", e.Kind, e.ItemID)
		}
	default:
		return fmt.Errorf("unknown world event kind %q", e.Kind)
	}
	offset := e.At.Sub(start)
	if offset <= 0 {
		return fmt.Errorf("world event %s at %s: not after run start", e.Kind, e.At.Format("15:04:05"))
	}
	if offset%clock.Tick != 0 {
		return fmt.Errorf("world event %s at %s: not aligned to the %s tick", e.Kind, e.At.Format("15:04:05"), clock.Tick)
	}
	return nil
}
