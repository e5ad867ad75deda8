package events

import "time"

// WorldEventFired is published when a scheduled world event triggers.
// Kind matches the sim event kinds ("release-delayed", "correct-address").
type WorldEventFired struct {
	Kind string `json:"kind"`
	// ItemIDs lists the items the event touched: every released item for a
	// delayed-arrival event, the corrected item for an address correction.
	ItemIDs []int     `json:"item_ids"`
	At      time.Time `json:"at"`
}

// RunCompleted is published once when the driver loop exits.
type RunCompleted struct {
	RunID     string    `json:"run_id"`
	Finished  bool      `json:"finished"`
	At        time.Time `json:"at"`
	Delivered int       `json:"delivered"`
	Late      int       `json:"late"`
}
