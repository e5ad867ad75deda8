package config

import (
	"fmt"
	"time"
)

// EventsConfig scripts the day's world events. An empty time disables
// the corresponding event.
type EventsConfig struct {
	// DelayedReleaseAt is when delayed items reach the hub, e.g. "9:05 AM".
	DelayedReleaseAt string `json:"delayed_release_at"`
	// Correction fixes one wrong address mid-run.
	Correction CorrectionConfig `json:"correction"`
}

// CorrectionConfig rebinds an undeliverable item to its real address.
// The address must match a location in the dataset exactly.
type CorrectionConfig struct {
	At      string `json:"at"`
	ItemID  int    `json:"item_id"`
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
}

// Validate checks the scripted events are complete. Tick alignment is
// checked when the events are scheduled against the run start.
func (c EventsConfig) Validate() error {
	if c.DelayedReleaseAt != "" {
		if _, err := parseTimeOfDay(c.DelayedReleaseAt); err != nil {
			return fmt.Errorf("delayed_release_at: %w", err)
		}
	}
	return c.Correction.Validate()
}

// ReleaseTime returns the parsed delayed-release instant.
func (c EventsConfig) ReleaseTime() (time.Time, error) {
	return parseTimeOfDay(c.DelayedReleaseAt)
}

// Time returns the parsed correction instant.
func (c CorrectionConfig) Time() (time.Time, error) {
	return parseTimeOfDay(c.At)
}

// Validate checks the correction has a parsable time and a full target.
func (c CorrectionConfig) Validate() error {
	if c.At == "" {
		return nil
	}
	if _, err := parseTimeOfDay(c.At); err != nil {
		return fmt.Errorf("correction at: %w", err)
	}
	if c.ItemID <= 0 {
		return fmt.Errorf("correction needs a positive item_id")
	}
	if c.Address == "" || c.City == "" || c.Zip == "" {
		return fmt.Errorf("correction needs address, city and zip")
	}
	return nil
}
