package config

import "fmt"

// FleetConfig sizes the fleet.
type FleetConfig struct {
	// Vehicles is the fleet size.
	Vehicles int `json:"vehicles"`
	// Capacity is the per-vehicle item limit.
	Capacity int `json:"capacity"`
	// Drivers is how many vehicles roll out at start; the rest stay
	// parked for the day.
	Drivers int `json:"drivers"`
}

// SetDefaults applies sane defaults.
func (c *FleetConfig) SetDefaults() {
	if c.Vehicles == 0 {
		c.Vehicles = 3
	}
	if c.Capacity == 0 {
		c.Capacity = 16
	}
	if c.Drivers == 0 {
		c.Drivers = 2
	}
}

// Validate checks the fleet numbers.
func (c FleetConfig) Validate() error {
	if c.Vehicles < 1 {
		return fmt.Errorf("vehicles must be >= 1")
	}
	if c.Capacity < 1 {
		return fmt.Errorf("capacity must be >= 1")
	}
	if c.Drivers < 1 {
		return fmt.Errorf("drivers must be >= 1")
	}
	if c.Drivers > c.Vehicles {
		return fmt.Errorf("%d drivers for %d vehicles", c.Drivers, c.Vehicles)
	}
	return nil
}
