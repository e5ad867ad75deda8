package config

import "fmt"

// DataConfig points at the dataset files.
type DataConfig struct {
	// Locations is the CSV with the address rows and distance table.
	Locations string `json:"locations"`
	// Items is the CSV item manifest.
	Items string `json:"items"`
}

// SetDefaults applies sane defaults.
func (c *DataConfig) SetDefaults() {
	if c.Locations == "" {
		c.Locations = "data/locations.csv"
	}
	if c.Items == "" {
		c.Items = "data/items.csv"
	}
}

// Validate checks mandatory fields.
func (c DataConfig) Validate() error {
	if c.Locations == "" {
		return fmt.Errorf("locations path is required")
	}
	if c.Items == "" {
		return fmt.Errorf("items path is required")
	}
	return nil
}
