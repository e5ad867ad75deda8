// Package scenarios runs YAML-scripted delivery days end to end and
// checks the outcome against the script's expectations. Fixtures in this
// directory are picked up by the scenario test automatically.
package scenarios

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/parcelsim/core/model"
)

// LocationDef is one location row: its address and the distances to
// every earlier location plus the zero self-distance. The first location
// is the hub.
type LocationDef struct {
	Address   string    `yaml:"address"`
	Distances []float64 `yaml:"distances"`
}

// ItemDef is one deliverable, addressed by location address.
type ItemDef struct {
	ID           int    `yaml:"id"`
	Address      string `yaml:"address"`
	Deadline     string `yaml:"deadline"`
	Weight       int    `yaml:"weight,omitempty"`
	Status       string `yaml:"status,omitempty"`
	RestrictedTo int    `yaml:"restricted_to,omitempty"`
	DeliverWith  []int  `yaml:"deliver_with,omitempty"`
}

type DayDef struct {
	Start  string `yaml:"start"`
	StopAt string `yaml:"stop_at,omitempty"`
}

type FleetDef struct {
	Vehicles int `yaml:"vehicles"`
	Capacity int `yaml:"capacity"`
	Drivers  int `yaml:"drivers"`
}

type CorrectionDef struct {
	At      string `yaml:"at,omitempty"`
	ItemID  int    `yaml:"item_id,omitempty"`
	Address string `yaml:"address,omitempty"`
}

type EventsDef struct {
	ReleaseDelayedAt string        `yaml:"release_delayed_at,omitempty"`
	Correction       CorrectionDef `yaml:"correction,omitempty"`
}

// Expected is the scripted outcome. Zero-valued optional fields are not
// checked.
type Expected struct {
	Finished   bool    `yaml:"finished"`
	Delivered  int     `yaml:"delivered"`
	Late       int     `yaml:"late"`
	Batches    int     `yaml:"batches,omitempty"`
	TotalMiles float64 `yaml:"total_miles,omitempty"`
	OnTime     []int   `yaml:"on_time,omitempty"`
}

type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Day         DayDef        `yaml:"day"`
	Fleet       FleetDef      `yaml:"fleet"`
	Locations   []LocationDef `yaml:"locations"`
	Items       []ItemDef     `yaml:"items"`
	Events      EventsDef     `yaml:"events,omitempty"`
	Expected    Expected      `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func parseStatus(s string) (model.Status, error) {
	switch {
	case s == "" || strings.EqualFold(s, "At hub"):
		return model.AtHub(), nil
	case strings.EqualFold(s, "Delayed"):
		return model.Delayed(), nil
	case strings.EqualFold(s, "Undeliverable"):
		return model.Undeliverable(), nil
	}
	return model.Status{}, fmt.Errorf("unknown status %q", s)
}
