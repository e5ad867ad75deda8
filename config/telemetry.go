package config

import (
	"fmt"

	"github.com/kilianp07/parcelsim/infra/telemetry"
)

// TelemetryConfig enables live event streaming over MQTT. Off by
// default; a run publishes nothing unless a broker is configured.
type TelemetryConfig struct {
	Enabled bool             `json:"enabled"`
	MQTT    telemetry.Config `json:"mqtt"`
}

// SetDefaults applies sane defaults.
func (c *TelemetryConfig) SetDefaults() {
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "parcelsim"
	}
}

// Validate checks the broker is set when streaming is on.
func (c TelemetryConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.MQTT.Broker == "" {
		return fmt.Errorf("telemetry needs an mqtt broker")
	}
	return nil
}
