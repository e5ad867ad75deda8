package config

import "fmt"

// MetricsConfig selects the metric sinks. Both default to off; runs
// without sinks record nothing.
type MetricsConfig struct {
	Prometheus PrometheusConfig `json:"prometheus"`
	Influx     InfluxConfig     `json:"influx"`
}

// PrometheusConfig exposes counters on an HTTP scrape endpoint.
type PrometheusConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// InfluxConfig streams run points to an InfluxDB bucket.
type InfluxConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	Token   string `json:"token"`
	Org     string `json:"org"`
	Bucket  string `json:"bucket"`
}

// SetDefaults applies sane defaults.
func (c *MetricsConfig) SetDefaults() {
	if c.Prometheus.Addr == "" {
		c.Prometheus.Addr = ":2112"
	}
}

// Validate checks enabled sinks have the fields they need.
func (c MetricsConfig) Validate() error {
	if c.Influx.Enabled {
		if c.Influx.URL == "" || c.Influx.Token == "" || c.Influx.Org == "" || c.Influx.Bucket == "" {
			return fmt.Errorf("influx needs url, token, org and bucket")
		}
	}
	return nil
}
