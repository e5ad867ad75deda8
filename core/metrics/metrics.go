// Package metrics defines the observability surface of a simulation run.
// Concrete sinks live under infra/metrics; the driver and hub only see
// these interfaces.
package metrics

import "time"

// BatchEvent describes one committed batch.
type BatchEvent struct {
	VehicleID         int
	Size              int
	ProjectedSubunits int
	Time              time.Time
}

// DeliveryEvent describes one completed delivery.
type DeliveryEvent struct {
	ItemID    int
	VehicleID int
	OnTime    bool
	Time      time.Time
}

// Sink records the per-tick simulation events.
type Sink interface {
	RecordBatch(ev BatchEvent) error
	RecordDelivery(ev DeliveryEvent) error
}

// WorldEvent describes a fired scheduled event.
type WorldEvent struct {
	Kind  string
	Items int
	Time  time.Time
}

// WorldEventRecorder is implemented by sinks able to record scheduled
// world events.
type WorldEventRecorder interface {
	RecordWorldEvent(ev WorldEvent) error
}

// VehicleSummary is the end-of-run state of one vehicle.
type VehicleSummary struct {
	VehicleID      int     `json:"vehicle_id"`
	SubunitsDriven int     `json:"subunits_driven"`
	Miles          float64 `json:"miles"`
	Batches        int     `json:"batches"`
}

// RunSummary captures a finished run.
type RunSummary struct {
	RunID      string           `json:"run_id"`
	Finished   bool             `json:"finished"`
	Start      time.Time        `json:"start"`
	End        time.Time        `json:"end"`
	Delivered  int              `json:"delivered"`
	Late       int              `json:"late"`
	TotalMiles float64          `json:"total_miles"`
	Vehicles   []VehicleSummary `json:"vehicles"`
}

// RunRecorder is implemented by sinks able to record run summaries.
type RunRecorder interface {
	RecordRun(sum RunSummary) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordBatch(BatchEvent) error       { return nil }
func (NopSink) RecordDelivery(DeliveryEvent) error { return nil }
func (NopSink) RecordWorldEvent(WorldEvent) error  { return nil }
func (NopSink) RecordRun(RunSummary) error         { return nil }
