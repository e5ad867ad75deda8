// Package sim drives a simulated delivery day tick by tick. The driver
// seeds the first vehicles at the hub, then advances the shared clock,
// fires scheduled world events and moves every vehicle, until all items
// are delivered or the cutoff time is reached.
package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/parcelsim/core/clock"
	"github.com/kilianp07/parcelsim/core/dispatch"
	"github.com/kilianp07/parcelsim/core/dispatch/decisionlog"
	"github.com/kilianp07/parcelsim/core/events"
	"github.com/kilianp07/parcelsim/core/logger"
	"github.com/kilianp07/parcelsim/core/metrics"
	"github.com/kilianp07/parcelsim/core/model"
	"github.com/kilianp07/parcelsim/internal/eventbus"
)

// Driver owns the simulation loop for one delivery day.
type Driver struct {
	clock    *clock.Clock
	hub      *dispatch.Hub
	vehicles []*model.Vehicle
	drivers  int
	stopAt   time.Time
	log      logger.Logger

	events []*WorldEvent
	sink   metrics.Sink
	bus    *eventbus.Bus

	runID    string
	started  time.Time
	finished bool
}

// NewDriver wires a driver over an indexed hub and its fleet. drivers is
// how many vehicles leave at open. Driver handoff between vehicles is
// not modeled, so the remaining vehicles stay parked all day.
func NewDriver(clk *clock.Clock, hub *dispatch.Hub, vehicles []*model.Vehicle, drivers int, stopAt time.Time, log logger.Logger) (*Driver, error) {
	if clk == nil || hub == nil || log == nil {
		return nil, fmt.Errorf("sim: nil parameter provided to NewDriver")
	}
	if len(vehicles) == 0 {
		return nil, fmt.Errorf("sim: no vehicles")
	}
	for i, v := range vehicles {
		if v == nil {
			return nil, fmt.Errorf("sim: vehicle %d is nil", i)
		}
	}
	if drivers < 1 {
		return nil, fmt.Errorf("sim: need at least one driver, got %d", drivers)
	}
	if drivers > len(vehicles) {
		drivers = len(vehicles)
	}
	if !stopAt.After(clk.Now()) {
		return nil, fmt.Errorf("sim: stop time %s is not after start %s",
			stopAt.Format("15:04:05"), clk.Now().Format("15:04:05"))
	}
	d := &Driver{
		clock:    clk,
		hub:      hub,
		vehicles: vehicles,
		drivers:  drivers,
		stopAt:   stopAt,
		log:      log,
		sink:     metrics.NopSink{},
		runID:    uuid.NewString(),
	}
	hub.SetRunID(d.runID)
	for _, v := range vehicles {
		d.observe(v)
	}
	return d, nil
}

// RunID returns the identity this run's records are tagged with.
func (d *Driver) RunID() string { return d.runID }

// Hub returns the hub the driver dispatches from.
func (d *Driver) Hub() *dispatch.Hub { return d.hub }

// SetBus configures the event bus run events are published on. The hub
// shares it for batch events.
func (d *Driver) SetBus(bus *eventbus.Bus) {
	d.bus = bus
	d.hub.SetBus(bus)
}

// SetSink configures the metrics sink deliveries and run summaries are
// recorded to. The hub shares it for batch records.
func (d *Driver) SetSink(sink metrics.Sink) {
	if sink != nil {
		d.sink = sink
		d.hub.SetSink(sink)
	}
}

// SetDecisionStore configures the store the hub persists batch
// decisions to.
func (d *Driver) SetDecisionStore(store decisionlog.Store) {
	d.hub.SetDecisionStore(store)
}

// Schedule registers world events for the run. Invalid or off-grid
// events are rejected up front so they cannot silently never fire.
func (d *Driver) Schedule(evs ...*WorldEvent) error {
	for _, ev := range evs {
		if ev == nil {
			return fmt.Errorf("sim: nil world event")
		}
		if err := ev.Validate(d.clock.Start()); err != nil {
			return fmt.Errorf("sim: %w", err)
		}
		d.events = append(d.events, ev)
	}
	return nil
}

// Run executes the day until every item is delivered or the cutoff is
// reached. It reports whether the day finished.
func (d *Driver) Run(ctx context.Context) (bool, error) {
	d.started = d.clock.Now()
	d.log.Infow("run starting", map[string]any{
		"run_id":   d.runID,
		"vehicles": len(d.vehicles),
		"items":    d.hub.RemainingCount(),
		"clock":    d.started.Format("15:04:05"),
	})
	for _, v := range d.vehicles[:d.drivers] {
		d.hub.Arrive(v)
	}
	for !d.allDelivered() && d.clock.Now().Before(d.stopAt) {
		if err := ctx.Err(); err != nil {
			return false, fmt.Errorf("run %s: %w", d.runID, err)
		}
		d.clock.Advance()
		d.fireDue()
		for _, v := range d.vehicles {
			v.Tick()
		}
	}
	d.finished = d.allDelivered()
	d.complete()
	return d.finished, nil
}

// allDelivered reports whether the day is done: nothing left at the hub
// or on a vehicle, and the whole fleet parked back at the hub. Final
// mileage therefore always covers the return leg.
func (d *Driver) allDelivered() bool {
	if d.hub.RemainingCount() != 0 {
		return false
	}
	for _, v := range d.vehicles {
		if len(v.Items()) != 0 || !v.AtHub() {
			return false
		}
	}
	return true
}

// fireDue triggers every scheduled event whose time is now.
func (d *Driver) fireDue() {
	now := d.clock.Now()
	for _, ev := range d.events {
		if ev.fired || !ev.At.Equal(now) {
			continue
		}
		ev.fired = true
		d.fire(ev, now)
	}
}

func (d *Driver) fire(ev *WorldEvent, now time.Time) {
	var ids []int
	switch ev.Kind {
	case KindReleaseDelayed:
		ids = d.hub.ReleaseDelayed()
		d.log.Infow("delayed items arrived", map[string]any{
			"items": ids,
			"clock": now.Format("15:04:05"),
		})
	case KindCorrectAddress:
		if err := d.hub.CorrectAddress(ev.ItemID, ev.Location); err != nil {
			d.log.Errorf("world event: %v", err)
			return
		}
		ids = []int{ev.ItemID}
		d.log.Infow("address corrected", map[string]any{
			"item":    ev.ItemID,
			"address": ev.Location.Address,
			"clock":   now.Format("15:04:05"),
		})
	default:
		d.log.Errorf("unknown world event kind %q", ev.Kind)
		return
	}
	if rec, ok := d.sink.(metrics.WorldEventRecorder); ok {
		if err := rec.RecordWorldEvent(metrics.WorldEvent{Kind: ev.Kind, Items: len(ids), Time: now}); err != nil {
			d.log.Warnf("record world event: %v", err)
		}
	}
	if d.bus != nil {
		d.bus.Publish(events.WorldEventFired{Kind: ev.Kind, ItemIDs: ids, At: now})
	}
}

// observe hooks one vehicle's state changes into the log, the metrics
// sink and the bus.
func (d *Driver) observe(v *model.Vehicle) {
	v.OnDelivered = func(it *model.Item) {
		now := d.clock.Now()
		d.log.Infow("delivered", map[string]any{
			"item":    it.ID,
			"vehicle": v.ID,
			"on_time": it.Status.OnTime,
			"clock":   now.Format("15:04:05"),
		})
		if err := d.sink.RecordDelivery(metrics.DeliveryEvent{
			ItemID:    it.ID,
			VehicleID: v.ID,
			OnTime:    it.Status.OnTime,
			Time:      now,
		}); err != nil {
			d.log.Warnf("record delivery: %v", err)
		}
		if d.bus != nil {
			d.bus.Publish(events.ItemDelivered{
				ItemID:    it.ID,
				VehicleID: v.ID,
				At:        now,
				OnTime:    it.Status.OnTime,
			})
		}
	}
	v.OnWaiting = func() {
		if d.bus != nil {
			d.bus.Publish(events.VehicleWaiting{VehicleID: v.ID, At: d.clock.Now()})
		}
	}
}

// Summary reports the run's totals. Call it after Run for the
// end-of-day numbers.
func (d *Driver) Summary() metrics.RunSummary {
	sum := metrics.RunSummary{
		RunID:    d.runID,
		Finished: d.finished,
		Start:    d.started,
		End:      d.clock.Now(),
	}
	for _, it := range d.hub.Items() {
		if it.Status.Kind != model.StatusDelivered {
			continue
		}
		sum.Delivered++
		if !it.Status.OnTime {
			sum.Late++
		}
	}
	for _, v := range d.vehicles {
		sum.TotalMiles += v.Miles()
		sum.Vehicles = append(sum.Vehicles, metrics.VehicleSummary{
			VehicleID:      v.ID,
			SubunitsDriven: v.SubunitsDriven(),
			Miles:          v.Miles(),
			Batches:        d.hub.BatchCount(v.ID),
		})
	}
	return sum
}

func (d *Driver) complete() {
	sum := d.Summary()
	d.log.Infow("run complete", map[string]any{
		"run_id":      d.runID,
		"finished":    sum.Finished,
		"delivered":   sum.Delivered,
		"late":        sum.Late,
		"total_miles": sum.TotalMiles,
		"clock":       sum.End.Format("15:04:05"),
	})
	if rec, ok := d.sink.(metrics.RunRecorder); ok {
		if err := rec.RecordRun(sum); err != nil {
			d.log.Warnf("record run: %v", err)
		}
	}
	if d.bus != nil {
		d.bus.Publish(events.RunCompleted{
			RunID:     d.runID,
			Finished:  sum.Finished,
			At:        sum.End,
			Delivered: sum.Delivered,
			Late:      sum.Late,
		})
	}
}
