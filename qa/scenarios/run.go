package scenarios

import (
	"context"
	"testing"
	"time"

	"github.com/kilianp07/parcelsim/core/clock"
	"github.com/kilianp07/parcelsim/core/dispatch"
	"github.com/kilianp07/parcelsim/core/model"
	"github.com/kilianp07/parcelsim/core/sim"
	"github.com/kilianp07/parcelsim/infra/logger"
)

// RunScenario builds the scripted day from scratch, runs it to the end
// and checks every expectation.
func RunScenario(t *testing.T, sc *Scenario) {
	locs, byAddr := buildWorld(t, sc)
	items := buildItems(t, sc, byAddr)

	clk := clock.New(parseWhen(t, sc.Day.Start))
	hub, err := dispatch.NewHub(locs[0], clk, logger.NopLogger{})
	if err != nil {
		t.Fatalf("hub: %v", err)
	}
	if err := hub.IndexItems(items); err != nil {
		t.Fatalf("index items: %v", err)
	}
	vehicles := make([]*model.Vehicle, sc.Fleet.Vehicles)
	for i := range vehicles {
		vehicles[i] = model.NewVehicle(i+1, sc.Fleet.Capacity, hub, clk)
	}

	stop := clock.At(23, 59, 0)
	if sc.Day.StopAt != "" {
		stop = parseWhen(t, sc.Day.StopAt)
	}
	drv, err := sim.NewDriver(clk, hub, vehicles, sc.Fleet.Drivers, stop, logger.NopLogger{})
	if err != nil {
		t.Fatalf("driver: %v", err)
	}
	if err := drv.Schedule(scriptedEvents(t, sc, byAddr)...); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	finished, err := drv.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if finished != sc.Expected.Finished {
		t.Errorf("finished = %v, want %v", finished, sc.Expected.Finished)
	}
	sum := drv.Summary()
	if sum.Delivered != sc.Expected.Delivered {
		t.Errorf("delivered = %d, want %d", sum.Delivered, sc.Expected.Delivered)
	}
	if sum.Late != sc.Expected.Late {
		t.Errorf("late = %d, want %d", sum.Late, sc.Expected.Late)
	}
	if sc.Expected.Batches > 0 {
		batches := 0
		for _, v := range sum.Vehicles {
			batches += v.Batches
		}
		if batches != sc.Expected.Batches {
			t.Errorf("batches = %d, want %d", batches, sc.Expected.Batches)
		}
	}
	if sc.Expected.TotalMiles > 0 && sum.TotalMiles != sc.Expected.TotalMiles {
		t.Errorf("total miles = %v, want %v", sum.TotalMiles, sc.Expected.TotalMiles)
	}
	for _, id := range sc.Expected.OnTime {
		it, err := hub.Item(id)
		if err != nil {
			t.Errorf("on_time item %d: %v", id, err)
			continue
		}
		if it.Status.Kind != model.StatusDelivered || !it.Status.OnTime {
			t.Errorf("item %d status = %v, want delivered on time", id, it.Status)
		}
	}
}

func buildWorld(t *testing.T, sc *Scenario) ([]*model.Location, map[string]*model.Location) {
	t.Helper()
	rows := make([][]float64, len(sc.Locations))
	for i, def := range sc.Locations {
		rows[i] = def.Distances
	}
	table, err := model.NewDistanceTable(rows)
	if err != nil {
		t.Fatalf("distance table: %v", err)
	}
	locs := make([]*model.Location, len(sc.Locations))
	byAddr := make(map[string]*model.Location, len(sc.Locations))
	for i, def := range sc.Locations {
		locs[i] = model.NewLocation(i, def.Address, "Salt Lake City", "84111", table)
		byAddr[def.Address] = locs[i]
	}
	return locs, byAddr
}

func buildItems(t *testing.T, sc *Scenario, byAddr map[string]*model.Location) []*model.Item {
	t.Helper()
	items := make([]*model.Item, len(sc.Items))
	for i, def := range sc.Items {
		loc, ok := byAddr[def.Address]
		if !ok {
			t.Fatalf("item %d: unknown address %q", def.ID, def.Address)
		}
		deadline, err := model.ParseDeadline(def.Deadline)
		if err != nil {
			t.Fatalf("item %d: %v", def.ID, err)
		}
		status, err := parseStatus(def.Status)
		if err != nil {
			t.Fatalf("item %d: %v", def.ID, err)
		}
		items[i] = &model.Item{
			ID:           def.ID,
			Weight:       def.Weight,
			Location:     loc,
			Deadline:     deadline,
			Status:       status,
			RestrictedTo: def.RestrictedTo,
			DeliverWith:  def.DeliverWith,
		}
	}
	return items
}

func scriptedEvents(t *testing.T, sc *Scenario, byAddr map[string]*model.Location) []*sim.WorldEvent {
	t.Helper()
	var evs []*sim.WorldEvent
	if sc.Events.ReleaseDelayedAt != "" {
		evs = append(evs, sim.ReleaseDelayedAt(parseWhen(t, sc.Events.ReleaseDelayedAt)))
	}
	if sc.Events.Correction.At != "" {
		loc, ok := byAddr[sc.Events.Correction.Address]
		if !ok {
			t.Fatalf("correction: unknown address %q", sc.Events.Correction.Address)
		}
		evs = append(evs, sim.CorrectAddressAt(parseWhen(t, sc.Events.Correction.At), sc.Events.Correction.ItemID, loc))
	}
	return evs
}

func parseWhen(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("3:04 PM", s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return clock.At(parsed.Hour(), parsed.Minute(), 0)
}
