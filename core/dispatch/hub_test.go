package dispatch

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kilianp07/parcelsim/core/dispatch/decisionlog"
	"github.com/kilianp07/parcelsim/core/events"
	"github.com/kilianp07/parcelsim/core/metrics"
	"github.com/kilianp07/parcelsim/core/model"
	"github.com/kilianp07/parcelsim/internal/eventbus"
)

type countingSink struct {
	batches    []metrics.BatchEvent
	deliveries []metrics.DeliveryEvent
}

func (s *countingSink) RecordBatch(ev metrics.BatchEvent) error {
	s.batches = append(s.batches, ev)
	return nil
}

func (s *countingSink) RecordDelivery(ev metrics.DeliveryEvent) error {
	s.deliveries = append(s.deliveries, ev)
	return nil
}

func TestArriveLoadsVehicleAndRecordsDecision(t *testing.T) {
	locs := newWorld(t, testRows)
	items := []*model.Item{
		{ID: 1, Location: locs[1], Deadline: model.EndOfDay()},
		{ID: 2, Location: locs[2], Deadline: model.EndOfDay()},
	}
	hub, clk := newTestHub(t, locs, items)

	store, err := decisionlog.NewJSONLStore(filepath.Join(t.TempDir(), "decisions.jsonl"))
	if err != nil {
		t.Fatalf("NewJSONLStore: %v", err)
	}
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe(4)
	sink := &countingSink{}

	hub.SetBus(bus)
	hub.SetSink(sink)
	hub.SetDecisionStore(store)
	hub.SetRunID("run-test")

	v := testVehicle(1, 16, hub, clk)
	hub.Arrive(v)

	if got := len(v.Items()); got != 2 {
		t.Fatalf("vehicle carries %d items, want 2", got)
	}
	for _, it := range v.Items() {
		if it.Status.Kind != model.StatusOnVehicle || it.Status.VehicleID != 1 {
			t.Errorf("item %d status = %v, want on vehicle 1", it.ID, it.Status)
		}
	}

	select {
	case e := <-sub.C:
		loaded, ok := e.(events.BatchLoaded)
		if !ok {
			t.Fatalf("bus event = %T, want BatchLoaded", e)
		}
		if loaded.VehicleID != 1 || len(loaded.ItemIDs) != 2 {
			t.Errorf("BatchLoaded = %+v", loaded)
		}
		// hub -> loc1 -> loc2 is 2.0 + 1.5 units.
		if loaded.ProjectedSubunits != 35 {
			t.Errorf("ProjectedSubunits = %d, want 35", loaded.ProjectedSubunits)
		}
	default:
		t.Fatal("no BatchLoaded event published")
	}

	if len(sink.batches) != 1 || sink.batches[0].Size != 2 {
		t.Fatalf("sink batches = %+v, want one of size 2", sink.batches)
	}

	recs, err := store.Query(context.Background(), decisionlog.Query{RunID: "run-test"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(recs) != 1 || recs[0].VehicleID != 1 || len(recs[0].ItemIDs) != 2 {
		t.Fatalf("decision records = %+v", recs)
	}
}

func TestArriveParksVehicleWhenNothingEligible(t *testing.T) {
	locs := newWorld(t, testRows)
	hub, clk := newTestHub(t, locs, nil)

	v := testVehicle(1, 16, hub, clk)
	hub.Arrive(v)

	if !v.Waiting() {
		t.Fatal("vehicle not waiting after empty batch")
	}
	if len(v.Items()) != 0 {
		t.Fatalf("vehicle carries %d items, want 0", len(v.Items()))
	}
}
