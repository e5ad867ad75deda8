package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/parcelsim/core/clock"
	coremetrics "github.com/kilianp07/parcelsim/core/metrics"
)

func TestPromSinkRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("NewPromSinkWithRegistry: %v", err)
	}

	at := clock.At(8, 0, 0)
	if err := sink.RecordBatch(coremetrics.BatchEvent{VehicleID: 1, Size: 6, Time: at}); err != nil {
		t.Fatalf("RecordBatch: %v", err)
	}
	if err := sink.RecordDelivery(coremetrics.DeliveryEvent{ItemID: 4, VehicleID: 1, OnTime: true, Time: at}); err != nil {
		t.Fatalf("RecordDelivery: %v", err)
	}

	ps := sink.(*PromSink)
	if got := testutil.ToFloat64(ps.batches.WithLabelValues("1")); got != 1 {
		t.Errorf("hub_batches_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(ps.deliveries.WithLabelValues("1", "true")); got != 1 {
		t.Errorf("deliveries_total = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(ps.batchSize, "hub_batch_size"); n != 1 {
		t.Errorf("hub_batch_size children = %d, want 1", n)
	}

	wr := sink.(coremetrics.WorldEventRecorder)
	if err := wr.RecordWorldEvent(coremetrics.WorldEvent{Kind: "release-delayed", Items: 3, Time: at}); err != nil {
		t.Fatalf("RecordWorldEvent: %v", err)
	}
	if got := testutil.ToFloat64(ps.worldEvents.WithLabelValues("release-delayed")); got != 1 {
		t.Errorf("world_events_total = %v, want 1", got)
	}

	rr := sink.(coremetrics.RunRecorder)
	if err := rr.RecordRun(coremetrics.RunSummary{TotalMiles: 118.3}); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if got := testutil.ToFloat64(ps.miles); got != 118.3 {
		t.Errorf("fleet_miles_total = %v, want 118.3", got)
	}
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second registration: %v", err)
	}
}
