package metrics

import (
	"testing"

	coremetrics "github.com/kilianp07/parcelsim/core/metrics"
)

type recordSink struct {
	count int
}

func (r *recordSink) RecordBatch(coremetrics.BatchEvent) error {
	r.count++
	return nil
}

func (r *recordSink) RecordDelivery(coremetrics.DeliveryEvent) error {
	r.count++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordBatch(coremetrics.BatchEvent{}); err != nil {
		t.Fatalf("record batch: %v", err)
	}
	if err := m.RecordDelivery(coremetrics.DeliveryEvent{}); err != nil {
		t.Fatalf("record delivery: %v", err)
	}
	if s1.count != 2 || s2.count != 2 {
		t.Fatalf("events not forwarded")
	}

	// Sinks without the optional recorders are skipped, not broken.
	if err := m.RecordWorldEvent(coremetrics.WorldEvent{}); err != nil {
		t.Fatalf("record world event: %v", err)
	}
	if err := m.RecordRun(coremetrics.RunSummary{}); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if s1.count != 2 || s2.count != 2 {
		t.Fatalf("optional records reached plain sinks")
	}
}
