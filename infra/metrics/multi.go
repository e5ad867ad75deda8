package metrics

import coremetrics "github.com/kilianp07/parcelsim/core/metrics"

// MultiSink fans simulation events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordBatch forwards the batch to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordBatch(ev coremetrics.BatchEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordBatch(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordDelivery forwards the delivery to all sinks.
func (m *MultiSink) RecordDelivery(ev coremetrics.DeliveryEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordDelivery(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordWorldEvent forwards fired events to the sinks able to record them.
func (m *MultiSink) RecordWorldEvent(ev coremetrics.WorldEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.WorldEventRecorder); ok {
			if err := rec.RecordWorldEvent(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordRun forwards run summaries to the sinks able to record them.
func (m *MultiSink) RecordRun(sum coremetrics.RunSummary) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.RunRecorder); ok {
			if err := rec.RecordRun(sum); err != nil {
				return err
			}
		}
	}
	return nil
}
