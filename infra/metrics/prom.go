package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/parcelsim/core/metrics"
)

// PromSink records simulation events in Prometheus metrics.
type PromSink struct {
	batches     *prometheus.CounterVec
	batchSize   *prometheus.HistogramVec
	deliveries  *prometheus.CounterVec
	worldEvents *prometheus.CounterVec
	miles       prometheus.Gauge
}

// NewPromSink registers simulation metrics on the default Prometheus
// registerer. The Prometheus server is started separately from the
// configured port.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	batches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hub_batches_total",
		Help: "Total number of batches loaded at the hub",
	}, []string{"vehicle_id"})
	batchSize := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hub_batch_size",
		Help:    "Items per loaded batch",
		Buckets: prometheus.LinearBuckets(2, 2, 8),
	}, []string{"vehicle_id"})
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deliveries_total",
		Help: "Total number of completed deliveries",
	}, []string{"vehicle_id", "on_time"})
	worldEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "world_events_total",
		Help: "Total number of fired scheduled events",
	}, []string{"kind"})
	miles := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_miles_total",
		Help: "Miles driven by the whole fleet at end of run",
	})

	if err := reg.Register(batches); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			batches = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(batchSize); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			batchSize = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(deliveries); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			deliveries = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(worldEvents); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			worldEvents = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(miles); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			miles = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		batches:     batches,
		batchSize:   batchSize,
		deliveries:  deliveries,
		worldEvents: worldEvents,
		miles:       miles,
	}, nil
}

// RecordBatch counts the batch and observes its size.
func (s *PromSink) RecordBatch(ev coremetrics.BatchEvent) error {
	id := strconv.Itoa(ev.VehicleID)
	s.batches.WithLabelValues(id).Inc()
	s.batchSize.WithLabelValues(id).Observe(float64(ev.Size))
	return nil
}

// RecordDelivery counts the delivery, split by punctuality.
func (s *PromSink) RecordDelivery(ev coremetrics.DeliveryEvent) error {
	s.deliveries.WithLabelValues(strconv.Itoa(ev.VehicleID), strconv.FormatBool(ev.OnTime)).Inc()
	return nil
}

// RecordWorldEvent counts the fired event by kind.
func (s *PromSink) RecordWorldEvent(ev coremetrics.WorldEvent) error {
	s.worldEvents.WithLabelValues(ev.Kind).Inc()
	return nil
}

// RecordRun sets the end-of-run fleet gauge.
func (s *PromSink) RecordRun(sum coremetrics.RunSummary) error {
	if s.miles != nil {
		s.miles.Set(sum.TotalMiles)
	}
	return nil
}
