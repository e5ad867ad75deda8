// Package app assembles a configured delivery day: dataset, hub, fleet,
// driver and the observability sinks, in one place the CLI can run.
package app

import (
	"context"
	"fmt"

	"github.com/kilianp07/parcelsim/config"
	"github.com/kilianp07/parcelsim/core/clock"
	"github.com/kilianp07/parcelsim/core/dispatch"
	"github.com/kilianp07/parcelsim/core/dispatch/decisionlog"
	coremetrics "github.com/kilianp07/parcelsim/core/metrics"
	"github.com/kilianp07/parcelsim/core/model"
	"github.com/kilianp07/parcelsim/core/report"
	"github.com/kilianp07/parcelsim/core/sim"
	"github.com/kilianp07/parcelsim/infra/logger"
	"github.com/kilianp07/parcelsim/infra/metrics"
	"github.com/kilianp07/parcelsim/infra/telemetry"
	"github.com/kilianp07/parcelsim/internal/eventbus"
	"github.com/kilianp07/parcelsim/loader"
)

// Service orchestrates one simulated delivery day.
type Service struct {
	Driver  *sim.Driver
	Dataset *loader.Dataset

	bus       *eventbus.Bus
	store     decisionlog.Store
	influx    *metrics.InfluxSink
	publisher *telemetry.Publisher
	log       logger.Logger

	promEnabled bool
	promAddr    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	driver, ds, err := build(cfg)
	if err != nil {
		return nil, err
	}

	svc := &Service{
		Driver:      driver,
		Dataset:     ds,
		bus:         eventbus.New(),
		log:         logger.New("service"),
		promEnabled: cfg.Metrics.Prometheus.Enabled,
		promAddr:    cfg.Metrics.Prometheus.Addr,
	}
	driver.SetBus(svc.bus)

	store, err := openDecisionStore(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("decision store: %w", err)
	}
	svc.store = store
	driver.SetDecisionStore(store)

	sink, influx, err := buildSink(cfg.Metrics)
	if err != nil {
		return nil, err
	}
	svc.influx = influx
	driver.SetSink(sink)

	if cfg.Telemetry.Enabled {
		pub, err := telemetry.NewPublisher(cfg.Telemetry.MQTT)
		if err != nil {
			return nil, fmt.Errorf("telemetry: %w", err)
		}
		svc.publisher = pub
	}
	return svc, nil
}

// Validate loads the dataset and checks the configured day wires up,
// without opening stores, sinks or broker connections.
func Validate(cfg *config.Config) error {
	_, _, err := build(cfg)
	return err
}

// build assembles the simulation core shared by New and Validate.
func build(cfg *config.Config) (*sim.Driver, *loader.Dataset, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("app: nil config")
	}
	ds, err := loader.Load(cfg.Data.Locations, cfg.Data.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset: %w", err)
	}
	start, err := cfg.Day.StartTime()
	if err != nil {
		return nil, nil, fmt.Errorf("day start: %w", err)
	}
	stop, err := cfg.Day.StopTime()
	if err != nil {
		return nil, nil, fmt.Errorf("day stop: %w", err)
	}

	clk := clock.New(start)
	hub, err := dispatch.NewHub(ds.Hub(), clk, logger.New("hub"))
	if err != nil {
		return nil, nil, err
	}
	if err := hub.IndexItems(ds.Items); err != nil {
		return nil, nil, fmt.Errorf("index items: %w", err)
	}
	vehicles := make([]*model.Vehicle, cfg.Fleet.Vehicles)
	for i := range vehicles {
		vehicles[i] = model.NewVehicle(i+1, cfg.Fleet.Capacity, hub, clk)
	}
	driver, err := sim.NewDriver(clk, hub, vehicles, cfg.Fleet.Drivers, stop, logger.New("driver"))
	if err != nil {
		return nil, nil, err
	}

	evs, err := scheduledEvents(cfg.Events, ds)
	if err != nil {
		return nil, nil, err
	}
	if err := driver.Schedule(evs...); err != nil {
		return nil, nil, fmt.Errorf("schedule events: %w", err)
	}
	return driver, ds, nil
}

// scheduledEvents translates the config's scripted events, resolving the
// corrected address against the dataset.
func scheduledEvents(cfg config.EventsConfig, ds *loader.Dataset) ([]*sim.WorldEvent, error) {
	var evs []*sim.WorldEvent
	if cfg.DelayedReleaseAt != "" {
		at, err := cfg.ReleaseTime()
		if err != nil {
			return nil, fmt.Errorf("events: %w", err)
		}
		evs = append(evs, sim.ReleaseDelayedAt(at))
	}
	if cfg.Correction.At != "" {
		at, err := cfg.Correction.Time()
		if err != nil {
			return nil, fmt.Errorf("events: %w", err)
		}
		loc, err := ds.LocationByAddress(cfg.Correction.Address, cfg.Correction.City, cfg.Correction.Zip)
		if err != nil {
			return nil, fmt.Errorf("correction: %w", err)
		}
		evs = append(evs, sim.CorrectAddressAt(at, cfg.Correction.ItemID, loc))
	}
	return evs, nil
}

func openDecisionStore(cfg config.LoggingConfig) (decisionlog.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return decisionlog.NewSQLiteStore(cfg.Path)
	default:
		return decisionlog.NewJSONLStore(cfg.Path)
	}
}

// buildSink assembles the configured sinks into one. It also returns the
// influx sink when one connected, so Close can release its client.
func buildSink(cfg config.MetricsConfig) (coremetrics.Sink, *metrics.InfluxSink, error) {
	var sinks []coremetrics.Sink
	if cfg.Prometheus.Enabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	var influx *metrics.InfluxSink
	if cfg.Influx.Enabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Influx.URL, cfg.Influx.Token, cfg.Influx.Org, cfg.Influx.Bucket)
		if is, ok := sink.(*metrics.InfluxSink); ok {
			influx = is
		}
		sinks = append(sinks, sink)
	}
	switch len(sinks) {
	case 0:
		return nil, influx, nil
	case 1:
		return sinks[0], influx, nil
	}
	return metrics.NewMultiSink(sinks...), influx, nil
}

// Run executes the delivery day and blocks until it completes, the
// cutoff passes or the context is canceled. It reports whether every
// item was delivered.
func (s *Service) Run(ctx context.Context) (bool, error) {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.publisher != nil {
		s.publisher.Stream(ctx, s.bus)
	}
	return s.Driver.Run(ctx)
}

// Bus exposes the run's event bus for additional subscribers. Subscribe
// before calling Run; the bus does not replay.
func (s *Service) Bus() *eventbus.Bus {
	return s.bus
}

// Report builds the end-of-day report for the run.
func (s *Service) Report() *report.Report {
	return report.Build(s.Dataset.Items, s.Driver.Summary())
}

// Close releases the bus, the broker connection, the influx client and
// the decision store.
func (s *Service) Close() error {
	s.bus.Close()
	if s.publisher != nil {
		s.publisher.Close()
	}
	if s.influx != nil {
		s.influx.Close()
	}
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
