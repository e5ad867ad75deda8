package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/parcelsim/core/metrics"
	"github.com/kilianp07/parcelsim/infra/logger"
)

// InfluxSink writes simulation events to an InfluxDB instance using the
// official client. Points carry the simulated clock, not wall time, so
// one run plots as one contiguous day.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

// RecordBatch writes one loaded batch.
func (s *InfluxSink) RecordBatch(ev coremetrics.BatchEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("hub_batch").
		AddTag("vehicle_id", strconv.Itoa(ev.VehicleID)).
		AddTag("component", "hub").
		AddField("size", ev.Size).
		AddField("route_subunits", ev.ProjectedSubunits).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordDelivery writes one completed delivery.
func (s *InfluxSink) RecordDelivery(ev coremetrics.DeliveryEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("delivery").
		AddTag("vehicle_id", strconv.Itoa(ev.VehicleID)).
		AddTag("on_time", strconv.FormatBool(ev.OnTime)).
		AddTag("component", "vehicle").
		AddField("item_id", ev.ItemID).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordWorldEvent writes one fired scheduled event.
func (s *InfluxSink) RecordWorldEvent(ev coremetrics.WorldEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("world_event").
		AddTag("kind", ev.Kind).
		AddTag("component", "driver").
		AddField("items", ev.Items).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRun writes the run summary plus one point per vehicle.
func (s *InfluxSink) RecordRun(sum coremetrics.RunSummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("run_summary").
		AddTag("run_id", sum.RunID).
		AddTag("finished", strconv.FormatBool(sum.Finished)).
		AddField("delivered", sum.Delivered).
		AddField("late", sum.Late).
		AddField("total_miles", round3(sum.TotalMiles)).
		SetTime(sum.End)
	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		return err
	}
	for _, v := range sum.Vehicles {
		vp := write.NewPointWithMeasurement("vehicle_summary").
			AddTag("run_id", sum.RunID).
			AddTag("vehicle_id", strconv.Itoa(v.VehicleID)).
			AddField("miles", round3(v.Miles)).
			AddField("subunits_driven", v.SubunitsDriven).
			AddField("batches", v.Batches).
			SetTime(sum.End)
		if err := s.writeAPI.WritePoint(ctx, vp); err != nil {
			return err
		}
	}
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
