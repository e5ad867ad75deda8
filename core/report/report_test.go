package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/kilianp07/parcelsim/core/clock"
	"github.com/kilianp07/parcelsim/core/metrics"
	"github.com/kilianp07/parcelsim/core/model"
)

func reportFixture(t *testing.T) *Report {
	t.Helper()
	table, err := model.NewDistanceTable([][]float64{{0}, {2.0, 0}})
	if err != nil {
		t.Fatalf("NewDistanceTable: %v", err)
	}
	loc := model.NewLocation(1, "195 W Oquirrh Ave", "Salt Lake City", "84115", table)

	start := clock.At(8, 0, 0)
	items := []*model.Item{
		{
			ID:       1,
			Weight:   21,
			Location: loc,
			Deadline: model.EndOfDay(),
			Status:   model.Delivered(clock.At(8, 10, 0), true),
		},
		{
			ID:       2,
			Weight:   44,
			Location: loc,
			Deadline: model.EndOfDay(),
			Status:   model.OnVehicle(2),
		},
	}
	sum := metrics.RunSummary{
		RunID:     "run-report",
		Finished:  false,
		Start:     start,
		End:       clock.At(17, 0, 0),
		Delivered: 1,
		Late:      0,
		Vehicles: []metrics.VehicleSummary{
			{VehicleID: 1, SubunitsDriven: 45, Miles: 4.5, Batches: 2},
			{VehicleID: 2, SubunitsDriven: 25, Miles: 2.5, Batches: 1},
		},
	}
	return Build(items, sum)
}

func TestBuildFleetStats(t *testing.T) {
	rep := reportFixture(t)

	if rep.Fleet.TotalMiles != 7.0 {
		t.Errorf("TotalMiles = %v, want 7.0", rep.Fleet.TotalMiles)
	}
	if rep.Fleet.MeanMilesPerVehicle != 3.5 {
		t.Errorf("MeanMilesPerVehicle = %v, want 3.5", rep.Fleet.MeanMilesPerVehicle)
	}
	if rep.Fleet.MaxVehicleMiles != 4.5 {
		t.Errorf("MaxVehicleMiles = %v, want 4.5", rep.Fleet.MaxVehicleMiles)
	}
	if rep.Fleet.MeanDeliveryMinutes != 10.0 {
		t.Errorf("MeanDeliveryMinutes = %v, want 10.0", rep.Fleet.MeanDeliveryMinutes)
	}
	if rep.Fleet.OnTimeRate != 1.0 {
		t.Errorf("OnTimeRate = %v, want 1.0", rep.Fleet.OnTimeRate)
	}
	if len(rep.Items) != 2 {
		t.Fatalf("report has %d items, want 2", len(rep.Items))
	}
	if rep.Items[0].Status != "delivered 08:10:00 (on time)" {
		t.Errorf("item 1 status = %q", rep.Items[0].Status)
	}
	if rep.Items[1].Status != "on vehicle 2" {
		t.Errorf("item 2 status = %q", rep.Items[1].Status)
	}
}

func TestWriteText(t *testing.T) {
	rep := reportFixture(t)

	var buf bytes.Buffer
	if err := rep.WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"ID",
		"195 W Oquirrh Ave",
		"delivered 08:10:00 (on time)",
		"VEHICLE",
		"4.5",
		"cut off",
		"1 delivered (0 late)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteJSONRoundTrips(t *testing.T) {
	rep := reportFixture(t)

	var buf bytes.Buffer
	if err := rep.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Run.RunID != "run-report" || decoded.Fleet.TotalMiles != 7.0 {
		t.Errorf("decoded report = %+v", decoded)
	}
	if len(decoded.Items) != 2 || decoded.Items[0].Weight != 21 {
		t.Errorf("decoded items = %+v", decoded.Items)
	}
}
