// Package report renders the end-of-day record of a run: the state of
// every item plus fleet totals, as an aligned text table or as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/parcelsim/core/metrics"
	"github.com/kilianp07/parcelsim/core/model"
)

// ItemRow is the reported state of one item.
type ItemRow struct {
	ID       int    `json:"id"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Zip      string `json:"zip"`
	Weight   int    `json:"weight"`
	Deadline string `json:"deadline"`
	Status   string `json:"status"`
}

// FleetStats aggregates the fleet's day.
type FleetStats struct {
	TotalMiles          float64 `json:"total_miles"`
	MeanMilesPerVehicle float64 `json:"mean_miles_per_vehicle"`
	MaxVehicleMiles     float64 `json:"max_vehicle_miles"`
	MeanDeliveryMinutes float64 `json:"mean_delivery_minutes"`
	OnTimeRate          float64 `json:"on_time_rate"`
}

// Report is the full end-of-day report.
type Report struct {
	Run   metrics.RunSummary `json:"run"`
	Items []ItemRow          `json:"items"`
	Fleet FleetStats         `json:"fleet"`
}

// Build assembles a report from the day's items and the run summary.
func Build(items []*model.Item, sum metrics.RunSummary) *Report {
	rep := &Report{Run: sum}
	var minutes []float64
	onTime := 0
	for _, it := range items {
		rep.Items = append(rep.Items, ItemRow{
			ID:       it.ID,
			Address:  it.Location.Address,
			City:     it.Location.City,
			Zip:      it.Location.Zip,
			Weight:   it.Weight,
			Deadline: it.Deadline.String(),
			Status:   it.Status.String(),
		})
		if it.Status.Kind == model.StatusDelivered {
			minutes = append(minutes, it.Status.DeliveredAt.Sub(sum.Start).Minutes())
			if it.Status.OnTime {
				onTime++
			}
		}
	}
	miles := make([]float64, 0, len(sum.Vehicles))
	for _, v := range sum.Vehicles {
		miles = append(miles, v.Miles)
	}
	if len(miles) > 0 {
		rep.Fleet.TotalMiles = floats.Sum(miles)
		rep.Fleet.MeanMilesPerVehicle = stat.Mean(miles, nil)
		rep.Fleet.MaxVehicleMiles = floats.Max(miles)
	}
	if len(minutes) > 0 {
		rep.Fleet.MeanDeliveryMinutes = stat.Mean(minutes, nil)
		rep.Fleet.OnTimeRate = float64(onTime) / float64(len(minutes))
	}
	return rep
}

// WriteText renders the report as aligned text tables.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tADDRESS\tZIP\tWEIGHT\tDEADLINE\tSTATUS")
	for _, row := range r.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
			row.ID, row.Address, row.Zip, row.Weight, row.Deadline, row.Status)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "VEHICLE\tMILES\tBATCHES")
	for _, v := range r.Run.Vehicles {
		fmt.Fprintf(tw, "%d\t%.1f\t%d\n", v.VehicleID, v.Miles, v.Batches)
	}
	fmt.Fprintln(tw)
	state := "finished"
	if !r.Run.Finished {
		state = "cut off"
	}
	fmt.Fprintf(tw, "run %s: %s at %s, %d delivered (%d late), %.1f miles total\n",
		r.Run.RunID, state, r.Run.End.Format("15:04:05"), r.Run.Delivered, r.Run.Late, r.Fleet.TotalMiles)
	return tw.Flush()
}

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
