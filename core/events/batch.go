package events

import "time"

// BatchLoaded is published when the hub commits a batch onto a vehicle.
type BatchLoaded struct {
	VehicleID int   `json:"vehicle_id"`
	ItemIDs   []int `json:"item_ids"`
	// ProjectedSubunits is the route length of the batch in distance
	// sub-units, measured from the hub through every stop in order.
	ProjectedSubunits int       `json:"projected_subunits"`
	At                time.Time `json:"at"`
}
