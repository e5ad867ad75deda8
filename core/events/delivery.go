package events

import "time"

// ItemDelivered is published for every completed delivery.
type ItemDelivered struct {
	ItemID    int       `json:"item_id"`
	VehicleID int       `json:"vehicle_id"`
	At        time.Time `json:"at"`
	OnTime    bool      `json:"on_time"`
}

// VehicleWaiting is published when a vehicle transitions into the waiting
// state at the hub.
type VehicleWaiting struct {
	VehicleID int       `json:"vehicle_id"`
	At        time.Time `json:"at"`
}
