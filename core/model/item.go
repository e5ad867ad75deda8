package model

import "time"

// Item is a single deliverable. Items are created once at setup and only
// mutate through status transitions until the day ends.
type Item struct {
	ID     int
	Weight int
	// Location is the delivery target. It changes at most once, when an
	// address-correction event rebinds an undeliverable item.
	Location *Location
	Deadline Deadline
	Status   Status
	// RestrictedTo pins the item to one vehicle id; zero means any vehicle.
	RestrictedTo int
	// DeliverWith lists item ids that must ship on the same vehicle in the
	// same batch. Membership is symmetric once indexed by the hub.
	DeliverWith []int
}

// Restricted reports whether the item may only ride a specific vehicle.
func (it *Item) Restricted() bool {
	return it.RestrictedTo != 0
}

// AllowedOn reports whether the item may be loaded onto the vehicle.
func (it *Item) AllowedOn(vehicleID int) bool {
	return it.RestrictedTo == 0 || it.RestrictedTo == vehicleID
}

// Delivered reports whether the item reached its target.
func (it *Item) Delivered() bool {
	return it.Status.Kind == StatusDelivered
}

// MarkOnVehicle records the item being loaded.
func (it *Item) MarkOnVehicle(vehicleID int) {
	it.Status = OnVehicle(vehicleID)
}

// MarkDelivered stamps the delivery instant and whether it met the
// deadline. Arriving exactly on the deadline is on time.
func (it *Item) MarkDelivered(now time.Time) {
	it.Status = Delivered(now, it.Deadline.Met(now))
}

// MarkAtHub returns the item to the eligible pool, used when a delayed
// shipment arrives or an address is corrected.
func (it *Item) MarkAtHub() {
	it.Status = AtHub()
}
