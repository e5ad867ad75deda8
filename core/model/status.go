package model

import (
	"fmt"
	"time"
)

// StatusKind enumerates the item lifecycle states.
type StatusKind int

const (
	// StatusAtHub marks an item waiting at the hub, eligible for loading.
	StatusAtHub StatusKind = iota
	// StatusDelayed marks an item that has not physically reached the hub yet.
	StatusDelayed
	// StatusUndeliverable marks an item whose address is known to be wrong.
	StatusUndeliverable
	// StatusOnVehicle marks an item loaded on a vehicle.
	StatusOnVehicle
	// StatusDelivered marks a completed delivery.
	StatusDelivered
)

func (k StatusKind) String() string {
	switch k {
	case StatusAtHub:
		return "at-hub"
	case StatusDelayed:
		return "delayed"
	case StatusUndeliverable:
		return "undeliverable"
	case StatusOnVehicle:
		return "on-vehicle"
	case StatusDelivered:
		return "delivered"
	default:
		return fmt.Sprintf("status(%d)", int(k))
	}
}

// Status is an item's current state plus the payload for the states that
// carry one: the vehicle id while loaded, the delivery instant and
// punctuality once delivered.
type Status struct {
	Kind        StatusKind
	VehicleID   int
	DeliveredAt time.Time
	OnTime      bool
}

// AtHub returns the eligible-at-hub status.
func AtHub() Status {
	return Status{Kind: StatusAtHub}
}

// Delayed returns the delayed-in-transit status.
func Delayed() Status {
	return Status{Kind: StatusDelayed}
}

// Undeliverable returns the bad-address status.
func Undeliverable() Status {
	return Status{Kind: StatusUndeliverable}
}

// OnVehicle returns the loaded status for the given vehicle.
func OnVehicle(vehicleID int) Status {
	return Status{Kind: StatusOnVehicle, VehicleID: vehicleID}
}

// Delivered returns the terminal delivered status.
func Delivered(at time.Time, onTime bool) Status {
	return Status{Kind: StatusDelivered, DeliveredAt: at, OnTime: onTime}
}

func (s Status) String() string {
	switch s.Kind {
	case StatusOnVehicle:
		return fmt.Sprintf("on vehicle %d", s.VehicleID)
	case StatusDelivered:
		punctuality := "on time"
		if !s.OnTime {
			punctuality = "late"
		}
		return fmt.Sprintf("delivered %s (%s)", s.DeliveredAt.Format("15:04:05"), punctuality)
	default:
		return s.Kind.String()
	}
}
