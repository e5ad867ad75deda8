package model

import "fmt"

// Vehicle is a mobile agent carrying items between stops. Movement is
// tracked as an integer count of distance sub-units; one sub-unit is
// covered per tick, so travel time falls out of the distance directly.
//
// A vehicle is in exactly one of four informal states: loading (at the
// hub, receiving a batch), en route (sub-units remaining), idle at a stop
// (just arrived), or waiting (parked at the hub with nothing eligible).
type Vehicle struct {
	ID       int
	Capacity int

	// OnDelivered, when set, is invoked for every item the vehicle
	// delivers. The driver uses it to fan deliveries out to observers.
	OnDelivered func(*Item)
	// OnWaiting, when set, is invoked when the vehicle transitions into
	// the waiting state. Repeated empty reloads do not re-fire it.
	OnWaiting func()

	clock          Clock
	hub            Stop
	site           *Location
	dest           Stop
	subunitsToGo   int
	subunitsDriven int
	items          []*Item
	waiting        bool
}

// NewVehicle builds a parked vehicle at the hub.
func NewVehicle(id, capacity int, hub Stop, clk Clock) *Vehicle {
	return &Vehicle{
		ID:       id,
		Capacity: capacity,
		clock:    clk,
		hub:      hub,
		site:     hub.Site(),
	}
}

// AddItem loads one item. The first item of a batch fixes the next
// destination and clears the waiting flag. Loading beyond capacity is an
// invariant violation, not normal flow, and is rejected with an error.
func (v *Vehicle) AddItem(it *Item) error {
	if len(v.items) >= v.Capacity {
		return fmt.Errorf("vehicle %d: at capacity %d, cannot load item %d", v.ID, v.Capacity, it.ID)
	}
	v.items = append(v.items, it)
	it.MarkOnVehicle(v.ID)
	if len(v.items) == 1 {
		v.setDestination()
		v.waiting = false
	}
	return nil
}

// Tick advances the vehicle by one clock tick. A waiting vehicle retries
// the hub for a fresh batch; a moving vehicle covers one sub-unit and, on
// reaching zero, arrives at its destination. A parked vehicle that is not
// waiting does nothing, which is how surplus vehicles sit out the day.
func (v *Vehicle) Tick() {
	if v.waiting {
		v.hub.Arrive(v)
		return
	}
	if v.subunitsToGo == 0 {
		return
	}
	v.subunitsDriven++
	v.subunitsToGo--
	if v.subunitsToGo == 0 {
		v.site = v.dest.Site()
		v.dest.Arrive(v)
	}
}

// Deliver drops every carried item destined for the current location,
// stamping each with the delivery instant and its punctuality, then aims
// the vehicle at its next destination.
func (v *Vehicle) Deliver() {
	var remaining []*Item
	for _, it := range v.items {
		if it.Location.ID == v.site.ID {
			it.MarkDelivered(v.clock.Now())
			if v.OnDelivered != nil {
				v.OnDelivered(it)
			}
		} else {
			remaining = append(remaining, it)
		}
	}
	v.items = remaining
	v.setDestination()
}

// WaitAtHub parks the vehicle until a later reload attempt succeeds.
func (v *Vehicle) WaitAtHub() {
	if !v.waiting && v.OnWaiting != nil {
		v.OnWaiting()
	}
	v.waiting = true
}

// setDestination aims at the first carried item's location, or back at
// the hub when empty.
func (v *Vehicle) setDestination() {
	if len(v.items) == 0 {
		v.dest = v.hub
	} else {
		v.dest = v.items[0].Location
	}
	v.subunitsToGo = v.site.SubunitsTo(v.dest.Site())
}

// Items returns the carried items. The slice is live; callers must not
// mutate it.
func (v *Vehicle) Items() []*Item {
	return v.items
}

// Site returns the vehicle's current location.
func (v *Vehicle) Site() *Location {
	return v.site
}

// AtHub reports whether the vehicle is parked at the hub.
func (v *Vehicle) AtHub() bool {
	return v.site.ID == v.hub.Site().ID
}

// Waiting reports whether the vehicle is parked at the hub for lack of
// eligible items.
func (v *Vehicle) Waiting() bool {
	return v.waiting
}

// SubunitsDriven returns total distance driven in integer sub-units.
func (v *Vehicle) SubunitsDriven() int {
	return v.subunitsDriven
}

// Miles converts the driven sub-units to display units. Accumulation
// stays integral; division happens only here.
func (v *Vehicle) Miles() float64 {
	return float64(v.subunitsDriven) / SubunitScale
}
