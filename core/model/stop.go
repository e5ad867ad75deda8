package model

import "time"

// Stop is anywhere a vehicle can end a leg. Arrive is invoked by the
// vehicle when its remaining distance reaches zero: plain locations
// trigger delivery, the hub triggers a reload.
type Stop interface {
	Arrive(v *Vehicle)
	Site() *Location
}

// Clock is the read-only view of simulated time consumed by entities.
// Project returns the instant n ticks ahead without advancing.
type Clock interface {
	Now() time.Time
	Project(ticks int) time.Time
}
