// Package events defines the simulation events emitted on the event bus.
//
// Available event types:
//   - BatchLoaded: a vehicle received a new batch at the hub
//   - ItemDelivered: an item reached its delivery location
//   - VehicleWaiting: a vehicle parked at the hub with nothing eligible
//   - WorldEventFired: a scheduled world event triggered
//   - RunCompleted: the simulation loop finished
package events
