// Package model defines the delivery-day domain entities: locations and
// their distance table, items with deadlines and statuses, and the vehicle
// state machine. Selection logic lives in core/dispatch, the loop in
// core/sim.
package model

import (
	"fmt"
	"math"
)

// SubunitScale is the number of integer distance sub-units per display
// unit. Mileage is accumulated in sub-units so repeated addition stays
// exact; divide by SubunitScale only when reporting.
const SubunitScale = 10

// Subunits converts a display distance to integer sub-units.
func Subunits(distance float64) int {
	return int(math.Round(distance * SubunitScale))
}

// DistanceTable holds pairwise distances in lower-triangular form: row i
// carries the distances to locations 0..i, so each unordered pair is
// stored once. Lookups index with (max, min).
type DistanceTable struct {
	rows [][]float64
}

// NewDistanceTable validates and wraps a lower-triangular matrix. Row i
// must hold exactly i+1 entries and the diagonal must be zero.
func NewDistanceTable(rows [][]float64) (*DistanceTable, error) {
	for i, row := range rows {
		if len(row) != i+1 {
			return nil, fmt.Errorf("distance table: row %d has %d entries, want %d", i, len(row), i+1)
		}
		if row[i] != 0 {
			return nil, fmt.Errorf("distance table: row %d has nonzero self-distance %v", i, row[i])
		}
	}
	return &DistanceTable{rows: rows}, nil
}

// Size returns the number of locations covered by the table.
func (t *DistanceTable) Size() int {
	return len(t.rows)
}

// Between returns the distance between location ids a and b.
func (t *DistanceTable) Between(a, b int) float64 {
	if a < b {
		a, b = b, a
	}
	return t.rows[a][b]
}

// Location is a node in the delivery graph. Address fields are display
// data only; all routing goes through the id and the distance table.
type Location struct {
	ID      int
	Address string
	City    string
	Zip     string

	table *DistanceTable
}

// NewLocation builds a location bound to the shared distance table.
func NewLocation(id int, address, city, zip string, table *DistanceTable) *Location {
	return &Location{ID: id, Address: address, City: city, Zip: zip, table: table}
}

// DistanceTo returns the display distance to other.
func (l *Location) DistanceTo(other *Location) float64 {
	return l.table.Between(l.ID, other.ID)
}

// SubunitsTo returns the integer sub-unit distance to other.
func (l *Location) SubunitsTo(other *Location) int {
	return Subunits(l.DistanceTo(other))
}

// Site returns the location itself; part of the Stop interface.
func (l *Location) Site() *Location {
	return l
}

// Arrive handles a vehicle reaching this location: a plain location asks
// the vehicle to deliver. The hub variant overrides this to reload.
func (l *Location) Arrive(v *Vehicle) {
	v.Deliver()
}
