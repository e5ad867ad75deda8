// Package decisionlog persists the hub's batch decisions so a finished
// run can be audited: which items went on which vehicle, when, and how
// long the projected route was.
package decisionlog

import (
	"context"
	"time"
)

// Record captures one committed batch.
type Record struct {
	RunID string `json:"run_id"`
	// Timestamp is simulated time, not wall time.
	Timestamp         time.Time `json:"timestamp"`
	VehicleID         int       `json:"vehicle_id"`
	ItemIDs           []int     `json:"item_ids"`
	ProjectedSubunits int       `json:"projected_subunits"`
}

// Query filters stored records. Zero values match everything.
type Query struct {
	RunID     string
	VehicleID int
	Start     time.Time
	End       time.Time
}

// Store persists batch records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
