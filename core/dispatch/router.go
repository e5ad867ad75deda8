package dispatch

import (
	"github.com/kilianp07/parcelsim/core/model"
	"github.com/kilianp07/parcelsim/internal/hashtable"
)

// nearestTour empties pending into a visiting order by repeatedly hopping
// to the closest not-yet-visited location. Ties keep the first candidate
// encountered, so the order is stable for a given index state. This is a
// heuristic tour, not a shortest path: a choice is never revisited.
func nearestTour(pending *hashtable.Table[*model.Location], start *model.Location) []*model.Location {
	tour := make([]*model.Location, 0, pending.Len())
	last := start
	for pending.Len() > 0 {
		var next *model.Location
		var best float64
		pending.Range(func(_ int, loc *model.Location) bool {
			d := last.DistanceTo(loc)
			if next == nil || d < best {
				next, best = loc, d
			}
			return true
		})
		pending.Remove(next.ID)
		tour = append(tour, next)
		last = next
	}
	return tour
}

// sortByLocation reorders items to follow the greedy tour over their
// delivery locations, starting from start. Items sharing a stop stay in
// their incoming relative order.
func sortByLocation(items []*model.Item, start *model.Location) []*model.Item {
	ordered := make([]*model.Item, 0, len(items))
	for _, loc := range nearestTour(itemLocations(items), start) {
		for _, it := range items {
			if it.Location.ID == loc.ID {
				ordered = append(ordered, it)
			}
		}
	}
	return ordered
}

// itemLocations collects the distinct delivery locations of items.
func itemLocations(items []*model.Item) *hashtable.Table[*model.Location] {
	locs := hashtable.New[*model.Location]()
	for _, it := range items {
		locs.Put(it.Location.ID, it.Location)
	}
	return locs
}
