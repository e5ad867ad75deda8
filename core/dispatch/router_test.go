package dispatch

import (
	"fmt"
	"testing"

	"github.com/kilianp07/parcelsim/core/model"
	"github.com/kilianp07/parcelsim/internal/hashtable"
)

func newWorld(t *testing.T, rows [][]float64) []*model.Location {
	t.Helper()
	table, err := model.NewDistanceTable(rows)
	if err != nil {
		t.Fatalf("NewDistanceTable: %v", err)
	}
	locs := make([]*model.Location, len(rows))
	for i := range rows {
		locs[i] = model.NewLocation(i, fmt.Sprintf("%d Main St", i), "Salt Lake City", "84101", table)
	}
	return locs
}

// testRows is the shared five-location world used across selector tests.
var testRows = [][]float64{
	{0},
	{2.0, 0},
	{3.0, 1.5, 0},
	{4.0, 2.5, 1.0, 0},
	{1.0, 2.2, 3.2, 4.2, 0},
}

func locationSet(locs ...*model.Location) *hashtable.Table[*model.Location] {
	set := hashtable.New[*model.Location]()
	for _, loc := range locs {
		set.Put(loc.ID, loc)
	}
	return set
}

func TestNearestTourHopsToClosest(t *testing.T) {
	locs := newWorld(t, testRows)

	tour := nearestTour(locationSet(locs[1], locs[2], locs[3]), locs[0])

	want := []int{1, 2, 3}
	if len(tour) != len(want) {
		t.Fatalf("tour length = %d, want %d", len(tour), len(want))
	}
	for i, loc := range tour {
		if loc.ID != want[i] {
			t.Errorf("tour[%d] = %d, want %d", i, loc.ID, want[i])
		}
	}
}

func TestNearestTourTieKeepsFirstCandidate(t *testing.T) {
	locs := newWorld(t, [][]float64{
		{0},
		{2.0, 0},
		{2.0, 9.0, 0},
	})

	tour := nearestTour(locationSet(locs[1], locs[2]), locs[0])
	if tour[0].ID != 1 || tour[1].ID != 2 {
		t.Fatalf("tie-broken tour = [%d %d], want [1 2]", tour[0].ID, tour[1].ID)
	}
}

func TestSortByLocationKeepsColocatedOrder(t *testing.T) {
	locs := newWorld(t, testRows)
	items := []*model.Item{
		{ID: 1, Location: locs[2], Deadline: model.EndOfDay()},
		{ID: 2, Location: locs[1], Deadline: model.EndOfDay()},
		{ID: 3, Location: locs[2], Deadline: model.EndOfDay()},
	}

	ordered := sortByLocation(items, locs[0])

	want := []int{2, 1, 3}
	for i, it := range ordered {
		if it.ID != want[i] {
			t.Fatalf("ordered ids = %v, want %v", itemIDs(ordered), want)
		}
	}
}

func itemIDs(items []*model.Item) []int {
	ids := make([]int, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
