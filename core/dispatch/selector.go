package dispatch

import (
	"github.com/kilianp07/parcelsim/core/model"
	"github.com/kilianp07/parcelsim/internal/hashtable"
)

// NextBatch selects the items for the vehicle's next run. An empty batch
// means nothing is currently eligible and the vehicle should wait.
//
// Candidates are walked in deadline-then-distance priority order; each
// candidate brings its whole co-delivery group or nothing, and every
// accepted group opportunistically pulls other eligible items sharing one
// of its stops. The result is then ordered for the road, with a repair
// pass protecting strict deadlines from the clustering heuristic.
func (h *Hub) NextBatch(v *model.Vehicle) []*model.Item {
	var batch []*model.Item
	for _, candidate := range h.prioritized(v.ID) {
		h.addGroup(candidate, &batch, v)
		if len(batch) == v.Capacity {
			break
		}
	}
	return h.repairLateDeliveries(batch)
}

// eligible reports whether the item can be loaded onto the vehicle right
// now: still to ship, physically at the hub, and not pinned to another
// vehicle.
func (h *Hub) eligible(it *model.Item, vehicleID int) bool {
	if !h.remaining.Contains(it.ID) {
		return false
	}
	if h.undeliverable.Contains(it.ID) || h.delayed.Contains(it.ID) {
		return false
	}
	if h.restricted.Contains(it.ID) && it.RestrictedTo != vehicleID {
		return false
	}
	return true
}

// prioritized returns every eligible item ordered by ascending deadline
// group and, within each group, by the greedy tour over the group's
// stops. The tour position carries over between groups, so consecutive
// groups cluster geographically without geography ever outranking a
// deadline.
func (h *Hub) prioritized(vehicleID int) []*model.Item {
	var out []*model.Item
	last := h.Location
	for _, dl := range h.deadlines {
		group, err := h.byDeadline.Get(dl.DaySeconds())
		if err != nil {
			continue
		}
		var eligible []*model.Item
		for _, it := range group {
			if h.eligible(it, vehicleID) {
				eligible = append(eligible, it)
			}
		}
		for _, it := range sortByLocation(eligible, last) {
			out = append(out, it)
			last = it.Location
		}
	}
	return out
}

// addGroup tries to add the candidate's whole co-delivery group to the
// batch as one unit. A group with an ineligible member, or one that does
// not fit the remaining capacity, is skipped whole and left for a later
// batch. After acceptance, items sharing a stop with the group are
// offered the same treatment.
func (h *Hub) addGroup(candidate *model.Item, batch *[]*model.Item, v *model.Vehicle) {
	group, ok := h.groupClosure(candidate, v.ID)
	if !ok || len(group)+len(*batch) > v.Capacity {
		return
	}
	for _, it := range group {
		h.accept(it, batch, v)
	}
	h.pullColocated(group, batch, v)
}

// groupClosure walks the co-delivery relation from first and returns the
// transitive group in visit order. The walk is iterative with an explicit
// visited set, so a cyclic or malformed reference cannot recurse without
// bound. ok is false when any member is ineligible for the vehicle.
func (h *Hub) groupClosure(first *model.Item, vehicleID int) ([]*model.Item, bool) {
	visited := hashtable.New[struct{}]()
	var group []*model.Item
	stack := []*model.Item{first}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited.Contains(it.ID) {
			continue
		}
		if !h.eligible(it, vehicleID) {
			return nil, false
		}
		visited.Put(it.ID, struct{}{})
		group = append(group, it)
		linked, err := h.deliverWith.Get(it.ID)
		if err != nil {
			continue
		}
		for i := len(linked) - 1; i >= 0; i-- {
			stack = append(stack, linked[i])
		}
	}
	return group, true
}

// accept moves one item into the batch and clears it from the remaining
// and priority indices. This is the only place selection mutates them,
// so an item leaves exactly when it is committed, never before and never
// twice.
func (h *Hub) accept(it *model.Item, batch *[]*model.Item, v *model.Vehicle) {
	if len(*batch) >= v.Capacity || !h.eligible(it, v.ID) {
		return
	}
	*batch = append(*batch, it)
	h.remaining.Remove(it.ID)
	h.priority.Remove(it.ID)
}

// pullColocated offers every other eligible item delivered at one of the
// group's stops to the batch, group rules applying to each in turn. The
// mutual recursion with addGroup terminates because accepted items leave
// the remaining index and fail eligibility on any revisit.
func (h *Hub) pullColocated(group []*model.Item, batch *[]*model.Item, v *model.Vehicle) {
	itemLocations(group).Range(func(locID int, _ *model.Location) bool {
		if len(*batch) == v.Capacity {
			return false
		}
		colocated, err := h.byLocation.Get(locID)
		if err != nil {
			return true
		}
		for _, it := range colocated {
			if len(*batch) == v.Capacity {
				return false
			}
			h.addGroup(it, batch, v)
		}
		return true
	})
}

// repairLateDeliveries orders the batch for the road and, if the greedy
// tour would miss a deadline somewhere, rebuilds the order: the original
// selection order is kept up through the last item with a real deadline
// and only the remainder is re-toured from that item's stop. Selection
// order already has strict deadlines first, so the kept prefix shields
// them from the clustering optimization.
func (h *Hub) repairLateDeliveries(batch []*model.Item) []*model.Item {
	ordered := sortByLocation(batch, h.Location)
	if !h.hasLateDelivery(ordered) {
		return ordered
	}
	anchor := 0
	for i, it := range batch {
		if !it.Deadline.IsEndOfDay() {
			anchor = i
		}
	}
	repaired := make([]*model.Item, 0, len(batch))
	repaired = append(repaired, batch[:anchor+1]...)
	return append(repaired, sortByLocation(batch[anchor+1:], batch[anchor].Location)...)
}

// hasLateDelivery projects arrival times along the given stop order and
// reports whether any delivery would land after its deadline. Arriving
// exactly on the deadline is on time.
func (h *Hub) hasLateDelivery(ordered []*model.Item) bool {
	total := 0
	last := h.Location
	for _, it := range ordered {
		total += last.SubunitsTo(it.Location)
		last = it.Location
		if h.clock.Project(total).After(it.Deadline.Time()) {
			return true
		}
	}
	return false
}
