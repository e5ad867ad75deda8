// Package dispatch implements the hub's batch selector: the algorithm
// deciding, at each vehicle reload, which items are loaded and in what
// order. Selection respects capacity, deadlines, vehicle restrictions
// and must-ship-together groups; routing inside a batch uses a greedy
// nearest-neighbor tour.
package dispatch

import (
	"context"
	"fmt"
	"sort"

	"github.com/kilianp07/parcelsim/core/dispatch/decisionlog"
	"github.com/kilianp07/parcelsim/core/events"
	"github.com/kilianp07/parcelsim/core/logger"
	"github.com/kilianp07/parcelsim/core/metrics"
	"github.com/kilianp07/parcelsim/core/model"
	"github.com/kilianp07/parcelsim/internal/eventbus"
	"github.com/kilianp07/parcelsim/internal/hashtable"
)

// Hub is the distinguished location all vehicles load from. It embeds the
// hub's map location and owns the item indices the selector works on.
// A vehicle arriving here gets a fresh batch instead of delivering.
type Hub struct {
	*model.Location

	clock model.Clock
	log   logger.Logger

	items         *hashtable.Table[*model.Item]
	remaining     *hashtable.Table[*model.Item]
	priority      *hashtable.Table[*model.Item]
	delayed       *hashtable.Table[*model.Item]
	undeliverable *hashtable.Table[*model.Item]
	restricted    *hashtable.Table[*model.Item]
	deliverWith   *hashtable.Table[[]*model.Item]
	byLocation    *hashtable.Table[[]*model.Item]
	byDeadline    *hashtable.Table[[]*model.Item]
	deadlines     []model.Deadline
	batchCount    *hashtable.Table[int]

	runID     string
	bus       *eventbus.Bus
	sink      metrics.Sink
	decisions decisionlog.Store
}

// NewHub builds a hub at the given location.
func NewHub(site *model.Location, clk model.Clock, log logger.Logger) (*Hub, error) {
	if site == nil || clk == nil || log == nil {
		return nil, fmt.Errorf("dispatch: nil parameter provided to NewHub")
	}
	return &Hub{
		Location:      site,
		clock:         clk,
		log:           log,
		sink:          metrics.NopSink{},
		items:         hashtable.New[*model.Item](),
		remaining:     hashtable.New[*model.Item](),
		priority:      hashtable.New[*model.Item](),
		delayed:       hashtable.New[*model.Item](),
		undeliverable: hashtable.New[*model.Item](),
		restricted:    hashtable.New[*model.Item](),
		deliverWith:   hashtable.New[[]*model.Item](),
		byLocation:    hashtable.New[[]*model.Item](),
		byDeadline:    hashtable.New[[]*model.Item](),
		batchCount:    hashtable.New[int](),
	}, nil
}

// SetBus configures the event bus batch events are published on.
func (h *Hub) SetBus(bus *eventbus.Bus) { h.bus = bus }

// SetSink configures the metrics sink batch events are recorded to.
func (h *Hub) SetSink(sink metrics.Sink) {
	if sink != nil {
		h.sink = sink
	}
}

// SetDecisionStore configures the store batch decisions are persisted to.
func (h *Hub) SetDecisionStore(store decisionlog.Store) { h.decisions = store }

// SetRunID tags persisted decisions with the run identity.
func (h *Hub) SetRunID(id string) { h.runID = id }

// IndexItems registers the day's items and builds every selection index.
// Call exactly once, before the first batch. A co-delivery reference to
// an unknown item id is a setup error, not a simulation-time one.
func (h *Hub) IndexItems(items []*model.Item) error {
	for _, it := range items {
		if it.Location == nil {
			return fmt.Errorf("item %d: nil delivery location", it.ID)
		}
		if h.items.Contains(it.ID) {
			return fmt.Errorf("item %d: duplicate id", it.ID)
		}
		h.items.Put(it.ID, it)
	}
	for _, it := range items {
		h.remaining.Put(it.ID, it)
		if !it.Deadline.IsEndOfDay() {
			h.priority.Put(it.ID, it)
		}
		switch it.Status.Kind {
		case model.StatusDelayed:
			h.delayed.Put(it.ID, it)
		case model.StatusUndeliverable:
			h.undeliverable.Put(it.ID, it)
		}
		if it.Restricted() {
			h.restricted.Put(it.ID, it)
		}
		if !h.deliverWith.Contains(it.ID) {
			h.deliverWith.Put(it.ID, nil)
		}
		// Index the co-delivery relation in both directions so loading
		// either side of a pair drags the other in.
		for _, otherID := range it.DeliverWith {
			other, err := h.items.Get(otherID)
			if err != nil {
				return fmt.Errorf("item %d: co-delivery reference to unknown item %d: %w", it.ID, otherID, err)
			}
			h.appendDeliverWith(otherID, it)
			h.appendDeliverWith(it.ID, other)
		}
		h.indexByLocation(it)
		h.indexByDeadline(it)
	}
	h.log.Infow("items indexed", map[string]any{
		"items":         h.items.Len(),
		"priority":      h.priority.Len(),
		"delayed":       h.delayed.Len(),
		"undeliverable": h.undeliverable.Len(),
	})
	return nil
}

func (h *Hub) appendDeliverWith(id int, it *model.Item) {
	cur, err := h.deliverWith.Get(id)
	if err != nil {
		cur = nil
	}
	h.deliverWith.Put(id, append(cur, it))
}

func (h *Hub) indexByLocation(it *model.Item) {
	cur, err := h.byLocation.Get(it.Location.ID)
	if err != nil {
		cur = nil
	}
	h.byLocation.Put(it.Location.ID, append(cur, it))
}

func (h *Hub) removeFromLocationIndex(it *model.Item) {
	cur, err := h.byLocation.Get(it.Location.ID)
	if err != nil {
		return
	}
	kept := cur[:0]
	for _, other := range cur {
		if other.ID != it.ID {
			kept = append(kept, other)
		}
	}
	h.byLocation.Put(it.Location.ID, kept)
}

func (h *Hub) indexByDeadline(it *model.Item) {
	key := it.Deadline.DaySeconds()
	cur, err := h.byDeadline.Get(key)
	if err != nil {
		h.deadlines = append(h.deadlines, it.Deadline)
		sort.Slice(h.deadlines, func(i, j int) bool {
			return h.deadlines[i].Before(h.deadlines[j])
		})
	}
	h.byDeadline.Put(key, append(cur, it))
}

// Arrive hands the vehicle its next batch. An empty batch parks the
// vehicle in the waiting state; it will knock again on a later tick.
func (h *Hub) Arrive(v *model.Vehicle) {
	batch := h.NextBatch(v)
	if len(batch) == 0 {
		h.log.Debugf("vehicle %d: nothing eligible, waiting at hub", v.ID)
		v.WaitAtHub()
		return
	}
	ids := make([]int, 0, len(batch))
	for _, it := range batch {
		if err := v.AddItem(it); err != nil {
			h.log.Errorf("loading vehicle %d: %v", v.ID, err)
			continue
		}
		ids = append(ids, it.ID)
	}
	subunits := h.routeSubunits(batch)
	now := h.clock.Now()
	loads, _ := h.batchCount.Get(v.ID)
	h.batchCount.Put(v.ID, loads+1)
	h.log.Infow("batch loaded", map[string]any{
		"vehicle":        v.ID,
		"items":          ids,
		"route_subunits": subunits,
	})
	if err := h.sink.RecordBatch(metrics.BatchEvent{
		VehicleID:         v.ID,
		Size:              len(ids),
		ProjectedSubunits: subunits,
		Time:              now,
	}); err != nil {
		h.log.Warnf("record batch: %v", err)
	}
	if h.decisions != nil {
		rec := decisionlog.Record{
			RunID:             h.runID,
			Timestamp:         now,
			VehicleID:         v.ID,
			ItemIDs:           ids,
			ProjectedSubunits: subunits,
		}
		if err := h.decisions.Append(context.Background(), rec); err != nil {
			h.log.Warnf("decision log: %v", err)
		}
	}
	if h.bus != nil {
		h.bus.Publish(events.BatchLoaded{
			VehicleID:         v.ID,
			ItemIDs:           ids,
			ProjectedSubunits: subunits,
			At:                now,
		})
	}
}

// routeSubunits measures the batch's route from the hub through every
// stop in batch order, in integer sub-units.
func (h *Hub) routeSubunits(batch []*model.Item) int {
	total := 0
	last := h.Location
	for _, it := range batch {
		total += last.SubunitsTo(it.Location)
		last = it.Location
	}
	return total
}

// ReleaseDelayed marks every delayed item as at the hub and clears the
// delayed index. It returns the released item ids.
func (h *Hub) ReleaseDelayed() []int {
	var ids []int
	h.delayed.Range(func(id int, it *model.Item) bool {
		it.MarkAtHub()
		ids = append(ids, id)
		return true
	})
	h.delayed = hashtable.New[*model.Item]()
	return ids
}

// CorrectAddress rebinds an undeliverable item to its fixed location,
// re-indexes it and returns it to the eligible pool.
func (h *Hub) CorrectAddress(itemID int, loc *model.Location) error {
	if loc == nil {
		return fmt.Errorf("correct address: nil location")
	}
	it, err := h.items.Get(itemID)
	if err != nil {
		return fmt.Errorf("correct address for item %d: %w", itemID, err)
	}
	h.removeFromLocationIndex(it)
	it.Location = loc
	h.indexByLocation(it)
	it.MarkAtHub()
	h.undeliverable.Remove(it.ID)
	return nil
}

// Item returns the item with the given id.
func (h *Hub) Item(id int) (*model.Item, error) {
	it, err := h.items.Get(id)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", id, err)
	}
	return it, nil
}

// Items returns all items sorted by id.
func (h *Hub) Items() []*model.Item {
	items := h.items.Values()
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// RemainingCount returns how many items still need to ship.
func (h *Hub) RemainingCount() int {
	return h.remaining.Len()
}

// PriorityCount returns how many undelivered items carry a strict
// deadline.
func (h *Hub) PriorityCount() int {
	return h.priority.Len()
}

// DelayedCount returns how many items are still delayed in transit.
func (h *Hub) DelayedCount() int {
	return h.delayed.Len()
}

// UndeliverableCount returns how many items still have a bad address.
func (h *Hub) UndeliverableCount() int {
	return h.undeliverable.Len()
}

// BatchCount returns how many batches the vehicle has loaded so far.
func (h *Hub) BatchCount(vehicleID int) int {
	n, err := h.batchCount.Get(vehicleID)
	if err != nil {
		return 0
	}
	return n
}
