package model

import (
	"testing"

	"github.com/kilianp07/parcelsim/core/clock"
)

// stubHub stands in for the dispatch hub so vehicle mechanics can be
// tested without the selector.
type stubHub struct {
	loc      *Location
	arrivals int
	onArrive func(v *Vehicle)
}

func (h *stubHub) Site() *Location { return h.loc }

func (h *stubHub) Arrive(v *Vehicle) {
	h.arrivals++
	if h.onArrive != nil {
		h.onArrive(v)
	}
}

func vehicleFixture(t *testing.T) (*Vehicle, *stubHub, []*Location, *clock.Clock) {
	t.Helper()
	table := testTable(t)
	locs := []*Location{
		NewLocation(0, "hub", "", "", table),
		NewLocation(1, "first st", "", "", table),
		NewLocation(2, "second st", "", "", table),
	}
	hub := &stubHub{loc: locs[0]}
	clk := clock.New(clock.At(8, 0, 0))
	return NewVehicle(1, 16, hub, clk), hub, locs, clk
}

func TestVehicleDrivesAndDelivers(t *testing.T) {
	v, hub, locs, _ := vehicleFixture(t)
	it := &Item{ID: 1, Location: locs[1], Deadline: EndOfDay(), Status: AtHub()}

	if err := v.AddItem(it); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if it.Status.Kind != StatusOnVehicle || it.Status.VehicleID != 1 {
		t.Fatalf("item status = %v after load, want on vehicle 1", it.Status)
	}

	// Location 1 is 2.0 units out: 20 sub-units, one per tick.
	for i := 0; i < 19; i++ {
		v.Tick()
	}
	if it.Delivered() {
		t.Fatal("item delivered before reaching its stop")
	}
	v.Tick()
	if !it.Delivered() {
		t.Fatal("item not delivered on arrival")
	}
	if !it.Status.OnTime {
		t.Error("EOD item delivered at 8:00 should be on time")
	}
	if v.Site().ID != 1 {
		t.Errorf("vehicle site = %d after arrival, want 1", v.Site().ID)
	}

	// Empty vehicle heads home and announces itself at the hub.
	for i := 0; i < 20; i++ {
		v.Tick()
	}
	if hub.arrivals != 1 {
		t.Fatalf("hub arrivals = %d, want 1", hub.arrivals)
	}
	if got := v.SubunitsDriven(); got != 40 {
		t.Errorf("SubunitsDriven() = %d, want 40", got)
	}
	if got := v.Miles(); got != 4.0 {
		t.Errorf("Miles() = %v, want 4.0", got)
	}
}

func TestVehicleDeliversOnlyMatchingItems(t *testing.T) {
	v, _, locs, _ := vehicleFixture(t)
	first := &Item{ID: 1, Location: locs[1], Deadline: EndOfDay()}
	second := &Item{ID: 2, Location: locs[2], Deadline: EndOfDay()}

	if err := v.AddItem(first); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := v.AddItem(second); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	for i := 0; i < 20; i++ {
		v.Tick()
	}
	if !first.Delivered() {
		t.Fatal("first item not delivered at its stop")
	}
	if second.Delivered() {
		t.Fatal("second item delivered at the wrong stop")
	}
	if got := len(v.Items()); got != 1 {
		t.Fatalf("carried items = %d, want 1", got)
	}

	// Next leg is location 1 -> location 2: 1.5 units, 15 ticks.
	for i := 0; i < 15; i++ {
		v.Tick()
	}
	if !second.Delivered() {
		t.Fatal("second item not delivered at its own stop")
	}
	if got := v.SubunitsDriven(); got != 35 {
		t.Errorf("SubunitsDriven() = %d, want 35", got)
	}
}

func TestVehicleRejectsOverCapacity(t *testing.T) {
	v, _, locs, _ := vehicleFixture(t)
	v.Capacity = 1

	if err := v.AddItem(&Item{ID: 1, Location: locs[1], Deadline: EndOfDay()}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := v.AddItem(&Item{ID: 2, Location: locs[2], Deadline: EndOfDay()}); err == nil {
		t.Fatal("AddItem beyond capacity: expected error")
	}
	if got := len(v.Items()); got != 1 {
		t.Errorf("carried items = %d after rejected load, want 1", got)
	}
}

func TestWaitingVehicleRetriesHub(t *testing.T) {
	v, hub, locs, _ := vehicleFixture(t)
	waitingSignals := 0
	v.OnWaiting = func() { waitingSignals++ }

	v.WaitAtHub()
	v.WaitAtHub()
	if waitingSignals != 1 {
		t.Fatalf("waiting signals = %d, want 1 for repeated WaitAtHub", waitingSignals)
	}

	// Each tick while waiting knocks on the hub again.
	v.Tick()
	v.Tick()
	if hub.arrivals != 2 {
		t.Fatalf("hub arrivals = %d, want 2", hub.arrivals)
	}

	// A reload attempt that hands over an item clears the waiting state.
	hub.onArrive = func(v *Vehicle) {
		if err := v.AddItem(&Item{ID: 3, Location: locs[1], Deadline: EndOfDay()}); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}
	v.Tick()
	if v.Waiting() {
		t.Fatal("vehicle still waiting after successful reload")
	}
}

func TestParkedVehicleWithoutWorkDoesNothing(t *testing.T) {
	v, hub, _, _ := vehicleFixture(t)

	for i := 0; i < 50; i++ {
		v.Tick()
	}
	if hub.arrivals != 0 {
		t.Errorf("hub arrivals = %d for parked vehicle, want 0", hub.arrivals)
	}
	if v.SubunitsDriven() != 0 {
		t.Errorf("SubunitsDriven() = %d for parked vehicle, want 0", v.SubunitsDriven())
	}
}

func TestDeliveredHookFires(t *testing.T) {
	v, _, locs, _ := vehicleFixture(t)
	var delivered []int
	v.OnDelivered = func(it *Item) { delivered = append(delivered, it.ID) }

	if err := v.AddItem(&Item{ID: 7, Location: locs[1], Deadline: EndOfDay()}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	for i := 0; i < 20; i++ {
		v.Tick()
	}
	if len(delivered) != 1 || delivered[0] != 7 {
		t.Fatalf("delivered hook saw %v, want [7]", delivered)
	}
}

func TestLateDeliveryStamp(t *testing.T) {
	v, _, locs, clk := vehicleFixture(t)
	// Deadline passes while the vehicle is still driving.
	it := &Item{ID: 1, Location: locs[1], Deadline: DeadlineAt(clock.At(8, 3, 0))}

	if err := v.AddItem(it); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	for i := 0; i < 20; i++ {
		clk.Advance()
		v.Tick()
	}
	if !it.Delivered() {
		t.Fatal("item not delivered")
	}
	if it.Status.OnTime {
		t.Error("delivery after a 8:03 deadline at 8:06:40 should be late")
	}
	if want := clock.At(8, 6, 40); !it.Status.DeliveredAt.Equal(want) {
		t.Errorf("DeliveredAt = %v, want %v", it.Status.DeliveredAt, want)
	}
}
