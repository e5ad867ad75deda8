package model

import "testing"

func testTable(t *testing.T) *DistanceTable {
	t.Helper()
	table, err := NewDistanceTable([][]float64{
		{0},
		{2.0, 0},
		{3.0, 1.5, 0},
	})
	if err != nil {
		t.Fatalf("NewDistanceTable: %v", err)
	}
	return table
}

func TestDistanceTableValidation(t *testing.T) {
	if _, err := NewDistanceTable([][]float64{{0}, {2.0, 0, 9.9}}); err == nil {
		t.Error("expected error for non-triangular row")
	}
	if _, err := NewDistanceTable([][]float64{{0.5}}); err == nil {
		t.Error("expected error for nonzero self-distance")
	}
}

func TestDistanceLookupIsSymmetric(t *testing.T) {
	table := testTable(t)
	a := NewLocation(0, "hub", "", "", table)
	b := NewLocation(2, "stop", "", "", table)

	if got := a.DistanceTo(b); got != 3.0 {
		t.Errorf("DistanceTo(a,b) = %v, want 3.0", got)
	}
	if got := b.DistanceTo(a); got != 3.0 {
		t.Errorf("DistanceTo(b,a) = %v, want 3.0", got)
	}
	if got := a.DistanceTo(a); got != 0 {
		t.Errorf("self distance = %v, want 0", got)
	}
}

func TestSubunitsRounding(t *testing.T) {
	cases := []struct {
		distance float64
		want     int
	}{
		{0, 0},
		{2.0, 20},
		{2.3, 23},
		{1.5, 15},
		{0.1, 1},
		{7.2, 72},
	}
	for _, tc := range cases {
		if got := Subunits(tc.distance); got != tc.want {
			t.Errorf("Subunits(%v) = %d, want %d", tc.distance, got, tc.want)
		}
	}
}

func TestSubunitsTo(t *testing.T) {
	table := testTable(t)
	b := NewLocation(1, "", "", "", table)
	c := NewLocation(2, "", "", "", table)
	if got := b.SubunitsTo(c); got != 15 {
		t.Errorf("SubunitsTo = %d, want 15", got)
	}
}
