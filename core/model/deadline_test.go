package model

import (
	"testing"

	"github.com/kilianp07/parcelsim/core/clock"
)

func TestParseDeadline(t *testing.T) {
	cases := []struct {
		in       string
		wantHour int
		wantMin  int
		eod      bool
	}{
		{"EOD", 17, 0, true},
		{"eod", 17, 0, true},
		{"9:00 AM", 9, 0, false},
		{"10:30 AM", 10, 30, false},
		{"12:00 PM", 12, 0, false},
		{"12:30 AM", 0, 30, false},
		{"5:00 PM", 17, 0, false},
	}
	for _, tc := range cases {
		d, err := ParseDeadline(tc.in)
		if err != nil {
			t.Fatalf("ParseDeadline(%q): %v", tc.in, err)
		}
		want := clock.At(tc.wantHour, tc.wantMin, 0)
		if !d.Time().Equal(want) {
			t.Errorf("ParseDeadline(%q).Time() = %v, want %v", tc.in, d.Time(), want)
		}
		if d.IsEndOfDay() != tc.eod {
			t.Errorf("ParseDeadline(%q).IsEndOfDay() = %v, want %v", tc.in, d.IsEndOfDay(), tc.eod)
		}
	}
}

func TestParseDeadlineRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "noon", "25:00 AM", "10:30", "10.30 AM"} {
		if _, err := ParseDeadline(in); err == nil {
			t.Errorf("ParseDeadline(%q): expected error", in)
		}
	}
}

func TestDeadlineMetBoundary(t *testing.T) {
	d := DeadlineAt(clock.At(10, 30, 0))

	if !d.Met(clock.At(10, 29, 40)) {
		t.Error("delivery before deadline should be on time")
	}
	if !d.Met(clock.At(10, 30, 0)) {
		t.Error("delivery exactly at deadline should be on time")
	}
	if d.Met(clock.At(10, 30, 20)) {
		t.Error("delivery after deadline should be late")
	}
}

func TestDeadlineOrdering(t *testing.T) {
	early := DeadlineAt(clock.At(9, 0, 0))
	late := EndOfDay()
	if !early.Before(late) {
		t.Error("9:00 AM deadline should sort before EOD")
	}
	if late.Before(early) {
		t.Error("EOD should not sort before 9:00 AM")
	}
}

func TestDeadlineKeyAndString(t *testing.T) {
	d := DeadlineAt(clock.At(10, 30, 0))
	if got, want := d.DaySeconds(), 10*3600+30*60; got != want {
		t.Errorf("DaySeconds() = %d, want %d", got, want)
	}
	if got := d.String(); got != "10:30 AM" {
		t.Errorf("String() = %q, want %q", got, "10:30 AM")
	}
	if got := EndOfDay().String(); got != "EOD" {
		t.Errorf("EndOfDay().String() = %q, want EOD", got)
	}
}
