package clock

import (
	"testing"
	"time"
)

func TestAdvance(t *testing.T) {
	c := New(At(8, 0, 0))

	got := c.Advance()
	want := At(8, 0, 20)
	if !got.Equal(want) {
		t.Fatalf("Advance() = %v, want %v", got, want)
	}
	if !c.Now().Equal(want) {
		t.Fatalf("Now() = %v after Advance, want %v", c.Now(), want)
	}

	// Three ticks make a minute.
	c.Advance()
	c.Advance()
	if want := At(8, 1, 0); !c.Now().Equal(want) {
		t.Fatalf("Now() = %v after three ticks, want %v", c.Now(), want)
	}
}

func TestProjectDoesNotMutate(t *testing.T) {
	c := New(At(8, 0, 0))

	got := c.Project(3)
	if want := At(8, 1, 0); !got.Equal(want) {
		t.Fatalf("Project(3) = %v, want %v", got, want)
	}
	if !c.Now().Equal(At(8, 0, 0)) {
		t.Fatalf("Now() = %v after Project, want start", c.Now())
	}
	if got := c.Project(0); !got.Equal(c.Now()) {
		t.Fatalf("Project(0) = %v, want Now()", got)
	}
}

func TestElapsed(t *testing.T) {
	c := New(At(8, 0, 0))
	for i := 0; i < 9; i++ {
		c.Advance()
	}
	if got, want := c.Elapsed(), 3*time.Minute; got != want {
		t.Fatalf("Elapsed() = %v, want %v", got, want)
	}
	if !c.Start().Equal(At(8, 0, 0)) {
		t.Fatalf("Start() = %v, want 8:00", c.Start())
	}
}

func TestAtOrdering(t *testing.T) {
	if !At(9, 5, 0).After(At(8, 0, 0)) {
		t.Fatal("At(9:05) not after At(8:00)")
	}
	if !At(17, 0, 0).Equal(At(17, 0, 0)) {
		t.Fatal("identical At instants not equal")
	}
}
