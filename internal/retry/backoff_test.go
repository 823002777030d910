package retry

import (
	"testing"
	"time"
)

func TestBackoffGrows(t *testing.T) {
	b := &Backoff{Initial: time.Second, Max: time.Minute, Multiplier: 2.0}

	d1 := b.Fail()
	d2 := b.Fail()
	d3 := b.Fail()

	if d1 != time.Second {
		t.Errorf("first delay = %v, want 1s", d1)
	}
	if d2 != 2*time.Second {
		t.Errorf("second delay = %v, want 2s", d2)
	}
	if d3 != 4*time.Second {
		t.Errorf("third delay = %v, want 4s", d3)
	}
}

func TestBackoffCapped(t *testing.T) {
	b := &Backoff{Initial: time.Second, Max: 5 * time.Second, Multiplier: 2.0}

	var last time.Duration
	for i := 0; i < 10; i++ {
		last = b.Fail()
	}
	if last != 5*time.Second {
		t.Errorf("delay after 10 failures = %v, want capped 5s", last)
	}
}

func TestBackoffReset(t *testing.T) {
	b := &Backoff{Initial: time.Second, Max: time.Minute, Multiplier: 2.0}

	b.Fail()
	b.Fail()
	b.Reset()

	if b.Failures() != 0 {
		t.Errorf("Failures() after Reset = %d, want 0", b.Failures())
	}
	if d := b.Fail(); d != time.Second {
		t.Errorf("delay after Reset = %v, want 1s", d)
	}
}

func TestBackoffJitterStaysInBounds(t *testing.T) {
	b := Default(time.Second)

	for i := 0; i < 50; i++ {
		d := b.Fail()
		if d < time.Second || d > b.Max {
			t.Fatalf("jittered delay %v outside [1s, %v]", d, b.Max)
		}
	}
}
