package retry

import (
	"math/rand"
	"time"
)

// Backoff computes capped exponential delays for a repeatedly failing
// operation. It is used by the inbox poller so a degraded backend is
// polled at the capped interval, never faster.
type Backoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     bool

	failures int
}

// Default returns a backoff suited to the conversation refresh loop.
func Default(initial time.Duration) *Backoff {
	return &Backoff{
		Initial:    initial,
		Max:        2 * time.Minute,
		Multiplier: 2.0,
		Jitter:     true,
	}
}

// Fail records a failure and returns the delay before the next attempt.
func (b *Backoff) Fail() time.Duration {
	b.failures++
	return b.delay()
}

// Reset clears the failure count after a success.
func (b *Backoff) Reset() {
	b.failures = 0
}

// Failures returns the consecutive failure count.
func (b *Backoff) Failures() int {
	return b.failures
}

// Current returns the delay for the present failure count without
// recording another failure. Zero failures yields the initial interval.
func (b *Backoff) Current() time.Duration {
	return b.delay()
}

func (b *Backoff) delay() time.Duration {
	d := float64(b.Initial)
	for i := 1; i < b.failures; i++ {
		d *= b.Multiplier
		if d >= float64(b.Max) {
			d = float64(b.Max)
			break
		}
	}
	if d > float64(b.Max) {
		d = float64(b.Max)
	}

	if b.Jitter && b.failures > 0 {
		// ±25% so clients sharing a backend do not poll in lockstep.
		j := d * 0.25
		d += (rand.Float64() - 0.5) * 2 * j
		if d < float64(b.Initial) {
			d = float64(b.Initial)
		}
		if d > float64(b.Max) {
			d = float64(b.Max)
		}
	}

	return time.Duration(d)
}
