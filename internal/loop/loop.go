// Package loop drives fixed-step game logic from variable-rate frames.
package loop

import "time"

// DefaultMaxCatchUp bounds how many steps a single frame may run.
const DefaultMaxCatchUp = 10

// Driver accumulates real elapsed time into lag and spends it in fixed
// steps. Frames that arrive after a stall are clamped so the catch-up work
// stays bounded.
type Driver struct {
	step       time.Duration
	maxCatchUp int
	logic      func(now time.Duration)

	last    time.Duration
	started bool
	lag     time.Duration
	ticks   uint64
}

// New returns a driver calling logic once per step of simulated time.
func New(step time.Duration, logic func(now time.Duration)) *Driver {
	return NewWithCatchUp(step, DefaultMaxCatchUp, logic)
}

// NewWithCatchUp is New with an explicit bound on steps per frame.
func NewWithCatchUp(step time.Duration, maxCatchUp int, logic func(now time.Duration)) *Driver {
	if maxCatchUp < 1 {
		maxCatchUp = 1
	}
	return &Driver{step: step, maxCatchUp: maxCatchUp, logic: logic}
}

// Frame advances the driver to the wall-clock timestamp now and runs the
// logic callback zero or more times, each time with now. It returns the
// number of steps run.
func (d *Driver) Frame(now time.Duration) int {
	var delta time.Duration
	if d.started {
		delta = now - d.last
	}
	d.last = now
	d.started = true

	if delta < 0 {
		delta = 0
	}
	if limit := time.Duration(d.maxCatchUp) * d.step; delta > limit {
		delta = limit
	}
	d.lag += delta

	n := 0
	for d.lag >= d.step {
		d.logic(now)
		d.lag -= d.step
		n++
	}
	d.ticks += uint64(n)
	return n
}

// Reset forgets the previous timestamp and any accumulated lag.
func (d *Driver) Reset() {
	d.started = false
	d.lag = 0
}

// Step returns the fixed step size.
func (d *Driver) Step() time.Duration { return d.step }

// Lag returns the simulated time not yet spent in steps.
func (d *Driver) Lag() time.Duration { return d.lag }

// Ticks returns the total number of steps run.
func (d *Driver) Ticks() uint64 { return d.ticks }
