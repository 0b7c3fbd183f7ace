// Package anim is the timed animation state shared by every animated
// entity, plus the curves used to sample it.
package anim

import (
	"math"
	"time"

	"chosenoffset.com/buddies/internal/world"
)

// Names of the animations every character carries.
const (
	Blinking = "blinking"
	LookAway = "lookAway"
	Walking  = "walking"
)

// Rand is the random source used by trigger gates.
type Rand interface {
	Float64() float64
}

// State is one timed transition. Timestamps are measured from the start of
// the session.
type State struct {
	Start    time.Duration
	Duration time.Duration
	Running  bool

	// T is the elapsed ratio sampled on the last Step.
	T float64

	// Trigger gate for idle animations.
	MinDelta time.Duration
	Chance   float64

	// Kind-specific payload.
	From, To world.Point
	Offset   float64
	Alpha    float64
}

// Begin starts the animation at now.
func (s *State) Begin(now time.Duration) {
	s.Start = now
	s.Running = true
	s.T = 0
}

// Step samples the elapsed ratio at now. When it reaches 1 the animation
// stops running. Step returns the sampled ratio.
func (s *State) Step(now time.Duration) float64 {
	if !s.Running {
		return s.T
	}
	s.T = Ratio(*s, now)
	if s.T >= 1 {
		s.T = 1
		s.Running = false
	}
	return s.T
}

// Ratio returns (now - start) / duration clamped to [0, 1]. A zero duration
// is complete immediately.
func Ratio(s State, now time.Duration) float64 {
	if s.Duration <= 0 {
		return 1
	}
	return Clamp01(float64(now-s.Start) / float64(s.Duration))
}

// ShouldTrigger is the gate for random idle animations: not already running,
// the refractory period since the last start has passed, and the dice roll
// succeeds.
func ShouldTrigger(s *State, now time.Duration, rng Rand) bool {
	return !s.Running && now-s.Start > s.MinDelta && rng.Float64() < s.Chance
}

// Set is a character's named animations. Each character builds its own Set
// so no two characters ever share a State.
type Set map[string]*State

// NewSet copies every template into a fresh Set.
func NewSet(templates map[string]State) Set {
	set := make(Set, len(templates))
	for name, tmpl := range templates {
		s := tmpl
		set[name] = &s
	}
	return set
}

// Get returns the named animation, or a stopped zero State when it is
// missing so callers can sample it without checks.
func (s Set) Get(name string) *State {
	if st, ok := s[name]; ok {
		return st
	}
	st := &State{}
	s[name] = st
	return st
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Lerp interpolates from a to b by t clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}

// Blink is the eye-openness curve: closing from open toward closed over the
// first half of t, opening back over the second half. The result is clamped
// to [0, 1] and used as a vertical scale on the eye.
func Blink(t, open, closed float64) float64 {
	var v float64
	if t < 0.5 {
		v = Lerp(open, closed, t*2)
	} else {
		v = Lerp(closed, open, (t-0.5)*2)
	}
	return Clamp01(v)
}

// Pulse rises from 0 to 1 at t=0.5 and falls back to 0.
func Pulse(t float64) float64 {
	return math.Sin(math.Pi * Clamp01(t))
}
