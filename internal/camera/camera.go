// Package camera tracks a target across a level and layers screen shake
// on top of the tracked position.
package camera

import (
	"math"
	"time"

	"chosenoffset.com/buddies/internal/world"
)

// Rand is the random source for shake direction.
type Rand interface {
	Float64() float64
}

// ShakeConfig controls screen shake.
type ShakeConfig struct {
	Multiple float64 // amplitude = Multiple * unit scale
	Decay    float64 // per-tick amplitude factor, in (0, 1)
	Epsilon  float64 // below this amplitude the shake snaps to zero
}

// Camera tracks the viewport position for scrolling levels. All values are
// in world pixels.
type Camera struct {
	// Pos is the top-left corner of the viewport.
	Pos world.Point
	// ViewW and ViewH are the visible size in world pixels.
	ViewW, ViewH float64
	// Scale converts world pixels to screen pixels.
	Scale float64

	shake     ShakeConfig
	amplitude float64
	dir       world.Point
	offset    world.Point
}

// New creates a camera for a screen of the given pixel size.
func New(screenW, screenH int, scale float64, shake ShakeConfig) *Camera {
	return &Camera{
		ViewW: float64(screenW) / scale,
		ViewH: float64(screenH) / scale,
		Scale: scale,
		shake: shake,
	}
}

// MoveTo centers the viewport on target, then clamps so the level is never
// scrolled past its edges. On an axis where the level is smaller than the
// viewport the level is centered instead.
func (c *Camera) MoveTo(target world.Point, levelW, levelH float64) {
	c.Pos.X = clampAxis(target.X-c.ViewW/2, levelW, c.ViewW)
	c.Pos.Y = clampAxis(target.Y-c.ViewH/2, levelH, c.ViewH)
}

func clampAxis(pos, level, view float64) float64 {
	if level <= view {
		return -(view - level) / 2
	}
	if pos < 0 {
		pos = 0
	}
	if pos > level-view {
		pos = level - view
	}
	return pos
}

// Shake starts a new shake. scale is the unit the amplitude is expressed in.
func (c *Camera) Shake(rng Rand, scale float64) {
	c.offset = world.Point{}
	c.amplitude = c.shake.Multiple * scale
	c.dir = world.Point{X: sign(rng), Y: sign(rng)}
}

func sign(rng Rand) float64 {
	if rng.Float64() < 0.5 {
		return -1
	}
	return 1
}

// UpdateShake decays the shake once. It must be called every tick.
func (c *Camera) UpdateShake(now time.Duration) {
	c.amplitude *= c.shake.Decay
	if c.amplitude > c.shake.Epsilon {
		wave := math.Sin(float64(now.Milliseconds())/50) * c.amplitude
		c.offset = world.Point{X: wave * c.dir.X, Y: wave * c.dir.Y}
		return
	}
	c.amplitude = 0
	c.offset = world.Point{}
}

// Shaking reports whether a shake is in progress.
func (c *Camera) Shaking() bool {
	return c.amplitude > 0
}

// ShakeOffset returns the current shake displacement.
func (c *Camera) ShakeOffset() world.Point {
	return c.offset
}

// Offset is the effective render offset: base position plus shake.
func (c *Camera) Offset() world.Point {
	return c.Pos.Add(c.offset)
}

// ScreenToWorld converts a screen pixel position into world space.
func (c *Camera) ScreenToWorld(px, py int) world.Point {
	off := c.Offset()
	return world.Point{
		X: float64(px)/c.Scale + off.X,
		Y: float64(py)/c.Scale + off.Y,
	}
}
