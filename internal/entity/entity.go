// Package entity contains the animated characters that live on a level:
// the player, the buddies and the bed.
package entity

import (
	"image/color"
	"math"
	"time"

	"github.com/google/uuid"

	"chosenoffset.com/buddies/internal/anim"
	"chosenoffset.com/buddies/internal/config"
	"chosenoffset.com/buddies/internal/render"
	"chosenoffset.com/buddies/internal/world"
)

// WalkResult is the outcome of Walk.
type WalkResult int

const (
	// Ignored means a walk was already running.
	Ignored WalkResult = iota
	// Moved means the walk started toward the neighbouring tile.
	Moved
	// Blocked means the target was off the grid or not walkable.
	Blocked
	// Bumped means the target holds a soft obstacle. The walk animation
	// still plays in place.
	Bumped
)

// Tunables are the animation settings shared by every character.
type Tunables struct {
	Walk     config.WalkConfig
	Blink    config.IdleAnimConfig
	LookAway config.IdleAnimConfig
}

// TunablesFrom extracts the animation settings from a config.
func TunablesFrom(cfg *config.Config) Tunables {
	return Tunables{Walk: cfg.Walk, Blink: cfg.Blink, LookAway: cfg.LookAway}
}

// Colors is how a character is painted.
type Colors struct {
	Body color.Color
	Eye  color.Color
	Dust color.Color
}

// Puff is a dust cloud left behind while walking.
type Puff struct {
	Pos  world.Point
	Born time.Duration
}

// Character is the animated core shared by the player and the buddies.
type Character struct {
	ID       uuid.UUID
	Rotation float64
	Anims    anim.Set
	Colors   Colors
	Dust     []Puff

	pos      world.Point
	tile     world.Cell
	tileSize int
	tun      Tunables
	lastDust time.Duration
}

// NewCharacter places a character on cell.
func NewCharacter(cell world.Cell, tileSize int, tun Tunables, colors Colors) *Character {
	c := &Character{
		ID:     uuid.New(),
		Colors: colors,
		Anims: anim.NewSet(map[string]anim.State{
			anim.Blinking: {Duration: tun.Blink.Duration, MinDelta: tun.Blink.MinDelta, Chance: tun.Blink.Chance},
			anim.LookAway: {MinDelta: tun.LookAway.MinDelta, Chance: tun.LookAway.Chance},
			anim.Walking:  {Duration: tun.Walk.Duration},
		}),
		tileSize: tileSize,
		tun:      tun,
	}
	c.SetPosition(world.PointOf(cell, tileSize))
	return c
}

// Position returns the top-left corner in world pixels.
func (c *Character) Position() world.Point { return c.pos }

// Center returns the middle of the character's tile-sized body.
func (c *Character) Center() world.Point {
	half := float64(c.tileSize) / 2
	return c.pos.Add(world.Point{X: half, Y: half})
}

// SetPosition moves the character and recomputes its tile index. It is the
// only way the position changes.
func (c *Character) SetPosition(p world.Point) {
	c.pos = p
	c.tile = world.CellOf(p, c.tileSize)
}

// TileIndex returns floor(position / tileSize).
func (c *Character) TileIndex() world.Cell { return c.tile }

// Walking reports whether a walk is in progress.
func (c *Character) Walking() bool {
	return c.Anims.Get(anim.Walking).Running
}

// Look turns the character toward dir without moving.
func (c *Character) Look(dir world.Cell) {
	if dir == (world.Cell{}) {
		return
	}
	c.Rotation = Facing(dir)
}

// Walk starts a one-tile walk in dir. It is rejected while another walk
// runs, and when the target tile is off the grid or not walkable; a
// rejected walk leaves the character untouched. A target that soft(cell)
// reports as occupied turns the character and plays the walk in place.
func (c *Character) Walk(dir world.Cell, now time.Duration, g *world.Grid, soft func(world.Cell) bool) WalkResult {
	w := c.Anims.Get(anim.Walking)
	if w.Running {
		return Ignored
	}
	target := c.tile.Add(dir)
	if !g.IsWalkable(target) {
		return Blocked
	}
	c.Look(dir)
	result := Moved
	to := world.PointOf(target, c.tileSize)
	if soft != nil && soft(target) {
		result = Bumped
		to = c.pos
	}
	w.From = c.pos
	w.To = to
	w.Begin(now)
	c.lastDust = now
	return result
}

// Update advances every animation to now.
func (c *Character) Update(now time.Duration, rng anim.Rand) {
	if w := c.Anims.Get(anim.Walking); w.Running {
		t := w.Step(now)
		c.SetPosition(w.From.Lerp(w.To, t))
		if w.Running && w.From != w.To && now-c.lastDust >= c.tun.Walk.DustInterval {
			c.spawnDust(now, rng)
		}
	}

	b := c.Anims.Get(anim.Blinking)
	if b.Running {
		b.Step(now)
	} else if anim.ShouldTrigger(b, now, rng) {
		b.Begin(now)
	}

	// Look-away flips sides and stays running for exactly one tick.
	l := c.Anims.Get(anim.LookAway)
	if l.Running {
		l.Running = false
	} else if anim.ShouldTrigger(l, now, rng) {
		l.Begin(now)
		l.Offset = 1 - l.Offset
	}

	c.expireDust(now)
}

// ForceIdle starts a blink and a look-away at now, ignoring the gates.
func (c *Character) ForceIdle(now time.Duration) {
	c.Anims.Get(anim.Blinking).Begin(now)
	l := c.Anims.Get(anim.LookAway)
	l.Begin(now)
	l.Offset = 1 - l.Offset
}

func (c *Character) spawnDust(now time.Duration, rng anim.Rand) {
	c.lastDust = now
	j := c.tun.Walk.DustJitter
	feet := c.Center().Add(world.Point{Y: float64(c.tileSize) / 2})
	c.Dust = append(c.Dust, Puff{
		Pos:  feet.Add(world.Point{X: (rng.Float64()*2 - 1) * j, Y: (rng.Float64()*2 - 1) * j}),
		Born: now,
	})
}

func (c *Character) expireDust(now time.Duration) {
	live := c.Dust[:0]
	for _, p := range c.Dust {
		if now-p.Born < c.tun.Walk.DustLife {
			live = append(live, p)
		}
	}
	c.Dust = live
}

// Draw paints the dust, then the body rotated about its center with eyes
// toward the facing direction.
func (c *Character) Draw(cv *render.Canvas, now time.Duration) {
	c.drawDust(cv, now)

	size := float64(c.tileSize) * 0.75
	half := size / 2

	cv.Save()
	defer cv.Restore()

	center := c.Center()
	cv.Translate(center.X, center.Y)
	cv.Rotate(c.Rotation)
	if w := c.Anims.Get(anim.Walking); w.Running {
		g := 1 + c.tun.Walk.Grow*anim.Pulse(w.T)
		cv.Scale(g, g)
	}
	cv.FillRect(-half, -half, size, size, c.Colors.Body)

	eye := size / 5
	open := 1.0
	if b := c.Anims.Get(anim.Blinking); b.Running {
		open = anim.Blink(b.T, 1, 0)
	}
	h := eye * open
	shift := (c.Anims.Get(anim.LookAway).Offset*2 - 1) * eye / 2
	y := -half + eye + (eye-h)/2
	cv.FillRect(-half+eye+shift, y, eye, h, c.Colors.Eye)
	cv.FillRect(half-2*eye+shift, y, eye, h, c.Colors.Eye)
}

func (c *Character) drawDust(cv *render.Canvas, now time.Duration) {
	life := c.tun.Walk.DustLife
	if life <= 0 {
		return
	}
	base := cv.Alpha()
	for _, p := range c.Dust {
		fade := 1 - anim.Clamp01(float64(now-p.Born)/float64(life))
		cv.Save()
		cv.SetAlpha(base * fade)
		cv.FillCircle(p.Pos.X, p.Pos.Y, 1+fade/2, c.Colors.Dust)
		cv.Restore()
	}
}

// Facing returns the rotation for a step direction: up is 0 and angles grow
// clockwise.
func Facing(dir world.Cell) float64 {
	switch {
	case dir.Y < 0:
		return 0
	case dir.X > 0:
		return math.Pi / 2
	case dir.Y > 0:
		return math.Pi
	case dir.X < 0:
		return -math.Pi / 2
	}
	return 0
}
