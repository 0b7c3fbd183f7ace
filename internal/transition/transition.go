// Package transition crossfades from a snapshot of the outgoing level to
// the live incoming level while zooming the snapshot in.
package transition

import (
	"time"

	"chosenoffset.com/buddies/internal/anim"
	"chosenoffset.com/buddies/internal/render"
)

// Controller runs one level transition at a time.
type Controller struct {
	OutAlpha float64
	InAlpha  float64
	OutScale float64

	r        render.Renderer
	w, h     int
	maxScale float64
	state    anim.State
	snapshot render.Image
	layer    render.Image
}

// New creates an idle controller for a w x h screen.
func New(r render.Renderer, w, h int, duration time.Duration, maxScale float64) *Controller {
	c := &Controller{r: r, w: w, h: h, maxScale: maxScale, state: anim.State{Duration: duration}}
	c.reset()
	return c
}

func (c *Controller) reset() {
	c.OutAlpha = 0
	c.InAlpha = 1
	c.OutScale = 1
}

// Active reports whether a transition is running.
func (c *Controller) Active() bool { return c.state.Running }

// Snapshot returns the captured outgoing frame, or nil when idle.
func (c *Controller) Snapshot() render.Image { return c.snapshot }

// Begin captures the outgoing level by drawing it into a fresh snapshot and
// starts the crossfade. A transition already running is replaced.
func (c *Controller) Begin(now time.Duration, drawOutgoing func(*render.Canvas)) {
	if c.snapshot != nil {
		c.snapshot.Dispose()
	}
	c.snapshot = c.r.NewImage(c.w, c.h)
	drawOutgoing(render.NewCanvas(c.r, c.snapshot))

	c.state.Begin(now)
	c.OutAlpha = 1
	c.InAlpha = 0
	c.OutScale = 1
}

// Update samples the transition at now. Once complete the snapshot is
// released and the controller returns to rest.
func (c *Controller) Update(now time.Duration) {
	if !c.state.Running {
		return
	}
	t := c.state.Step(now)
	c.OutScale = 1 + (c.maxScale-1)*t
	c.OutAlpha = 1 - t
	c.InAlpha = t
	if t >= 1 {
		c.snapshot.Dispose()
		c.snapshot = nil
		c.reset()
	}
}

// Draw renders the incoming level onto dst. While a transition runs the
// incoming level goes through an offscreen layer at InAlpha and the
// snapshot is drawn over it, scaled about the screen center, at OutAlpha.
func (c *Controller) Draw(dst render.Image, drawIncoming func(*render.Canvas)) {
	if !c.state.Running {
		drawIncoming(render.NewCanvas(c.r, dst))
		return
	}

	if c.layer == nil {
		c.layer = c.r.NewImage(c.w, c.h)
	}
	c.layer.Clear()
	drawIncoming(render.NewCanvas(c.r, c.layer))

	cv := render.NewCanvas(c.r, dst)
	cv.SetAlpha(c.InAlpha)
	cv.DrawImage(c.layer, 0, 0)

	cx, cy := float64(c.w)/2, float64(c.h)/2
	cv.Save()
	cv.Translate(cx, cy)
	cv.Scale(c.OutScale, c.OutScale)
	cv.Translate(-cx, -cy)
	cv.SetAlpha(c.OutAlpha)
	cv.DrawImage(c.snapshot, 0, 0)
	cv.Restore()
}

// Close releases the offscreen images.
func (c *Controller) Close() {
	if c.snapshot != nil {
		c.snapshot.Dispose()
		c.snapshot = nil
	}
	if c.layer != nil {
		c.layer.Dispose()
		c.layer = nil
	}
}
