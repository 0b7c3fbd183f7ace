// Package game runs a Session inside the render backend: it polls input
// every frame and drives the session's fixed-step logic from the wall clock.
package game

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"chosenoffset.com/buddies/internal/input"
	"chosenoffset.com/buddies/internal/level"
	"chosenoffset.com/buddies/internal/loop"
	"chosenoffset.com/buddies/internal/render"
)

// Clock returns the time elapsed since the game started.
type Clock func() time.Duration

// WallClock returns a Clock that starts now.
func WallClock() Clock {
	start := time.Now()
	return func() time.Duration { return time.Since(start) }
}

// Game implements render.Game.
type Game struct {
	Session *Session
	Debug   bool

	input  render.InputManager
	clock  Clock
	driver *loop.Driver
	now    time.Duration
	width  int
	height int
}

// New wraps a session. The session ticks at the configured step no matter
// how often the backend calls Update.
func New(s *Session, in render.InputManager, clock Clock) *Game {
	cfg := s.Config
	return &Game{
		Session: s,
		input:   in,
		clock:   clock,
		driver:  loop.NewWithCatchUp(cfg.Timing.Step, cfg.Timing.MaxCatchUpSteps, s.Tick),
		width:   cfg.Screen.Width,
		height:  cfg.Screen.Height,
	}
}

// Update polls input and runs as many logic ticks as the elapsed time calls
// for.
func (g *Game) Update() error {
	g.now = g.clock()
	s := g.Session

	if g.input.IsKeyJustPressed(render.KeyEscape) && s.Level().Name() == level.StartName {
		return render.ErrQuit
	}
	if g.input.IsKeyJustPressed(render.KeyF1) {
		g.Debug = !g.Debug
	}
	if g.input.IsKeyJustPressed(render.KeyT) {
		s.Player().ForceIdle(g.now)
	}

	intent := input.Poll(g.input)
	if intent == input.None && s.Level().Roaming() {
		intent = input.Held(g.input)
	}
	if intent != input.None {
		s.Push(intent, g.now)
	}

	if g.input.IsMouseButtonJustPressed(render.MouseButtonLeft) {
		x, y := g.input.GetCursorPosition()
		s.Touch(x, y, g.now)
	}
	for _, p := range g.input.JustPressedTouches() {
		s.Touch(p.X, p.Y, g.now)
	}

	g.driver.Frame(g.now)
	return nil
}

// Draw renders the session and, when enabled, the debug overlay.
func (g *Game) Draw(screen render.Image) {
	g.Session.Draw(screen, g.now)
	if g.Debug {
		g.drawDebug(render.NewCanvas(g.Session.renderer, screen))
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// Ticks returns the number of logic ticks run so far.
func (g *Game) Ticks() uint64 { return g.driver.Ticks() }

func (g *Game) drawDebug(c *render.Canvas) {
	s := g.Session
	p := s.Player()
	cam := s.Camera().Offset()
	lines := []string{
		fmt.Sprintf("LEVEL %s/%s", s.Level().Name(), s.Level().State()),
		fmt.Sprintf("TICKS %d LAG %v", g.driver.Ticks(), g.driver.Lag().Round(time.Millisecond)),
		fmt.Sprintf("TILE %d,%d CAM %.0f,%.0f", p.TileIndex().X, p.TileIndex().Y, cam.X, cam.Y),
		fmt.Sprintf("ENERGY %.0f/%.0f", p.Energy, p.MaxEnergy),
		"TOPICS " + strings.ToUpper(strings.Join(p.Topics(), " ")),
	}
	if s.Transition().Active() {
		lines = append(lines, fmt.Sprintf("FADE %.2f", s.Transition().InAlpha))
	}
	_, lh := s.renderer.MeasureText("M", 1)
	c.FillRect(0, 0, 220, float64(lh*len(lines)+4), color.NRGBA{A: 160})
	for i, line := range lines {
		c.DrawText(line, 2, float64(2+i*lh), color.White, 1)
	}
}
