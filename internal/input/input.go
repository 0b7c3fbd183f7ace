// Package input turns polled keys and touches into game intents and
// buffers the latest one for a short acceptance window.
package input

import (
	"time"

	"chosenoffset.com/buddies/internal/render"
	"chosenoffset.com/buddies/internal/world"
)

// Intent is what the player asked for.
type Intent int

const (
	None Intent = iota
	Up
	Down
	Left
	Right
	Action
)

// String returns the intent's name.
func (i Intent) String() string {
	switch i {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case Action:
		return "action"
	default:
		return "none"
	}
}

// Directional reports whether the intent is a move.
func (i Intent) Directional() bool {
	return i >= Up && i <= Right
}

// Delta returns the tile step for a directional intent.
func (i Intent) Delta() world.Cell {
	switch i {
	case Up:
		return world.Cell{Y: -1}
	case Down:
		return world.Cell{Y: 1}
	case Left:
		return world.Cell{X: -1}
	case Right:
		return world.Cell{X: 1}
	default:
		return world.Cell{}
	}
}

// Buffer remembers the most recent intent for Window.
type Buffer struct {
	Window time.Duration

	intent Intent
	at     time.Duration
}

// NewBuffer creates an empty buffer.
func NewBuffer(window time.Duration) *Buffer {
	return &Buffer{Window: window}
}

// Push records intent at now, replacing any earlier one.
func (b *Buffer) Push(intent Intent, now time.Duration) {
	b.intent = intent
	b.at = now
}

// Take returns the buffered intent if it is still fresh and the consumer is
// not busy. A returned intent is consumed; a stale one is dropped. While
// busy a fresh intent stays buffered.
func (b *Buffer) Take(now time.Duration, busy bool) Intent {
	if b.intent == None {
		return None
	}
	if now-b.at > b.Window {
		b.intent = None
		return None
	}
	if busy {
		return None
	}
	i := b.intent
	b.intent = None
	return i
}

// Clear drops any buffered intent.
func (b *Buffer) Clear() {
	b.intent = None
}

var bindings = []struct {
	keys   []render.Key
	intent Intent
}{
	{[]render.Key{render.KeyUp, render.KeyW}, Up},
	{[]render.Key{render.KeyDown, render.KeyS}, Down},
	{[]render.Key{render.KeyLeft, render.KeyA}, Left},
	{[]render.Key{render.KeyRight, render.KeyD}, Right},
	{[]render.Key{render.KeySpace, render.KeyEnter}, Action},
}

// Poll returns the intent for keys pressed this frame. Directions win over
// the action key when both arrive together.
func Poll(m render.InputManager) Intent {
	for _, b := range bindings {
		for _, k := range b.keys {
			if m.IsKeyJustPressed(k) {
				return b.intent
			}
		}
	}
	return None
}

// Held returns the direction currently held down, so walking continues
// while a key stays pressed.
func Held(m render.InputManager) Intent {
	for _, b := range bindings {
		if !b.intent.Directional() {
			continue
		}
		for _, k := range b.keys {
			if m.IsKeyPressed(k) {
				return b.intent
			}
		}
	}
	return None
}

// TouchIntent maps a touch at world point p, relative to the player's
// center, to the dominant axis direction.
func TouchIntent(p, center world.Point) Intent {
	dx, dy := p.X-center.X, p.Y-center.Y
	if dx == 0 && dy == 0 {
		return None
	}
	if abs(dx) > abs(dy) {
		if dx > 0 {
			return Right
		}
		return Left
	}
	if dy > 0 {
		return Down
	}
	return Up
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
