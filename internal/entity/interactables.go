package entity

import (
	"image/color"
	"time"

	"github.com/google/uuid"

	"chosenoffset.com/buddies/internal/render"
	"chosenoffset.com/buddies/internal/world"
)

// cooldown tracks when an interactable was last used.
type cooldown struct {
	LastInteraction time.Duration
	used            bool
}

// Ready reports whether more than d has passed since the last interaction.
// An interactable that was never used is always ready.
func (c *cooldown) Ready(now, d time.Duration) bool {
	return !c.used || now-c.LastInteraction > d
}

// Interact stamps the interaction time.
func (c *cooldown) Interact(now time.Duration) {
	c.LastInteraction = now
	c.used = true
}

// Buddy is an NPC the player talks to. It knows a few topics.
type Buddy struct {
	*Character
	cooldown

	Name   string
	Topics []string
}

// NewBuddy places a buddy on cell.
func NewBuddy(name string, topics []string, cell world.Cell, tileSize int, tun Tunables, colors Colors) *Buddy {
	return &Buddy{
		Character: NewCharacter(cell, tileSize, tun, colors),
		Name:      name,
		Topics:    append([]string(nil), topics...),
	}
}

// Bed is where the player sleeps to restore energy.
type Bed struct {
	cooldown

	ID    uuid.UUID
	Color color.Color
	Trim  color.Color

	cell     world.Cell
	tileSize int
}

// NewBed places a bed on cell.
func NewBed(cell world.Cell, tileSize int, clr, trim color.Color) *Bed {
	return &Bed{ID: uuid.New(), Color: clr, Trim: trim, cell: cell, tileSize: tileSize}
}

// TileIndex returns the bed's tile.
func (b *Bed) TileIndex() world.Cell { return b.cell }

// Draw paints a blanket with a pillow.
func (b *Bed) Draw(cv *render.Canvas, now time.Duration) {
	p := world.PointOf(b.cell, b.tileSize)
	s := float64(b.tileSize)
	cv.FillRect(p.X+1, p.Y+1, s-2, s-2, b.Color)
	cv.FillRect(p.X+3, p.Y+2, s-6, s/4, b.Trim)
}
