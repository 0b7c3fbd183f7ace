package entity

import (
	"time"

	"chosenoffset.com/buddies/internal/anim"
	"chosenoffset.com/buddies/internal/world"
)

// Player is the character driven by input. It carries the conversation
// energy budget and the topics learned so far.
type Player struct {
	*Character

	Energy    float64
	MaxEnergy float64

	topics []string
	known  map[string]bool
	bump   *world.Cell
}

// NewPlayer creates a rested player on cell.
func NewPlayer(cell world.Cell, tileSize int, tun Tunables, colors Colors, maxEnergy float64) *Player {
	return &Player{
		Character: NewCharacter(cell, tileSize, tun, colors),
		Energy:    maxEnergy,
		MaxEnergy: maxEnergy,
		known:     make(map[string]bool),
	}
}

// Step walks the player one tile. Walking into a soft obstacle records the
// obstacle's tile as a bump; a real move clears it.
func (p *Player) Step(dir world.Cell, now time.Duration, g *world.Grid, soft func(world.Cell) bool) WalkResult {
	r := p.Walk(dir, now, g, soft)
	switch r {
	case Bumped:
		target := p.TileIndex().Add(dir)
		p.bump = &target
	case Moved, Blocked:
		p.bump = nil
	}
	return r
}

// ProspectiveTile is the tile the player occupies, or the soft obstacle it
// last bumped into.
func (p *Player) ProspectiveTile() world.Cell {
	if p.bump != nil {
		return *p.bump
	}
	return p.TileIndex()
}

// ClearBump forgets the last bump.
func (p *Player) ClearBump() { p.bump = nil }

// Teleport places the player on cell, cancelling any walk.
func (p *Player) Teleport(cell world.Cell) {
	p.Anims.Get(anim.Walking).Running = false
	p.bump = nil
	p.Dust = p.Dust[:0]
	p.SetPosition(world.PointOf(cell, p.tileSize))
}

// Spend takes cost from the energy budget if enough is left.
func (p *Player) Spend(cost float64) bool {
	if p.Energy < cost {
		return false
	}
	p.Energy -= cost
	return true
}

// Rest restores full energy.
func (p *Player) Rest() { p.Energy = p.MaxEnergy }

// Knows reports whether topic has been learned.
func (p *Player) Knows(topic string) bool { return p.known[topic] }

// Learn adds topic. It returns false if the topic was already known.
func (p *Player) Learn(topic string) bool {
	if p.known[topic] {
		return false
	}
	p.known[topic] = true
	p.topics = append(p.topics, topic)
	return true
}

// Topics returns the learned topics in the order they were learned.
func (p *Player) Topics() []string {
	return append([]string(nil), p.topics...)
}

// Missing returns the topics the player does not know, keeping their order.
func (p *Player) Missing(topics []string) []string {
	var missing []string
	for _, t := range topics {
		if !p.known[t] {
			missing = append(missing, t)
		}
	}
	return missing
}
