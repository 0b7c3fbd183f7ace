// Package level implements the game's levels as small state machines:
// the start screen, the world, a conversation and sleep.
package level

import (
	"fmt"
	"image/color"
	"time"

	"github.com/rs/zerolog"

	"chosenoffset.com/buddies/internal/anim"
	"chosenoffset.com/buddies/internal/camera"
	"chosenoffset.com/buddies/internal/config"
	"chosenoffset.com/buddies/internal/dialogue"
	"chosenoffset.com/buddies/internal/entity"
	"chosenoffset.com/buddies/internal/input"
	"chosenoffset.com/buddies/internal/render"
	"chosenoffset.com/buddies/internal/world"
)

// Level names.
const (
	StartName = "start"
	WorldName = "world"
	ConvoName = "convo"
	SleepName = "sleep"
)

// Level states.
const (
	StateTitle      = "title"
	StateIntro      = "intro"
	StatePlay       = "play"
	StateSleeping   = "sleeping"
	StatePostConvo  = "post-convo"
	StatePostListen = "post-listen"
	StateWin        = "win"
	StateGameOver   = "game-over"
	StateTalking    = "talking"
	StateListening  = "listening"
)

// Rand is the session's random source.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Encounter carries what happened on one level over to the next.
type Encounter struct {
	// Buddy is the buddy being talked to, nil outside a conversation.
	Buddy *entity.Buddy
	// Talked is set when the player had energy for a real conversation.
	Talked bool
	// Slept is set when the player returns from the sleep level.
	Slept bool
	// Spawn is where the player stood when the interaction began.
	Spawn world.Cell
}

// Session is what a level needs from the game that runs it.
type Session interface {
	Camera() *camera.Camera
	Rand() Rand
	Encounter() *Encounter
	SwitchTo(name string, now time.Duration)
}

// Level is one mode of the game. The session calls LevelWillStart,
// ConfigureVisuals and LevelStarted, in that order, when it switches to the
// level, then Update once per tick.
type Level interface {
	Name() string
	State() string
	LevelWillStart(s Session, now time.Duration)
	ConfigureVisuals(s Session)
	LevelStarted(s Session, now time.Duration)
	Update(s Session, now time.Duration)
	Draw(c *render.Canvas, now time.Duration)
	HandleInput(s Session, intent input.Intent, now time.Duration)
	// TouchIntent maps a touch at world point p to the intent it stands
	// for. The session buffers it like a key press.
	TouchIntent(p world.Point) input.Intent
	// Busy reports that buffered input should wait.
	Busy() bool
	// Roaming reports that the player walks freely, so held keys repeat.
	Roaming() bool
}

// Drawable is anything painted in world space.
type Drawable interface {
	Draw(c *render.Canvas, now time.Duration)
}

// Updatable is anything animated every tick.
type Updatable interface {
	Update(now time.Duration, rng anim.Rand)
}

// Interactable is a soft obstacle the player can walk into.
type Interactable interface {
	TileIndex() world.Cell
	Ready(now, cooldown time.Duration) bool
	Interact(now time.Duration)
}

// Draw layers, painted in order.
const (
	LayerFloor = iota
	LayerItems
	LayerCharacters
	layerCount
)

// Base is the state shared by every level.
type Base struct {
	Grid       *world.Grid
	Bitmaps    *world.Bitmaps
	Box        *dialogue.Box
	Background color.Color

	Updatables    []Updatable
	Interactables []Interactable

	name   string
	state  string
	layers [layerCount][]Drawable
	cam    *camera.Camera
	cfg    *config.Config
	log    zerolog.Logger
}

// NewBase builds the shared parts of a level. An empty mapName makes a
// level without a grid.
func NewBase(name, mapName string, cfg *config.Config, r render.Renderer, log zerolog.Logger) (*Base, error) {
	b := &Base{
		name:       name,
		cfg:        cfg,
		log:        log.With().Str("level", name).Logger(),
		Background: cfg.Color("background", color.Black),
		Box: dialogue.NewBox(r, dialogue.Style{
			WordInterval: cfg.Dialogue.WordInterval,
			TextScale:    cfg.Dialogue.TextScale * cfg.Screen.Scale,
			Height:       cfg.Dialogue.BoxHeight * cfg.Screen.Scale,
			Fill:         cfg.Color("box", color.Black),
			Border:       cfg.Color("box_border", color.White),
			Text:         cfg.Color("text", color.White),
		}),
	}
	if mapName == "" {
		return b, nil
	}
	m, ok := cfg.Maps[mapName]
	if !ok {
		return nil, fmt.Errorf("level %s: missing map %q", name, mapName)
	}
	grid, err := world.NewGrid(m.Rows, world.TileTypes(cfg.Tiles), cfg.TileSize)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", name, err)
	}
	b.Grid = grid
	b.Bitmaps = world.NewBitmaps(r, cfg.TileSize)
	if m.Background != "" {
		b.Background = config.MustColor(m.Background)
	}
	return b, nil
}

// Name returns the level's name.
func (b *Base) Name() string { return b.name }

// State returns the current state.
func (b *Base) State() string { return b.state }

// SetState moves to state.
func (b *Base) SetState(state string) {
	if state == b.state {
		return
	}
	b.log.Debug().Str("from", b.state).Str("to", state).Msg("state changed")
	b.state = state
}

// Add puts d on a draw layer.
func (b *Base) Add(layer int, d Drawable) {
	b.layers[layer] = append(b.layers[layer], d)
}

// Clear empties every layer and the update and interaction lists.
func (b *Base) Clear() {
	for i := range b.layers {
		b.layers[i] = nil
	}
	b.Updatables = nil
	b.Interactables = nil
}

// ShowDialogue enters state and shows seq. When the last page is dismissed
// the level moves to seq.Next.
func (b *Base) ShowDialogue(state string, seq dialogue.Sequence, now time.Duration) {
	b.SetState(state)
	b.Box.Show(seq, now)
	if !b.Box.Visible() && seq.Next != "" {
		b.SetState(seq.Next)
	}
}

// AdvanceDialogue dismisses the current page. It returns the state entered
// when the sequence completed, or "".
func (b *Base) AdvanceDialogue(now time.Duration) string {
	next, done := b.Box.Advance(now)
	if !done || next == "" {
		return ""
	}
	b.SetState(next)
	return next
}

// InteractableAt returns the interactable on cell, if any.
func (b *Base) InteractableAt(cell world.Cell) Interactable {
	for _, it := range b.Interactables {
		if it.TileIndex() == cell {
			return it
		}
	}
	return nil
}

// LevelWillStart does nothing by default.
func (b *Base) LevelWillStart(s Session, now time.Duration) {}

// ConfigureVisuals attaches the session camera.
func (b *Base) ConfigureVisuals(s Session) {
	b.cam = s.Camera()
}

// LevelStarted does nothing by default.
func (b *Base) LevelStarted(s Session, now time.Duration) {}

// Update animates everything on the level.
func (b *Base) Update(s Session, now time.Duration) {
	rng := s.Rand()
	for _, u := range b.Updatables {
		u.Update(now, rng)
	}
}

// HandleInput advances a visible dialogue box.
func (b *Base) HandleInput(s Session, intent input.Intent, now time.Duration) {
	if b.Box.Visible() {
		b.AdvanceDialogue(now)
	}
}

// TouchIntent treats a touch as the action key while dialogue is showing.
func (b *Base) TouchIntent(p world.Point) input.Intent {
	if b.Box.Visible() {
		return input.Action
	}
	return input.None
}

// Busy is false by default.
func (b *Base) Busy() bool { return false }

// Roaming is false by default.
func (b *Base) Roaming() bool { return false }

// Follow centers the camera on target within the grid.
func (b *Base) Follow(target world.Point) {
	if b.cam == nil || b.Grid == nil {
		return
	}
	w, h := b.Grid.PixelSize()
	b.cam.MoveTo(target, w, h)
}

// Draw clears to the background, paints the grid and layers through the
// camera, then the dialogue box in screen space.
func (b *Base) Draw(c *render.Canvas, now time.Duration) {
	c.Clear(b.Background)

	c.Save()
	if b.cam != nil {
		off := b.cam.Offset()
		c.Scale(b.cam.Scale, b.cam.Scale)
		c.Translate(-off.X, -off.Y)
	}
	if b.Grid != nil {
		b.Bitmaps.Draw(c, b.Grid)
	}
	for _, layer := range b.layers {
		for _, d := range layer {
			d.Draw(c, now)
		}
	}
	c.Restore()

	b.Box.Draw(c, now)
}

// Log returns the level's logger.
func (b *Base) Log() *zerolog.Logger { return &b.log }
