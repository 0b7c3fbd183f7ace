package level

import (
	"fmt"
	"image/color"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"chosenoffset.com/buddies/internal/config"
	"chosenoffset.com/buddies/internal/dialogue"
	"chosenoffset.com/buddies/internal/entity"
	"chosenoffset.com/buddies/internal/input"
	"chosenoffset.com/buddies/internal/render"
	"chosenoffset.com/buddies/internal/world"
)

// World is the explorable map with the buddies and the bed.
type World struct {
	*Base

	Player  *entity.Player
	Buddies []*entity.Buddy
	Beds    []*entity.Bed

	// topics is every topic some buddy can teach, sorted.
	topics  []string
	started bool
}

// NewWorld builds the world level from cfg. The player is shared with the
// other levels and placed at the configured spawn.
func NewWorld(cfg *config.Config, r render.Renderer, player *entity.Player, log zerolog.Logger) (*World, error) {
	base, err := NewBase(WorldName, "world", cfg, r, log)
	if err != nil {
		return nil, err
	}
	w := &World{Base: base, Player: player}

	tun := entity.TunablesFrom(cfg)
	eye := cfg.Color("eye", color.Black)
	dust := cfg.Color("dust", color.Gray{Y: 200})
	seen := make(map[string]bool)
	for _, bc := range cfg.Buddies {
		cell := world.Cell{X: bc.At.X, Y: bc.At.Y}
		if !w.Grid.IsWalkable(cell) {
			return nil, fmt.Errorf("buddy %s stands on a blocked tile (%d, %d)", bc.Name, cell.X, cell.Y)
		}
		b := entity.NewBuddy(bc.Name, bc.Topics, cell, cfg.TileSize, tun, entity.Colors{
			Body: config.MustColor(bc.Color),
			Eye:  eye,
			Dust: dust,
		})
		w.Buddies = append(w.Buddies, b)
		w.Add(LayerCharacters, b)
		w.Updatables = append(w.Updatables, b)
		w.Interactables = append(w.Interactables, b)
		for _, t := range bc.Topics {
			if !seen[t] {
				seen[t] = true
				w.topics = append(w.topics, t)
			}
		}
	}
	sort.Strings(w.topics)

	for _, cell := range cfg.Beds {
		bed := entity.NewBed(world.Cell{X: cell.X, Y: cell.Y}, cfg.TileSize,
			cfg.Color("bed", color.NRGBA{R: 255, G: 0, B: 77, A: 255}), cfg.Color("bed_trim", color.White))
		w.Beds = append(w.Beds, bed)
		w.Add(LayerItems, bed)
		w.Interactables = append(w.Interactables, bed)
	}

	w.Add(LayerCharacters, player)
	w.Updatables = append(w.Updatables, player)
	return w, nil
}

// Topics returns every topic the buddies can teach.
func (w *World) Topics() []string {
	return append([]string(nil), w.topics...)
}

// KnowsEverything reports whether the player has learned every topic.
func (w *World) KnowsEverything() bool {
	return len(w.Player.Missing(w.topics)) == 0
}

// LevelWillStart puts the player back where an interaction began.
func (w *World) LevelWillStart(s Session, now time.Duration) {
	if !w.started {
		spawn := w.cfg.Player.Spawn
		w.Player.Teleport(world.Cell{X: spawn.X, Y: spawn.Y})
		return
	}
	enc := s.Encounter()
	if enc.Buddy != nil || enc.Slept {
		w.Player.Teleport(enc.Spawn)
	}
}

// ConfigureVisuals snaps the camera onto the player.
func (w *World) ConfigureVisuals(s Session) {
	w.Base.ConfigureVisuals(s)
	w.Follow(w.Player.Center())
}

// LevelStarted picks the entry state from what happened off-level: the
// intro on first start, the outcome of a conversation, or waking up.
func (w *World) LevelStarted(s Session, now time.Duration) {
	enc := s.Encounter()
	d := w.cfg.Dialogue
	switch {
	case !w.started:
		w.started = true
		w.ShowDialogue(StateIntro, dialogue.Sequence{Pages: config.Pages(d.Intro...), Next: StatePlay}, now)
	case enc.Buddy != nil && enc.Talked:
		w.teach(s, enc.Buddy, now)
	case enc.Buddy != nil:
		w.ShowDialogue(StatePostListen, dialogue.Sequence{Pages: config.Pages(d.TooTired...), Next: StatePlay}, now)
	case enc.Slept:
		w.Player.Rest()
		w.ShowDialogue(StateSleeping, dialogue.Sequence{Pages: config.Pages(d.Rested...), Next: StatePlay}, now)
	default:
		w.SetState(StatePlay)
	}
	*enc = Encounter{}
}

// teach grants a random topic the buddy knows and the player lacks.
func (w *World) teach(s Session, b *entity.Buddy, now time.Duration) {
	d := w.cfg.Dialogue
	var pages [][]string
	if missing := w.Player.Missing(b.Topics); len(missing) > 0 {
		topic := missing[s.Rand().Intn(len(missing))]
		w.Player.Learn(topic)
		s.Camera().Shake(s.Rand(), 1)
		w.log.Info().Str("buddy", b.Name).Str("topic", topic).Msg("topic learned")
		pages = config.Pages(fmt.Sprintf(d.Learned, topic))
	} else {
		pages = config.Pages(d.GoodTime...)
	}
	next := StatePlay
	if w.KnowsEverything() {
		next = StateWin
	}
	w.ShowDialogue(StatePostConvo, dialogue.Sequence{Pages: pages, Next: next}, now)
	w.enter(now)
}

// enter runs the entry actions of states reached through dialogue.
func (w *World) enter(now time.Duration) {
	switch w.State() {
	case StateWin:
		w.log.Info().Strs("topics", w.Player.Topics()).Msg("every topic learned")
		w.ShowDialogue(StateWin, dialogue.Sequence{Pages: config.Pages(w.cfg.Dialogue.Win...), Next: StateGameOver}, now)
	}
}

// Update animates the world and checks whether the player walked into an
// interactable.
func (w *World) Update(s Session, now time.Duration) {
	w.Base.Update(s, now)
	if w.State() == StatePlay && !w.Player.Walking() && w.checkOverlap(s, now) {
		return
	}
	w.Follow(w.Player.Center())
}

// checkOverlap begins an interaction when the player's tile, or the soft
// obstacle it just bumped, holds an interactable that is off cooldown and
// no dialogue is showing. It reports whether the level was switched.
func (w *World) checkOverlap(s Session, now time.Duration) bool {
	tile := w.Player.ProspectiveTile()
	w.Player.ClearBump()

	it := w.InteractableAt(tile)
	if it == nil || !it.Ready(now, w.cfg.Interact.Cooldown) || w.Box.Visible() {
		return false
	}
	it.Interact(now)

	enc := s.Encounter()
	*enc = Encounter{Spawn: w.Player.TileIndex()}
	switch it := it.(type) {
	case *entity.Buddy:
		enc.Buddy = it
		enc.Talked = w.Player.Spend(w.cfg.Energy.ConvoCost)
		w.log.Info().Str("buddy", it.Name).Stringer("id", it.ID).Bool("talked", enc.Talked).
			Float64("energy", w.Player.Energy).Msg("conversation started")
		s.SwitchTo(ConvoName, now)
	case *entity.Bed:
		w.log.Info().Stringer("id", it.ID).Msg("going to bed")
		s.SwitchTo(SleepName, now)
	}
	return true
}

// HandleInput advances dialogue, or walks the player while playing.
func (w *World) HandleInput(s Session, intent input.Intent, now time.Duration) {
	if w.Box.Visible() {
		if w.AdvanceDialogue(now) != "" {
			w.enter(now)
		}
		return
	}
	if w.State() == StatePlay && intent.Directional() {
		w.walk(intent, now)
	}
}

// TouchIntent advances dialogue, or steps toward the touch while playing.
func (w *World) TouchIntent(p world.Point) input.Intent {
	if w.Box.Visible() {
		return input.Action
	}
	if w.State() == StatePlay {
		return input.TouchIntent(p, w.Player.Center())
	}
	return input.None
}

func (w *World) walk(intent input.Intent, now time.Duration) {
	soft := func(c world.Cell) bool { return w.InteractableAt(c) != nil }
	w.Player.Step(intent.Delta(), now, w.Grid, soft)
}

// Busy holds input while the player is mid-walk.
func (w *World) Busy() bool {
	return w.State() == StatePlay && w.Player.Walking()
}

// Roaming is true while playing with no dialogue up.
func (w *World) Roaming() bool {
	return w.State() == StatePlay && !w.Box.Visible()
}

// Draw paints the world and, once the game is over, the closing title.
func (w *World) Draw(c *render.Canvas, now time.Duration) {
	w.Base.Draw(c, now)
	if w.State() == StateGameOver {
		drawCentered(c, w.cfg.Dialogue.GameOver, 4*w.cfg.Dialogue.TextScale, w.cfg.Color("title", color.White), 0)
	}
}
